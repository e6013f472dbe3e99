package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

type fakeAdapter struct {
	src     domain.Source
	delay   time.Duration
	n       int
	err     error
	panics  bool
	ignore  bool // ignores ctx cancellation
	calls   atomic.Int32
}

func (f *fakeAdapter) Source() domain.Source { return f.src }

func (f *fakeAdapter) Fetch(ctx context.Context, keyword string) ([]domain.Posting, error) {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		if f.ignore {
			time.Sleep(f.delay)
		} else {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Posting, f.n)
	for i := range out {
		out[i] = domain.Posting{
			Facility:       fmt.Sprintf("%s %d", f.src, i),
			URL:            fmt.Sprintf("https://%s.example/%s/%d", f.src, keyword, i),
			Source:         f.src,
			EmploymentType: domain.EmploymentUnspecified,
			PostedAt:       time.Now(),
		}
	}
	return out, nil
}

func TestScrape_BlankKeyword(t *testing.T) {
	a := &fakeAdapter{src: domain.SourceIndeed, n: 1}
	for _, kw := range []string{"", "   ", "\t\n"} {
		_, err := Scrape(context.Background(), zerolog.Nop(), kw, []types.Adapter{a}, time.Second)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, a.calls.Load())
}

func TestScrape_PartialFailure(t *testing.T) {
	adapters := []types.Adapter{
		&fakeAdapter{src: domain.SourceHellowork, n: 3},
		&fakeAdapter{src: domain.SourceJobmedley, delay: time.Second},
		&fakeAdapter{src: domain.SourceJinzaibank, err: errors.New("parse error")},
		&fakeAdapter{src: domain.SourceIndeed, n: 2},
	}

	out, err := Scrape(context.Background(), zerolog.Nop(), "看護師", adapters, 50*time.Millisecond)
	require.NoError(t, err)

	assert.Len(t, out.Jobs, 5)
	assert.Equal(t, 5, out.TotalFound)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, "jobmedley: timeout after 50ms", out.Errors[0])
	assert.Equal(t, "jinzaibank: parse error", out.Errors[1])

	// registration order, not completion order
	assert.Equal(t, domain.SourceHellowork, out.Jobs[0].Source)
	assert.Equal(t, domain.SourceIndeed, out.Jobs[4].Source)
}

func TestScrape_AllFail(t *testing.T) {
	adapters := []types.Adapter{
		&fakeAdapter{src: domain.SourceHellowork, err: errors.New("status 503")},
		&fakeAdapter{src: domain.SourceIndeed, err: errors.New("status 403")},
	}
	out, err := Scrape(context.Background(), zerolog.Nop(), "x", adapters, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, out.Jobs)
	assert.Empty(t, out.Jobs)
	assert.Len(t, out.Errors, 2)
	assert.Zero(t, out.TotalFound)
}

func TestScrape_NoAdapters(t *testing.T) {
	out, err := Scrape(context.Background(), zerolog.Nop(), "x", nil, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, out.Jobs)
	assert.NotNil(t, out.Errors)
}

func TestScrape_RunsConcurrently(t *testing.T) {
	var adapters []types.Adapter
	for _, src := range domain.Sources {
		adapters = append(adapters, &fakeAdapter{src: src, delay: 100 * time.Millisecond, n: 1})
	}

	start := time.Now()
	out, err := Scrape(context.Background(), zerolog.Nop(), "x", adapters, time.Second)
	require.NoError(t, err)
	took := time.Since(start)

	assert.Len(t, out.Jobs, 4)
	assert.Less(t, took, 350*time.Millisecond)
}

func TestScrape_TimeoutWithUncooperativeAdapter(t *testing.T) {
	slow := &fakeAdapter{src: domain.SourceJobmedley, delay: 2 * time.Second, ignore: true}

	start := time.Now()
	out, err := Scrape(context.Background(), zerolog.Nop(), "x", []types.Adapter{slow}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "timeout")
}

func TestScrape_PanicBecomesError(t *testing.T) {
	adapters := []types.Adapter{
		&fakeAdapter{src: domain.SourceHellowork, panics: true},
		&fakeAdapter{src: domain.SourceIndeed, n: 1},
	}
	out, err := Scrape(context.Background(), zerolog.Nop(), "x", adapters, time.Second)
	require.NoError(t, err)
	assert.Len(t, out.Jobs, 1)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "hellowork: panic: boom")
}

func TestScrape_TimeoutIsTyped(t *testing.T) {
	slow := &fakeAdapter{src: domain.SourceIndeed, delay: time.Second}
	r := runAdapter(context.Background(), slow, "x", 20*time.Millisecond)

	assert.ErrorIs(t, r.Err, domain.ErrTimeout)
	var te *domain.TimeoutError
	require.ErrorAs(t, r.Err, &te)
	assert.Equal(t, domain.SourceIndeed, te.Source)
	assert.False(t, r.OK())
}

func TestScrape_ParentCancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runAdapter(ctx, &fakeAdapter{src: domain.SourceIndeed, delay: time.Second}, "x", time.Second)
	require.Error(t, r.Err)
	assert.NotErrorIs(t, r.Err, domain.ErrTimeout)
	var fe *domain.FetchError
	assert.ErrorAs(t, r.Err, &fe)
}

func TestAggregate(t *testing.T) {
	p := domain.Posting{Facility: "a", URL: "u", Source: domain.SourceIndeed, EmploymentType: domain.EmploymentUnspecified}
	out := Aggregate([]types.Result{
		{Source: domain.SourceHellowork, Postings: []domain.Posting{p, p}},
		{Source: domain.SourceIndeed, Err: &domain.FetchError{Source: domain.SourceIndeed, Err: errors.New("x")}},
	})
	assert.Len(t, out.Jobs, 2)
	assert.Equal(t, 2, out.TotalFound)
	assert.Equal(t, []string{"indeed: x"}, out.Errors)
}

func TestBuildAdapters(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Jinzaibank.Enabled = false

	got := BuildAdapters(cfg, util.NewClient(time.Second, nil, ""), zerolog.Nop())
	srcs := make([]domain.Source, 0, len(got))
	for _, a := range got {
		srcs = append(srcs, a.Source())
	}
	assert.Equal(t, []domain.Source{domain.SourceHellowork, domain.SourceJobmedley, domain.SourceIndeed}, srcs)
}
