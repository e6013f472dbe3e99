package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scheduler"
)

type recSearcher struct {
	mu    sync.Mutex
	seen  []string
	block chan struct{}
}

func (r *recSearcher) Search(_ context.Context, kw string) (domain.Outcome, error) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.seen = append(r.seen, kw)
	r.mu.Unlock()
	if kw == "bad" {
		return domain.Outcome{}, errors.New("store insert: disk full")
	}
	return domain.Outcome{Jobs: []domain.Posting{}, Errors: []string{}, TotalFound: 2}, nil
}

func (r *recSearcher) keywords() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestPollOnce_SearchesEachKeyword(t *testing.T) {
	s := &recSearcher{}
	p := New(s, scheduler.New(zerolog.Nop()), zerolog.Nop())

	found, err := p.PollOnce(context.Background(), []string{"看護師", "bad", "放射線技師"})
	require.Error(t, err)
	assert.Equal(t, 4, found)
	assert.Equal(t, []string{"看護師", "bad", "放射線技師"}, s.keywords())
}

func TestPollOnce_SkipsOverlap(t *testing.T) {
	s := &recSearcher{block: make(chan struct{})}
	p := New(s, scheduler.New(zerolog.Nop()), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		_, _ = p.PollOnce(context.Background(), []string{"a"})
		close(done)
	}()
	require.Eventually(t, p.running.Load, time.Second, 5*time.Millisecond)

	found, err := p.PollOnce(context.Background(), []string{"b"})
	require.NoError(t, err)
	assert.Zero(t, found)

	close(s.block)
	<-done
	assert.Equal(t, []string{"a"}, s.keywords())
}

func TestApply(t *testing.T) {
	sched := scheduler.New(zerolog.Nop())
	p := New(&recSearcher{}, sched, zerolog.Nop())

	cfg := config.Default()
	cfg.Polling.Schedule = "@every 30m"
	cfg.Polling.Keywords = []string{"看護師"}
	require.NoError(t, p.Apply(cfg))
	_, ok := sched.Next(taskName)
	assert.True(t, ok)

	cfg.Polling.Keywords = nil
	require.NoError(t, p.Apply(cfg))
	_, ok = sched.Next(taskName)
	assert.False(t, ok)

	cfg.Polling.Keywords = []string{"x"}
	cfg.Polling.Schedule = "whenever"
	assert.Error(t, p.Apply(cfg))
}
