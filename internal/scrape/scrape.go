package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/types"
)

const DefaultTimeout = 15 * time.Second

// Scrape fans keyword out to every adapter and joins all outcomes.
//
// Each adapter races its own timer; a losing adapter has its context
// cancelled and its slot settles as a TimeoutError without waiting for it to
// return. One adapter failing never affects the others, and Scrape only
// returns an error for a blank keyword.
func Scrape(ctx context.Context, log zerolog.Logger, keyword string, adapters []types.Adapter, timeout time.Duration) (domain.Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.Outcome{}, domain.ErrInvalidInput
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := make([]types.Result, len(adapters))

	// plain Group: no sibling cancellation, every slot settles
	var g errgroup.Group
	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			log.Info().Str("source", a.Source().String()).Msg("running")
			results[i] = runAdapter(ctx, a, keyword, timeout)

			r := results[i]
			ev := log.Info()
			if r.Err != nil {
				ev = log.Warn().Err(r.Err)
			}
			ev.Str("source", r.Source.String()).Int("found", len(r.Postings)).Dur("took", r.Took).Msg("settled")
			return nil
		})
	}
	_ = g.Wait()

	out := Aggregate(results)
	log.Info().Str("keyword", keyword).Int("total_found", out.TotalFound).Int("errors", len(out.Errors)).Msg("scrape done")
	return out, nil
}

type fetched struct {
	postings []domain.Posting
	err      error
}

func runAdapter(parent context.Context, a types.Adapter, keyword string, timeout time.Duration) types.Result {
	src := a.Source()
	start := time.Now()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	// buffered so an abandoned fetch can still send and exit
	ch := make(chan fetched, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- fetched{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		p, err := a.Fetch(ctx, keyword)
		ch <- fetched{postings: p, err: err}
	}()

	res := types.Result{Source: src}
	select {
	case f := <-ch:
		res.Postings, res.Err = f.postings, f.err
		if res.Err != nil {
			res.Postings = nil
			res.Err = classify(ctx, parent, src, timeout, res.Err)
		}
	case <-ctx.Done():
		res.Err = classify(ctx, parent, src, timeout, ctx.Err())
	}
	res.Took = time.Since(start)
	return res
}

// classify turns a raw adapter or context error into the taxonomy.
func classify(ctx, parent context.Context, src domain.Source, timeout time.Duration, err error) error {
	var te *domain.TimeoutError
	var fe *domain.FetchError
	switch {
	case errors.As(err, &te), errors.As(err, &fe):
		return err
	case parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &domain.TimeoutError{Source: src, After: timeout}
	default:
		return &domain.FetchError{Source: src, Err: err}
	}
}
