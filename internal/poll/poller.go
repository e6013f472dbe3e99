package poll

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scheduler"
)

const taskName = "poll"

// Searcher is the part of search.Service the poller drives.
type Searcher interface {
	Search(ctx context.Context, keyword string) (domain.Outcome, error)
}

// Poller re-runs the configured keywords on polling.schedule.
type Poller struct {
	search  Searcher
	sched   *scheduler.Scheduler
	log     zerolog.Logger
	running atomic.Bool
}

func New(search Searcher, sched *scheduler.Scheduler, log zerolog.Logger) *Poller {
	return &Poller{search: search, sched: sched, log: log}
}

// Apply (re)schedules polling from cfg. An empty schedule or keyword list disables it.
func (p *Poller) Apply(cfg config.Config) error {
	if cfg.Polling.Schedule == "" || len(cfg.Polling.Keywords) == 0 {
		p.sched.Remove(taskName)
		p.log.Info().Msg("polling disabled")
		return nil
	}
	keywords := append([]string(nil), cfg.Polling.Keywords...)
	return p.sched.Add(cfg.Polling.Schedule, taskName, func(ctx context.Context) error {
		_, err := p.PollOnce(ctx, keywords)
		return err
	})
}

// PollOnce searches each keyword in turn and returns the total postings found.
// A call made while another is still running returns immediately.
func (p *Poller) PollOnce(ctx context.Context, keywords []string) (found int, err error) {
	if !p.running.CompareAndSwap(false, true) {
		p.log.Debug().Msg("poll already running; skipping")
		return 0, nil
	}
	defer p.running.Store(false)

	var errs []error
	for _, kw := range keywords {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		out, err := p.search.Search(ctx, kw)
		if err != nil {
			p.log.Warn().Err(err).Str("keyword", kw).Msg("poll search failed")
			errs = append(errs, err)
			continue
		}
		found += out.TotalFound
		p.log.Info().Str("keyword", kw).Int("found", out.TotalFound).Int("errors", len(out.Errors)).Msg("polled")
	}
	return found, errors.Join(errs...)
}
