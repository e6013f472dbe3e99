package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Scheduler runs named tasks on cron specs. A task still running when its
// next tick arrives is skipped, and a panicking task is logged and recovered.
type Scheduler struct {
	c   *cron.Cron
	log zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
}

func New(log zerolog.Logger) *Scheduler {
	cl := cronLogger{log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		c:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers task under name, replacing any task with the same name.
func (s *Scheduler) Add(spec, name string, task Task) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.c.Remove(id)
	}
	s.entries[name] = s.c.Schedule(sched, cron.FuncJob(func() { s.run(name, task) }))
	s.log.Info().Str("task", name).Str("spec", spec).Msg("scheduled")
	return nil
}

func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.c.Remove(id)
		delete(s.entries, name)
	}
}

// Next reports when name fires next.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := s.c.Entry(id)
	if e.Next.IsZero() && e.Schedule != nil {
		// not started yet
		return e.Schedule.Next(time.Now()), true
	}
	return e.Next, true
}

// RunNow runs task once in the caller's goroutine.
func (s *Scheduler) RunNow(name string, task Task) {
	s.run(name, task)
}

func (s *Scheduler) run(name string, task Task) {
	start := time.Now()
	if err := task(s.ctx); err != nil {
		s.log.Error().Err(err).Str("task", name).Dur("took", time.Since(start)).Msg("task failed")
		return
	}
	s.log.Debug().Str("task", name).Dur("took", time.Since(start)).Msg("task done")
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop cancels running tasks and waits for them to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

type cronLogger struct{ l zerolog.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug().Fields(kv).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error().Err(err).Fields(kv).Msg(msg)
}
