package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/store"
)

// BuildFunc returns the adapter roster for cfg.
type BuildFunc func(cfg config.Config) []types.Adapter

// Service is the entrypoint the request layer and the poller share.
type Service struct {
	cfgVal *atomic.Value // stores config.Config
	build  BuildFunc
	store  *store.Store
	hub    *events.Hub
	log    zerolog.Logger
	now    func() time.Time

	statusMu sync.Mutex
	status   types.ScrapeStatus
	running  int
}

type Options struct {
	CfgVal *atomic.Value
	Build  BuildFunc
	Store  *store.Store
	Hub    *events.Hub // optional
	Log    zerolog.Logger
	Now    func() time.Time
}

func New(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		cfgVal: opts.CfgVal,
		build:  opts.Build,
		store:  opts.Store,
		hub:    opts.Hub,
		log:    opts.Log,
		now:    opts.Now,
	}
}

func (s *Service) Config() config.Config {
	if s.cfgVal != nil {
		if cfg, ok := s.cfgVal.Load().(config.Config); ok {
			return cfg
		}
	}
	return config.Default()
}

// Search fans keyword out to the configured sources and stores what they found.
// Returned errors are domain.ErrInvalidInput or *store.StoreError; adapter
// failures are reported inside the outcome.
func (s *Service) Search(ctx context.Context, keyword string) (domain.Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return domain.Outcome{}, domain.ErrInvalidInput
	}

	cfg := s.Config()
	adapters := s.build(cfg)

	s.begin(keyword)
	out, err := scrape.Scrape(ctx, s.log.With().Str("component", "orchestrator").Logger(), keyword, adapters, cfg.ScrapeTimeout())
	if err != nil {
		s.finish(0, err)
		return domain.Outcome{}, err
	}

	added, err := s.store.Insert(ctx, out.Jobs)
	if err != nil {
		s.log.Error().Err(err).Str("keyword", keyword).Msg("store insert failed")
		s.finish(0, err)
		return domain.Outcome{}, err
	}
	s.finish(added, nil)

	if added > 0 {
		s.hub.Publish(events.MakeEvent(events.RequestIDFrom(ctx), events.TypeJobsAdded, 1, events.JobsAdded{
			Keyword: keyword,
			Added:   added,
			Found:   out.TotalFound,
			Errors:  len(out.Errors),
			Size:    s.store.Len(),
		}))
	}
	return out, nil
}

// ListStored returns stored postings that f keeps, newest first.
func (s *Service) ListStored(f store.Filter) []domain.Posting {
	return s.store.Query(f)
}

// ListFavorites returns the known postings among urls. It never mutates the store.
func (s *Service) ListFavorites(urls []string) []domain.Posting {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	return s.store.Lookup(clean)
}

// Sweep drops postings older than the configured max age.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	n, err := s.store.SweepExpired(ctx, s.now(), s.Config().MaxAge())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.hub.Publish(events.MakeEvent(events.RequestIDFrom(ctx), events.TypeJobsExpired, 1, events.JobsExpired{
			Removed: n,
			Size:    s.store.Len(),
		}))
	}
	return n, nil
}

func (s *Service) Status() types.ScrapeStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

func (s *Service) begin(keyword string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.running++
	s.status.Running = true
	s.status.LastRunAt = s.now().Format(time.RFC3339)
	s.status.LastKeyword = keyword
}

func (s *Service) finish(added int, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.running--
	s.status.Running = s.running > 0
	s.status.LastAdded = added
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.status.LastError = ""
	s.status.LastOkAt = s.now().Format(time.RFC3339)
}
