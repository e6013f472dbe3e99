package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/events"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/store"
)

// Searcher is what the handlers need from search.Service.
type Searcher interface {
	Search(ctx context.Context, keyword string) (domain.Outcome, error)
	ListStored(f store.Filter) []domain.Posting
	ListFavorites(urls []string) []domain.Posting
	Status() types.ScrapeStatus
}

type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

type Deps struct {
	Search Searcher
	Hub    *events.Hub
	Log    zerolog.Logger

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	OnConfig    func(config.Config) // optional, after a successful PUT

	DB Checkpointer // nil when persistence is off

	StoreSize func() int

	Shutdown http.HandlerFunc // optional; main owns the server lifecycle
}
