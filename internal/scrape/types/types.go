package types

import (
	"context"
	"time"

	"jobscout-engine/internal/domain"
)

// Adapter fetches postings for a keyword from exactly one source.
// An empty slice with a nil error is a valid "no results" answer.
// Latency bounding is the caller's job; Fetch must honor ctx.
type Adapter interface {
	Source() domain.Source
	Fetch(ctx context.Context, keyword string) ([]domain.Posting, error)
}

// Result is the settled outcome of one adapter within a run.
type Result struct {
	Source   domain.Source
	Postings []domain.Posting
	Err      error // *domain.FetchError or *domain.TimeoutError
	Took     time.Duration
}

func (r Result) OK() bool { return r.Err == nil }

type ScrapeStatus struct {
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastKeyword string `json:"last_keyword"`
	LastAdded   int    `json:"last_added"`
	Running     bool   `json:"running"`
}
