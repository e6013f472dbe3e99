package scrape

import (
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/types"
)

// Aggregate merges settled results in registration order. It never fails:
// with no successful adapters it yields empty jobs and one error per adapter.
func Aggregate(results []types.Result) domain.Outcome {
	out := domain.Outcome{
		Jobs:   []domain.Posting{},
		Errors: []string{},
	}
	for _, r := range results {
		if r.Err != nil {
			out.Errors = append(out.Errors, r.Err.Error())
			continue
		}
		out.Jobs = append(out.Jobs, r.Postings...)
		out.TotalFound += len(r.Postings)
	}
	return out
}
