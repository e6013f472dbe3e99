package store

import (
	"strings"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/util"
)

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	Source         domain.Source
	EmploymentType domain.EmploymentType
	Address        string // substring, width-folded
}

func (f Filter) Keep(p domain.Posting) (keep bool, reason string) {
	// 1) Source
	if f.Source != "" && p.Source != f.Source {
		return false, "source"
	}

	// 2) Employment type
	if f.EmploymentType != "" && p.EmploymentType != f.EmploymentType {
		return false, "employment_type"
	}

	// 3) Address substring, compared after width folding
	if needle := util.CleanText(f.Address); needle != "" {
		if !strings.Contains(strings.ToLower(util.CleanText(p.Address)), strings.ToLower(needle)) {
			return false, "address"
		}
	}

	return true, ""
}

func (f Filter) IsZero() bool {
	return f.Source == "" && f.EmploymentType == "" && strings.TrimSpace(f.Address) == ""
}
