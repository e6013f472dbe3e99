package domain

import "time"

// Posting is one job listing. URL is the identity key.
type Posting struct {
	Facility       string         `json:"facility"`
	Address        string         `json:"address"`
	EmploymentType EmploymentType `json:"employment_type"`
	URL            string         `json:"url"`
	Source         Source         `json:"source"`
	PostedAt       time.Time      `json:"posted_at"`
}

// Valid reports whether p carries the fields the store relies on.
func (p Posting) Valid() bool {
	return p.Facility != "" && p.URL != "" && p.Source.Valid() && p.EmploymentType.Valid()
}

// Outcome is the result of one orchestration run.
type Outcome struct {
	Jobs       []Posting `json:"jobs"`
	Errors     []string  `json:"errors"`
	TotalFound int       `json:"totalFound"`
}
