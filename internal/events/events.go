package events

import (
	"encoding/json"
	"time"
)

const (
	TypeJobsAdded   = "jobs_added"
	TypeJobsExpired = "jobs_expired"
	TypeScrapeDone  = "scrape_done"
	TypeConfig      = "config_reloaded"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// JobsAdded is the payload of a jobs_added event.
type JobsAdded struct {
	Keyword string `json:"keyword"`
	Added   int    `json:"added"`
	Found   int    `json:"found"`
	Errors  int    `json:"errors"`
	Size    int    `json:"size"`
}

type JobsExpired struct {
	Removed int `json:"removed"`
	Size    int `json:"size"`
}

func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
