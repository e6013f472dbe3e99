package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is returned for a blank keyword; no adapter runs.
	ErrInvalidInput = errors.New("keyword parameter is required")

	ErrTimeout = errors.New("timeout")
)

// FetchError is an adapter failure: network, unexpected response shape or parse error.
type FetchError struct {
	Source Source
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TimeoutError means the adapter lost the race against its timer.
type TimeoutError struct {
	Source Source
	After  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timeout after %s", e.Source, e.After)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
