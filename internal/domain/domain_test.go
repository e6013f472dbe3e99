package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	s, err := ParseSource(" Indeed ")
	require.NoError(t, err)
	assert.Equal(t, SourceIndeed, s)
	assert.Equal(t, "Indeed", s.Label())

	_, err = ParseSource("linkedin")
	assert.Error(t, err)
}

func TestParseEmploymentType(t *testing.T) {
	e, err := ParseEmploymentType("Part-Time")
	require.NoError(t, err)
	assert.Equal(t, EmploymentPartTime, e)

	_, err = ParseEmploymentType("")
	assert.Error(t, err)
}

func TestErrorFormatting(t *testing.T) {
	fe := &FetchError{Source: SourceJobmedley, Err: errors.New("status 503")}
	assert.Equal(t, "jobmedley: status 503", fe.Error())

	te := &TimeoutError{Source: SourceIndeed, After: 15 * time.Second}
	assert.Equal(t, "indeed: timeout after 15s", te.Error())

	wrapped := fmt.Errorf("run: %w", te)
	assert.True(t, errors.Is(wrapped, ErrTimeout))
	assert.False(t, errors.Is(fe, ErrTimeout))
}

func TestPostingValid(t *testing.T) {
	p := Posting{Facility: "総合病院", URL: "https://example.com/1", Source: SourceHellowork, EmploymentType: EmploymentUnspecified}
	assert.True(t, p.Valid())

	p.EmploymentType = ""
	assert.False(t, p.Valid())
}
