package domain

import (
	"fmt"
	"strings"
)

type Source string

// Registration order.
const (
	SourceHellowork  Source = "hellowork"
	SourceJobmedley  Source = "jobmedley"
	SourceJinzaibank Source = "jinzaibank"
	SourceIndeed     Source = "indeed"
)

var Sources = []Source{SourceHellowork, SourceJobmedley, SourceJinzaibank, SourceIndeed}

var sourceLabels = map[Source]string{
	SourceHellowork:  "ハローワーク",
	SourceJobmedley:  "ジョブメドレー",
	SourceJinzaibank: "人材バンク",
	SourceIndeed:     "Indeed",
}

func (s Source) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

// Label is the display name shown in the UI.
func (s Source) Label() string {
	if l, ok := sourceLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Source) String() string { return string(s) }

func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown source %q", raw)
	}
	return s, nil
}

type EmploymentType string

const (
	EmploymentFullTime    EmploymentType = "full-time"
	EmploymentPartTime    EmploymentType = "part-time"
	EmploymentContract    EmploymentType = "contract"
	EmploymentUnspecified EmploymentType = "unspecified"
)

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentUnspecified:
		return true
	}
	return false
}

func ParseEmploymentType(raw string) (EmploymentType, error) {
	e := EmploymentType(strings.ToLower(strings.TrimSpace(raw)))
	if !e.Valid() {
		return "", fmt.Errorf("unknown employment type %q", raw)
	}
	return e, nil
}
