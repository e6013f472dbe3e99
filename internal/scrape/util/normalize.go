package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"jobscout-engine/internal/domain"
)

var addressLabelRe = regexp.MustCompile(`^(住所|所在地|勤務地)[：:\s]*`)

// CleanText folds full-width latin and half-width katakana to their
// canonical widths and collapses whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u3000", " ")
	s = width.Fold.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

func NormalizeAddress(addr string) string {
	addr = CleanText(addr)
	addr = addressLabelRe.ReplaceAllString(addr, "")
	return strings.TrimSpace(addr)
}

var (
	partTimeMarkers = []string{"非常勤", "パート", "アルバイト", "part-time", "part time"}
	fullTimeMarkers = []string{"正社員", "常勤", "正職員", "full-time", "full time"}
	contractMarkers = []string{"契約", "派遣", "contract"}
)

// InferEmploymentType maps free text to the closed employment set.
// Part-time markers are checked first: "非常勤" contains "常勤".
func InferEmploymentType(texts ...string) domain.EmploymentType {
	blob := strings.ToLower(CleanText(strings.Join(texts, " ")))
	if blob == "" {
		return domain.EmploymentUnspecified
	}

	switch {
	case containsAny(blob, partTimeMarkers):
		return domain.EmploymentPartTime
	case containsAny(blob, fullTimeMarkers):
		return domain.EmploymentFullTime
	case containsAny(blob, contractMarkers):
		return domain.EmploymentContract
	default:
		return domain.EmploymentUnspecified
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
