package util

import (
	"regexp"
	"strconv"
	"time"
)

var (
	slashDateRe = regexp.MustCompile(`(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})`)
	kanjiDateRe = regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`)
)

var jst = time.FixedZone("JST", 9*60*60)

// ParsePostedDate finds a YYYY/MM/DD or YYYY年M月D日 date in s (JST midnight).
func ParsePostedDate(s string) (time.Time, bool) {
	s = CleanText(s)
	for _, re := range []*regexp.Regexp{kanjiDateRe, slashDateRe} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			continue
		}
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, jst)
		if t.Day() != d {
			continue
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}
