package util

import (
	"net/url"
	"strings"
)

// AbsURL resolves href against base. It returns "" for hrefs that cannot
// point at a listing (empty, fragments, javascript:).
func AbsURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return canonicalizeURL(ref)
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return ""
	}
	return canonicalizeURL(b.ResolveReference(ref))
}

func canonicalizeURL(u *url.URL) string {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	changed := false
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "gclid" || lk == "fbclid" {
			q.Del(k)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
