package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// UnknownAddress is used when a listing shows no location.
const UnknownAddress = "住所不明"

// Client is the HTTP side shared by the source adapters.
type Client struct {
	HC        *http.Client
	Limiter   *HostLimiter
	UserAgent string
}

func NewClient(timeout time.Duration, limiter *HostLimiter, userAgent string) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return Client{
		HC:        &http.Client{Timeout: timeout},
		Limiter:   limiter,
		UserAgent: userAgent,
	}
}

// Document GETs rawURL and parses the body as HTML.
func (c Client) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.Limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	hc := c.HC
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FirstText returns the cleaned text of the first non-empty match among selectors.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		var out string
		sel.Find(s).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			out = CleanText(m.Text())
			return out == ""
		})
		if out != "" {
			return out
		}
	}
	return ""
}

// FirstAttr returns the first non-empty attr value among selectors.
func FirstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		var out string
		sel.Find(s).EachWithBreak(func(_ int, m *goquery.Selection) bool {
			if v, ok := m.Attr(attr); ok {
				out = CleanText(v)
			}
			return out == ""
		})
		if out != "" {
			return out
		}
	}
	return ""
}

// LabeledValue reads the cell next to a th/dt whose text contains label.
func LabeledValue(sel *goquery.Selection, label string) string {
	var out string
	sel.Find("th, dt").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !containsAny(CleanText(h.Text()), []string{label}) {
			return true
		}
		out = CleanText(h.NextFiltered("td, dd").Text())
		return out == ""
	})
	return out
}
