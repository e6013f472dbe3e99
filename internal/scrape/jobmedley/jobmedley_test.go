package jobmedley

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/util"
)

const listPage = `<html><body>
<ul>
  <li class="jm-search-result-list-item">
    <h3><a href="/cxr/1001/">都立病院 放射線科</a></h3>
    <div class="address">所在地：東京都渋谷区</div>
    <span class="employment-type">正職員（常勤）</span>
    <time>2024/05/01</time>
  </li>
  <li class="jm-search-result-list-item">
    <h3><a href="/cxr/1002/">メディカルセンター</a></h3>
    <div class="area">神奈川県横浜市</div>
    <span class="work-style">パート・アルバイト（非常勤）</span>
  </li>
  <li class="jm-search-result-list-item">
    <h3><a href="/cxr/1001/">都立病院 放射線科</a></h3>
  </li>
  <li class="jm-search-result-list-item">
    <h3>リンクなし</h3>
  </li>
</ul>
</body></html>`

const fallbackPage = `<html><body>
<article><a href="/cxr/2001/">画像診断クリニック</a><p class="location">千葉県千葉市</p></article>
<article><p>no link</p></article>
</body></html>`

func newTestScraper(t *testing.T, body string, status int) (*Scraper, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "/cxr/", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := New(Config{BaseURL: srv.URL, Now: func() time.Time { return now }},
		util.NewClient(5*time.Second, nil, ""), zerolog.Nop())
	return s, &gotQuery
}

func TestFetchPrimarySelectors(t *testing.T) {
	s, q := newTestScraper(t, listPage, http.StatusOK)

	got, err := s.Fetch(context.Background(), "東京")
	require.NoError(t, err)
	assert.Equal(t, "東京", *q)
	require.Len(t, got, 2)

	assert.Equal(t, "都立病院 放射線科", got[0].Facility)
	assert.Equal(t, "東京都渋谷区", got[0].Address)
	assert.Equal(t, domain.EmploymentFullTime, got[0].EmploymentType)
	assert.Equal(t, s.cfg.BaseURL+"/cxr/1001/", got[0].URL)
	assert.Equal(t, domain.SourceJobmedley, got[0].Source)
	assert.Equal(t, time.Date(2024, 4, 30, 15, 0, 0, 0, time.UTC), got[0].PostedAt)

	assert.Equal(t, domain.EmploymentPartTime, got[1].EmploymentType)
	assert.Equal(t, "神奈川県横浜市", got[1].Address)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got[1].PostedAt)
}

func TestFetchFallbackSelectors(t *testing.T) {
	s, _ := newTestScraper(t, fallbackPage, http.StatusOK)

	got, err := s.Fetch(context.Background(), "千葉")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "画像診断クリニック", got[0].Facility)
	assert.Equal(t, domain.EmploymentUnspecified, got[0].EmploymentType)
}

func TestFetchEmptyIsSuccess(t *testing.T) {
	s, _ := newTestScraper(t, `<html><body><p>該当なし</p></body></html>`, http.StatusOK)

	got, err := s.Fetch(context.Background(), "none")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchBadStatus(t *testing.T) {
	s, _ := newTestScraper(t, "down", http.StatusServiceUnavailable)

	_, err := s.Fetch(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
