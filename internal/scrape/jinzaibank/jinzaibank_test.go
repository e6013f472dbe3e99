package jinzaibank

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

func serve(t *testing.T, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFetchCards(t *testing.T) {
	base := serve(t, `<html><body>
<div class="job-card">
  <h3 class="job-card__name"><a href="/job/501/">医療法人社団 池袋総合病院</a></h3>
  <p class="job-card__address">東京都豊島区</p>
  <span class="job-card__tag">日勤のみ</span><span class="job-card__tag">非常勤</span>
  <span class="job-card__date">更新日 2024/05/30</span>
</div>
<div class="job-card">
  <h3 class="job-card__name"><a href="/job/502/">独立行政法人 国立病院機構</a></h3>
  <span class="job-card__tag">常勤</span>
</div>
<div class="job-card"><p class="job-card__address">千葉県</p></div>
</body></html>`)
	s := New(Config{BaseURL: base}, util.NewClient(time.Second, nil, ""), zerolog.Nop())

	got, err := s.Fetch(context.Background(), "池袋")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "医療法人社団 池袋総合病院", got[0].Facility)
	assert.Equal(t, "東京都豊島区", got[0].Address)
	assert.Equal(t, domain.EmploymentPartTime, got[0].EmploymentType)
	assert.Equal(t, base+"/job/501/", got[0].URL)
	assert.Equal(t, time.Date(2024, 5, 29, 15, 0, 0, 0, time.UTC), got[0].PostedAt)
	assert.Equal(t, domain.EmploymentFullTime, got[1].EmploymentType)
}

func TestFetchFallbackList(t *testing.T) {
	base := serve(t, `<html><body><ul>
<li><a href="/job/601/">医療法人 健診センター</a></li>
<li><a href="/about/">会社概要</a></li>
</ul></body></html>`)
	s := New(Config{BaseURL: base}, util.NewClient(time.Second, nil, ""), zerolog.Nop())

	got, err := s.Fetch(context.Background(), "健診")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "医療法人 健診センター", got[0].Facility)
	assert.Equal(t, domain.SourceJinzaibank, got[0].Source)
}
