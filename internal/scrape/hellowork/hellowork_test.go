package hellowork

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

const resultPage = `<html><body>
<table class="kyujin">
  <tr><th>事業所名</th><td>医療法人社団 総合病院</td></tr>
  <tr><th>就業場所</th><td>東京都新宿区</td></tr>
  <tr><th>雇用形態</th><td>正社員</td></tr>
  <tr><th>受付年月日</th><td>2024年5月20日</td></tr>
  <tr><td><a href="GECA110020.do?kJNo=13010-1&amp;utm_campaign=x">詳細を表示</a></td></tr>
</table>
<table class="kyujin">
  <tr><th>事業所名</th><td>公立病院 画像診断科</td></tr>
  <tr><th>雇用形態</th><td>パート労働者</td></tr>
  <tr><td><a href="/kensaku/GECA110020.do?kJNo=13010-2">詳細を表示</a></td></tr>
</table>
<table class="kyujin">
  <tr><th>就業場所</th><td>埼玉県さいたま市</td></tr>
</table>
</body></html>`

func TestFetchParsesLabeledTables(t *testing.T) {
	var gotKeyword string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeyword = r.URL.Query().Get("freeWordInput")
		_, _ = w.Write([]byte(resultPage))
	}))
	defer srv.Close()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := New(Config{BaseURL: srv.URL, Now: func() time.Time { return now }}, util.NewClient(time.Second, nil, ""), zerolog.Nop())

	got, err := s.Fetch(context.Background(), "新宿")
	require.NoError(t, err)
	assert.Equal(t, "新宿", gotKeyword)
	require.Len(t, got, 2)

	assert.Equal(t, "医療法人社団 総合病院", got[0].Facility)
	assert.Equal(t, "東京都新宿区", got[0].Address)
	assert.Equal(t, domain.EmploymentFullTime, got[0].EmploymentType)
	assert.Equal(t, srv.URL+"/kensaku/GECA110020.do?kJNo=13010-1", got[0].URL)
	assert.Equal(t, time.Date(2024, 5, 19, 15, 0, 0, 0, time.UTC), got[0].PostedAt)

	assert.Equal(t, domain.EmploymentPartTime, got[1].EmploymentType)
	assert.Equal(t, util.UnknownAddress, got[1].Address)
	assert.Equal(t, now, got[1].PostedAt)
	assert.Equal(t, domain.SourceHellowork, got[1].Source)
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	s := New(Config{BaseURL: base}, util.NewClient(time.Second, nil, ""), zerolog.Nop())
	_, err := s.Fetch(context.Background(), "x")
	assert.Error(t, err)
}
