package hellowork

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/util"
)

const DefaultBaseURL = "https://www.hellowork.mhlw.go.jp"

type Config struct {
	BaseURL string
	Now     func() time.Time
}

// Scraper reads the Hello Work internet service result list. Each listing
// is a label/value table (事業所名, 就業場所, 雇用形態, 受付年月日).
type Scraper struct {
	cfg    Config
	client util.Client
	log    zerolog.Logger
}

func New(cfg Config, client util.Client, log zerolog.Logger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scraper{cfg: cfg, client: client, log: log}
}

func (s *Scraper) Source() domain.Source { return domain.SourceHellowork }

func (s *Scraper) searchURL(keyword string) string {
	q := url.Values{}
	q.Set("action", "initDisp")
	q.Set("screenId", "GECA110010")
	q.Set("freeWordInput", keyword)
	return s.cfg.BaseURL + "/kensaku/GECA110010.do?" + q.Encode()
}

func (s *Scraper) Fetch(ctx context.Context, keyword string) ([]domain.Posting, error) {
	doc, err := s.client.Document(ctx, s.searchURL(keyword))
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	seen := map[string]bool{}
	var out []domain.Posting

	doc.Find("table.kyujin, table.kyujin_table, div.kyujin").Each(func(_ int, item *goquery.Selection) {
		p, ok := s.parseListing(item, now)
		if !ok || seen[p.URL] {
			return
		}
		seen[p.URL] = true
		out = append(out, p)
	})

	s.log.Debug().Int("found", len(out)).Str("keyword", keyword).Msg("parsed search results")
	return out, nil
}

func (s *Scraper) parseListing(item *goquery.Selection, now time.Time) (domain.Posting, bool) {
	facility := util.LabeledValue(item, "事業所名")
	if facility == "" {
		facility = util.FirstText(item, ".jigyosho_name", ".company")
	}
	href := util.FirstAttr(item, "href", `a[href*="GECA110020"]`, `a[id*="dispDetail"]`, "a.detail")
	link := util.AbsURL(s.cfg.BaseURL+"/kensaku/", href)
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}

	addr := util.NormalizeAddress(util.LabeledValue(item, "就業場所"))
	if addr == "" {
		addr = util.UnknownAddress
	}

	posted := now
	if t, ok := util.ParsePostedDate(util.LabeledValue(item, "受付年月日")); ok {
		posted = t
	}

	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: util.InferEmploymentType(util.LabeledValue(item, "雇用形態")),
		URL:            link,
		Source:         domain.SourceHellowork,
		PostedAt:       posted,
	}, true
}
