package jobmedley

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

const DefaultBaseURL = "https://job-medley.com"

type Config struct {
	BaseURL string
	Now     func() time.Time
}

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

func (s *Scraper) Source() domain.Source { return domain.SourceJobmedley }

func (s *Scraper) searchURL(keyword string) string {
	return s.cfg.BaseURL + "/cxr/?q=" + url.QueryEscape(keyword)
}

func (s *Scraper) Fetch(ctx context.Context, keyword string) ([]domain.Posting, error) {
	doc, err := s.client.Document(ctx, s.searchURL(keyword))
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now().UTC()
	seen := map[string]bool{}
	var out []domain.Posting
	add := func(p domain.Posting, ok bool) {
		if !ok || seen[p.URL] {
			return
		}
		seen[p.URL] = true
		out = append(out, p)
	}

	doc.Find(`.jm-search-result-list-item, .job-list-item, [data-testid="job-item"]`).Each(func(_ int, item *goquery.Selection) {
		add(s.parseItem(item, now))
	})

	// looser markup: any card linking into the /cxr/ section
	if len(out) == 0 {
		doc.Find("article, .result-item, .job-item").Each(func(_ int, item *goquery.Selection) {
			add(s.parseLink(item, now))
		})
	}

	s.log.Debug().Int("found", len(out)).Str("keyword", keyword).Msg("parsed search results")
	return out, nil
}

func (s *Scraper) parseItem(item *goquery.Selection, now time.Time) (domain.Posting, bool) {
	facility := util.FirstText(item, "h3 a", ".job-title a", ".facility-name", "h2 a", ".title a")
	href := util.FirstAttr(item, "href", "h3 a", ".job-title a", "h2 a", ".title a")
	link := util.AbsURL(s.cfg.BaseURL+"/", href)
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}

	addr := util.NormalizeAddress(util.FirstText(item,
		".location", ".address", ".area", `[class*="location"]`, `[class*="address"]`))
	if addr == "" {
		addr = util.UnknownAddress
	}
	emp := util.FirstText(item,
		".employment-type", ".job-type", ".work-style", `[class*="employment"]`, `[class*="job-type"]`)

	posted := now
	if t, ok := util.ParsePostedDate(util.FirstText(item, "time", ".date", `[class*="date"]`)); ok {
		posted = t
	}

	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: util.InferEmploymentType(emp),
		URL:            link,
		Source:         domain.SourceJobmedley,
		PostedAt:       posted,
	}, true
}

func (s *Scraper) parseLink(item *goquery.Selection, now time.Time) (domain.Posting, bool) {
	a := item.Find(`a[href*="/cxr/"]`).First()
	if a.Length() == 0 {
		return domain.Posting{}, false
	}
	facility := util.CleanText(a.Text())
	href, _ := a.Attr("href")
	link := util.AbsURL(s.cfg.BaseURL+"/", href)
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}
	addr := util.NormalizeAddress(util.FirstText(item, ".location", ".address"))
	if addr == "" {
		addr = util.UnknownAddress
	}
	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: domain.EmploymentUnspecified,
		URL:            link,
		Source:         domain.SourceJobmedley,
		PostedAt:       now,
	}, true
}
