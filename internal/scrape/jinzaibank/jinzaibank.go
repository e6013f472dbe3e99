package jinzaibank

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

const DefaultBaseURL = "https://iryouworker.com"

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

func (s *Scraper) Source() domain.Source { return domain.SourceJinzaibank }

func (s *Scraper) searchURL(keyword string) string {
	return s.cfg.BaseURL + "/search/?keyword=" + url.QueryEscape(keyword)
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

	doc.Find(".job-card, .p-job-list__item").Each(func(_ int, card *goquery.Selection) {
		add(s.parseCard(card, now))
	})

	if len(out) == 0 {
		doc.Find(`li:has(a[href*="/job/"])`).Each(func(_ int, li *goquery.Selection) {
			a := li.Find(`a[href*="/job/"]`).First()
			href, _ := a.Attr("href")
			p := domain.Posting{
				Facility:       util.CleanText(a.Text()),
				Address:        util.UnknownAddress,
				EmploymentType: domain.EmploymentUnspecified,
				URL:            util.AbsURL(s.cfg.BaseURL+"/", href),
				Source:         domain.SourceJinzaibank,
				PostedAt:       now,
			}
			add(p, p.Facility != "" && p.URL != "")
		})
	}

	s.log.Debug().Int("found", len(out)).Str("keyword", keyword).Msg("parsed search results")
	return out, nil
}

func (s *Scraper) parseCard(card *goquery.Selection, now time.Time) (domain.Posting, bool) {
	facility := util.FirstText(card, ".job-card__name", ".p-job-list__title a", ".p-job-list__title", "h3")
	href := util.FirstAttr(card, "href", ".job-card__name a", ".p-job-list__title a", "a.job-card__link", "a[href]")
	if href == "" {
		href, _ = card.Attr("href")
	}
	link := util.AbsURL(s.cfg.BaseURL+"/", href)
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}

	addr := util.NormalizeAddress(util.FirstText(card, ".job-card__address", `[class*="address"]`, `[class*="location"]`))
	if addr == "" {
		addr = util.UnknownAddress
	}

	var tags []string
	card.Find(".job-card__tag, [class*='employment'], .p-job-list__tag").Each(func(_ int, t *goquery.Selection) {
		tags = append(tags, t.Text())
	})

	posted := now
	if t, ok := util.ParsePostedDate(util.FirstText(card, ".job-card__date", "time", `[class*="date"]`)); ok {
		posted = t
	}

	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: util.InferEmploymentType(tags...),
		URL:            link,
		Source:         domain.SourceJinzaibank,
		PostedAt:       posted,
	}, true
}
