package indeed

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

const (
	DefaultBaseURL = "https://jp.indeed.com"

	// Every query is scoped to the profession the board is built for.
	professionTerm = "診療放射線技師"
	searchLocation = "日本"
)

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

func (s *Scraper) Source() domain.Source { return domain.SourceIndeed }

func (s *Scraper) searchURL(keyword string) string {
	q := url.Values{}
	q.Set("q", professionTerm+" "+keyword)
	q.Set("l", searchLocation)
	return s.cfg.BaseURL + "/jobs?" + q.Encode()
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

	doc.Find(`[data-testid="job-result"], .jobsearch-SerpJobCard, .job_seen_beacon`).Each(func(_ int, card *goquery.Selection) {
		add(s.parseCard(card, now))
	})

	if len(out) == 0 {
		doc.Find(".jobsearch-SerpJobCard, .result").Each(func(_ int, card *goquery.Selection) {
			add(s.parseLegacyCard(card, now))
		})
	}

	s.log.Debug().Int("found", len(out)).Str("keyword", keyword).Msg("parsed search results")
	return out, nil
}

func (s *Scraper) parseCard(card *goquery.Selection, now time.Time) (domain.Posting, bool) {
	facility := util.FirstAttr(card, "title", "h2 a span[title]", "h2 span[title]", ".jobTitle a span[title]")
	if facility == "" {
		facility = util.FirstText(card, "h2 a", ".jobTitle a", ".jobTitle span")
	}
	link := util.AbsURL(s.cfg.BaseURL+"/", util.FirstAttr(card, "href", "h2 a", ".jobTitle a"))
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}

	addr := util.NormalizeAddress(util.FirstText(card, `[data-testid="job-location"]`, ".companyLocation", ".location"))
	if addr == "" {
		addr = util.UnknownAddress
	}

	// Indeed has no employment field on the card; infer from title and snippet.
	snippet := util.FirstText(card, ".summary", ".job-snippet")
	metadata := util.FirstText(card, `[data-testid="attribute_snippet_testid"]`, ".metadata")

	posted := now
	if t, ok := util.ParsePostedDate(util.FirstText(card, ".date", `[data-testid="myJobsStateDate"]`)); ok {
		posted = t
	}

	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: util.InferEmploymentType(facility, metadata, snippet),
		URL:            link,
		Source:         domain.SourceIndeed,
		PostedAt:       posted,
	}, true
}

func (s *Scraper) parseLegacyCard(card *goquery.Selection, now time.Time) (domain.Posting, bool) {
	a := card.Find("a[data-jk]").First()
	if a.Length() == 0 {
		return domain.Posting{}, false
	}
	facility := util.CleanText(a.Text())
	href, _ := a.Attr("href")
	link := util.AbsURL(s.cfg.BaseURL+"/", href)
	if facility == "" || link == "" {
		return domain.Posting{}, false
	}
	addr := util.NormalizeAddress(util.FirstText(card, ".companyLocation", ".location"))
	if addr == "" {
		addr = util.UnknownAddress
	}
	return domain.Posting{
		Facility:       facility,
		Address:        addr,
		EmploymentType: domain.EmploymentUnspecified,
		URL:            link,
		Source:         domain.SourceIndeed,
		PostedAt:       now,
	}, true
}
