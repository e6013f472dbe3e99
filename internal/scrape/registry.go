package scrape

import (
	"github.com/rs/zerolog"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/hellowork"
	"jobscout-engine/internal/scrape/indeed"
	"jobscout-engine/internal/scrape/jinzaibank"
	"jobscout-engine/internal/scrape/jobmedley"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

// BuildAdapters returns the enabled adapters in registration order.
func BuildAdapters(cfg config.Config, client util.Client, log zerolog.Logger) []types.Adapter {
	out := make([]types.Adapter, 0, len(domain.Sources))
	for _, src := range domain.Sources {
		sc := cfg.Source(src)
		if !sc.Enabled {
			continue
		}
		l := log.With().Str("source", src.String()).Logger()
		switch src {
		case domain.SourceHellowork:
			out = append(out, hellowork.New(hellowork.Config{BaseURL: sc.BaseURL}, client, l))
		case domain.SourceJobmedley:
			out = append(out, jobmedley.New(jobmedley.Config{BaseURL: sc.BaseURL}, client, l))
		case domain.SourceJinzaibank:
			out = append(out, jinzaibank.New(jinzaibank.Config{BaseURL: sc.BaseURL}, client, l))
		case domain.SourceIndeed:
			out = append(out, indeed.New(indeed.Config{BaseURL: sc.BaseURL}, client, l))
		}
	}
	return out
}
