package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"jobscout-engine/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus any problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Polling.Keywords = trimList(out.Polling.Keywords)
	out.Polling.Schedule = strings.TrimSpace(out.Polling.Schedule)
	out.Store.SweepSchedule = strings.TrimSpace(out.Store.SweepSchedule)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))

	// ---- Validation rules ----

	if strings.TrimSpace(out.App.Addr) == "" {
		res.addErr("app.addr is required")
	} else if _, _, err := net.SplitHostPort(out.App.Addr); err != nil {
		res.addErr("app.addr must be host:port (%v)", err)
	}

	checkDuration := func(path, raw string) {
		if _, err := ParseDurationField(path, raw); err != nil {
			res.addErr("%v", err)
		}
	}
	checkDuration("scrape.timeout", out.Scrape.Timeout)
	checkDuration("scrape.http_timeout", out.Scrape.HTTPTimeout)
	checkDuration("store.max_age", out.Store.MaxAge)

	if out.ScrapeTimeout() < out.HTTPTimeout() {
		res.addWarn("scrape.timeout (%s) is shorter than scrape.http_timeout (%s); slow sources will time out first.",
			out.ScrapeTimeout(), out.HTTPTimeout())
	}
	if out.Scrape.RatePerSec <= 0 {
		res.addErr("scrape.rate_per_sec must be > 0")
	}
	if out.Scrape.Burst < 0 {
		res.addErr("scrape.burst must be >= 0")
	}

	enabled := 0
	for _, s := range domain.Sources {
		sc := out.Source(s)
		if !sc.Enabled {
			continue
		}
		enabled++
		if sc.BaseURL == "" {
			continue
		}
		u, err := url.Parse(sc.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("sources.%s.base_url must be an absolute URL", s)
		}
	}
	if enabled == 0 {
		res.addWarn("no sources enabled; every search will return nothing.")
	}

	if out.Store.Capacity < 0 {
		res.addErr("store.capacity must be >= 0")
	}
	if out.Store.SweepSchedule != "" {
		if _, err := cron.ParseStandard(out.Store.SweepSchedule); err != nil {
			res.addErr("store.sweep_schedule: %v", err)
		}
	}

	if out.Polling.Schedule != "" {
		if _, err := cron.ParseStandard(out.Polling.Schedule); err != nil {
			res.addErr("polling.schedule: %v", err)
		}
		if len(out.Polling.Keywords) == 0 {
			res.addWarn("polling.schedule is set but polling.keywords is empty.")
		}
	}

	switch out.Log.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		res.addWarn("log.level %q is unknown; using info.", out.Log.Level)
	}

	return out, res
}
