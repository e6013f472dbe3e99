// engine/internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jobscout-engine/internal/domain"
)

type SourceConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

type Config struct {
	App struct {
		Addr    string `yaml:"addr" json:"addr"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Log struct {
		Level   string `yaml:"level" json:"level"`
		Console bool   `yaml:"console" json:"console"`
	} `yaml:"log" json:"log"`

	Scrape struct {
		Timeout     string  `yaml:"timeout" json:"timeout"`
		HTTPTimeout string  `yaml:"http_timeout" json:"http_timeout"`
		UserAgent   string  `yaml:"user_agent" json:"user_agent"`
		RatePerSec  float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
		Burst       int     `yaml:"burst" json:"burst"`
	} `yaml:"scrape" json:"scrape"`

	Sources struct {
		Hellowork  SourceConfig `yaml:"hellowork" json:"hellowork"`
		Jobmedley  SourceConfig `yaml:"jobmedley" json:"jobmedley"`
		Jinzaibank SourceConfig `yaml:"jinzaibank" json:"jinzaibank"`
		Indeed     SourceConfig `yaml:"indeed" json:"indeed"`
	} `yaml:"sources" json:"sources"`

	Store struct {
		Capacity      int    `yaml:"capacity" json:"capacity"`
		MaxAge        string `yaml:"max_age" json:"max_age"`
		SweepSchedule string `yaml:"sweep_schedule" json:"sweep_schedule"`
		Persist       bool   `yaml:"persist" json:"persist"`
	} `yaml:"store" json:"store"`

	Polling struct {
		Schedule string   `yaml:"schedule" json:"schedule"`
		Keywords []string `yaml:"keywords" json:"keywords"`
	} `yaml:"polling" json:"polling"`
}

const (
	DefaultAddr          = "127.0.0.1:38471"
	DefaultTimeout       = 15 * time.Second
	DefaultHTTPTimeout   = 10 * time.Second
	DefaultCapacity      = 100
	DefaultMaxAge        = 7 * 24 * time.Hour
	DefaultSweepSchedule = "@every 1h"
)

// Default is the config used when no file exists yet.
func Default() Config {
	var cfg Config
	cfg.App.Addr = DefaultAddr
	cfg.App.DataDir = "."
	cfg.Log.Level = "info"
	cfg.Log.Console = true
	cfg.Scrape.Timeout = DefaultTimeout.String()
	cfg.Scrape.HTTPTimeout = DefaultHTTPTimeout.String()
	cfg.Scrape.RatePerSec = 1
	cfg.Scrape.Burst = 2
	cfg.Sources.Hellowork.Enabled = true
	cfg.Sources.Jobmedley.Enabled = true
	cfg.Sources.Jinzaibank.Enabled = true
	cfg.Sources.Indeed.Enabled = true
	cfg.Store.Capacity = DefaultCapacity
	cfg.Store.MaxAge = DefaultMaxAge.String()
	cfg.Store.SweepSchedule = DefaultSweepSchedule
	cfg.Store.Persist = true
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Source returns the per-source block for s.
func (c Config) Source(s domain.Source) SourceConfig {
	switch s {
	case domain.SourceHellowork:
		return c.Sources.Hellowork
	case domain.SourceJobmedley:
		return c.Sources.Jobmedley
	case domain.SourceJinzaibank:
		return c.Sources.Jinzaibank
	case domain.SourceIndeed:
		return c.Sources.Indeed
	}
	return SourceConfig{}
}

func (c Config) ScrapeTimeout() time.Duration {
	return durationOr(c.Scrape.Timeout, DefaultTimeout)
}

func (c Config) HTTPTimeout() time.Duration {
	return durationOr(c.Scrape.HTTPTimeout, DefaultHTTPTimeout)
}

func (c Config) MaxAge() time.Duration {
	return durationOr(c.Store.MaxAge, DefaultMaxAge)
}

func (c Config) Capacity() int {
	if c.Store.Capacity <= 0 {
		return DefaultCapacity
	}
	return c.Store.Capacity
}
