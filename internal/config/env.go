package config

import (
	"os"
	"strings"
)

// ApplyEnv overlays JOBSCOUT_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("JOBSCOUT_ADDR")); v != "" {
		cfg.App.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBSCOUT_DATA_DIR")); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("JOBSCOUT_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}
