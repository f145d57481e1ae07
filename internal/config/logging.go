package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

var ErrInvalidLogLevel = errors.New("invalid_log_level")

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
	Caller      bool   `env:"LOG_CALLER" envDefault:"false"`
}

// LoadLog reads the log settings. The level is lowercased and must be one
// zerolog knows.
func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.Level = strings.ToLower(strings.TrimSpace(cfg.Level))
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil {
		return cfg, ErrInvalidLogLevel
	}
	if cfg.MaxMB < 1 {
		cfg.MaxMB = 1
	}
	return cfg, nil
}
