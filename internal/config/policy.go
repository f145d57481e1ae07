package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type PolicyConfig struct {
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	TimeoutMS     int    `env:"LLM_TIMEOUT_MS" envDefault:"2500"`
	Retries       int    `env:"LLM_RETRIES" envDefault:"0"`
	CacheSize     int    `env:"LLM_CACHE_SIZE" envDefault:"512"`

	// Timeout is derived from TimeoutMS.
	Timeout time.Duration
}

var placeholderKeys = map[string]bool{
	"":                         true,
	"your_gemini_api_key_here": true,
	"your-api-key":             true,
	"your_api_key":             true,
	"changeme":                 true,
	"replace_me":               true,
}

// NormalizeAPIKey treats template placeholders as no key at all.
func NormalizeAPIKey(key string) string {
	k := strings.TrimSpace(key)
	if placeholderKeys[strings.ToLower(k)] {
		return ""
	}
	return k
}

func LoadPolicy() (PolicyConfig, error) {
	var cfg PolicyConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.GeminiAPIKey = NormalizeAPIKey(cfg.GeminiAPIKey)
	if cfg.TimeoutMS < 1 {
		cfg.TimeoutMS = 1
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.CacheSize < 0 {
		cfg.CacheSize = 0
	}
	cfg.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	return cfg, nil
}
