package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type TableConfig struct {
	SmallBlind               int64         `env:"SMALL_BLIND" envDefault:"1"`
	BigBlind                 int64         `env:"BIG_BLIND" envDefault:"2"`
	StartingStack            int64         `env:"STARTING_STACK" envDefault:"200"`
	LiveFeedLimit            int           `env:"LIVE_FEED_LIMIT" envDefault:"80"`
	MaxPolicyCallsPerRequest int           `env:"MAX_POLICY_CALLS_PER_REQUEST" envDefault:"1"`
	SessionIdleTTL           time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
}

var (
	ErrInvalidBlinds = errors.New("invalid_blinds")
	ErrInvalidStack  = errors.New("invalid_starting_stack")
)

func (c TableConfig) Validate() error {
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return ErrInvalidBlinds
	}
	if c.StartingStack < c.BigBlind {
		return ErrInvalidStack
	}
	return nil
}

func LoadTable() (TableConfig, error) {
	var cfg TableConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.LiveFeedLimit <= 0 {
		cfg.LiveFeedLimit = 80
	}
	if cfg.MaxPolicyCallsPerRequest < 0 {
		cfg.MaxPolicyCallsPerRequest = 0
	}
	return cfg, cfg.Validate()
}
