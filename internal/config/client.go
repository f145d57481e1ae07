package config

import "github.com/caarlos0/env/v11"

type ClientConfig struct {
	WSURL string `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	Hands int    `env:"CLIENT_HANDS" envDefault:"5"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
