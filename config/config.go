// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment-driven settings. Flags in main may override the
// listen address.
type Env struct {
	Host             string `env:"HOST" envDefault:"localhost"`
	Port             int    `env:"PORT" envDefault:"8080"`
	DatabasePath     string `env:"DATABASE_PATH" envDefault:"data/typerace.db"`
	JWTSecret        string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	CountdownSeconds int    `env:"COUNTDOWN_SECONDS" envDefault:"3"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Countdown returns the pre-race countdown as a duration.
func (e Env) Countdown() time.Duration {
	return time.Duration(e.CountdownSeconds) * time.Second
}

// Addr returns the host:port listen address.
func (e Env) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
