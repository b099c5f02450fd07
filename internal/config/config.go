// internal/config/config.go
//
// Environment-driven configuration.
// A .env file in the working directory is loaded first (if present), then
// variables are parsed into Config. Real environment variables win over .env.

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Game service endpoint, including the /game base path.
	GameAPIURL     string        `env:"GAME_API_URL" envDefault:"http://localhost:3000/game"`
	GameAPITimeout time.Duration `env:"GAME_API_TIMEOUT" envDefault:"10s"`

	// Shown when the game service yields no result. Empty keeps the page unchanged.
	UnreachableMessage string `env:"UNREACHABLE_MESSAGE" envDefault:"Could not reach the game service, try again"`

	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`

	// Rate limits; 0 disables.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"` // actions per session
	SessionsPerMinute  int `env:"SESSIONS_PER_MINUTE" envDefault:"30"`    // new sessions per client IP

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

// Load reads .env (best effort) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse parses the process environment without touching .env.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot.
func (c Config) Validate() error {
	u, err := url.Parse(c.GameAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GAME_API_URL: invalid url %q", c.GameAPIURL)
	}
	if c.GameAPITimeout <= 0 {
		return errors.New("GAME_API_TIMEOUT: must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE: must not be negative")
	}
	if c.SessionsPerMinute < 0 {
		return errors.New("SESSIONS_PER_MINUTE: must not be negative")
	}
	return nil
}
