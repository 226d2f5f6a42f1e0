package config

import "time"

// RateLimitConfig controls the fixed-window request limiter.  Limit is
// the number of requests a caller may make per Window.  The limiter
// keys on user id when authenticated and client IP otherwise.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Prefix  string
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables and
// clamps nonsensical values to safe minimums.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   atoi(getenv("RATE_LIMIT_REQUESTS", "60"), 60),
		Window:  parseDur(getenv("RATE_LIMIT_WINDOW", "1m"), time.Minute),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}
