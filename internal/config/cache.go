package config

import (
	"strconv"
	"time"
)

// CacheConfig controls the Redis response cache applied to availability
// listings.  When Enabled is false or no Redis client could be created,
// the middleware becomes a pass-through.  TTL bounds how stale a cached
// listing may get.  Keep it short: bookings invalidate nothing, entries
// simply age out.  MaxBodyBytes caps the size of responses worth
// caching.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables, with defaults
// suitable for short-lived availability listings.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenv("CACHE_TTL", "15s"), 15*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576"), 1048576),
	}
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
