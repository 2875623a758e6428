package config

import "time"

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  Methods lists the HTTP methods to cache (GET, HEAD).  TTL
// bounds how stale a cached listing page may be after an owner adds a
// property or an admin approves one.  KeyStrategy determines which
// parts of the request contribute to the cache key.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  Defaults are used when
// variables are not set.  All methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseList(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 15*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "rm:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
