package config

// Redis serves three roles: an optional storage backend, the response
// cache and the rate limiter.  Connection parameters come from the
// environment.  If the server cannot be reached, NewRedisClient returns
// nil; callers that only cache or rate limit degrade gracefully, while
// the redis storage backend treats it as fatal.

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// LoadRedis reads the Redis variables:
//   REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//   REDIS_ADDR – host:port shorthand (host/port take precedence when both are set)
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
func LoadRedis() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	tlsEnv := os.Getenv("REDIS_TLS")
	return RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
		TLS:      strings.EqualFold(tlsEnv, "true") || tlsEnv == "1",
	}
}

// NewRedisClient instantiates a Redis client and pings it with a short
// timeout.  The returned client is nil if a connection cannot be
// established.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
