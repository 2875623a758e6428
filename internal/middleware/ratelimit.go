package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

// tokenBucket refills KEYS[1] by ARGV[3] tokens per ARGV[4] ms up to
// ARGV[2], then takes one token if available.  It returns
// {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill_tokens)
		last_refill = last_refill + intervals * interval_ms
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key (see buildRateKey) with a redis
// token bucket.  When redis is unavailable or errors, requests pass.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(vals) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s: %v", key, err)
				}
				return next(c)
			}
			allowed, remaining, retryMs := vals[0] == 1, vals[1], vals[2]

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					c.Logger().Infof("[ratelimit] block key=%s retry=%dms", key, retryMs)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			if cfg.Debug {
				c.Response().Header().Set("X-RateLimit-Key", key)
			}
			return next(c)
		}
	}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := identity(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
