package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-marketplace/internal/config"
)

// captureWriter forwards the response to the client and keeps a copy of
// up to limit bytes of the body.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// ResponseCache stores successful GET responses of the public listing
// routes in redis.  Writes that change what those routes return call
// Purge; otherwise entries age out after the configured TTL.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewResponseCache returns a cache that is a pass-through when disabled
// or when rdb is nil.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Second
	}
	return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// cacheKey hashes the parts of the request selected by the key strategy.
func (rc *ResponseCache) cacheKey(c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(rc.cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // "route_query"
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	// a path parameter such as a property id is part of the identity
	for _, n := range c.ParamNames() {
		parts = append(parts, n, c.Param(n))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// Middleware serves hits from redis and records 200 responses on a miss.
// Hits carry X-Cache: HIT, misses X-Cache: MISS.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	maxBody := int64(rc.cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rc.cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := rc.cacheKey(c)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rc.rdb.SetEx(context.Background(), key, payload, rc.cfg.TTL).Err(); err != nil {
				log.Printf("cache: store %s: %v", key, err)
			}
			return nil
		}
	}
}

// Purge drops every cached response under the configured prefix.
func (rc *ResponseCache) Purge(ctx context.Context) {
	if !rc.enabled() {
		return
	}
	iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: purge scan: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := rc.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: purge: %v", err)
	}
}
