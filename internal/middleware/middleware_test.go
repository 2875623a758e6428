package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/utils"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/owner", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(CtxUserID).(string))
	}, JWTAuth("s3cret"), RequireRole(model.RoleOwner))

	owner, err := utils.NewAccessToken("s3cret", model.User{ID: "o1", Role: model.RoleOwner}, 5)
	require.NoError(t, err)
	tenant, err := utils.NewAccessToken("s3cret", model.User{ID: "u1", Role: model.RoleUser}, 5)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("other", model.User{ID: "o1", Role: model.RoleOwner}, 5)
	require.NoError(t, err)

	rec := serve(e, http.MethodGet, "/owner", owner.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "o1", rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/owner", tenant.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/owner", forged.Token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/owner", "").Code)
}

func TestJWTAuth_RejectsExpiredAndSubjectless(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, JWTAuth("k"))

	expired, err := utils.NewAccessToken("k", model.User{ID: "u1", Role: model.RoleUser}, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/", expired.Token).Code)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/", noSub).Code)
}

func TestTokenBucket_Limits(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "").Code)
	rec := serve(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = serve(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucket_DisabledPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/", "").Code)
	}
}

func TestResponseCache_HitMissPurge(t *testing.T) {
	mr, rdb := newRedis(t)
	rc := NewResponseCache(config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{"GET": true},
		TTL:     time.Minute,
		Prefix:  "test:cache",
	}, rdb)

	calls := 0
	e := echo.New()
	e.GET("/items/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, rc.Middleware())
	e.GET("/missing", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}, rc.Middleware())

	first := serve(e, http.MethodGet, "/items/1", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := serve(e, http.MethodGet, "/items/1", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))

	// path parameters are part of the key
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/items/2", "").Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	// errors are not cached
	serve(e, http.MethodGet, "/missing", "")
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/missing", "").Header().Get("X-Cache"))

	rc.Purge(context.Background())
	assert.Empty(t, mr.Keys())
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/items/1", "").Header().Get("X-Cache"))
}
