package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/config"
	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/queue"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (p *recordingPublisher) PublishBooking(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type testServer struct {
	e      *echo.Echo
	store  *repository.Store
	events *recordingPublisher
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := repository.NewStore(storage.NewMemory())
	require.NoError(t, store.Initialize(context.Background()))

	cache := middleware.NewResponseCache(config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "test:cache",
	}, rdb)
	events := &recordingPublisher{}
	base := handler.Base{Store: store, Timeout: time.Second}
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 5}

	e := echo.New()
	Register(e, Handlers{
		Auth:     handler.NewAuthHandler(base, cfg),
		Property: handler.NewPropertyHandler(base),
		Booking:  handler.NewBookingHandler(base, events),
		Message:  handler.NewMessageHandler(base),
		Owner:    handler.NewOwnerHandler(base),
		Admin:    handler.NewAdminHandler(base, cache),
	}, testSecret, cache)
	return &testServer{e: e, store: store, events: events, redis: mr}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"`+email+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Access.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type items[T any] struct {
	Items []T `json:"items"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLogin_RegistersWithRoleHint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"new@host.io","role":"owner"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		User model.User `json:"user"`
	}](t, rec)
	assert.Equal(t, model.RoleOwner, resp.User.Role)
	assert.Equal(t, "new", resp.User.Name)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_BlockedGets403(t *testing.T) {
	s := newTestServer(t)
	_, err := s.store.ToggleUserBlocked(context.Background(), "u1")
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"user@demo.com"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Your account has been blocked by the administrator."}`, rec.Body.String())
}

func TestMeAndRefresh(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/v1/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/v1/me", "garbage", "").Code)

	tok := s.login(t, "user@demo.com")
	rec := s.do(t, http.MethodGet, "/v1/me", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", decode[model.User](t, rec).ID)

	_, err := s.store.RenameUser(context.Background(), "u1", "Johnny")
	require.NoError(t, err)
	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		User model.User `json:"user"`
	}](t, rec)
	assert.Equal(t, "Johnny", resp.User.Name)

	_, err = s.store.ToggleUserBlocked(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/v1/auth/refresh", tok, "").Code)
}

func TestPublicListing_ApprovedOnlyAndCached(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/v1/properties?location=hindwadi", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Empty(t, decode[items[model.Property]](t, rec).Items)

	rec = s.do(t, http.MethodGet, "/v1/properties?location=hindwadi", "", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	// approving p2 purges the cache
	admin := s.login(t, "admin@demo.com")
	rec = s.do(t, http.MethodPatch, "/v1/admin/properties/p2", admin, `{"status":"approved"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/properties?location=hindwadi", "", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	got := decode[items[model.Property]](t, rec).Items
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/v1/properties?type=Castle", "", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/v1/properties/p404", "", "").Code)
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	tenant := s.login(t, "user@demo.com")
	owner := s.login(t, "owner@demo.com")
	other := s.login(t, "builder@demo.com")

	// owners cannot request bookings
	rec := s.do(t, http.MethodPost, "/v1/properties/p1/bookings", owner, `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/properties/p1/bookings", tenant, `{"date":"2025-05-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	b := decode[model.Booking](t, rec)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, "o1", b.OwnerID)

	rec = s.do(t, http.MethodGet, "/v1/owner/bookings", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[items[model.Booking]](t, rec).Items, 1)

	rec = s.do(t, http.MethodPatch, "/v1/owner/bookings/"+b.ID, other, `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodPatch, "/v1/owner/bookings/missing", owner, `{"status":"approved"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodPatch, "/v1/owner/bookings/"+b.ID, owner, `{"status":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/v1/owner/bookings/"+b.ID, owner, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingApproved, decode[model.Booking](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/v1/owner/stats", owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.OwnerStats{MyProperties: 8, TotalRequests: 1, ActiveTenants: 1}, decode[model.OwnerStats](t, rec))

	rec = s.do(t, http.MethodGet, "/v1/me/bookings", tenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[items[model.Booking]](t, rec).Items, 1)

	s.events.mu.Lock()
	defer s.events.mu.Unlock()
	require.Len(t, s.events.events, 2)
	assert.Equal(t, queue.KindRequested, s.events.events[0].Kind)
	assert.Equal(t, queue.KindDecided, s.events.events[1].Kind)
	assert.Equal(t, model.BookingApproved, s.events.events[1].Status)
}

func TestOwnerCreatesPendingProperty(t *testing.T) {
	s := newTestServer(t)
	owner := s.login(t, "owner@demo.com")

	rec := s.do(t, http.MethodPost, "/v1/owner/properties", owner,
		`{"title":"Lake View Flat","type":"2BHK","rent":12500,"location":"Camp, Belgaum","amenities":["Lift"," "]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[model.Property](t, rec)
	assert.Equal(t, model.PropertyPending, p.Status)
	assert.Equal(t, []string{"Lift"}, p.Amenities)
	assert.Equal(t, "lake-view-flat", p.Slug)

	for _, body := range []string{
		`{"title":"","type":"2BHK","rent":1}`,
		`{"title":"x","type":"Castle","rent":1}`,
		`{"title":"x","type":"2BHK","rent":0}`,
	} {
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/v1/owner/properties", owner, body).Code, body)
	}

	tenant := s.login(t, "user@demo.com")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/owner/properties", tenant, "").Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@demo.com")

	rec := s.do(t, http.MethodGet, "/v1/admin/stats", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[model.AdminStats](t, rec).PendingProperties)

	rec = s.do(t, http.MethodGet, "/v1/admin/properties/pending", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[items[model.Property]](t, rec).Items, 2)

	rec = s.do(t, http.MethodPatch, "/v1/admin/properties/unknown", admin, `{"status":"approved"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/admin/users?q=builder", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[items[model.User]](t, rec).Items
	require.Len(t, users, 1)
	assert.Equal(t, "o2", users[0].ID)

	rec = s.do(t, http.MethodPost, "/v1/admin/users/o2/block", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.User](t, rec).IsBlocked)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/v1/admin/users/zz/block", admin, "").Code)

	owner := s.login(t, "owner@demo.com")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/admin/stats", owner, "").Code)
}

func TestMessagingAndFavorites(t *testing.T) {
	s := newTestServer(t)
	tenant := s.login(t, "user@demo.com")

	rec := s.do(t, http.MethodPost, "/v1/messages", tenant, `{"receiverId":"o2","text":"  Hi Mike  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	m := decode[model.Message](t, rec)
	assert.Equal(t, "Hi Mike", m.Text)
	assert.Equal(t, "Mike Builder", m.ReceiverName)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/v1/messages", tenant, `{"receiverId":"o2","text":" "}`).Code)

	rec = s.do(t, http.MethodGet, "/v1/conversations", tenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	convs := decode[items[struct {
		UserID string `json:"userId"`
	}]](t, rec).Items
	require.Len(t, convs, 2)
	assert.Equal(t, "o2", convs[0].UserID)
	assert.Equal(t, "o1", convs[1].UserID)

	rec = s.do(t, http.MethodGet, "/v1/conversations/o1", tenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	thread := decode[items[model.Message]](t, rec).Items
	require.Len(t, thread, 2)
	assert.Equal(t, "m1", thread[0].ID)

	rec = s.do(t, http.MethodPost, "/v1/properties/p5/favorite", tenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.User](t, rec).HasFavorite("p5"))
	rec = s.do(t, http.MethodGet, "/v1/me/favorites", tenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	favs := decode[items[model.Property]](t, rec).Items
	require.Len(t, favs, 1)
	assert.Equal(t, "p5", favs[0].ID)
}
