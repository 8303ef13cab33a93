package router

import (
	"context"
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

	"github.com/iliyamo/fyyur-booking/internal/config"
	"github.com/iliyamo/fyyur-booking/internal/handler"
	"github.com/iliyamo/fyyur-booking/internal/middleware"
	"github.com/iliyamo/fyyur-booking/internal/repository"
	"github.com/iliyamo/fyyur-booking/internal/service"
)

func TestRegisterDirectory_Routes(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterDirectory(e, handler.New(service.NewDirectory(repository.NewMemoryStore())))

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /v1/venues", "POST /v1/venues", "GET /v1/venues/search", "POST /v1/venues/search",
		"GET /v1/venues/:id", "PUT /v1/venues/:id", "DELETE /v1/venues/:id", "POST /v1/venues/:id/edit",
		"GET /v1/artists", "POST /v1/artists", "GET /v1/artists/:id/edit", "DELETE /v1/artists/:id",
		"GET /v1/shows", "POST /v1/shows",
	} {
		assert.True(t, got[want], want)
	}
}

func TestRegisterDirectory_AppliesMiddleware(t *testing.T) {
	e := echo.New()
	calls := 0
	count := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { calls++; return next(c) }
	}
	RegisterDirectory(e, handler.New(service.NewDirectory(repository.NewMemoryStore())), count)

	req := httptest.NewRequest(http.MethodPost, "/v1/venues/1/edit", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestCachedDirectory_ClassifiesAtReadTime(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var mu sync.Mutex
	now := time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }
	dir := service.NewDirectory(repository.NewMemoryStore(), service.WithClock(clock))

	e := echo.New()
	cache := config.CacheConfig{
		Enabled: true, Methods: map[string]bool{http.MethodGet: true},
		TTL: time.Hour, KeyStrategy: "route_query", Prefix: "cache", MaxBodyBytes: 1 << 20,
	}
	RegisterDirectory(e, handler.New(dir), middleware.NewRedisCache(cache, rdb))

	ctx := context.Background()
	venueID, err := dir.CreateVenue(ctx, service.VenueInput{Name: "The Musical Hop"})
	require.NoError(t, err)
	artistID, err := dir.CreateArtist(ctx, service.ArtistInput{Name: "Guns N Petals"})
	require.NoError(t, err)
	_, err = dir.CreateShow(ctx, service.ShowInput{ArtistID: artistID, VenueID: venueID, StartTime: now.Add(5 * time.Second)})
	require.NoError(t, err)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code, target)
		return rec
	}

	rec := get("/v1/venues/1")
	assert.Contains(t, rec.Body.String(), `"upcoming_shows_count":1`)
	get("/v1/venues")
	get("/v1/artists/1")

	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	rec = get("/v1/venues/1")
	assert.NotEqual(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"past_shows_count":1`)
	assert.Contains(t, rec.Body.String(), `"upcoming_shows_count":0`)

	rec = get("/v1/venues")
	assert.Contains(t, rec.Body.String(), `"num_upcoming_shows":0`)
	rec = get("/v1/artists/1")
	assert.Contains(t, rec.Body.String(), `"past_shows_count":1`)

	rec = get("/v1/shows")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = get("/v1/shows")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}
