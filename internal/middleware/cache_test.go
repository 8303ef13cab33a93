package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur-booking/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

type cachedServer struct {
	e     *echo.Echo
	calls map[string]int
}

func newCachedServer(t *testing.T, cfg config.CacheConfig, rdb *redis.Client) *cachedServer {
	t.Helper()
	s := &cachedServer{e: echo.New(), calls: map[string]int{}}
	s.e.Use(RequestID())
	g := s.e.Group("/v1", NewRedisCache(cfg, rdb))
	g.GET("/shows", func(c echo.Context) error {
		s.calls["shows"]++
		return c.JSON(http.StatusOK, echo.Map{"shows": []string{}})
	})
	g.GET("/venues/:id", func(c echo.Context) error {
		s.calls["venue"]++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
	})
	g.GET("/venues", func(c echo.Context) error {
		s.calls["venues"]++
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
		return c.JSON(http.StatusOK, echo.Map{"areas": []string{}})
	})
	g.GET("/artists", func(c echo.Context) error {
		s.calls["artists"]++
		return c.String(http.StatusOK, strings.Repeat("a", 64))
	})
	g.POST("/shows", func(c echo.Context) error {
		if c.QueryParam("fail") != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_input"})
		}
		return c.JSON(http.StatusCreated, echo.Map{"id": 1})
	})
	return s
}

func (s *cachedServer) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache_MissThenHit(t *testing.T) {
	mr, rdb := newRedis(t)
	s := newCachedServer(t, cacheConfig(), rdb)

	first := s.do(http.MethodGet, "/v1/shows")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)

	second := s.do(http.MethodGet, "/v1/shows")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, s.calls["shows"])

	ids := second.Header().Values(echo.HeaderXRequestID)
	require.Len(t, ids, 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), ids[0])
}

func TestRedisCache_PurgeAfterSuccessfulWrite(t *testing.T) {
	mr, rdb := newRedis(t)
	s := newCachedServer(t, cacheConfig(), rdb)

	s.do(http.MethodGet, "/v1/shows")
	require.Len(t, mr.Keys(), 1)

	rec := s.do(http.MethodPost, "/v1/shows?fail=1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, mr.Keys(), 1)

	rec = s.do(http.MethodPost, "/v1/shows")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, mr.Keys())

	rec = s.do(http.MethodGet, "/v1/shows")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, s.calls["shows"])
}

func TestRedisCache_SkipsErrorsNoStoreAndTruncatedBodies(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 16
	s := newCachedServer(t, cfg, rdb)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/venues/9").Code)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/v1/venues").Code)
		rec := s.do(http.MethodGet, "/v1/artists")
		assert.Equal(t, strings.Repeat("a", 64), rec.Body.String())
	}

	assert.Empty(t, mr.Keys())
	assert.Equal(t, 2, s.calls["venue"])
	assert.Equal(t, 2, s.calls["venues"])
	assert.Equal(t, 2, s.calls["artists"])
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	mr, rdb := newRedis(t)
	s := newCachedServer(t, cacheConfig(), rdb)

	s.do(http.MethodGet, "/v1/shows")
	mr.FastForward(2 * time.Minute)

	rec := s.do(http.MethodGet, "/v1/shows")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, s.calls["shows"])
}
