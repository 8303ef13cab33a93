package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fyyur-booking/internal/config"
	"github.com/iliyamo/fyyur-booking/internal/logging"
)

// captureWriter captures response body/status while forwarding to the client.
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
	switch {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case cw.size < cw.limit:
		remain := cw.limit - cw.size
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// truncated reports whether the captured body is incomplete.
func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	method := r.Method
	route := c.Path()
	query := r.URL.RawQuery
	// route templates are shared by every id, the concrete path is not
	path := r.URL.Path

	var parts []string
	switch cfg.KeyStrategy {
	case "route":
		parts = []string{"route", route, "p", path}
	case "method_route":
		parts = []string{"method", method, "route", route, "p", path}
	case "method_route_query":
		parts = []string{"method", method, "route", route, "p", path, "q", query}
	default: // "route_query"
		parts = []string{"route", route, "p", path, "q", query}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
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
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// isWrite reports whether the request may change directory state.
func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// purgePrefix deletes every key under prefix.  POST searches purge too.
func purgePrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return removed, err
			}
			removed += len(keys)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// NewRedisCache caches successful responses of the configured methods,
// storing headers and body so hits are byte-identical to the original.
// Responses marked Cache-Control: no-store are passed through.
// A successful write request purges the whole cache: upcoming and past
// counts appear on several pages.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)
	log := logging.With("cache")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := strings.ToUpper(c.Request().Method)
			if !cfg.Methods[method] {
				err := next(c)
				if err == nil && isWrite(method) && c.Response().Status < http.StatusBadRequest {
					n, perr := purgePrefix(context.Background(), rdb, cfg.Prefix)
					if perr != nil {
						log.Warn().Err(perr).Msg("cache purge failed")
					} else if n > 0 {
						log.Debug().Int("keys", n).Msg("cache purged")
					}
				}
				return err
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if skipOnReplay(k) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() || noStore(c.Response().Header()) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			for k := range hdr {
				if skipOnReplay(k) {
					hdr.Del(k)
				}
			}
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
					log.Warn().Err(err).Msg("cache store failed")
				}
			}
			return nil
		}
	}
}

// skipOnReplay lists headers that belong to the original exchange and
// are never replayed from the cache.
func skipOnReplay(header string) bool {
	return strings.EqualFold(header, echo.HeaderContentLength) ||
		strings.EqualFold(header, echo.HeaderXRequestID) ||
		strings.EqualFold(header, "X-Cache")
}

// noStore reports whether the handler forbade caching.  Pages whose
// contents depend on the current time set it.
func noStore(h http.Header) bool {
	return strings.Contains(strings.ToLower(h.Get(echo.HeaderCacheControl)), "no-store")
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}
