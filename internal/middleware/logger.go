package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/logging"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestLogger writes one structured line per request.  Errors are
// passed to the echo error handler first so the logged status is final.
func RequestLogger() echo.MiddlewareFunc {
	log := logging.With("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			ev := log.Info()
			switch {
			case res.Status >= 500:
				ev = log.Error().Err(err)
			case res.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", time.Since(start)).
				Str("ip", c.RealIP()).
				Msg("request")
			return nil
		}
	}
}
