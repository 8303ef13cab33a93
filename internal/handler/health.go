package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports whether the service is up.  When ping is non-nil it must
// succeed within two seconds, otherwise the endpoint answers 503.
func Health(ping func(context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, errorBody{Error: "unavailable", Message: "store unreachable"})
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
