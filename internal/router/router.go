// Package router defines how HTTP routes are registered for the API.
package router

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/handler"
)

// RegisterRoutes registers routes outside the /v1 API.  ping, when set,
// backs the health check.
func RegisterRoutes(e *echo.Echo, ping func(context.Context) error) {
	e.GET("/healthz", handler.Health(ping))
}

// RegisterDirectory mounts the venue, artist and show endpoints under /v1.
// mw wraps every route in the group, typically the rate limiter followed
// by the response cache.
func RegisterDirectory(e *echo.Echo, h *handler.Handler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	// ---- Venues ----
	g.GET("/venues", h.ListVenues)
	g.GET("/venues/search", h.SearchVenues)
	g.POST("/venues/search", h.SearchVenues)
	g.POST("/venues", h.CreateVenue)
	g.GET("/venues/:id", h.GetVenue)
	g.GET("/venues/:id/edit", h.EditVenue)
	g.PUT("/venues/:id", h.UpdateVenue)
	g.POST("/venues/:id", h.UpdateVenue)
	g.POST("/venues/:id/edit", h.UpdateVenue)
	g.DELETE("/venues/:id", h.DeleteVenue)

	// ---- Artists ----
	g.GET("/artists", h.ListArtists)
	g.GET("/artists/search", h.SearchArtists)
	g.POST("/artists/search", h.SearchArtists)
	g.POST("/artists", h.CreateArtist)
	g.GET("/artists/:id", h.GetArtist)
	g.GET("/artists/:id/edit", h.EditArtist)
	g.PUT("/artists/:id", h.UpdateArtist)
	g.POST("/artists/:id", h.UpdateArtist)
	g.POST("/artists/:id/edit", h.UpdateArtist)
	g.DELETE("/artists/:id", h.DeleteArtist)

	// ---- Shows ----
	g.GET("/shows", h.ListShows)
	g.POST("/shows", h.CreateShow)
}
