// Package handler exposes the booking directory over JSON HTTP endpoints.
// Handlers parse the request, call the directory and map its errors to
// status codes; they hold no state of their own.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/logging"
	"github.com/iliyamo/fyyur-booking/internal/model"
	"github.com/iliyamo/fyyur-booking/internal/repository"
	"github.com/iliyamo/fyyur-booking/internal/schedule"
	"github.com/iliyamo/fyyur-booking/internal/service"
)

// Directory is the set of operations the handlers call.  *service.Directory
// implements it.
type Directory interface {
	ListVenuesByCity(ctx context.Context) ([]schedule.CityGroup, error)
	SearchVenues(ctx context.Context, term string) (schedule.SearchResult, error)
	GetVenueDetail(ctx context.Context, id uint64) (schedule.VenueDetail, error)
	GetVenue(ctx context.Context, id uint64) (*model.Venue, error)
	CreateVenue(ctx context.Context, in service.VenueInput) (uint64, error)
	UpdateVenue(ctx context.Context, id uint64, in service.VenueInput) error
	DeleteVenue(ctx context.Context, id uint64) error

	ListArtists(ctx context.Context) ([]service.NamedRef, error)
	SearchArtists(ctx context.Context, term string) (schedule.SearchResult, error)
	GetArtistDetail(ctx context.Context, id uint64) (schedule.ArtistDetail, error)
	GetArtist(ctx context.Context, id uint64) (*model.Artist, error)
	CreateArtist(ctx context.Context, in service.ArtistInput) (uint64, error)
	UpdateArtist(ctx context.Context, id uint64, in service.ArtistInput) error
	DeleteArtist(ctx context.Context, id uint64) error

	ListShows(ctx context.Context) ([]schedule.ShowListing, error)
	CreateShow(ctx context.Context, in service.ShowInput) (uint64, error)
}

// Handler serves the venue, artist and show endpoints.
type Handler struct {
	dir Directory
}

// New constructs a Handler and panics if dir is nil.
func New(dir Directory) *Handler {
	if dir == nil {
		panic("nil directory passed to handler.New")
	}
	return &Handler{dir: dir}
}

// errorBody is the shape of every error response.
type errorBody struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Fields  []service.FieldError `json:"fields,omitempty"`
}

// writeError maps directory errors to status codes: constraint violations
// are 400, missing records 404 and anything else 500.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_input", Message: "validation failed", Fields: ve.Fields})
	case errors.Is(err, repository.ErrConstraintViolation):
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_input", Message: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, context.Canceled):
		return err
	default:
		logging.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid_input", Message: msg})
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// searchTerm reads search_term from a JSON body, a form body or the query
// string.
func searchTerm(c echo.Context) (string, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body struct {
			SearchTerm string `json:"search_term"`
		}
		if err := c.Bind(&body); err != nil {
			return "", err
		}
		return strings.TrimSpace(body.SearchTerm), nil
	}
	return strings.TrimSpace(c.FormValue("search_term")), nil
}

// noStore marks the response as depending on the current time.  Past and
// upcoming shows are classified per request, so these pages must not be
// served from the response cache.
func noStore(c echo.Context) {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}

func created(c echo.Context, id uint64) error {
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

func success(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
