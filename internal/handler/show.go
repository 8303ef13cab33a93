package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/service"
)

// startTimeLayouts are tried in order.  Times without a zone are UTC.
var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

var errStartTime = errors.New("start_time must be RFC 3339 or YYYY-MM-DD HH:MM:SS")

// showRequest is the wire form of a new show.
type showRequest struct {
	ArtistID  uint64 `json:"artist_id" form:"artist_id"`
	VenueID   uint64 `json:"venue_id" form:"venue_id"`
	StartTime string `json:"start_time" form:"start_time"`
}

// parseStartTime accepts the supported layouts.  An empty value yields
// the zero time so that validation reports the field as required.
func parseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errStartTime
}

// ListShows returns every show with its venue and artist names.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.dir.ListShows(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// CreateShow books an artist at a venue.
func (h *Handler) CreateShow(c echo.Context) error {
	var req showRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	start, err := parseStartTime(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Error:   "invalid_input",
			Message: "validation failed",
			Fields:  []service.FieldError{{Field: "start_time", Tag: "datetime", Message: err.Error()}},
		})
	}
	id, err := h.dir.CreateShow(c.Request().Context(), service.ShowInput{
		ArtistID:  req.ArtistID,
		VenueID:   req.VenueID,
		StartTime: start,
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}
