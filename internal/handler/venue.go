package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/service"
)

// ListVenues returns venues grouped by city and state.
func (h *Handler) ListVenues(c echo.Context) error {
	groups, err := h.dir.ListVenuesByCity(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	noStore(c)
	return c.JSON(http.StatusOK, echo.Map{"areas": groups})
}

// SearchVenues handles GET ?search_term= and POST with a form or JSON body.
func (h *Handler) SearchVenues(c echo.Context) error {
	term, err := searchTerm(c)
	if err != nil {
		return badRequest(c, "invalid search request")
	}
	res, err := h.dir.SearchVenues(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	noStore(c)
	return c.JSON(http.StatusOK, echo.Map{"search_term": term, "results": res})
}

// GetVenue returns the venue page with its past and upcoming shows.
func (h *Handler) GetVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	detail, err := h.dir.GetVenueDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	noStore(c)
	return c.JSON(http.StatusOK, detail)
}

// EditVenue returns the stored venue for prefilling an edit form.
func (h *Handler) EditVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	v, err := h.dir.GetVenue(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateVenue validates the body and inserts a venue; it answers 201 with the new id.
func (h *Handler) CreateVenue(c echo.Context) error {
	var in service.VenueInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.dir.CreateVenue(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}

// UpdateVenue replaces every field of the venue.
func (h *Handler) UpdateVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in service.VenueInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.dir.UpdateVenue(c.Request().Context(), id, in); err != nil {
		return writeError(c, err)
	}
	return success(c)
}

// DeleteVenue removes the venue together with its shows.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.dir.DeleteVenue(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return success(c)
}
