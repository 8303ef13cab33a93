package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur-booking/internal/service"
)

// ListArtists returns the id and name of every artist.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := h.dir.ListArtists(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"artists": artists})
}

// SearchArtists handles GET ?search_term= and POST with a form or JSON body.
func (h *Handler) SearchArtists(c echo.Context) error {
	term, err := searchTerm(c)
	if err != nil {
		return badRequest(c, "invalid search request")
	}
	res, err := h.dir.SearchArtists(c.Request().Context(), term)
	if err != nil {
		return writeError(c, err)
	}
	noStore(c)
	return c.JSON(http.StatusOK, echo.Map{"search_term": term, "results": res})
}

// GetArtist returns the artist page with its past and upcoming shows.
func (h *Handler) GetArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	detail, err := h.dir.GetArtistDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	noStore(c)
	return c.JSON(http.StatusOK, detail)
}

// EditArtist returns the stored artist for prefilling an edit form.
func (h *Handler) EditArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	v, err := h.dir.GetArtist(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateArtist validates the body and inserts an artist; it answers 201 with the new id.
func (h *Handler) CreateArtist(c echo.Context) error {
	var in service.ArtistInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	id, err := h.dir.CreateArtist(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, id)
}

// UpdateArtist replaces every field of the artist, genres included.
func (h *Handler) UpdateArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in service.ArtistInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.dir.UpdateArtist(c.Request().Context(), id, in); err != nil {
		return writeError(c, err)
	}
	return success(c)
}

// DeleteArtist removes the artist together with its shows.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.dir.DeleteArtist(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return success(c)
}
