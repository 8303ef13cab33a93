package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur-booking/internal/repository"
	"github.com/iliyamo/fyyur-booking/internal/schedule"
	"github.com/iliyamo/fyyur-booking/internal/service"
)

var testNow = time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)

func newServer(t *testing.T, dir Directory) *echo.Echo {
	t.Helper()
	h := New(dir)
	e := echo.New()
	e.GET("/healthz", Health(nil))
	g := e.Group("/v1")
	g.GET("/venues", h.ListVenues)
	g.GET("/venues/search", h.SearchVenues)
	g.POST("/venues/search", h.SearchVenues)
	g.POST("/venues", h.CreateVenue)
	g.GET("/venues/:id", h.GetVenue)
	g.GET("/venues/:id/edit", h.EditVenue)
	g.PUT("/venues/:id", h.UpdateVenue)
	g.DELETE("/venues/:id", h.DeleteVenue)
	g.GET("/artists", h.ListArtists)
	g.POST("/artists", h.CreateArtist)
	g.GET("/artists/:id", h.GetArtist)
	g.GET("/artists/:id/edit", h.EditArtist)
	g.PUT("/artists/:id", h.UpdateArtist)
	g.GET("/shows", h.ListShows)
	g.POST("/shows", h.CreateShow)
	return e
}

func newMemoryServer(t *testing.T) *echo.Echo {
	t.Helper()
	dir := service.NewDirectory(repository.NewMemoryStore(), service.WithClock(func() time.Time { return testNow }))
	return newServer(t, dir)
}

func doJSON(t *testing.T, e *echo.Echo, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(bs)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, e *echo.Echo, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	e := newMemoryServer(t)
	rec := doJSON(t, e, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	e.GET("/down", Health(func(context.Context) error { return errors.New("no db") }))
	rec = doJSON(t, e, http.MethodGet, "/down", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVenueLifecycle(t *testing.T) {
	e := newMemoryServer(t)

	rec := doJSON(t, e, http.MethodPost, "/v1/venues", map[string]any{"name": "The Musical Hop", "city": "San Francisco", "state": "CA"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["id"])

	rec = doForm(t, e, http.MethodPost, "/v1/artists", url.Values{"name": {"Guns N Petals"}, "genres": {"Rock n Roll", "Jazz"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "2026-10-15 20:00:00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/v1/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[schedule.VenueDetail](t, rec)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, []string{"Rock n Roll", "Jazz"}, detail.Genres)
	assert.Equal(t, "2026-10-15T20:00:00.000Z", detail.UpcomingShows[0].StartTime)

	rec = doJSON(t, e, http.MethodGet, "/v1/venues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	areas := decode[struct {
		Areas []schedule.CityGroup `json:"areas"`
	}](t, rec)
	require.Len(t, areas.Areas, 1)
	assert.Equal(t, 1, areas.Areas[0].Venues[0].NumUpcomingShows)

	rec = doJSON(t, e, http.MethodPut, "/v1/venues/1", map[string]any{"name": "The Hop"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/v1/venues/1/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Hop", decode[map[string]any](t, rec)["name"])

	rec = doJSON(t, e, http.MethodDelete, "/v1/venues/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["success"])

	rec = doJSON(t, e, http.MethodGet, "/v1/shows", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shows":[]}`, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/v1/venues/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Error)
}

func TestSearchVenues_FormQueryAndJSON(t *testing.T) {
	e := newMemoryServer(t)
	for _, name := range []string{"The Musical Hop", "Park Square Live Music & Coffee"} {
		rec := doJSON(t, e, http.MethodPost, "/v1/venues", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	type result struct {
		SearchTerm string                `json:"search_term"`
		Results    schedule.SearchResult `json:"results"`
	}

	rec := doForm(t, e, http.MethodPost, "/v1/venues/search", url.Values{"search_term": {"hop"}})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[result](t, rec)
	assert.Equal(t, "hop", res.SearchTerm)
	assert.Equal(t, 1, res.Results.Count)

	rec = doJSON(t, e, http.MethodGet, "/v1/venues/search?search_term=Music", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[result](t, rec).Results.Count)

	rec = doJSON(t, e, http.MethodPost, "/v1/venues/search", map[string]string{"search_term": "square"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[result](t, rec).Results.Count)
}

func TestCreateVenue_ValidationError(t *testing.T) {
	e := newMemoryServer(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/venues", map[string]any{"city": "Nowhere", "image_link": "not a url"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "invalid_input", body.Error)
	fields := map[string]string{}
	for _, f := range body.Fields {
		fields[f.Field] = f.Tag
	}
	assert.Equal(t, map[string]string{"name": "required", "image_link": "url"}, fields)
}

func TestUpdateArtist_GenresRoundTrip(t *testing.T) {
	e := newMemoryServer(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/artists", map[string]any{"name": "Matt Quevedo"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, e, http.MethodPut, "/v1/artists/1", map[string]any{"name": "Matt Quevedo", "genres": []string{"Jazz", "Rock"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/v1/artists/1/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Jazz", "Rock"}, decode[map[string]any](t, rec)["genres"])

	rec = doJSON(t, e, http.MethodGet, "/v1/artists", nil)
	assert.JSONEq(t, `{"artists":[{"id":1,"name":"Matt Quevedo"}]}`, rec.Body.String())
}

func TestCreateShow_Errors(t *testing.T) {
	e := newMemoryServer(t)

	rec := doJSON(t, e, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "tomorrow"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "start_time", decode[errorBody](t, rec).Fields[0].Field)

	rec = doJSON(t, e, http.MethodPost, "/v1/shows", map[string]any{"artist_id": 1, "venue_id": 1, "start_time": "2026-10-15T20:00:00Z"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "artist_id", decode[errorBody](t, rec).Fields[0].Field)

	rec = doJSON(t, e, http.MethodPost, "/v1/shows", map[string]any{"venue_id": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[errorBody](t, rec).Fields, 2)
}

func TestInvalidID(t *testing.T) {
	e := newMemoryServer(t)
	for _, target := range []string{"/v1/venues/abc", "/v1/venues/0", "/v1/artists/-1"} {
		rec := doJSON(t, e, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestParseStartTime(t *testing.T) {
	want := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	for _, in := range []string{"2026-10-15T20:00:00Z", "2026-10-15T22:00:00+02:00", "2026-10-15 20:00:00", "2026-10-15 20:00"} {
		got, err := parseStartTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
		assert.Equal(t, time.UTC, got.Location())
	}
	zero, err := parseStartTime("  ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	_, err = parseStartTime("15/10/2026")
	assert.ErrorIs(t, err, errStartTime)
}

type failingDirectory struct {
	Directory
	err error
}

func (f failingDirectory) ListShows(context.Context) ([]schedule.ShowListing, error) {
	return nil, f.err
}

func (f failingDirectory) GetVenueDetail(context.Context, uint64) (schedule.VenueDetail, error) {
	return schedule.VenueDetail{}, f.err
}

func TestWriteError_Internal(t *testing.T) {
	e := newServer(t, failingDirectory{err: fmt.Errorf("show 3: %w", repository.ErrDataIntegrity)})

	rec := doJSON(t, e, http.MethodGet, "/v1/shows", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "internal", body.Error)
	assert.NotContains(t, body.Message, "show 3")

	rec = doJSON(t, e, http.MethodGet, "/v1/venues/3", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTimeDependentPagesAreNotCacheable(t *testing.T) {
	e := newMemoryServer(t)
	rec := doJSON(t, e, http.MethodPost, "/v1/venues", map[string]any{"name": "The Musical Hop"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, e, http.MethodPost, "/v1/artists", map[string]any{"name": "Guns N Petals"})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, target := range []string{"/v1/venues", "/v1/venues/1", "/v1/venues/search?search_term=hop", "/v1/artists/1"} {
		rec := doJSON(t, e, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl), target)
	}
	for _, target := range []string{"/v1/artists", "/v1/shows", "/v1/venues/1/edit"} {
		rec := doJSON(t, e, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Empty(t, rec.Header().Get(echo.HeaderCacheControl), target)
	}
}
