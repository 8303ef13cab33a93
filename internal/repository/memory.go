package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

var errReadOnly = errors.New("write attempted in read-only transaction")

// memoryState is one consistent copy of every table.
type memoryState struct {
	venues     map[uint64]model.Venue
	artists    map[uint64]model.Artist
	shows      map[uint64]model.Show
	nextVenue  uint64
	nextArtist uint64
	nextShow   uint64
}

func newMemoryState() memoryState {
	return memoryState{
		venues:  map[uint64]model.Venue{},
		artists: map[uint64]model.Artist{},
		shows:   map[uint64]model.Show{},
	}
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		venues:     make(map[uint64]model.Venue, len(s.venues)),
		artists:    make(map[uint64]model.Artist, len(s.artists)),
		shows:      make(map[uint64]model.Show, len(s.shows)),
		nextVenue:  s.nextVenue,
		nextArtist: s.nextArtist,
		nextShow:   s.nextShow,
	}
	for k, v := range s.venues {
		c.venues[k] = v
	}
	for k, v := range s.artists {
		c.artists[k] = cloneArtist(v)
	}
	for k, v := range s.shows {
		c.shows[k] = v
	}
	return c
}

func cloneArtist(a model.Artist) model.Artist {
	a.Genres = append([]string{}, a.Genres...)
	return a
}

// MemoryStore is a process-local store with the same transactional
// semantics as Store.  Update works on a private copy of the state which
// replaces the shared state only when the callback succeeds.  It backs
// STORE_DRIVER=memory and the service tests.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
}

// NewMemoryStore returns an empty store.  Ids start at 1 for each entity.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

// View runs fn against the current state.  Writes fail.
func (m *MemoryStore) View(ctx context.Context, fn func(Repos) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(memRepos{st: &m.state, readOnly: true})
}

// Update runs fn against a copy of the state and publishes the copy only
// if fn returns nil.
func (m *MemoryStore) Update(ctx context.Context, fn func(Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(memRepos{st: &work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

type memRepos struct {
	st       *memoryState
	readOnly bool
}

func (r memRepos) Venues() VenueRepository   { return memVenues(r) }
func (r memRepos) Artists() ArtistRepository { return memArtists(r) }
func (r memRepos) Shows() ShowRepository     { return memShows(r) }

type memVenues memRepos

func (r memVenues) Create(_ context.Context, v *model.Venue) error {
	if r.readOnly {
		return errReadOnly
	}
	r.st.nextVenue++
	v.ID = r.st.nextVenue
	r.st.venues[v.ID] = *v
	return nil
}

func (r memVenues) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	v, ok := r.st.venues[id]
	if !ok {
		return nil, fmt.Errorf("venue %d: %w", id, ErrNotFound)
	}
	return &v, nil
}

func (r memVenues) ListAll(ctx context.Context) ([]model.Venue, error) {
	return r.SearchByName(ctx, "")
}

func (r memVenues) SearchByName(_ context.Context, term string) ([]model.Venue, error) {
	term = strings.ToLower(term)
	out := []model.Venue{}
	for _, v := range r.st.venues {
		if strings.Contains(strings.ToLower(v.Name), term) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memVenues) Update(_ context.Context, v *model.Venue) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.venues[v.ID]; !ok {
		return fmt.Errorf("venue %d: %w", v.ID, ErrNotFound)
	}
	r.st.venues[v.ID] = *v
	return nil
}

func (r memVenues) DeleteCascading(_ context.Context, id uint64) (int64, error) {
	if r.readOnly {
		return 0, errReadOnly
	}
	if _, ok := r.st.venues[id]; !ok {
		return 0, fmt.Errorf("venue %d: %w", id, ErrNotFound)
	}
	var removed int64
	for sid, s := range r.st.shows {
		if s.VenueID == id {
			delete(r.st.shows, sid)
			removed++
		}
	}
	delete(r.st.venues, id)
	return removed, nil
}

type memArtists memRepos

func (r memArtists) Create(_ context.Context, a *model.Artist) error {
	if r.readOnly {
		return errReadOnly
	}
	r.st.nextArtist++
	a.ID = r.st.nextArtist
	r.st.artists[a.ID] = normalizeArtist(*a)
	return nil
}

func (r memArtists) GetByID(_ context.Context, id uint64) (*model.Artist, error) {
	a, ok := r.st.artists[id]
	if !ok {
		return nil, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	a = cloneArtist(a)
	return &a, nil
}

func (r memArtists) ListAll(ctx context.Context) ([]model.Artist, error) {
	return r.SearchByName(ctx, "")
}

func (r memArtists) SearchByName(_ context.Context, term string) ([]model.Artist, error) {
	term = strings.ToLower(term)
	out := []model.Artist{}
	for _, a := range r.st.artists {
		if strings.Contains(strings.ToLower(a.Name), term) {
			out = append(out, cloneArtist(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memArtists) Update(_ context.Context, a *model.Artist) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.artists[a.ID]; !ok {
		return fmt.Errorf("artist %d: %w", a.ID, ErrNotFound)
	}
	r.st.artists[a.ID] = normalizeArtist(*a)
	return nil
}

func (r memArtists) DeleteCascading(_ context.Context, id uint64) (int64, error) {
	if r.readOnly {
		return 0, errReadOnly
	}
	if _, ok := r.st.artists[id]; !ok {
		return 0, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	var removed int64
	for sid, s := range r.st.shows {
		if s.ArtistID == id {
			delete(r.st.shows, sid)
			removed++
		}
	}
	delete(r.st.artists, id)
	return removed, nil
}

// normalizeArtist stores genres the way a round trip through the genres
// column would return them.
func normalizeArtist(a model.Artist) model.Artist {
	a.Genres = model.DecodeGenres(model.EncodeGenres(a.Genres))
	return a
}

type memShows memRepos

func (r memShows) Create(_ context.Context, s *model.Show) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.artists[s.ArtistID]; !ok {
		return fmt.Errorf("%w: artist %d does not exist", ErrConstraintViolation, s.ArtistID)
	}
	if _, ok := r.st.venues[s.VenueID]; !ok {
		return fmt.Errorf("%w: venue %d does not exist", ErrConstraintViolation, s.VenueID)
	}
	r.st.nextShow++
	s.ID = r.st.nextShow
	s.StartTime = s.StartTime.UTC()
	r.st.shows[s.ID] = *s
	return nil
}

func (r memShows) GetByID(_ context.Context, id uint64) (*model.Show, error) {
	s, ok := r.st.shows[id]
	if !ok {
		return nil, fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return &s, nil
}

func (r memShows) ListAll(_ context.Context) ([]model.Show, error) {
	out := r.filter(func(model.Show) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memShows) ListByVenue(_ context.Context, venueID uint64) ([]model.Show, error) {
	out := r.filter(func(s model.Show) bool { return s.VenueID == venueID })
	sortByStart(out)
	return out, nil
}

func (r memShows) ListByArtist(_ context.Context, artistID uint64) ([]model.Show, error) {
	out := r.filter(func(s model.Show) bool { return s.ArtistID == artistID })
	sortByStart(out)
	return out, nil
}

func (r memShows) filter(keep func(model.Show) bool) []model.Show {
	out := []model.Show{}
	for _, s := range r.st.shows {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func sortByStart(shows []model.Show) {
	sort.Slice(shows, func(i, j int) bool {
		if !shows[i].StartTime.Equal(shows[j].StartTime) {
			return shows[i].StartTime.Before(shows[j].StartTime)
		}
		return shows[i].ID < shows[j].ID
	})
}
