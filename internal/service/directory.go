// Package service implements the directory operations consumed by the
// transport layer.  Every operation runs in exactly one store transaction:
// reads in a read-only snapshot evaluated against a single `now`, writes in
// a read-write transaction that is rolled back on any failure.  Activity
// events are published only after a write commits.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/fyyur-booking/internal/logging"
	"github.com/iliyamo/fyyur-booking/internal/model"
	"github.com/iliyamo/fyyur-booking/internal/queue"
	"github.com/iliyamo/fyyur-booking/internal/repository"
	"github.com/iliyamo/fyyur-booking/internal/schedule"
)

// Store runs a callback inside a transaction.  repository.Store and
// repository.MemoryStore implement it.
type Store interface {
	View(ctx context.Context, fn func(repository.Repos) error) error
	Update(ctx context.Context, fn func(repository.Repos) error) error
}

// Publisher receives activity events after a successful write.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// Option configures a Directory.
type Option func(*Directory)

// WithClock replaces time.Now as the evaluation instant source.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithPublisher enables activity events.
func WithPublisher(p Publisher) Option {
	return func(d *Directory) { d.events = p }
}

// Directory is the venue/artist/show booking directory.
type Directory struct {
	store  Store
	events Publisher
	now    func() time.Time
}

// NewDirectory builds a Directory on top of store.
func NewDirectory(store Store, opts ...Option) *Directory {
	if store == nil {
		panic("nil store passed to NewDirectory")
	}
	d := &Directory{store: store, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NamedRef is an id and a display name.
type NamedRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListVenuesByCity groups all venues by (city, state).
func (d *Directory) ListVenuesByCity(ctx context.Context) ([]schedule.CityGroup, error) {
	var out []schedule.CityGroup
	err := d.store.View(ctx, func(r repository.Repos) error {
		venues, err := r.Venues().ListAll(ctx)
		if err != nil {
			return err
		}
		shows, err := r.Shows().ListAll(ctx)
		if err != nil {
			return err
		}
		out = schedule.GroupByCity(venues, schedule.UpcomingByVenue(shows, d.now()))
		return nil
	})
	return out, err
}

// SearchVenues finds venues whose name contains term, ignoring case.
func (d *Directory) SearchVenues(ctx context.Context, term string) (schedule.SearchResult, error) {
	var out schedule.SearchResult
	err := d.store.View(ctx, func(r repository.Repos) error {
		venues, err := r.Venues().SearchByName(ctx, strings.TrimSpace(term))
		if err != nil {
			return err
		}
		shows, err := r.Shows().ListAll(ctx)
		if err != nil {
			return err
		}
		upcoming := schedule.UpcomingByVenue(shows, d.now())
		data := make([]schedule.Summary, 0, len(venues))
		for _, v := range venues {
			data = append(data, schedule.Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
		}
		out = schedule.NewSearchResult(data)
		return nil
	})
	return out, err
}

// SearchArtists finds artists whose name contains term, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (schedule.SearchResult, error) {
	var out schedule.SearchResult
	err := d.store.View(ctx, func(r repository.Repos) error {
		artists, err := r.Artists().SearchByName(ctx, strings.TrimSpace(term))
		if err != nil {
			return err
		}
		shows, err := r.Shows().ListAll(ctx)
		if err != nil {
			return err
		}
		upcoming := schedule.UpcomingByArtist(shows, d.now())
		data := make([]schedule.Summary, 0, len(artists))
		for _, a := range artists {
			data = append(data, schedule.Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: upcoming[a.ID]})
		}
		out = schedule.NewSearchResult(data)
		return nil
	})
	return out, err
}

// ListArtists returns every artist's id and name ordered by id.
func (d *Directory) ListArtists(ctx context.Context) ([]NamedRef, error) {
	var out []NamedRef
	err := d.store.View(ctx, func(r repository.Repos) error {
		artists, err := r.Artists().ListAll(ctx)
		if err != nil {
			return err
		}
		out = make([]NamedRef, 0, len(artists))
		for _, a := range artists {
			out = append(out, NamedRef{ID: a.ID, Name: a.Name})
		}
		return nil
	})
	return out, err
}

// GetVenueDetail returns the venue page or an error wrapping
// repository.ErrNotFound.
func (d *Directory) GetVenueDetail(ctx context.Context, id uint64) (schedule.VenueDetail, error) {
	var out schedule.VenueDetail
	err := d.store.View(ctx, func(r repository.Repos) error {
		v, err := r.Venues().GetByID(ctx, id)
		if err != nil {
			return err
		}
		shows, err := r.Shows().ListByVenue(ctx, id)
		if err != nil {
			return err
		}
		artists, err := loadArtists(ctx, r.Artists(), shows)
		if err != nil {
			return err
		}
		out, err = schedule.BuildVenueDetail(*v, shows, artists, d.now())
		return err
	})
	return out, err
}

// GetArtistDetail returns the artist page or an error wrapping
// repository.ErrNotFound.
func (d *Directory) GetArtistDetail(ctx context.Context, id uint64) (schedule.ArtistDetail, error) {
	var out schedule.ArtistDetail
	err := d.store.View(ctx, func(r repository.Repos) error {
		a, err := r.Artists().GetByID(ctx, id)
		if err != nil {
			return err
		}
		shows, err := r.Shows().ListByArtist(ctx, id)
		if err != nil {
			return err
		}
		venues, err := loadVenues(ctx, r.Venues(), shows)
		if err != nil {
			return err
		}
		out, err = schedule.BuildArtistDetail(*a, shows, venues, d.now())
		return err
	})
	return out, err
}

// GetVenue returns the stored venue, e.g. to prefill an edit form.
func (d *Directory) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	var out *model.Venue
	err := d.store.View(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Venues().GetByID(ctx, id)
		return err
	})
	return out, err
}

// GetArtist returns the stored artist with decoded genres.
func (d *Directory) GetArtist(ctx context.Context, id uint64) (*model.Artist, error) {
	var out *model.Artist
	err := d.store.View(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Artists().GetByID(ctx, id)
		return err
	})
	return out, err
}

// ListShows lists every show with its venue and artist names, ordered by
// show id.
func (d *Directory) ListShows(ctx context.Context) ([]schedule.ShowListing, error) {
	var out []schedule.ShowListing
	err := d.store.View(ctx, func(r repository.Repos) error {
		shows, err := r.Shows().ListAll(ctx)
		if err != nil {
			return err
		}
		venues, err := r.Venues().ListAll(ctx)
		if err != nil {
			return err
		}
		artists, err := r.Artists().ListAll(ctx)
		if err != nil {
			return err
		}
		vm := make(map[uint64]model.Venue, len(venues))
		for _, v := range venues {
			vm[v.ID] = v
		}
		am := make(map[uint64]model.Artist, len(artists))
		for _, a := range artists {
			am[a.ID] = a
		}
		out, err = schedule.BuildShowListings(shows, vm, am)
		return err
	})
	return out, err
}

// CreateVenue validates in and inserts a venue, returning its id.
func (d *Directory) CreateVenue(ctx context.Context, in VenueInput) (uint64, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return 0, err
	}
	v := in.venue(0)
	if err := d.store.Update(ctx, func(r repository.Repos) error {
		return r.Venues().Create(ctx, v)
	}); err != nil {
		return 0, err
	}
	ev := queue.NewActivityEvent(queue.VenueCreated, v.ID, d.now())
	ev.Name = v.Name
	d.publish(ctx, ev)
	return v.ID, nil
}

// UpdateVenue overwrites every mutable field of venue id.
func (d *Directory) UpdateVenue(ctx context.Context, id uint64, in VenueInput) error {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return err
	}
	v := in.venue(id)
	if err := d.store.Update(ctx, func(r repository.Repos) error {
		return r.Venues().Update(ctx, v)
	}); err != nil {
		return err
	}
	ev := queue.NewActivityEvent(queue.VenueUpdated, id, d.now())
	ev.Name = v.Name
	d.publish(ctx, ev)
	return nil
}

// DeleteVenue removes a venue and all of its shows atomically.
func (d *Directory) DeleteVenue(ctx context.Context, id uint64) error {
	var (
		name    string
		removed int64
	)
	err := d.store.Update(ctx, func(r repository.Repos) error {
		v, err := r.Venues().GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = v.Name
		removed, err = r.Venues().DeleteCascading(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	ev := queue.NewActivityEvent(queue.VenueDeleted, id, d.now())
	ev.Name, ev.RemovedShows = name, removed
	d.publish(ctx, ev)
	return nil
}

// CreateArtist validates in and inserts an artist, returning its id.
func (d *Directory) CreateArtist(ctx context.Context, in ArtistInput) (uint64, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return 0, err
	}
	a := in.artist(0)
	if err := d.store.Update(ctx, func(r repository.Repos) error {
		return r.Artists().Create(ctx, a)
	}); err != nil {
		return 0, err
	}
	ev := queue.NewActivityEvent(queue.ArtistCreated, a.ID, d.now())
	ev.Name = a.Name
	d.publish(ctx, ev)
	return a.ID, nil
}

// UpdateArtist overwrites every mutable field of artist id, genres included.
func (d *Directory) UpdateArtist(ctx context.Context, id uint64, in ArtistInput) error {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return err
	}
	a := in.artist(id)
	if err := d.store.Update(ctx, func(r repository.Repos) error {
		return r.Artists().Update(ctx, a)
	}); err != nil {
		return err
	}
	ev := queue.NewActivityEvent(queue.ArtistUpdated, id, d.now())
	ev.Name = a.Name
	d.publish(ctx, ev)
	return nil
}

// DeleteArtist removes an artist and all of its shows atomically.
func (d *Directory) DeleteArtist(ctx context.Context, id uint64) error {
	var (
		name    string
		removed int64
	)
	err := d.store.Update(ctx, func(r repository.Repos) error {
		a, err := r.Artists().GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = a.Name
		removed, err = r.Artists().DeleteCascading(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	ev := queue.NewActivityEvent(queue.ArtistDeleted, id, d.now())
	ev.Name, ev.RemovedShows = name, removed
	d.publish(ctx, ev)
	return nil
}

// CreateShow books an artist at a venue.  Unknown artist or venue ids are
// reported as repository.ErrConstraintViolation.  The start time is
// truncated to the millisecond precision of the shows table.
func (d *Directory) CreateShow(ctx context.Context, in ShowInput) (uint64, error) {
	if err := validateStruct(in); err != nil {
		return 0, err
	}
	s := &model.Show{ArtistID: in.ArtistID, VenueID: in.VenueID, StartTime: in.StartTime.UTC().Truncate(time.Millisecond)}
	err := d.store.Update(ctx, func(r repository.Repos) error {
		if _, err := r.Artists().GetByID(ctx, in.ArtistID); err != nil {
			return asConstraint(err, "artist_id")
		}
		if _, err := r.Venues().GetByID(ctx, in.VenueID); err != nil {
			return asConstraint(err, "venue_id")
		}
		return r.Shows().Create(ctx, s)
	})
	if err != nil {
		return 0, err
	}
	ev := queue.NewActivityEvent(queue.ShowCreated, s.ID, d.now())
	ev.ArtistID, ev.VenueID = s.ArtistID, s.VenueID
	ev.StartTime = schedule.FormatStartTime(s.StartTime)
	d.publish(ctx, ev)
	return s.ID, nil
}

// asConstraint turns a missing foreign key target into a constraint
// violation on field.
func asConstraint(err error, field string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &ValidationError{Fields: []FieldError{{
			Field:   field,
			Tag:     "exists",
			Message: fmt.Sprintf("%s does not reference an existing record", field),
		}}}
	}
	return err
}

func (d *Directory) publish(ctx context.Context, ev queue.ActivityEvent) {
	if d.events == nil {
		return
	}
	if err := d.events.Publish(ctx, ev); err != nil {
		logging.Warn().Err(err).Str("type", ev.Type).Uint64("entity_id", ev.EntityID).Msg("activity event dropped")
	}
}

func loadArtists(ctx context.Context, repo repository.ArtistRepository, shows []model.Show) (map[uint64]model.Artist, error) {
	out := map[uint64]model.Artist{}
	for _, s := range shows {
		if _, ok := out[s.ArtistID]; ok {
			continue
		}
		a, err := repo.GetByID(ctx, s.ArtistID)
		if errors.Is(err, repository.ErrNotFound) {
			continue // reported by the view builder as a data integrity error
		}
		if err != nil {
			return nil, err
		}
		out[a.ID] = *a
	}
	return out, nil
}

func loadVenues(ctx context.Context, repo repository.VenueRepository, shows []model.Show) (map[uint64]model.Venue, error) {
	out := map[uint64]model.Venue{}
	for _, s := range shows {
		if _, ok := out[s.VenueID]; ok {
			continue
		}
		v, err := repo.GetByID(ctx, s.VenueID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[v.ID] = *v
	}
	return out, nil
}
