package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

// VenueRepository is the venue half of the entity store.
type VenueRepository interface {
	Create(ctx context.Context, v *model.Venue) error
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	ListAll(ctx context.Context) ([]model.Venue, error)
	SearchByName(ctx context.Context, term string) ([]model.Venue, error)
	Update(ctx context.Context, v *model.Venue) error
	DeleteCascading(ctx context.Context, id uint64) (int64, error)
}

// ArtistRepository is the artist half of the entity store.
type ArtistRepository interface {
	Create(ctx context.Context, a *model.Artist) error
	GetByID(ctx context.Context, id uint64) (*model.Artist, error)
	ListAll(ctx context.Context) ([]model.Artist, error)
	SearchByName(ctx context.Context, term string) ([]model.Artist, error)
	Update(ctx context.Context, a *model.Artist) error
	DeleteCascading(ctx context.Context, id uint64) (int64, error)
}

// ShowRepository stores shows.  There is no delete; shows go away with
// their venue or artist.
type ShowRepository interface {
	Create(ctx context.Context, s *model.Show) error
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
	ListAll(ctx context.Context) ([]model.Show, error)
	ListByVenue(ctx context.Context, venueID uint64) ([]model.Show, error)
	ListByArtist(ctx context.Context, artistID uint64) ([]model.Show, error)
}

// Repos hands out repositories bound to one transaction.  A Repos value
// must not be used after the callback that received it returns.
type Repos interface {
	Venues() VenueRepository
	Artists() ArtistRepository
	Shows() ShowRepository
}

// Store runs each logical operation in its own MySQL transaction.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying sql.DB, e.g. for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// View runs fn inside a read-only transaction so that every query of one
// read observes the same snapshot.
func (s *Store) View(ctx context.Context, fn func(Repos) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// Update runs fn inside a read-write transaction.  The transaction is
// committed only when fn returns nil; on error or panic it is rolled back.
func (s *Store) Update(ctx context.Context, fn func(Repos) error) error {
	return s.run(ctx, nil, fn)
}

func (s *Store) run(ctx context.Context, opts *sql.TxOptions, fn func(Repos) error) (err error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(txRepos{tx: tx})
}

type txRepos struct {
	tx *sql.Tx
}

func (r txRepos) Venues() VenueRepository   { return NewVenueRepo(r.tx) }
func (r txRepos) Artists() ArtistRepository { return NewArtistRepo(r.tx) }
func (r txRepos) Shows() ShowRepository     { return NewShowRepo(r.tx) }
