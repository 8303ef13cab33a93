// Package repository contains data access logic for Show domain operations.
// A Show is a booking of one artist at one venue.  Shows are never deleted
// on their own; they disappear with their venue or artist.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db DBTX
}

// NewShowRepo constructs a ShowRepo with the given handle.
func NewShowRepo(db DBTX) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show and assigns the generated ID back to s.
// StartTime is stored in UTC.  A foreign key failure is reported as
// ErrConstraintViolation.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ArtistID, s.VenueID, s.StartTime.UTC())
	if err != nil {
		return mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show by its ID.  It returns ErrNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, artist_id, venue_id, start_time FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("show %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns every show ordered by id.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	return r.list(ctx, `SELECT id, artist_id, venue_id, start_time FROM shows ORDER BY id`)
}

// ListByVenue returns the shows booked at a venue ordered by start time
// ascending.  When no shows exist it returns an empty slice and nil error.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Show, error) {
	const q = `SELECT id, artist_id, venue_id, start_time
	           FROM shows
	           WHERE venue_id = ?
	           ORDER BY start_time ASC, id ASC`
	return r.list(ctx, q, venueID)
}

// ListByArtist returns the shows an artist is booked for ordered by start
// time ascending.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.Show, error) {
	const q = `SELECT id, artist_id, venue_id, start_time
	           FROM shows
	           WHERE artist_id = ?
	           ORDER BY start_time ASC, id ASC`
	return r.list(ctx, q, artistID)
}

func (r *ShowRepo) list(ctx context.Context, q string, args ...any) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Show{}
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.StartTime); err != nil {
			return nil, err
		}
		s.StartTime = s.StartTime.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
