// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for venues. A Venue owns its shows,
// so deleting one also deletes every show booked at it.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

const venueColumns = "id, name, city, state, address, phone, image_link, facebook_link"

// VenueRepo encapsulates all database queries related to venues.  It runs
// against whatever handle it was built with, normally the transaction of
// the current request.
type VenueRepo struct {
	db DBTX
}

// NewVenueRepo constructs a VenueRepo with the provided handle.
func NewVenueRepo(db DBTX) *VenueRepo {
	return &VenueRepo{db: db}
}

// Create inserts a new venue.  On success the venue's ID field is
// populated with the auto-generated value.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, image_link, facebook_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink, v.FacebookLink)
	if err != nil {
		return mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a venue by its ID.  It returns ErrNotFound if no row
// is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("venue %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return v, nil
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues ORDER BY id"
	return r.list(ctx, q)
}

// SearchByName returns venues whose name contains term, ignoring case,
// ordered by id.  An empty term returns every venue.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]model.Venue, error) {
	const q = "SELECT " + venueColumns + " FROM venues WHERE LOWER(name) LIKE ? ORDER BY id"
	return r.list(ctx, q, containsPattern(term))
}

// Update overwrites every mutable field of the venue identified by v.ID.
// It returns ErrNotFound when the venue does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
	           SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?, facebook_link = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.ImageLink, v.FacebookLink, v.ID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Zero affected rows is also what MySQL reports when nothing changed.
	ok, err := exists(ctx, r.db, "venues", v.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("venue %d: %w", v.ID, ErrNotFound)
	}
	return nil
}

// DeleteCascading removes a venue together with all shows booked at it and
// returns the number of shows removed.  Both statements run on the same
// handle, so inside a transaction the delete is atomic.  If the venue does
// not exist ErrNotFound is returned and the caller must roll back.
func (r *VenueRepo) DeleteCascading(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	res, err = r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return 0, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("venue %d: %w", id, ErrNotFound)
	}
	return removed, nil
}

func (r *VenueRepo) list(ctx context.Context, q string, args ...any) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVenue(s rowScanner) (*model.Venue, error) {
	var v model.Venue
	if err := s.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink, &v.FacebookLink); err != nil {
		return nil, err
	}
	return &v, nil
}
