package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

const artistColumns = "id, name, city, state, phone, genres, image_link, facebook_link"

// ArtistRepo manages persistence for artists.  Genres are encoded with
// model.EncodeGenres on write and decoded on read.
type ArtistRepo struct {
	db DBTX
}

// NewArtistRepo constructs an ArtistRepo with the given handle.
func NewArtistRepo(db DBTX) *ArtistRepo {
	return &ArtistRepo{db: db}
}

// Create inserts a new artist and assigns the generated ID back to a.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, facebook_link)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, model.EncodeGenres(a.Genres), a.ImageLink, a.FacebookLink)
	if err != nil {
		return mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an artist by its ID.  It returns ErrNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	const q = "SELECT " + artistColumns + " FROM artists WHERE id = ?"
	a, err := scanArtist(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("artist %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	const q = "SELECT " + artistColumns + " FROM artists ORDER BY id"
	return r.list(ctx, q)
}

// SearchByName returns artists whose name contains term, ignoring case,
// ordered by id.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]model.Artist, error) {
	const q = "SELECT " + artistColumns + " FROM artists WHERE LOWER(name) LIKE ? ORDER BY id"
	return r.list(ctx, q, containsPattern(term))
}

// Update overwrites the mutable fields of the artist identified by a.ID.
// When the row doesn't exist it returns ErrNotFound.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?, facebook_link = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, model.EncodeGenres(a.Genres), a.ImageLink, a.FacebookLink, a.ID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	ok, err := exists(ctx, r.db, "artists", a.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("artist %d: %w", a.ID, ErrNotFound)
	}
	return nil
}

// DeleteCascading removes an artist and every show the artist is booked
// for, returning the number of shows removed.
func (r *ArtistRepo) DeleteCascading(ctx context.Context, id uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, id)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	res, err = r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return 0, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	return removed, nil
}

func (r *ArtistRepo) list(ctx context.Context, q string, args ...any) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanArtist(s rowScanner) (*model.Artist, error) {
	var (
		a      model.Artist
		genres string
	)
	if err := s.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &genres, &a.ImageLink, &a.FacebookLink); err != nil {
		return nil, err
	}
	a.Genres = model.DecodeGenres(genres)
	return &a, nil
}
