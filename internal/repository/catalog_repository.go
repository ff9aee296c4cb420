package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinebook/booking/internal/model"
)

// CatalogRepo reads shows, movies, screens and theatres.  The catalog
// is owned by an external collaborator; this repo never writes to it.
// All getters report absence as a nil record, not an error.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo returns a CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// GetShow returns the show or nil when it does not exist.
func (r *CatalogRepo) GetShow(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, name, start_time, end_time, screen_id, COALESCE(theatre_id, 0), movie_id
	           FROM shows WHERE id = ?`
	var s model.Show
	var movieID sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.ScreenID, &s.TheatreID, &movieID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if movieID.Valid {
		mid := uint64(movieID.Int64)
		s.MovieID = &mid
	}
	return &s, nil
}

// GetMovie returns the movie or nil when it does not exist.
func (r *CatalogRepo) GetMovie(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, name, genre, language, hours, image_url FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Genre, &m.Language, &m.Hours, &m.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetScreen returns the screen or nil when it does not exist.
func (r *CatalogRepo) GetScreen(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, theatre_id, name, seat_rows, seat_cols FROM screens WHERE id = ?`
	var s model.Screen
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.TheatreID, &s.Name, &s.Rows, &s.Columns)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetTheatre returns the theatre or nil when it does not exist.
func (r *CatalogRepo) GetTheatre(ctx context.Context, id uint64) (*model.Theatre, error) {
	const q = `SELECT id, name, city, manager_name, manager_contact FROM theatres WHERE id = ?`
	var t model.Theatre
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.City, &t.ManagerName, &t.ManagerContact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
