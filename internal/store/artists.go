package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// ArtistFilter narrows ListArtists. An empty Query matches every artist.
type ArtistFilter struct {
	Query string
	Page  Page
}

func (db *DB) CreateArtist(ctx context.Context, artist *domain.Artist) error {
	query := `INSERT INTO artists (name, description, founded_year, creator_id)
		VALUES (:name, :description, :founded_year, :creator_id)`

	id, err := db.insertReturningID(ctx, query, artist)
	if err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	artist.ID = id
	return nil
}

func (db *DB) GetArtist(ctx context.Context, id int64) (*domain.Artist, error) {
	var artist domain.Artist
	if err := db.get(ctx, &artist, `SELECT * FROM artists WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (db *DB) UpdateArtist(ctx context.Context, artist *domain.Artist) error {
	query := `UPDATE artists SET name = ?, description = ?, founded_year = ? WHERE id = ?`
	if err := db.exec(ctx, query, artist.Name, artist.Description, artist.FoundedYear, artist.ID); err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}
	return nil
}

// DeleteArtist cascades to the artist's songs.
func (db *DB) DeleteArtist(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM artists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	return nil
}

func (db *DB) ListArtists(ctx context.Context, f ArtistFilter) ([]*domain.Artist, error) {
	var conds conditions
	if f.Query != "" {
		conds.add(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(f.Query))
	}

	query := `SELECT * FROM artists` + conds.where() + ` ORDER BY id ASC` + f.Page.clause()

	artists := []*domain.Artist{}
	if err := db.sel(ctx, &artists, query, conds.args...); err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (db *DB) ArtistsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Artist, error) {
	var artists []*domain.Artist
	if err := db.selectIn(ctx, &artists, `SELECT * FROM artists WHERE id IN (?)`, ids); err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.Artist, len(artists))
	for _, a := range artists {
		out[a.ID] = a
	}
	return out, nil
}

func (db *DB) ArtistExists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := db.get(ctx, &count, `SELECT COUNT(*) FROM artists WHERE id = ?`, id)
	return count > 0, err
}
