package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// GenreFilter narrows ListGenres.
type GenreFilter struct {
	Query string
	Page  Page
}

// EnsureGenre inserts name unless a genre with that name exists. It reports
// whether a row was added.
func (db *DB) EnsureGenre(ctx context.Context, name string) (bool, error) {
	var count int
	if err := db.get(ctx, &count, `SELECT COUNT(*) FROM genres WHERE name = ?`, name); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := db.exec(ctx, `INSERT INTO genres (name) VALUES (?)`, name); err != nil {
		return false, fmt.Errorf("failed to insert genre %q: %w", name, err)
	}
	return true, nil
}

// ListGenres returns one page of genres and the unpaged match count.
func (db *DB) ListGenres(ctx context.Context, f GenreFilter) ([]*domain.Genre, int, error) {
	var conds conditions
	if f.Query != "" {
		conds.add(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(f.Query))
	}

	var count int
	if err := db.get(ctx, &count, `SELECT COUNT(*) FROM genres`+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	genres := []*domain.Genre{}
	query := `SELECT id, name FROM genres` + conds.where() + ` ORDER BY id ASC` + f.Page.clause()
	if err := db.sel(ctx, &genres, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, count, nil
}

// MissingGenreIDs returns the ids, in input order, with no genre row.
func (db *DB) MissingGenreIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return db.missingIDs(ctx, "genres", ids)
}

// GenresBySongIDs returns each song's genres ordered by association id.
func (db *DB) GenresBySongIDs(ctx context.Context, songIDs []int64) (map[int64][]domain.Genre, error) {
	var rows []struct {
		SongID int64 `db:"song_id"`
		domain.Genre
	}
	query := `SELECT sg.song_id, g.id, g.name FROM song_genres sg
		JOIN genres g ON g.id = sg.genre_id
		WHERE sg.song_id IN (?) ORDER BY sg.id ASC`
	if err := db.selectIn(ctx, &rows, query, songIDs); err != nil {
		return nil, fmt.Errorf("failed to load song genres: %w", err)
	}
	out := make(map[int64][]domain.Genre)
	for _, r := range rows {
		out[r.SongID] = append(out[r.SongID], r.Genre)
	}
	return out, nil
}

// missingIDs reports ids absent from table, preserving input order.
func (db *DB) missingIDs(ctx context.Context, table string, ids []int64) ([]int64, error) {
	var found []int64
	if err := db.selectIn(ctx, &found, `SELECT id FROM `+table+` WHERE id IN (?)`, ids); err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", table, err)
	}
	present := make(map[int64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
