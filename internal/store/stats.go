package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// CountRaters excludes the sentinel rater.
func (db *DB) CountRaters(ctx context.Context) (int, error) {
	var count int
	if err := db.get(ctx, &count, `SELECT COUNT(*) FROM raters WHERE id <> ?`, constants.DeletedRaterID); err != nil {
		return 0, fmt.Errorf("failed to count raters: %w", err)
	}
	return count, nil
}

func (db *DB) CountArtists(ctx context.Context) (int, error) {
	return db.count(ctx, "artists")
}

func (db *DB) CountSongs(ctx context.Context) (int, error) {
	return db.count(ctx, "songs")
}

func (db *DB) CountLists(ctx context.Context) (int, error) {
	return db.count(ctx, "lists")
}

func (db *DB) count(ctx context.Context, table string) (int, error) {
	var count int
	if err := db.get(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
