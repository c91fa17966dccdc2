package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// SongOrder is a sort key accepted by ListSongs.
type SongOrder string

const (
	SongOrderNone      SongOrder = ""
	SongOrderName      SongOrder = "name"
	SongOrderArtist    SongOrder = "artist"
	SongOrderYear      SongOrder = "year"
	SongOrderAvgRating SongOrder = "avgRating"
)

// SongFilter holds the independently optional song listing filters.
type SongFilter struct {
	StartYear *int
	EndYear   *int
	GenreIDs  []int64
	ArtistID  *int64
	Query     string
	OrderBy   SongOrder
	Desc      bool
	Page      Page
}

// songInner computes the derived columns so that filters and ordering can
// address them by name.
const songInner = `SELECT s.id, s.name, s.year, s.artist_id, s.creator_id, s.created_at,
		a.name AS artist_name,
		(SELECT AVG(CAST(r.rating AS REAL)) FROM ratings r WHERE r.song_id = s.id) AS avg_rating
	FROM songs s
	JOIN artists a ON a.id = s.artist_id`

const songSelect = `SELECT * FROM (` + songInner + `) q`

func (f SongFilter) conditions() conditions {
	var conds conditions
	if f.StartYear != nil {
		conds.add(`q.year >= ?`, *f.StartYear)
	}
	if f.EndYear != nil {
		conds.add(`q.year <= ?`, *f.EndYear)
	}
	for _, genreID := range f.GenreIDs {
		conds.add(`EXISTS (SELECT 1 FROM song_genres sg WHERE sg.song_id = q.id AND sg.genre_id = ?)`, genreID)
	}
	if f.ArtistID != nil {
		conds.add(`q.artist_id = ?`, *f.ArtistID)
	}
	if f.Query != "" {
		pattern := containsPattern(f.Query)
		conds.add(`(LOWER(q.name) LIKE ? ESCAPE '\' OR LOWER(q.artist_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return conds
}

// orderBy sorts unrated songs below every rated one and breaks ties by id.
func (f SongFilter) orderBy() string {
	dir := direction(f.Desc)
	switch f.OrderBy {
	case SongOrderName:
		return ` ORDER BY LOWER(q.name) ` + dir + `, q.id ASC`
	case SongOrderArtist:
		return ` ORDER BY LOWER(q.artist_name) ` + dir + `, q.id ASC`
	case SongOrderYear:
		return ` ORDER BY q.year ` + dir + `, q.id ASC`
	case SongOrderAvgRating:
		return ` ORDER BY CASE WHEN q.avg_rating IS NULL THEN 0 ELSE 1 END ` + dir +
			`, q.avg_rating ` + dir + `, q.id ASC`
	default:
		return ` ORDER BY q.id ASC`
	}
}

// ListSongs returns one page of matching songs and the unpaged match count.
func (db *DB) ListSongs(ctx context.Context, f SongFilter) ([]*domain.Song, int, error) {
	conds := f.conditions()

	var count int
	countQuery := `SELECT COUNT(*) FROM (` + songInner + `) q` + conds.where()
	if err := db.get(ctx, &count, countQuery, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count songs: %w", err)
	}

	songs := []*domain.Song{}
	query := songSelect + conds.where() + f.orderBy() + f.Page.clause()
	if err := db.sel(ctx, &songs, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, count, nil
}
