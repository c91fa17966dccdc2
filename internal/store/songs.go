package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

func (db *DB) CreateSong(ctx context.Context, song *domain.Song) error {
	query := `INSERT INTO songs (name, year, artist_id, creator_id, created_at)
		VALUES (:name, :year, :artist_id, :creator_id, :created_at)`

	id, err := db.insertReturningID(ctx, query, song)
	if err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	song.ID = id
	return nil
}

func (db *DB) UpdateSong(ctx context.Context, song *domain.Song) error {
	query := `UPDATE songs SET name = ?, year = ?, artist_id = ? WHERE id = ?`
	if err := db.exec(ctx, query, song.Name, song.Year, song.ArtistID, song.ID); err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	return nil
}

func (db *DB) DeleteSong(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}

// GetSong returns the song row with its artist name and average rating.
func (db *DB) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	var song domain.Song
	if err := db.get(ctx, &song, songSelect+` WHERE q.id = ?`, id); err != nil {
		return nil, err
	}
	return &song, nil
}

func (db *DB) SongsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Song, error) {
	var songs []*domain.Song
	if err := db.selectIn(ctx, &songs, songSelect+` WHERE q.id IN (?)`, ids); err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}
	out := make(map[int64]*domain.Song, len(songs))
	for _, s := range songs {
		out[s.ID] = s
	}
	return out, nil
}

// MissingSongIDs returns the ids, in input order, with no song row.
func (db *DB) MissingSongIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return db.missingIDs(ctx, "songs", ids)
}

func (db *DB) SongGenreIDs(ctx context.Context, songID int64) ([]int64, error) {
	ids := []int64{}
	err := db.sel(ctx, &ids, `SELECT genre_id FROM song_genres WHERE song_id = ? ORDER BY id ASC`, songID)
	return ids, err
}

func (db *DB) AddSongGenre(ctx context.Context, songID, genreID int64) error {
	if err := db.exec(ctx, `INSERT INTO song_genres (song_id, genre_id) VALUES (?, ?)`, songID, genreID); err != nil {
		return fmt.Errorf("failed to attach genre %d: %w", genreID, err)
	}
	return nil
}

func (db *DB) RemoveSongGenre(ctx context.Context, songID, genreID int64) error {
	if err := db.exec(ctx, `DELETE FROM song_genres WHERE song_id = ? AND genre_id = ?`, songID, genreID); err != nil {
		return fmt.Errorf("failed to detach genre %d: %w", genreID, err)
	}
	return nil
}

func (db *DB) CreateSongSource(ctx context.Context, src *domain.SongSource) error {
	query := `INSERT INTO song_sources (song_id, url, service, is_primary)
		VALUES (:song_id, :url, :service, :is_primary)`

	id, err := db.insertReturningID(ctx, query, src)
	if err != nil {
		return fmt.Errorf("failed to create song source: %w", err)
	}
	src.ID = id
	return nil
}

func (db *DB) UpdateSongSource(ctx context.Context, src *domain.SongSource) error {
	query := `UPDATE song_sources SET service = ?, is_primary = ? WHERE id = ?`
	if err := db.exec(ctx, query, src.Service, src.IsPrimary, src.ID); err != nil {
		return fmt.Errorf("failed to update song source: %w", err)
	}
	return nil
}

func (db *DB) DeleteSongSource(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM song_sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete song source: %w", err)
	}
	return nil
}

// SourcesBySongIDs returns each song's sources ordered by id.
func (db *DB) SourcesBySongIDs(ctx context.Context, songIDs []int64) (map[int64][]domain.SongSource, error) {
	var sources []domain.SongSource
	query := `SELECT id, song_id, url, service, is_primary FROM song_sources WHERE song_id IN (?) ORDER BY id ASC`
	if err := db.selectIn(ctx, &sources, query, songIDs); err != nil {
		return nil, fmt.Errorf("failed to load song sources: %w", err)
	}
	out := make(map[int64][]domain.SongSource)
	for _, s := range sources {
		out[s.SongID] = append(out[s.SongID], s)
	}
	return out, nil
}

// SearchSongs matches song names only.
func (db *DB) SearchSongs(ctx context.Context, term string, limit int) ([]*domain.Song, error) {
	query := songSelect + ` WHERE LOWER(q.name) LIKE ? ESCAPE '\' ORDER BY q.id ASC` + Page{Limit: limit}.clause()

	songs := []*domain.Song{}
	if err := db.sel(ctx, &songs, query, containsPattern(term)); err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	return songs, nil
}
