package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// ListFilter narrows ListLists. ViewerID drives has_rater_favorited.
type ListFilter struct {
	ViewerID    int64
	SongID      *int64
	CreatorID   *int64
	FavoritedBy *int64
	Query       string
	Page        Page
}

const listInner = `SELECT l.id, l.name, l.description, l.creator_id, l.created_at,
		(SELECT COUNT(*) FROM list_favorites f WHERE f.list_id = l.id) AS fav_count,
		EXISTS (SELECT 1 FROM list_favorites f WHERE f.list_id = l.id AND f.rater_id = ?) AS has_rater_favorited
	FROM lists l`

func (db *DB) CreateList(ctx context.Context, list *domain.List) error {
	query := `INSERT INTO lists (name, description, creator_id, created_at)
		VALUES (:name, :description, :creator_id, :created_at)`

	id, err := db.insertReturningID(ctx, query, list)
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	list.ID = id
	return nil
}

func (db *DB) UpdateList(ctx context.Context, list *domain.List) error {
	if err := db.exec(ctx, `UPDATE lists SET name = ?, description = ? WHERE id = ?`, list.Name, list.Description, list.ID); err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return nil
}

func (db *DB) DeleteList(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// GetList returns the list with favorite data relative to viewerID.
func (db *DB) GetList(ctx context.Context, id, viewerID int64) (*domain.List, error) {
	var list domain.List
	query := `SELECT * FROM (` + listInner + `) q WHERE q.id = ?`
	if err := db.get(ctx, &list, query, viewerID, id); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListLists returns one page of lists ordered by id and the unpaged count.
func (db *DB) ListLists(ctx context.Context, f ListFilter) ([]*domain.List, int, error) {
	var conds conditions
	if f.SongID != nil {
		conds.add(`EXISTS (SELECT 1 FROM list_songs ls WHERE ls.list_id = q.id AND ls.song_id = ?)`, *f.SongID)
	}
	if f.CreatorID != nil {
		conds.add(`q.creator_id = ?`, *f.CreatorID)
	}
	if f.FavoritedBy != nil {
		conds.add(`EXISTS (SELECT 1 FROM list_favorites lf WHERE lf.list_id = q.id AND lf.rater_id = ?)`, *f.FavoritedBy)
	}
	if f.Query != "" {
		conds.add(`LOWER(q.name) LIKE ? ESCAPE '\'`, containsPattern(f.Query))
	}

	args := append([]interface{}{f.ViewerID}, conds.args...)
	from := `SELECT * FROM (` + listInner + `) q` + conds.where()

	var count int
	if err := db.get(ctx, &count, `SELECT COUNT(*) FROM (`+from+`) c`, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count lists: %w", err)
	}

	lists := []*domain.List{}
	if err := db.sel(ctx, &lists, from+` ORDER BY q.id ASC`+f.Page.clause(), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, count, nil
}

// ListSongsByListIDs returns each list's memberships in insertion order.
func (db *DB) ListSongsByListIDs(ctx context.Context, listIDs []int64) (map[int64][]domain.ListSong, error) {
	var rows []domain.ListSong
	query := `SELECT id, list_id, song_id, description FROM list_songs WHERE list_id IN (?) ORDER BY id ASC`
	if err := db.selectIn(ctx, &rows, query, listIDs); err != nil {
		return nil, fmt.Errorf("failed to load list songs: %w", err)
	}
	out := make(map[int64][]domain.ListSong)
	for _, r := range rows {
		out[r.ListID] = append(out[r.ListID], r)
	}
	return out, nil
}

func (db *DB) AddListSong(ctx context.Context, ls *domain.ListSong) error {
	query := `INSERT INTO list_songs (list_id, song_id, description) VALUES (:list_id, :song_id, :description)`
	id, err := db.insertReturningID(ctx, query, ls)
	if err != nil {
		return fmt.Errorf("failed to add song %d to list: %w", ls.SongID, err)
	}
	ls.ID = id
	return nil
}

func (db *DB) UpdateListSongDescription(ctx context.Context, id int64, description string) error {
	if err := db.exec(ctx, `UPDATE list_songs SET description = ? WHERE id = ?`, description, id); err != nil {
		return fmt.Errorf("failed to update list song: %w", err)
	}
	return nil
}

func (db *DB) RemoveListSong(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM list_songs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove list song: %w", err)
	}
	return nil
}

func (db *DB) IsFavorited(ctx context.Context, listID, raterID int64) (bool, error) {
	var count int
	err := db.get(ctx, &count, `SELECT COUNT(*) FROM list_favorites WHERE list_id = ? AND rater_id = ?`, listID, raterID)
	return count > 0, err
}

func (db *DB) AddFavorite(ctx context.Context, listID, raterID int64) error {
	if err := db.exec(ctx, `INSERT INTO list_favorites (list_id, rater_id) VALUES (?, ?)`, listID, raterID); err != nil {
		return fmt.Errorf("failed to favorite list: %w", err)
	}
	return nil
}

func (db *DB) RemoveFavorite(ctx context.Context, listID, raterID int64) error {
	if err := db.exec(ctx, `DELETE FROM list_favorites WHERE list_id = ? AND rater_id = ?`, listID, raterID); err != nil {
		return fmt.Errorf("failed to unfavorite list: %w", err)
	}
	return nil
}
