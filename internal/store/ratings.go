package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// RatingOrder is a sort key accepted by ListRatings.
type RatingOrder string

const (
	RatingOrderNone      RatingOrder = ""
	RatingOrderRating    RatingOrder = "rating"
	RatingOrderCreatedAt RatingOrder = "createdAt"
)

// RatingFilter narrows ListRatings.
type RatingFilter struct {
	RaterID *int64
	SongID  *int64
	OrderBy RatingOrder
	Desc    bool
}

const ratingColumns = `id, rating, review, song_id, rater_id, created_at`

func (db *DB) CreateRating(ctx context.Context, rating *domain.Rating) error {
	query := `INSERT INTO ratings (rating, review, song_id, rater_id, created_at)
		VALUES (:rating, :review, :song_id, :rater_id, :created_at)`

	id, err := db.insertReturningID(ctx, query, rating)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	rating.ID = id
	return nil
}

func (db *DB) GetRating(ctx context.Context, id int64) (*domain.Rating, error) {
	var rating domain.Rating
	if err := db.get(ctx, &rating, `SELECT `+ratingColumns+` FROM ratings WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (db *DB) UpdateRating(ctx context.Context, rating *domain.Rating) error {
	query := `UPDATE ratings SET rating = ?, review = ?, song_id = ? WHERE id = ?`
	if err := db.exec(ctx, query, rating.Rating, rating.Review, rating.SongID, rating.ID); err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

func (db *DB) DeleteRating(ctx context.Context, id int64) error {
	if err := db.exec(ctx, `DELETE FROM ratings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}

// FindRating returns the rater's rating for songID, or nil when none exists.
func (db *DB) FindRating(ctx context.Context, songID, raterID int64) (*domain.Rating, error) {
	var rating domain.Rating
	err := db.get(ctx, &rating, `SELECT `+ratingColumns+` FROM ratings WHERE song_id = ? AND rater_id = ?`, songID, raterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (db *DB) ListRatings(ctx context.Context, f RatingFilter) ([]*domain.Rating, error) {
	var conds conditions
	if f.RaterID != nil {
		conds.add(`rater_id = ?`, *f.RaterID)
	}
	if f.SongID != nil {
		conds.add(`song_id = ?`, *f.SongID)
	}

	order := ` ORDER BY id ASC`
	switch f.OrderBy {
	case RatingOrderRating:
		order = ` ORDER BY rating ` + direction(f.Desc) + `, id ASC`
	case RatingOrderCreatedAt:
		order = ` ORDER BY created_at ` + direction(f.Desc) + `, id ASC`
	}

	ratings := []*domain.Rating{}
	query := `SELECT ` + ratingColumns + ` FROM ratings` + conds.where() + order
	if err := db.sel(ctx, &ratings, query, conds.args...); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}
