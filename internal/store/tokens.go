package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

func (db *DB) CreateToken(ctx context.Context, token *domain.AuthToken) error {
	query := `INSERT INTO auth_tokens (key, user_id, created) VALUES (?, ?, ?)`
	if err := db.exec(ctx, query, token.Key, token.UserID, token.Created); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (db *DB) GetTokenByUserID(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	var token domain.AuthToken
	if err := db.get(ctx, &token, `SELECT key, user_id, created FROM auth_tokens WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return &token, nil
}

// RaterForToken resolves an API key to its active rater.
func (db *DB) RaterForToken(ctx context.Context, key string) (*domain.RaterProfile, error) {
	query := `SELECT ` + raterProfileColumns + `
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		JOIN raters r ON r.user_id = u.id
		WHERE t.key = ? AND u.is_active = ?`

	var profile domain.RaterProfile
	if err := db.get(ctx, &profile, query, key, true); err != nil {
		return nil, err
	}
	return &profile, nil
}
