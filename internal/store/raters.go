package store

import (
	"context"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/constants"
	"github.com/ratemymusic/rmm-api/internal/domain"
)

const raterProfileColumns = `r.id, r.bio, r.user_id, u.username, u.first_name, u.last_name`

func (db *DB) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, email, password, first_name, last_name, is_active, date_joined)
		VALUES (:username, :email, :password, :first_name, :last_name, :is_active, :date_joined)`

	id, err := db.insertReturningID(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := db.get(ctx, &user, `SELECT * FROM users WHERE username = ?`, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int
	err := db.get(ctx, &count, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
	return count > 0, err
}

// EmailTaken compares case-insensitively.
func (db *DB) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int
	err := db.get(ctx, &count, `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return count > 0, err
}

func (db *DB) CreateRater(ctx context.Context, rater *domain.Rater) error {
	id, err := db.insertReturningID(ctx, `INSERT INTO raters (user_id, bio) VALUES (:user_id, :bio)`, rater)
	if err != nil {
		return fmt.Errorf("failed to create rater: %w", err)
	}
	rater.ID = id
	return nil
}

func (db *DB) GetRaterProfile(ctx context.Context, id int64) (*domain.RaterProfile, error) {
	query := `SELECT ` + raterProfileColumns + ` FROM raters r JOIN users u ON u.id = r.user_id WHERE r.id = ?`

	var profile domain.RaterProfile
	if err := db.get(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (db *DB) GetRaterProfileByUserID(ctx context.Context, userID int64) (*domain.RaterProfile, error) {
	query := `SELECT ` + raterProfileColumns + ` FROM raters r JOIN users u ON u.id = r.user_id WHERE r.user_id = ?`

	var profile domain.RaterProfile
	if err := db.get(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RaterProfilesByIDs returns the profiles keyed by rater id.
func (db *DB) RaterProfilesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.RaterProfile, error) {
	query := `SELECT ` + raterProfileColumns + ` FROM raters r JOIN users u ON u.id = r.user_id WHERE r.id IN (?)`

	var profiles []*domain.RaterProfile
	if err := db.selectIn(ctx, &profiles, query, ids); err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.RaterProfile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

// DeleteUser removes a user account. Everything the account's rater created
// or rated is handed to the sentinel rater; favorites are dropped.
func (db *DB) DeleteUser(ctx context.Context, userID int64) error {
	if userID == constants.DeletedRaterID {
		return fmt.Errorf("the sentinel account cannot be deleted")
	}
	return db.RunInTx(ctx, func(tx *DB) error {
		var raterID int64
		if err := tx.get(ctx, &raterID, `SELECT id FROM raters WHERE user_id = ?`, userID); err != nil {
			return err
		}

		reassign := []string{
			`UPDATE artists SET creator_id = ? WHERE creator_id = ?`,
			`UPDATE songs SET creator_id = ? WHERE creator_id = ?`,
			`UPDATE lists SET creator_id = ? WHERE creator_id = ?`,
			`UPDATE ratings SET rater_id = ? WHERE rater_id = ?`,
		}
		for _, stmt := range reassign {
			if err := tx.exec(ctx, stmt, constants.DeletedRaterID, raterID); err != nil {
				return fmt.Errorf("failed to reassign to sentinel: %w", err)
			}
		}

		if err := tx.exec(ctx, `DELETE FROM list_favorites WHERE rater_id = ?`, raterID); err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.exec(ctx, `DELETE FROM auth_tokens WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}
		if err := tx.exec(ctx, `DELETE FROM raters WHERE id = ?`, raterID); err != nil {
			return fmt.Errorf("failed to delete rater: %w", err)
		}
		if err := tx.exec(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
