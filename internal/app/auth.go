package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

type AuthService struct {
	Repo   *store.DB
	Hasher Hasher
	Logger *logger.Logger
}

func NewAuthService(repo *store.DB, hasher Hasher, log *logger.Logger) *AuthService {
	return &AuthService{Repo: repo, Hasher: hasher, Logger: log.WithComponent("auth")}
}

// Register creates a user, its rater and its API key in one transaction and
// returns the key. The password is hashed only once the username and email
// are known to be free.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	key, err := newTokenKey()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: in.Password,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		DateJoined:   now,
	}
	if err := user.Validate(); err != nil {
		return "", modelError(err)
	}
	rater := &domain.Rater{Bio: in.Bio}
	if err := rater.Validate(); err != nil {
		return "", modelError(err)
	}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		taken, err := tx.UsernameTaken(ctx, user.Username)
		if err != nil {
			return err
		}
		if taken {
			return invalidf("A user with that username already exists.")
		}
		taken, err = tx.EmailTaken(ctx, user.Email)
		if err != nil {
			return err
		}
		if taken {
			return invalidf("A user with that email already exists.")
		}

		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		rater.UserID = user.ID
		if err := tx.CreateRater(ctx, rater); err != nil {
			return err
		}
		return tx.CreateToken(ctx, &domain.AuthToken{Key: key, UserID: user.ID, Created: now})
	})
	if err != nil {
		return "", err
	}

	s.Logger.Info("Rater registered", "rater_id", rater.ID, "username", user.Username)
	return key, nil
}

// Login returns the user's API key when the credentials match an active
// account. ok is false for any mismatch without saying which part failed.
func (s *AuthService) Login(ctx context.Context, username, password string) (key string, ok bool, err error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive || !s.Hasher.Verify(user.PasswordHash, password) {
		return "", false, nil
	}

	token, err := s.Repo.GetTokenByUserID(ctx, user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		fresh, err := newTokenKey()
		if err != nil {
			return "", false, err
		}
		token = &domain.AuthToken{Key: fresh, UserID: user.ID, Created: time.Now().UTC()}
		if err := s.Repo.CreateToken(ctx, token); err != nil {
			return "", false, err
		}
	} else if err != nil {
		return "", false, fmt.Errorf("failed to look up token: %w", err)
	}
	return token.Key, true, nil
}

// Authenticate resolves an API key to the caller's rater.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*domain.RaterProfile, error) {
	if key == "" {
		return nil, &Error{Kind: ErrUnauthorized, Message: "Authentication credentials were not provided."}
	}
	profile, err := s.Repo.RaterForToken(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &Error{Kind: ErrUnauthorized, Message: "Invalid token."}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	return profile, nil
}

// DeleteUser removes an account by username, handing its content to the
// sentinel rater.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("No user named %q exists.", username)}
	}
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	s.Logger.Info("User deleted", "user_id", user.ID, "username", username)
	return nil
}
