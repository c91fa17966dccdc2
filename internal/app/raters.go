package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/store"
)

type RaterService struct {
	Repo *store.DB
}

func NewRaterService(repo *store.DB) *RaterService {
	return &RaterService{Repo: repo}
}

func (s *RaterService) Get(ctx context.Context, id int64) (*domain.RaterProfile, error) {
	profile, err := s.Repo.GetRaterProfile(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("rater")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rater: %w", err)
	}
	return profile, nil
}
