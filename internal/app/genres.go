package app

import (
	"context"
	"strings"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

type GenreService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewGenreService(repo *store.DB, log *logger.Logger) *GenreService {
	return &GenreService{Repo: repo, Logger: log.WithComponent("genres")}
}

func (s *GenreService) List(ctx context.Context, q string, paging Paging) ([]*domain.Genre, int, error) {
	return s.Repo.ListGenres(ctx, store.GenreFilter{Query: searchTerm(q), Page: paging.storePage()})
}

// Seed inserts every name not yet present and returns how many were added.
func (s *GenreService) Seed(ctx context.Context, names []string) (int, error) {
	added := 0
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		for _, name := range names {
			name = normalizeName(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			ok, err := tx.EnsureGenre(ctx, name)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.Logger.Info("Genres seeded", "added", added, "requested", len(names))
	return added, nil
}
