package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/store"
)

type StatsService struct {
	Repo *store.DB
}

func NewStatsService(repo *store.DB) *StatsService {
	return &StatsService{Repo: repo}
}

// Get counts raters (excluding the sentinel), artists, songs and lists.
func (s *StatsService) Get(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Users, err = s.Repo.CountRaters(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Artists, err = s.Repo.CountArtists(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Songs, err = s.Repo.CountSongs(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Lists, err = s.Repo.CountLists(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
