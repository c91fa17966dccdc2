package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// ArtistInput is the body of an artist create or update.
type ArtistInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FoundedYear int    `json:"founded_year"`
}

type ArtistService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewArtistService(repo *store.DB, log *logger.Logger) *ArtistService {
	return &ArtistService{Repo: repo, Logger: log.WithComponent("artists")}
}

func (s *ArtistService) Create(ctx context.Context, caller *domain.RaterProfile, in ArtistInput) (*domain.Artist, error) {
	if err := Authorize(caller, ActionCreate, 0); err != nil {
		return nil, err
	}
	artist := &domain.Artist{
		Name:        normalizeName(in.Name),
		Description: in.Description,
		FoundedYear: in.FoundedYear,
		CreatorID:   caller.ID,
	}
	if err := artist.Validate(); err != nil {
		return nil, modelError(err)
	}
	if err := s.Repo.CreateArtist(ctx, artist); err != nil {
		return nil, err
	}
	artist.Creator = caller
	s.Logger.Info("Artist created", "artist_id", artist.ID, "rater_id", caller.ID)
	return artist, nil
}

func (s *ArtistService) Get(ctx context.Context, id int64) (*domain.Artist, error) {
	artist, err := s.Repo.GetArtist(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("artist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	if err := hydrateArtists(ctx, s.Repo, []*domain.Artist{artist}); err != nil {
		return nil, err
	}
	return artist, nil
}

// Authorize loads the artist and checks that caller may perform action on it.
func (s *ArtistService) Authorize(ctx context.Context, caller *domain.RaterProfile, id int64, action Action) error {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return Authorize(caller, action, artist.CreatorID)
}

func (s *ArtistService) Update(ctx context.Context, caller *domain.RaterProfile, id int64, in ArtistInput) (*domain.Artist, error) {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionUpdate, artist.CreatorID); err != nil {
		return nil, err
	}

	artist.Name = normalizeName(in.Name)
	artist.Description = in.Description
	artist.FoundedYear = in.FoundedYear
	if err := artist.Validate(); err != nil {
		return nil, modelError(err)
	}
	if err := s.Repo.UpdateArtist(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *ArtistService) Delete(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(caller, ActionDelete, artist.CreatorID); err != nil {
		return err
	}
	if err := s.Repo.DeleteArtist(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Artist deleted", "artist_id", id, "rater_id", caller.ID)
	return nil
}

func (s *ArtistService) List(ctx context.Context, q string) ([]*domain.Artist, error) {
	artists, err := s.Repo.ListArtists(ctx, store.ArtistFilter{Query: searchTerm(q)})
	if err != nil {
		return nil, err
	}
	if err := hydrateArtists(ctx, s.Repo, artists); err != nil {
		return nil, err
	}
	return artists, nil
}
