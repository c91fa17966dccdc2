package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ratemymusic/rmm-api/internal/domain"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

const duplicateRatingMessage = "User has already rated that song."

// RatingInput is the body of a rating create or update.
type RatingInput struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
	SongID int64  `json:"song_id"`
}

// RatingQuery is the parsed form of the rating listing query string.
type RatingQuery struct {
	UserID  *int64
	SongID  *int64
	OrderBy string
	Desc    bool
}

type RatingService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewRatingService(repo *store.DB, log *logger.Logger) *RatingService {
	return &RatingService{Repo: repo, Logger: log.WithComponent("ratings")}
}

func (s *RatingService) checkSong(ctx context.Context, tx *store.DB, songID int64) error {
	missing, err := tx.MissingSongIDs(ctx, []int64{songID})
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return invalidf("The song id %d does not match an existing song.", songID)
	}
	return nil
}

func (s *RatingService) Create(ctx context.Context, caller *domain.RaterProfile, in RatingInput) (*domain.Rating, error) {
	if err := Authorize(caller, ActionCreate, 0); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		Rating:    in.Rating,
		Review:    in.Review,
		SongID:    in.SongID,
		RaterID:   caller.ID,
		CreatedAt: time.Now().UTC(),
	}

	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := s.checkSong(ctx, tx, in.SongID); err != nil {
			return err
		}
		existing, err := tx.FindRating(ctx, in.SongID, caller.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return invalidf(duplicateRatingMessage)
		}
		if err := rating.Validate(); err != nil {
			return modelError(err)
		}
		return tx.CreateRating(ctx, rating)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Rating created", "rating_id", rating.ID, "song_id", rating.SongID, "rater_id", caller.ID)
	return s.Get(ctx, rating.ID)
}

func (s *RatingService) Get(ctx context.Context, id int64) (*domain.Rating, error) {
	rating, err := s.Repo.GetRating(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("rating")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	if err := hydrateRatings(ctx, s.Repo, []*domain.Rating{rating}); err != nil {
		return nil, err
	}
	return rating, nil
}

// Authorize loads the rating and checks that caller may perform action on it.
func (s *RatingService) Authorize(ctx context.Context, caller *domain.RaterProfile, id int64, action Action) error {
	rating, err := s.Repo.GetRating(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("rating")
	}
	if err != nil {
		return fmt.Errorf("failed to get rating: %w", err)
	}
	return Authorize(caller, action, rating.RaterID)
}

func (s *RatingService) Update(ctx context.Context, caller *domain.RaterProfile, id int64, in RatingInput) (*domain.Rating, error) {
	if err := s.Authorize(ctx, caller, id, ActionUpdate); err != nil {
		return nil, err
	}

	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		rating, err := tx.GetRating(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkSong(ctx, tx, in.SongID); err != nil {
			return err
		}
		if in.SongID != rating.SongID {
			existing, err := tx.FindRating(ctx, in.SongID, rating.RaterID)
			if err != nil {
				return err
			}
			if existing != nil {
				return invalidf(duplicateRatingMessage)
			}
		}
		rating.Rating = in.Rating
		rating.Review = in.Review
		rating.SongID = in.SongID
		if err := rating.Validate(); err != nil {
			return modelError(err)
		}
		return tx.UpdateRating(ctx, rating)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *RatingService) Delete(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	if err := s.Authorize(ctx, caller, id, ActionDelete); err != nil {
		return err
	}
	if err := s.Repo.DeleteRating(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Rating deleted", "rating_id", id, "rater_id", caller.ID)
	return nil
}

func (s *RatingService) List(ctx context.Context, q RatingQuery) ([]*domain.Rating, error) {
	filter := store.RatingFilter{RaterID: q.UserID, SongID: q.SongID, Desc: q.Desc}
	switch store.RatingOrder(q.OrderBy) {
	case store.RatingOrderNone, store.RatingOrderRating, store.RatingOrderCreatedAt:
		filter.OrderBy = store.RatingOrder(q.OrderBy)
	default:
		return nil, invalidf("orderBy must be one of rating, createdAt.")
	}

	ratings, err := s.Repo.ListRatings(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := hydrateRatings(ctx, s.Repo, ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
