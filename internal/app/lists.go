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

// ListSongInput is one entry of a list's songs array. Nil fields were absent
// from the request body.
type ListSongInput struct {
	ID          *int64  `json:"id"`
	Description *string `json:"description"`
}

// ListInput is the body of a list create or update.
type ListInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Songs       []ListSongInput `json:"songs"`
}

// ListQuery is the parsed form of the list listing query string.
type ListQuery struct {
	SongID      *int64
	UserID      *int64
	FavoritedBy *int64
	Paging      Paging
}

type ListService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewListService(repo *store.DB, log *logger.Logger) *ListService {
	return &ListService{Repo: repo, Logger: log.WithComponent("lists")}
}

// validate returns the requested memberships in request order.
func (s *ListService) validate(ctx context.Context, in ListInput) ([]domain.ListSong, error) {
	entries := make([]domain.ListSong, 0, len(in.Songs))
	ids := make([]int64, 0, len(in.Songs))
	seen := make(map[int64]bool, len(in.Songs))
	for _, song := range in.Songs {
		if song.ID == nil || song.Description == nil {
			return nil, invalidf("All songs must contain `id` and `description` properties.")
		}
		if seen[*song.ID] {
			return nil, invalidf("List cannot contain any duplicate songs.")
		}
		seen[*song.ID] = true
		entry := domain.ListSong{SongID: *song.ID, Description: *song.Description}
		if err := entry.Validate(); err != nil {
			return nil, modelError(err)
		}
		entries = append(entries, entry)
		ids = append(ids, *song.ID)
	}

	missing, err := s.Repo.MissingSongIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, invalidf("The song id %d does not match an existing song.", missing[0])
	}
	return entries, nil
}

func (s *ListService) Create(ctx context.Context, caller *domain.RaterProfile, in ListInput) (*domain.List, error) {
	if err := Authorize(caller, ActionCreate, 0); err != nil {
		return nil, err
	}
	entries, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	list := &domain.List{
		Name:        normalizeName(in.Name),
		Description: in.Description,
		CreatorID:   caller.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := list.Validate(); err != nil {
		return nil, modelError(err)
	}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreateList(ctx, list); err != nil {
			return err
		}
		for i := range entries {
			entries[i].ListID = list.ID
			if err := tx.AddListSong(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("List created", "list_id", list.ID, "songs", len(entries), "rater_id", caller.ID)
	return s.Get(ctx, caller, list.ID)
}

func (s *ListService) Get(ctx context.Context, caller *domain.RaterProfile, id int64) (*domain.List, error) {
	list, err := s.Repo.GetList(ctx, id, viewerID(caller))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("list")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if err := hydrateLists(ctx, s.Repo, []*domain.List{list}); err != nil {
		return nil, err
	}
	return list, nil
}

// Authorize loads the list and checks that caller may perform action on it.
func (s *ListService) Authorize(ctx context.Context, caller *domain.RaterProfile, id int64, action Action) error {
	list, err := s.Repo.GetList(ctx, id, viewerID(caller))
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("list")
	}
	if err != nil {
		return fmt.Errorf("failed to get list: %w", err)
	}
	return Authorize(caller, action, list.CreatorID)
}

// Update rewrites the list row and reconciles memberships as a set diff so
// that retained rows keep their ids.
func (s *ListService) Update(ctx context.Context, caller *domain.RaterProfile, id int64, in ListInput) (*domain.List, error) {
	list, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionUpdate, list.CreatorID); err != nil {
		return nil, err
	}
	entries, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	list.Name = normalizeName(in.Name)
	list.Description = in.Description
	if err := list.Validate(); err != nil {
		return nil, modelError(err)
	}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.UpdateList(ctx, list); err != nil {
			return err
		}
		return reconcileMemberships(ctx, tx, list.ID, list.Songs, entries)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("List updated", "list_id", list.ID, "rater_id", caller.ID)
	return s.Get(ctx, caller, list.ID)
}

func reconcileMemberships(ctx context.Context, tx *store.DB, listID int64, current, want []domain.ListSong) error {
	wanted := make(map[int64]string, len(want))
	for _, e := range want {
		wanted[e.SongID] = e.Description
	}
	have := make(map[int64]bool, len(current))
	for _, m := range current {
		have[m.SongID] = true
		description, keep := wanted[m.SongID]
		if !keep {
			if err := tx.RemoveListSong(ctx, m.ID); err != nil {
				return err
			}
			continue
		}
		if description != m.Description {
			if err := tx.UpdateListSongDescription(ctx, m.ID, description); err != nil {
				return err
			}
		}
	}
	for _, e := range want {
		if have[e.SongID] {
			continue
		}
		e.ListID = listID
		if err := tx.AddListSong(ctx, &e); err != nil {
			return err
		}
	}
	return nil
}

func (s *ListService) Delete(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	if err := s.Authorize(ctx, caller, id, ActionDelete); err != nil {
		return err
	}
	if err := s.Repo.DeleteList(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("List deleted", "list_id", id, "rater_id", caller.ID)
	return nil
}

func (s *ListService) List(ctx context.Context, caller *domain.RaterProfile, q ListQuery) ([]*domain.List, int, error) {
	lists, count, err := s.Repo.ListLists(ctx, store.ListFilter{
		ViewerID:    viewerID(caller),
		SongID:      q.SongID,
		CreatorID:   q.UserID,
		FavoritedBy: q.FavoritedBy,
		Page:        q.Paging.storePage(),
	})
	if err != nil {
		return nil, 0, err
	}
	if err := hydrateLists(ctx, s.Repo, lists); err != nil {
		return nil, 0, err
	}
	return lists, count, nil
}

// Favorite records that caller favorited the list. Favoriting twice fails.
func (s *ListService) Favorite(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	if err := s.Authorize(ctx, caller, id, ActionRead); err != nil {
		return err
	}
	return s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		favorited, err := tx.IsFavorited(ctx, id, caller.ID)
		if err != nil {
			return err
		}
		if favorited {
			return invalidf("The user has already favorited that list.")
		}
		return tx.AddFavorite(ctx, id, caller.ID)
	})
}

// Unfavorite removes caller's favorite. Removing a missing favorite fails.
func (s *ListService) Unfavorite(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	if err := s.Authorize(ctx, caller, id, ActionRead); err != nil {
		return err
	}
	return s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		favorited, err := tx.IsFavorited(ctx, id, caller.ID)
		if err != nil {
			return err
		}
		if !favorited {
			return invalidf("The user has not favorited that list.")
		}
		return tx.RemoveFavorite(ctx, id, caller.ID)
	})
}

func viewerID(caller *domain.RaterProfile) int64 {
	if caller == nil {
		return 0
	}
	return caller.ID
}
