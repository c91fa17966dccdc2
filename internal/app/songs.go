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

// SourceInput is one entry of a song's sources array. Nil fields were absent
// from the request body.
type SourceInput struct {
	Service   *string `json:"service"`
	URL       *string `json:"url"`
	IsPrimary *bool   `json:"is_primary"`
}

// SongInput is the body of a song create or update.
type SongInput struct {
	Name     string        `json:"name"`
	Year     int           `json:"year"`
	ArtistID int64         `json:"artist_id"`
	GenreIDs []int64       `json:"genre_ids"`
	Sources  []SourceInput `json:"sources"`
}

// SongQuery is the parsed form of the song listing query string.
type SongQuery struct {
	StartYear *int
	EndYear   *int
	GenreIDs  []int64
	ArtistID  *int64
	Q         string
	OrderBy   string
	Desc      bool
	Paging    Paging
}

type SongService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewSongService(repo *store.DB, log *logger.Logger) *SongService {
	return &SongService{Repo: repo, Logger: log.WithComponent("songs")}
}

// validate checks the input shape and references. The primary-source rule
// applies to creation only.
func (s *SongService) validate(ctx context.Context, in *SongInput, creating bool) ([]domain.SongSource, error) {
	if len(in.GenreIDs) == 0 {
		return nil, invalidf("A song must have at least one genre.")
	}
	if len(in.Sources) == 0 {
		return nil, invalidf("A song must have at least one source.")
	}

	sources := make([]domain.SongSource, 0, len(in.Sources))
	urls := make(map[string]bool, len(in.Sources))
	primaries := 0
	for _, src := range in.Sources {
		if src.Service == nil || src.URL == nil || src.IsPrimary == nil {
			return nil, invalidf("All sources must contain `service`, `url` and `is_primary` properties.")
		}
		if urls[*src.URL] {
			return nil, invalidf("Sources cannot contain duplicate urls.")
		}
		urls[*src.URL] = true
		if *src.IsPrimary {
			primaries++
		}
		source := domain.SongSource{URL: *src.URL, Service: *src.Service, IsPrimary: *src.IsPrimary}
		if err := source.Validate(); err != nil {
			return nil, modelError(err)
		}
		sources = append(sources, source)
	}
	if creating && primaries != 1 {
		return nil, invalidf("There must be one and only one primary source.")
	}

	exists, err := s.Repo.ArtistExists(ctx, in.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up artist: %w", err)
	}
	if !exists {
		return nil, invalidf("The artist id %d does not match an existing artist.", in.ArtistID)
	}

	in.GenreIDs = dedupe(in.GenreIDs)
	missing, err := s.Repo.MissingGenreIDs(ctx, in.GenreIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, invalidf("The genre id %d does not match an existing genre.", missing[0])
	}
	return sources, nil
}

func (s *SongService) Create(ctx context.Context, caller *domain.RaterProfile, in SongInput) (*domain.Song, error) {
	if err := Authorize(caller, ActionCreate, 0); err != nil {
		return nil, err
	}
	sources, err := s.validate(ctx, &in, true)
	if err != nil {
		return nil, err
	}

	song := &domain.Song{
		Name:      normalizeName(in.Name),
		Year:      in.Year,
		ArtistID:  in.ArtistID,
		CreatorID: caller.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := song.Validate(); err != nil {
		return nil, modelError(err)
	}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreateSong(ctx, song); err != nil {
			return err
		}
		for _, genreID := range in.GenreIDs {
			if err := tx.AddSongGenre(ctx, song.ID, genreID); err != nil {
				return err
			}
		}
		for i := range sources {
			sources[i].SongID = song.ID
			if err := tx.CreateSongSource(ctx, &sources[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Song created", "song_id", song.ID, "rater_id", caller.ID)
	return s.Get(ctx, song.ID)
}

func (s *SongService) Get(ctx context.Context, id int64) (*domain.Song, error) {
	song, err := s.Repo.GetSong(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("song")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if err := hydrateSongs(ctx, s.Repo, []*domain.Song{song}); err != nil {
		return nil, err
	}
	return song, nil
}

// Authorize loads the song and checks that caller may perform action on it.
func (s *SongService) Authorize(ctx context.Context, caller *domain.RaterProfile, id int64, action Action) error {
	song, err := s.Repo.GetSong(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("song")
	}
	if err != nil {
		return fmt.Errorf("failed to get song: %w", err)
	}
	return Authorize(caller, action, song.CreatorID)
}

// Update rewrites the song row and reconciles its genres and its sources,
// which are keyed by URL.
func (s *SongService) Update(ctx context.Context, caller *domain.RaterProfile, id int64, in SongInput) (*domain.Song, error) {
	song, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, ActionUpdate, song.CreatorID); err != nil {
		return nil, err
	}
	sources, err := s.validate(ctx, &in, false)
	if err != nil {
		return nil, err
	}

	song.Name = normalizeName(in.Name)
	song.Year = in.Year
	song.ArtistID = in.ArtistID
	if err := song.Validate(); err != nil {
		return nil, modelError(err)
	}

	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.UpdateSong(ctx, song); err != nil {
			return err
		}
		if err := reconcileGenres(ctx, tx, song.ID, in.GenreIDs); err != nil {
			return err
		}
		return reconcileSources(ctx, tx, song.ID, song.Sources, sources)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Song updated", "song_id", song.ID, "rater_id", caller.ID)
	return s.Get(ctx, song.ID)
}

func reconcileGenres(ctx context.Context, tx *store.DB, songID int64, want []int64) error {
	current, err := tx.SongGenreIDs(ctx, songID)
	if err != nil {
		return err
	}
	wanted := make(map[int64]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
		if !wanted[id] {
			if err := tx.RemoveSongGenre(ctx, songID, id); err != nil {
				return err
			}
		}
	}
	for _, id := range want {
		if !have[id] {
			if err := tx.AddSongGenre(ctx, songID, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func reconcileSources(ctx context.Context, tx *store.DB, songID int64, current, want []domain.SongSource) error {
	wanted := make(map[string]domain.SongSource, len(want))
	for _, src := range want {
		wanted[src.URL] = src
	}
	have := make(map[string]bool, len(current))
	for _, src := range current {
		have[src.URL] = true
		next, keep := wanted[src.URL]
		if !keep {
			if err := tx.DeleteSongSource(ctx, src.ID); err != nil {
				return err
			}
			continue
		}
		if next.IsPrimary != src.IsPrimary || next.Service != src.Service {
			src.IsPrimary = next.IsPrimary
			src.Service = next.Service
			if err := tx.UpdateSongSource(ctx, &src); err != nil {
				return err
			}
		}
	}
	for _, src := range want {
		if have[src.URL] {
			continue
		}
		src.SongID = songID
		if err := tx.CreateSongSource(ctx, &src); err != nil {
			return err
		}
	}
	return nil
}

func (s *SongService) Delete(ctx context.Context, caller *domain.RaterProfile, id int64) error {
	if err := s.Authorize(ctx, caller, id, ActionDelete); err != nil {
		return err
	}
	if err := s.Repo.DeleteSong(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Song deleted", "song_id", id, "rater_id", caller.ID)
	return nil
}

// List filters, sorts and pages songs. The count ignores pagination.
func (s *SongService) List(ctx context.Context, q SongQuery) ([]*domain.Song, int, error) {
	filter := store.SongFilter{
		StartYear: q.StartYear,
		EndYear:   q.EndYear,
		GenreIDs:  dedupe(q.GenreIDs),
		ArtistID:  q.ArtistID,
		Query:     searchTerm(q.Q),
		Desc:      q.Desc,
		Page:      q.Paging.storePage(),
	}
	switch store.SongOrder(q.OrderBy) {
	case store.SongOrderNone, store.SongOrderName, store.SongOrderArtist, store.SongOrderYear, store.SongOrderAvgRating:
		filter.OrderBy = store.SongOrder(q.OrderBy)
	default:
		return nil, 0, invalidf("orderBy must be one of name, artist, year, avgRating.")
	}

	songs, count, err := s.Repo.ListSongs(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := hydrateSongs(ctx, s.Repo, songs); err != nil {
		return nil, 0, err
	}
	return songs, count, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
