package app

import (
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/store"
)

// Services bundles every service over one store.
type Services struct {
	Auth    *AuthService
	Artists *ArtistService
	Genres  *GenreService
	Songs   *SongService
	Lists   *ListService
	Ratings *RatingService
	Raters  *RaterService
	Search  *SearchService
	Stats   *StatsService
}

func NewServices(repo *store.DB, hasher *PasswordHasher, log *logger.Logger) *Services {
	return &Services{
		Auth:    NewAuthService(repo, hasher, log),
		Artists: NewArtistService(repo, log),
		Genres:  NewGenreService(repo, log),
		Songs:   NewSongService(repo, log),
		Lists:   NewListService(repo, log),
		Ratings: NewRatingService(repo, log),
		Raters:  NewRaterService(repo),
		Search:  NewSearchService(repo),
		Stats:   NewStatsService(repo),
	}
}
