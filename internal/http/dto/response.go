package dto

import (
	"time"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

type ErrorResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type LoginResponse struct {
	Token string `json:"token,omitempty"`
	Valid bool   `json:"valid"`
}

// Paged is the envelope of paginated listings. Count is the number of
// matching rows before pagination.
type Paged[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

type UserResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ID        int64  `json:"id"`
}

type RaterResponse struct {
	Bio  string       `json:"bio"`
	User UserResponse `json:"user"`
	ID   int64        `json:"id"`
}

func NewRaterResponse(p *domain.RaterProfile) *RaterResponse {
	if p == nil {
		return nil
	}
	return &RaterResponse{
		ID:  p.ID,
		Bio: p.Bio,
		User: UserResponse{
			ID:        p.UserID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		},
	}
}

type ArtistResponse struct {
	Creator     *RaterResponse `json:"creator"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ID          int64          `json:"id"`
	FoundedYear int            `json:"founded_year"`
}

func NewArtistResponse(a *domain.Artist) ArtistResponse {
	return ArtistResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		FoundedYear: a.FoundedYear,
		Creator:     NewRaterResponse(a.Creator),
	}
}

func NewArtistResponses(artists []*domain.Artist) []ArtistResponse {
	out := make([]ArtistResponse, 0, len(artists))
	for _, a := range artists {
		out = append(out, NewArtistResponse(a))
	}
	return out
}

type GenreResponse struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

func NewGenreResponses(genres []*domain.Genre) []GenreResponse {
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return out
}

type SourceResponse struct {
	URL       string `json:"url"`
	Service   string `json:"service"`
	ID        int64  `json:"id"`
	IsPrimary bool   `json:"is_primary"`
}

// SongArtist is the artist summary embedded in a song.
type SongArtist struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

type SongResponse struct { //nolint:govet // field ordering follows the rendered JSON
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Year      int              `json:"year"`
	Artist    SongArtist       `json:"artist"`
	AvgRating *float64         `json:"avg_rating"`
	Genres    []GenreResponse  `json:"genres"`
	Sources   []SourceResponse `json:"sources"`
	Creator   *RaterResponse   `json:"creator"`
	CreatedAt string           `json:"created_at"`
}

func NewSongResponse(s *domain.Song) SongResponse {
	resp := SongResponse{
		ID:        s.ID,
		Name:      s.Name,
		Year:      s.Year,
		Artist:    SongArtist{ID: s.ArtistID, Name: s.ArtistName},
		AvgRating: s.AvgRating,
		Genres:    make([]GenreResponse, 0, len(s.Genres)),
		Sources:   make([]SourceResponse, 0, len(s.Sources)),
		Creator:   NewRaterResponse(s.Creator),
		CreatedAt: formatTime(s.CreatedAt),
	}
	if s.Artist != nil {
		resp.Artist.Name = s.Artist.Name
	}
	for _, g := range s.Genres {
		resp.Genres = append(resp.Genres, GenreResponse{ID: g.ID, Name: g.Name})
	}
	for _, src := range s.Sources {
		resp.Sources = append(resp.Sources, SourceResponse{
			ID:        src.ID,
			URL:       src.URL,
			Service:   src.Service,
			IsPrimary: src.IsPrimary,
		})
	}
	return resp
}

func NewSongResponses(songs []*domain.Song) []SongResponse {
	out := make([]SongResponse, 0, len(songs))
	for _, s := range songs {
		out = append(out, NewSongResponse(s))
	}
	return out
}

type ListSongResponse struct {
	Song        *SongResponse `json:"song"`
	Description string        `json:"description"`
	ID          int64         `json:"id"`
}

// SimpleListResponse is a list without its songs, as returned by search.
type SimpleListResponse struct { //nolint:govet // field ordering follows the rendered JSON
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Creator           *RaterResponse `json:"creator"`
	CreatedAt         string         `json:"created_at"`
	FavCount          int            `json:"fav_count"`
	HasRaterFavorited bool           `json:"has_rater_favorited"`
}

type ListResponse struct {
	Songs []ListSongResponse `json:"songs"`
	SimpleListResponse
}

func NewSimpleListResponse(l *domain.List) SimpleListResponse {
	return SimpleListResponse{
		ID:                l.ID,
		Name:              l.Name,
		Description:       l.Description,
		Creator:           NewRaterResponse(l.Creator),
		CreatedAt:         formatTime(l.CreatedAt),
		FavCount:          l.FavCount,
		HasRaterFavorited: l.HasRaterFavorited,
	}
}

func NewListResponse(l *domain.List) ListResponse {
	resp := ListResponse{
		SimpleListResponse: NewSimpleListResponse(l),
		Songs:              make([]ListSongResponse, 0, len(l.Songs)),
	}
	for _, entry := range l.Songs {
		item := ListSongResponse{ID: entry.ID, Description: entry.Description}
		if entry.Song != nil {
			song := NewSongResponse(entry.Song)
			item.Song = &song
		}
		resp.Songs = append(resp.Songs, item)
	}
	return resp
}

func NewListResponses(lists []*domain.List) []ListResponse {
	out := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, NewListResponse(l))
	}
	return out
}

type RatingResponse struct { //nolint:govet // field ordering follows the rendered JSON
	ID        int64          `json:"id"`
	Rating    int            `json:"rating"`
	Review    string         `json:"review"`
	CreatedAt string         `json:"created_at"`
	Rater     *RaterResponse `json:"rater"`
	Song      *SongResponse  `json:"song"`
}

func NewRatingResponse(r *domain.Rating) RatingResponse {
	resp := RatingResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: formatTime(r.CreatedAt),
		Rater:     NewRaterResponse(r.Rater),
	}
	if r.Song != nil {
		song := NewSongResponse(r.Song)
		resp.Song = &song
	}
	return resp
}

func NewRatingResponses(ratings []*domain.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, NewRatingResponse(r))
	}
	return out
}

type SearchResponse struct {
	Artists []ArtistResponse     `json:"artists"`
	Songs   []SongResponse       `json:"songs"`
	Lists   []SimpleListResponse `json:"lists"`
}

func NewSearchResponse(artists []*domain.Artist, songs []*domain.Song, lists []*domain.List) SearchResponse {
	resp := SearchResponse{
		Artists: NewArtistResponses(artists),
		Songs:   NewSongResponses(songs),
		Lists:   make([]SimpleListResponse, 0, len(lists)),
	}
	for _, l := range lists {
		resp.Lists = append(resp.Lists, NewSimpleListResponse(l))
	}
	return resp
}

type StatsResponse struct {
	Users   int `json:"users"`
	Artists int `json:"artists"`
	Songs   int `json:"songs"`
	Lists   int `json:"lists"`
}

func NewStatsResponse(s *domain.Stats) StatsResponse {
	return StatsResponse{Users: s.Users, Artists: s.Artists, Songs: s.Songs, Lists: s.Lists}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
