package domain

import (
	"time"
)

// User is the authentication identity behind a rater
type User struct {
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// Rater is a user's public identity, referenced as creator by most entities
type Rater struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Bio    string `json:"bio" db:"bio"`
}

// RaterProfile is a rater joined with the public fields of its user
type RaterProfile struct {
	ID        int64  `json:"id" db:"id"`
	Bio       string `json:"bio" db:"bio"`
	UserID    int64  `json:"user_id" db:"user_id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// AuthToken is the single API key issued to a user
type AuthToken struct {
	Created time.Time `json:"created" db:"created"`
	Key     string    `json:"key" db:"key"`
	UserID  int64     `json:"user_id" db:"user_id"`
}

// Artist represents a band or performer
type Artist struct {
	Creator     *RaterProfile `json:"creator,omitempty" db:"-"`
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	FoundedYear int           `json:"founded_year" db:"founded_year"`
	CreatorID   int64         `json:"creator_id" db:"creator_id"`
}

// Genre is an admin-seeded label attached to songs
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// SongSource is a playback link for a song
type SongSource struct {
	ID        int64  `json:"id" db:"id"`
	SongID    int64  `json:"song_id" db:"song_id"`
	URL       string `json:"url" db:"url"`
	Service   string `json:"service" db:"service"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
}

// Song is a track by an artist. ArtistName and AvgRating are derived columns
// filled by the song queries.
type Song struct { //nolint:govet // field ordering prioritizes readability over memory alignment
	ID         int64         `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	Year       int           `json:"year" db:"year"`
	ArtistID   int64         `json:"artist_id" db:"artist_id"`
	CreatorID  int64         `json:"creator_id" db:"creator_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	ArtistName string        `json:"artist_name" db:"artist_name"`
	AvgRating  *float64      `json:"avg_rating" db:"avg_rating"`
	Artist     *Artist       `json:"artist,omitempty" db:"-"`
	Creator    *RaterProfile `json:"creator,omitempty" db:"-"`
	Genres     []Genre       `json:"genres" db:"-"`
	Sources    []SongSource  `json:"sources" db:"-"`
}

// List is a rater-curated, ordered collection of songs
type List struct { //nolint:govet // field ordering prioritizes readability over memory alignment
	ID                int64         `json:"id" db:"id"`
	Name              string        `json:"name" db:"name"`
	Description       string        `json:"description" db:"description"`
	CreatorID         int64         `json:"creator_id" db:"creator_id"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	FavCount          int           `json:"fav_count" db:"fav_count"`
	HasRaterFavorited bool          `json:"has_rater_favorited" db:"has_rater_favorited"`
	Creator           *RaterProfile `json:"creator,omitempty" db:"-"`
	Songs             []ListSong    `json:"songs" db:"-"`
}

// ListSong is one membership row of a list
type ListSong struct {
	Song        *Song  `json:"song,omitempty" db:"-"`
	ID          int64  `json:"id" db:"id"`
	ListID      int64  `json:"list_id" db:"list_id"`
	SongID      int64  `json:"song_id" db:"song_id"`
	Description string `json:"description" db:"description"`
}

// Rating is a rater's 1-5 score and review of a song
type Rating struct { //nolint:govet // field ordering prioritizes readability over memory alignment
	ID        int64         `json:"id" db:"id"`
	Rating    int           `json:"rating" db:"rating"`
	Review    string        `json:"review" db:"review"`
	SongID    int64         `json:"song_id" db:"song_id"`
	RaterID   int64         `json:"rater_id" db:"rater_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	Rater     *RaterProfile `json:"rater,omitempty" db:"-"`
	Song      *Song         `json:"song,omitempty" db:"-"`
}

// Stats holds site-wide totals
type Stats struct {
	Users   int `json:"users"`
	Artists int `json:"artists"`
	Songs   int `json:"songs"`
	Lists   int `json:"lists"`
}
