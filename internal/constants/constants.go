// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort               = "8000"
	DefaultDBDriver           = DriverSQLite
	DefaultDBDSN              = "ratemymusic.db"
	DefaultLoginRateLimit     = 10
	DefaultLoginRateWindow    = time.Minute
	DefaultPasswordIterations = 260000
	DefaultRedisTimeout       = 2 * time.Second
	DefaultShutdownTimeout    = 5 * time.Second
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Sentinel rater that inherits content from deleted accounts
const (
	DeletedRaterID  = 1
	DeletedUsername = "deleted"
	DeletedRaterBio = "This account has been deleted."
)

// Paging and search limits
const (
	DefaultPageSize   = 10
	MaxPageSize       = 100
	SearchResultLimit = 25
)

// Field limits mirrored from the relational schema
const (
	MaxArtistNameLength        = 150
	MaxArtistDescriptionLength = 1000
	MaxSongNameLength          = 150
	MaxSourceURLLength         = 200
	MaxSourceServiceLength     = 50
	MaxListNameLength          = 100
	MaxListDescriptionLength   = 1000
	MaxListSongDescription     = 1000
	MaxReviewLength            = 2000
	MaxBioLength               = 500
	MaxUsernameLength          = 150
	MinRating                  = 1
	MaxRating                  = 5
)

// Auth
const (
	TokenBytes        = 20
	PasswordAlgorithm = "pbkdf2_sha256"
	PasswordSaltChars = 22
)
