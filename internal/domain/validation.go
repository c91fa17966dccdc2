package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

// FieldError reports the first field that failed model validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type check func() *FieldError

func firstFailure(checks ...check) error {
	for _, c := range checks {
		if err := c(); err != nil {
			return err
		}
	}
	return nil
}

func maxLength(field, value string, limit int) check {
	return func() *FieldError {
		n := utf8.RuneCountInString(value)
		if n > limit {
			return &FieldError{
				Field:   field,
				Message: fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", limit, n),
			}
		}
		return nil
	}
}

func notBlank(field, value string) check {
	return func() *FieldError {
		if strings.TrimSpace(value) == "" {
			return &FieldError{Field: field, Message: "This field cannot be blank."}
		}
		return nil
	}
}

func between(field string, value, lo, hi int) check {
	return func() *FieldError {
		if value < lo {
			return &FieldError{Field: field, Message: fmt.Sprintf("Ensure this value is greater than or equal to %d.", lo)}
		}
		if value > hi {
			return &FieldError{Field: field, Message: fmt.Sprintf("Ensure this value is less than or equal to %d.", hi)}
		}
		return nil
	}
}

func (a *Artist) Validate() error {
	return firstFailure(
		notBlank("name", a.Name),
		maxLength("name", a.Name, constants.MaxArtistNameLength),
		notBlank("description", a.Description),
		maxLength("description", a.Description, constants.MaxArtistDescriptionLength),
	)
}

func (s *Song) Validate() error {
	return firstFailure(
		notBlank("name", s.Name),
		maxLength("name", s.Name, constants.MaxSongNameLength),
	)
}

func (s *SongSource) Validate() error {
	return firstFailure(
		notBlank("url", s.URL),
		maxLength("url", s.URL, constants.MaxSourceURLLength),
		notBlank("service", s.Service),
		maxLength("service", s.Service, constants.MaxSourceServiceLength),
	)
}

func (l *List) Validate() error {
	return firstFailure(
		notBlank("name", l.Name),
		maxLength("name", l.Name, constants.MaxListNameLength),
		notBlank("description", l.Description),
		maxLength("description", l.Description, constants.MaxListDescriptionLength),
	)
}

// Validate allows an empty description; list entries may be unannotated.
func (ls *ListSong) Validate() error {
	return firstFailure(
		maxLength("description", ls.Description, constants.MaxListSongDescription),
	)
}

func (r *Rating) Validate() error {
	return firstFailure(
		between("rating", r.Rating, constants.MinRating, constants.MaxRating),
		notBlank("review", r.Review),
		maxLength("review", r.Review, constants.MaxReviewLength),
	)
}

func (r *Rater) Validate() error {
	return firstFailure(
		maxLength("bio", r.Bio, constants.MaxBioLength),
	)
}

func (u *User) Validate() error {
	return firstFailure(
		notBlank("username", u.Username),
		maxLength("username", u.Username, constants.MaxUsernameLength),
		notBlank("email", u.Email),
		notBlank("password", u.PasswordHash),
	)
}
