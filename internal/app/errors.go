package app

import (
	"errors"
	"fmt"

	"github.com/ratemymusic/rmm-api/internal/domain"
)

// Error kinds. The HTTP layer maps each to a status code.
var (
	ErrInvalid      = errors.New("invalid request")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing failure: Message is returned verbatim.
type Error struct {
	Kind    error
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func invalidf(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("No %s was found with that ID.", resource)}
}

// modelError converts a model validation failure into an invalid-request
// error and passes anything else through.
func modelError(err error) error {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return &Error{Kind: ErrInvalid, Message: fe.Message, Field: fe.Field}
	}
	return err
}

// Message returns the client message of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
