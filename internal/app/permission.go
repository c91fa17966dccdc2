package app

import (
	"github.com/ratemymusic/rmm-api/internal/domain"
)

// Action is an operation a caller attempts on a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

const forbiddenMessage = "You must be the creator of this object to modify it."

// Authorize permits reads and creates for any authenticated caller, and
// updates and deletes only for the resource's creator.
func Authorize(caller *domain.RaterProfile, action Action, creatorID int64) error {
	if caller == nil {
		return &Error{Kind: ErrUnauthorized, Message: "Authentication credentials were not provided."}
	}
	switch action {
	case ActionRead, ActionCreate:
		return nil
	}
	if caller.ID != creatorID {
		return &Error{Kind: ErrForbidden, Message: forbiddenMessage}
	}
	return nil
}
