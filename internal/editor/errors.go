package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by every LookupError.
var ErrNotFound = errors.New("not found")

// ErrLastView is returned when closing the only View of a Window.
var ErrLastView = errors.New("window has a single view")

// LookupError reports an id missing from its registry.
type LookupError struct {
	Kind string // "buffer", "window" or "view"
	ID   uuid.UUID
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.ID, ErrNotFound)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}
