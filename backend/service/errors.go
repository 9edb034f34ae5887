package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition is returned when a record's current status does
	// not allow the requested action.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrScopeClosed is returned when delayed work is requested from a
	// workspace that has already been closed.
	ErrScopeClosed = errors.New("workspace closed")
	// ErrNotStored is returned when a document has no stored file to link to.
	ErrNotStored = fmt.Errorf("%w: document file not stored", ErrNotFound)
)
