package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrRemoteRequired  = errors.New("session: remote store is required")
	ErrNotLoaded       = errors.New("session: no document loaded")
	ErrUnknownSection  = errors.New("session: section not declared by page schema")
	ErrSectionMissing  = errors.New("session: section not present in document")
	ErrStaleLoad       = errors.New("session: load result discarded by newer activity")
	ErrSaveSuperseded  = errors.New("session: save superseded before dispatch")
	ErrStaleCompletion = errors.New("session: save completed after a newer save was issued")
)

// LoadError reports a failed remote load. The session recovers from it by
// falling back to its local copy or schema defaults.
type LoadError struct {
	Slug string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("session: load %s: %v", e.Slug, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed remote sync. The local commit it belongs to is
// kept.
type SaveError struct {
	PageID   uuid.UUID
	Slug     string
	Sequence uint64
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("session: save %s (#%d) kept locally: %v", e.Slug, e.Sequence, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
