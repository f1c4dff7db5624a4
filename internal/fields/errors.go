package fields

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidShape marks a field definition that violates the structural rules of its kind.
	ErrInvalidShape = errors.New("fields: invalid field definition")
	// ErrDuplicateFieldName is reported when siblings share a name.
	ErrDuplicateFieldName = errors.New("fields: duplicate field name")
	// ErrUnknownKind is reported when a definition declares an unsupported type.
	ErrUnknownKind = errors.New("fields: unknown field kind")
)

// ShapeError reports why the definition at Path is malformed.
type ShapeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ShapeError) Error() string {
	path := strings.TrimSpace(e.Path)
	if path == "" {
		path = "<root>"
	}
	if e.Err != nil && e.Reason == "" {
		return fmt.Sprintf("fields: %s: %v", path, e.Err)
	}
	return fmt.Sprintf("fields: %s: %s", path, e.Reason)
}

func (e *ShapeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidShape}
	}
	return []error{ErrInvalidShape, e.Err}
}

func shapeErr(path, reason string) *ShapeError {
	return &ShapeError{Path: path, Reason: reason}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	if name == "" {
		return parent
	}
	return parent + "." + name
}
