package pages

import (
	"errors"
	"fmt"
)

var (
	ErrPageNotFound       = errors.New("pages: page not found")
	ErrSectionNotFound    = errors.New("pages: section not found")
	ErrSchemaUnknown      = errors.New("pages: page schema not found")
	ErrDuplicateSection   = errors.New("pages: duplicate section id")
	ErrDuplicateSchema    = errors.New("pages: duplicate page schema")
	ErrSchemaInvalid      = errors.New("pages: page schema is invalid")
	ErrSlugExists         = errors.New("pages: slug already exists")
	ErrSlugInvalid        = errors.New("pages: slug must be a route such as /about")
	ErrPageRequired       = errors.New("pages: page id required")
	ErrStoreNotConfigured = errors.New("pages: store not configured")
)

// NotFoundError represents missing records from store lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	if e.Resource == "section" {
		return ErrSectionNotFound
	}
	return ErrPageNotFound
}

// IsNotFound reports whether err describes a missing page or section.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound) || errors.Is(err, ErrSectionNotFound)
}

// SchemaError reports an authoring mistake in a page schema.
type SchemaError struct {
	PageID    string
	SectionID string
	Err       error
}

func (e *SchemaError) Error() string {
	switch {
	case e.SectionID != "":
		return fmt.Sprintf("page schema %q section %q: %v", e.PageID, e.SectionID, e.Err)
	case e.PageID != "":
		return fmt.Sprintf("page schema %q: %v", e.PageID, e.Err)
	default:
		return fmt.Sprintf("page schema: %v", e.Err)
	}
}

func (e *SchemaError) Unwrap() []error {
	return []error{ErrSchemaInvalid, e.Err}
}
