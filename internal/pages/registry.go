package pages

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-slug"
)

// Registry is the static schema source. It is built once at start up and is
// read only afterwards.
type Registry struct {
	byID   map[string]PageSchema
	bySlug map[string]string
	order  []string
}

// NewRegistry validates the schemas and indexes them by id and slug.
func NewRegistry(schemas ...PageSchema) (*Registry, error) {
	r := &Registry{
		byID:   make(map[string]PageSchema, len(schemas)),
		bySlug: make(map[string]string, len(schemas)),
	}
	for _, schema := range schemas {
		if err := ValidateSchema(schema); err != nil {
			return nil, err
		}
		if _, exists := r.byID[schema.ID]; exists {
			return nil, &SchemaError{PageID: schema.ID, Err: ErrDuplicateSchema}
		}
		slugKey := NormalizeRoute(schema.Slug)
		if other, exists := r.bySlug[slugKey]; exists {
			return nil, &SchemaError{PageID: schema.ID, Err: fmt.Errorf("%w: %s used by %q", ErrSlugExists, slugKey, other)}
		}
		r.byID[schema.ID] = schema
		r.bySlug[slugKey] = schema.ID
		r.order = append(r.order, schema.ID)
	}
	return r, nil
}

// MustNewRegistry panics when the schemas are invalid.
func MustNewRegistry(schemas ...PageSchema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the schema with the given id.
func (r *Registry) Get(id string) (PageSchema, bool) {
	if r == nil {
		return PageSchema{}, false
	}
	schema, ok := r.byID[strings.TrimSpace(id)]
	return schema, ok
}

// GetBySlug returns the schema bound to a route slug.
func (r *Registry) GetBySlug(route string) (PageSchema, bool) {
	if r == nil {
		return PageSchema{}, false
	}
	id, ok := r.bySlug[NormalizeRoute(route)]
	if !ok {
		return PageSchema{}, false
	}
	return r.byID[id], true
}

// List returns the schemas in registration order.
func (r *Registry) List() []PageSchema {
	if r == nil {
		return nil
	}
	out := make([]PageSchema, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ValidateSchema checks a page schema for authoring errors.
func ValidateSchema(schema PageSchema) error {
	if strings.TrimSpace(schema.ID) == "" {
		return &SchemaError{Err: errors.New("id is required")}
	}
	if !IsValidRoute(schema.Slug) {
		return &SchemaError{PageID: schema.ID, Err: fmt.Errorf("%w: %q", ErrSlugInvalid, schema.Slug)}
	}
	seen := make(map[string]struct{}, len(schema.Sections))
	for _, section := range schema.Sections {
		if !slug.IsValid(section.ID) {
			return &SchemaError{PageID: schema.ID, SectionID: section.ID, Err: errors.New("section id must be a slug")}
		}
		if _, dup := seen[section.ID]; dup {
			return &SchemaError{PageID: schema.ID, SectionID: section.ID, Err: ErrDuplicateSection}
		}
		seen[section.ID] = struct{}{}
		if err := fields.Validate(section.Fields); err != nil {
			return &SchemaError{PageID: schema.ID, SectionID: section.ID, Err: err}
		}
	}
	return nil
}

// NormalizeRoute trims a route slug and ensures a single leading slash.
func NormalizeRoute(route string) string {
	trimmed := strings.Trim(strings.TrimSpace(route), "/")
	return "/" + trimmed
}

// IsValidRoute reports whether every segment of a route slug is a valid slug.
// The root route "/" is valid.
func IsValidRoute(route string) bool {
	trimmed := strings.TrimSpace(route)
	if !strings.HasPrefix(trimmed, "/") {
		return false
	}
	inner := strings.Trim(trimmed, "/")
	if inner == "" {
		return true
	}
	for _, segment := range strings.Split(inner, "/") {
		if !slug.IsValid(segment) {
			return false
		}
	}
	return true
}

// LoadSchemas decodes a JSON array of page schemas.
func LoadSchemas(r io.Reader) ([]PageSchema, error) {
	var schemas []PageSchema
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&schemas); err != nil {
		return nil, fmt.Errorf("decode page schemas: %w", err)
	}
	return schemas, nil
}

// LoadSchemaFile reads page schemas from a JSON file holding either a single
// schema or an array of schemas.
func LoadSchemaFile(path string) ([]PageSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page schemas: %w", err)
	}
	schemas, err := DecodeSchemas(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

// DecodeSchemas decodes either a single schema object or an array of schemas.
func DecodeSchemas(data []byte) ([]PageSchema, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var schema PageSchema
		if err := json.Unmarshal([]byte(trimmed), &schema); err != nil {
			return nil, fmt.Errorf("decode page schema: %w", err)
		}
		return []PageSchema{schema}, nil
	}
	return LoadSchemas(strings.NewReader(trimmed))
}
