package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-sitepages/internal/fields"
)

// RichTextRenderer turns stored richtext source into HTML.
type RichTextRenderer interface {
	RenderHTML(ctx context.Context, source string) (string, error)
}

// ExportedPage is the published projection of a document: enabled sections
// only, in display order, with richtext rendered.
type ExportedPage struct {
	ID           string            `json:"id"`
	SchemaID     string            `json:"schemaId"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title,omitempty"`
	Description  string            `json:"description,omitempty"`
	LastModified time.Time         `json:"lastModified"`
	Sections     []ExportedSection `json:"sections"`
}

// ExportedSection is one published section.
type ExportedSection struct {
	ID    string         `json:"id"`
	Order int            `json:"order"`
	Data  map[string]any `json:"data"`
}

// Export projects a document for publishing. Sections the document has never
// stored are exported with their defaults. A nil renderer leaves richtext
// source untouched.
func Export(ctx context.Context, schema PageSchema, content *PageContent, renderer RichTextRenderer) (*ExportedPage, error) {
	if content == nil {
		return nil, ErrPageRequired
	}
	reconciled, err := Reconcile(schema.Sections, content.Sections)
	if err != nil {
		return nil, err
	}
	out := &ExportedPage{
		ID:           content.ID.String(),
		SchemaID:     content.PageSchemaID,
		Slug:         content.Slug,
		Title:        content.Metadata.Title,
		Description:  content.Metadata.Description,
		LastModified: content.Metadata.LastModified,
		Sections:     make([]ExportedSection, 0, len(reconciled.Sections)),
	}
	for _, section := range reconciled.Sections {
		if !section.Enabled {
			continue
		}
		declared, _ := schema.Section(section.ID)
		data, err := renderRecord(ctx, declared.Fields, section.Data, renderer, section.ID)
		if err != nil {
			return nil, err
		}
		out.Sections = append(out.Sections, ExportedSection{ID: section.ID, Order: section.Order, Data: data})
	}
	return out, nil
}

func renderRecord(ctx context.Context, list fields.List, record map[string]any, renderer RichTextRenderer, path string) (map[string]any, error) {
	out := fields.CloneRecord(record)
	if out == nil {
		out = map[string]any{}
	}
	if renderer == nil {
		return out, nil
	}
	for _, f := range list {
		name := f.Meta().Name
		value, ok := out[name]
		if !ok {
			continue
		}
		rendered, err := renderValue(ctx, f, value, renderer, path+"."+name)
		if err != nil {
			return nil, err
		}
		out[name] = rendered
	}
	return out, nil
}

func renderValue(ctx context.Context, f fields.Field, value any, renderer RichTextRenderer, path string) (any, error) {
	switch typed := f.(type) {
	case *fields.RichText:
		source, ok := value.(string)
		if !ok || source == "" {
			return value, nil
		}
		html, err := renderer.RenderHTML(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", path, err)
		}
		return html, nil
	case *fields.Object:
		return renderNested(ctx, typed.Fields, value, renderer, path)
	case *fields.Group:
		return renderNested(ctx, typed.Fields, value, renderer, path)
	case *fields.Array:
		items, ok := value.([]any)
		if !ok || typed.ItemType == nil {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			rendered, err := renderValue(ctx, typed.ItemType, item, renderer, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return value, nil
	}
}

func renderNested(ctx context.Context, list fields.List, value any, renderer RichTextRenderer, path string) (any, error) {
	record, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	return renderRecord(ctx, list, record, renderer, path)
}
