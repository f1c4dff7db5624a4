package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/pages"
)

var (
	ErrUnknownSection = errors.New("markdown: section not declared by page schema")
	ErrBodyField      = errors.New("markdown: body_field must name a text field as section.field")
)

// Document is a markdown file describing page content. Front matter carries
// metadata and section data; the body is written into BodyField.
type Document struct {
	Path         string
	Slug         string
	Title        string
	Description  string
	Sections     map[string]map[string]any
	BodyField    string
	Body         []byte
	Checksum     []byte
	LastModified time.Time
}

type frontMatterEnvelope struct {
	Slug        string                    `yaml:"slug" json:"slug" toml:"slug"`
	Title       string                    `yaml:"title" json:"title" toml:"title"`
	Description string                    `yaml:"description" json:"description" toml:"description"`
	BodyField   string                    `yaml:"body_field" json:"body_field" toml:"body_field"`
	Sections    map[string]map[string]any `yaml:"sections" json:"sections" toml:"sections"`
}

// ParseDocument extracts front matter and body from source. YAML, TOML and
// JSON front matter are accepted.
func ParseDocument(source []byte) (*Document, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	sections := make(map[string]map[string]any, len(meta.Sections))
	for id, data := range meta.Sections {
		record := fields.NormalizeRecord(data)
		if record == nil {
			record = map[string]any{}
		}
		sections[strings.TrimSpace(id)] = record
	}

	return &Document{
		Slug:        strings.TrimSpace(meta.Slug),
		Title:       strings.TrimSpace(meta.Title),
		Description: strings.TrimSpace(meta.Description),
		Sections:    sections,
		BodyField:   strings.TrimSpace(meta.BodyField),
		Body:        body,
	}, nil
}

// ApplyDocument merges doc into a copy of content. Section keys from the
// front matter overwrite stored keys; keys the document does not mention are
// kept. Sections not yet stored start from their defaults.
func ApplyDocument(schema pages.PageSchema, content *pages.PageContent, doc *Document) (*pages.PageContent, error) {
	if content == nil {
		return nil, pages.ErrPageRequired
	}
	if doc == nil {
		return content.Clone(), nil
	}
	out := content.Clone()

	if doc.Slug != "" {
		route := pages.NormalizeRoute(doc.Slug)
		if !pages.IsValidRoute(route) {
			return nil, fmt.Errorf("%w: %q", pages.ErrSlugInvalid, doc.Slug)
		}
		out.Slug = route
	}
	if doc.Title != "" {
		out.Metadata.Title = doc.Title
	}
	if doc.Description != "" {
		out.Metadata.Description = doc.Description
	}

	for id, data := range doc.Sections {
		section, err := sectionFor(schema, out, id)
		if err != nil {
			return nil, err
		}
		if section.Data == nil {
			section.Data = map[string]any{}
		}
		for key, value := range data {
			section.Data[key] = fields.Clone(value)
		}
		out.Sections = upsert(out.Sections, section)
	}

	if doc.BodyField != "" {
		sectionID, fieldName, ok := strings.Cut(doc.BodyField, ".")
		if !ok || sectionID == "" || fieldName == "" {
			return nil, fmt.Errorf("%w: %q", ErrBodyField, doc.BodyField)
		}
		sectionSchema, declared := schema.Section(sectionID)
		if !declared {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSection, sectionID)
		}
		field, found := sectionSchema.Fields.Find(fieldName)
		if !found || !acceptsBody(field) {
			return nil, fmt.Errorf("%w: %q", ErrBodyField, doc.BodyField)
		}
		section, err := sectionFor(schema, out, sectionID)
		if err != nil {
			return nil, err
		}
		if section.Data == nil {
			section.Data = map[string]any{}
		}
		section.Data[fieldName] = strings.TrimSpace(string(doc.Body))
		out.Sections = upsert(out.Sections, section)
	}

	return out, nil
}

func sectionFor(schema pages.PageSchema, content *pages.PageContent, id string) (pages.SectionContent, error) {
	sectionSchema, declared := schema.Section(id)
	if !declared {
		return pages.SectionContent{}, fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	if stored, ok := content.Section(id); ok {
		return stored.Clone(), nil
	}
	return pages.DefaultSection(sectionSchema), nil
}

func upsert(sections []pages.SectionContent, section pages.SectionContent) []pages.SectionContent {
	for i := range sections {
		if sections[i].ID == section.ID {
			sections[i] = section
			return sections
		}
	}
	return append(sections, section)
}

func acceptsBody(f fields.Field) bool {
	switch f.Kind() {
	case fields.KindRichText, fields.KindTextarea, fields.KindText:
		return true
	default:
		return false
	}
}
