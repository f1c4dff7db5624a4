package pages

import (
	"time"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/google/uuid"
)

// PageSchema describes an editable page and its sections.
type PageSchema struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Sections    []SectionSchema `json:"sections"`
	Settings    PageSettings    `json:"settings"`
}

// PageSettings toggles editor affordances for a page.
type PageSettings struct {
	EnableSectionReordering bool `json:"enableSectionReordering"`
	EnableSectionToggle     bool `json:"enableSectionToggle"`
}

// SectionSchema describes one section of a page. Order and Enabled seed new
// content; stored content may override both.
type SectionSchema struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	Fields      fields.List `json:"fields"`
	Order       *int        `json:"order,omitempty"`
	Enabled     *bool       `json:"enabled,omitempty"`
}

// Section returns the section schema with the given id.
func (p PageSchema) Section(id string) (SectionSchema, bool) {
	for _, section := range p.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return SectionSchema{}, false
}

// SectionContent is the stored data for one section.
type SectionContent struct {
	ID      string         `json:"id"`
	Enabled bool           `json:"enabled"`
	Order   int            `json:"order"`
	Data    map[string]any `json:"data"`
}

// PageContent is the document persisted for a page.
type PageContent struct {
	ID           uuid.UUID        `json:"id"`
	PageSchemaID string           `json:"pageSchemaId"`
	Slug         string           `json:"slug"`
	Sections     []SectionContent `json:"sections"`
	Metadata     Metadata         `json:"metadata"`
}

// Metadata carries descriptive and audit information for a document.
type Metadata struct {
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	LastModified time.Time `json:"lastModified"`
	ModifiedBy   string    `json:"modifiedBy,omitempty"`
}

// Section returns the stored section with the given id.
func (p *PageContent) Section(id string) (SectionContent, bool) {
	if p == nil {
		return SectionContent{}, false
	}
	for _, section := range p.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return SectionContent{}, false
}

// Clone returns a deep copy of the document.
func (p *PageContent) Clone() *PageContent {
	if p == nil {
		return nil
	}
	cloned := *p
	cloned.Sections = CloneSections(p.Sections)
	return &cloned
}

// Clone returns a deep copy of the section.
func (s SectionContent) Clone() SectionContent {
	s.Data = fields.CloneRecord(s.Data)
	return s
}

// CloneSections deep copies a list of sections.
func CloneSections(src []SectionContent) []SectionContent {
	if src == nil {
		return nil
	}
	out := make([]SectionContent, len(src))
	for i, section := range src {
		out[i] = section.Clone()
	}
	return out
}

func normalizeSections(src []SectionContent) []SectionContent {
	for i := range src {
		src[i].Data = fields.NormalizeRecord(src[i].Data)
	}
	return src
}
