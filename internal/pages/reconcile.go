package pages

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/identity"
)

// Reconciliation is the editable view of stored sections against the
// current schema.
type Reconciliation struct {
	// Sections holds one entry per section schema, sorted by content order.
	Sections []SectionContent
	// Orphans holds stored sections the schema no longer declares. They are
	// not edited but are written back on save.
	Orphans []SectionContent
}

// Reconcile binds stored sections to section schemas. Stored entries are
// used verbatim, including enabled and order overrides. Missing entries are
// synthesised from the field defaults. Schemas sharing an id are rejected.
func Reconcile(schemas []SectionSchema, existing []SectionContent) (Reconciliation, error) {
	declared := make(map[string]struct{}, len(schemas))
	for _, schema := range schemas {
		if _, dup := declared[schema.ID]; dup {
			return Reconciliation{}, fmt.Errorf("%w: %q", ErrDuplicateSection, schema.ID)
		}
		declared[schema.ID] = struct{}{}
	}

	stored := make(map[string]SectionContent, len(existing))
	var orphans []SectionContent
	for _, section := range existing {
		if _, seen := stored[section.ID]; seen {
			orphans = append(orphans, section.Clone())
			continue
		}
		stored[section.ID] = section
		if _, ok := declared[section.ID]; !ok {
			orphans = append(orphans, section.Clone())
		}
	}

	out := make([]SectionContent, 0, len(schemas))
	for _, schema := range schemas {
		if section, ok := stored[schema.ID]; ok {
			out = append(out, section.Clone())
			continue
		}
		out = append(out, DefaultSection(schema))
	}
	SortSections(out)
	return Reconciliation{Sections: out, Orphans: orphans}, nil
}

// DefaultSection synthesises the content of a section that has never been
// stored.
func DefaultSection(schema SectionSchema) SectionContent {
	section := SectionContent{
		ID:      schema.ID,
		Enabled: true,
		Data:    fields.DefaultsFor(schema.Fields),
	}
	if schema.Enabled != nil {
		section.Enabled = *schema.Enabled
	}
	if schema.Order != nil {
		section.Order = *schema.Order
	}
	return section
}

// SortSections orders sections by ascending Order, keeping the relative
// position of equal orders.
func SortSections(sections []SectionContent) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
}

// Merge rebuilds the stored section list: reconciled sections followed by
// orphans.
func Merge(sections, orphans []SectionContent) []SectionContent {
	out := make([]SectionContent, 0, len(sections)+len(orphans))
	out = append(out, CloneSections(sections)...)
	return append(out, CloneSections(orphans)...)
}

// NewPageContent builds the first document for a page schema. The id is
// derived from the schema id so every process agrees on it.
func NewPageContent(schema PageSchema, now time.Time) (*PageContent, error) {
	reconciled, err := Reconcile(schema.Sections, nil)
	if err != nil {
		return nil, err
	}
	return &PageContent{
		ID:           identity.PageUUID(schema.ID),
		PageSchemaID: schema.ID,
		Slug:         schema.Slug,
		Sections:     reconciled.Sections,
		Metadata: Metadata{
			Title:        strings.TrimSpace(schema.Name),
			Description:  strings.TrimSpace(schema.Description),
			LastModified: now,
		},
	}, nil
}
