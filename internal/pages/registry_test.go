package pages

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitepages/internal/fields"
)

const aboutSchemaPath = "../../schemas/about-page.json"

func loadAboutSchema(t *testing.T) PageSchema {
	t.Helper()
	schemas, err := LoadSchemaFile(aboutSchemaPath)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if len(schemas) != 1 {
		t.Fatalf("expected one schema got %d", len(schemas))
	}
	return schemas[0]
}

func TestLoadAboutSchema(t *testing.T) {
	schema := loadAboutSchema(t)
	registry, err := NewRegistry(schema)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	got, ok := registry.GetBySlug("about/")
	if !ok || got.ID != "about-page" {
		t.Fatalf("expected about-page by slug, got %+v", got)
	}
	hero, ok := got.Section("hero")
	if !ok {
		t.Fatalf("expected hero section")
	}
	width, ok := hero.Fields.Find("descriptionMaxWidth")
	if !ok || fields.DeriveDefault(width) != float64(885) {
		t.Fatalf("expected descriptionMaxWidth default 885")
	}
	if !got.Settings.EnableSectionReordering || !got.Settings.EnableSectionToggle {
		t.Fatalf("expected settings to decode, got %+v", got.Settings)
	}
}

func TestRegistryRejectsAuthoringErrors(t *testing.T) {
	text := func(name string) fields.Field { return &fields.Text{Base: fields.Base{Name: name}} }
	cases := []struct {
		name    string
		schemas []PageSchema
		want    error
	}{
		{
			name: "duplicate section ids",
			schemas: []PageSchema{{ID: "home", Slug: "/", Sections: []SectionSchema{
				{ID: "hero", Fields: fields.List{text("title")}},
				{ID: "hero", Fields: fields.List{text("title")}},
			}}},
			want: ErrDuplicateSection,
		},
		{
			name:    "duplicate page ids",
			schemas: []PageSchema{{ID: "home", Slug: "/"}, {ID: "home", Slug: "/home"}},
			want:    ErrDuplicateSchema,
		},
		{
			name:    "duplicate slugs",
			schemas: []PageSchema{{ID: "home", Slug: "/"}, {ID: "landing", Slug: "/"}},
			want:    ErrSlugExists,
		},
		{
			name:    "relative slug",
			schemas: []PageSchema{{ID: "home", Slug: "home"}},
			want:    ErrSlugInvalid,
		},
		{
			name: "duplicate field names",
			schemas: []PageSchema{{ID: "home", Slug: "/", Sections: []SectionSchema{
				{ID: "hero", Fields: fields.List{text("title"), text("title")}},
			}}},
			want: fields.ErrDuplicateFieldName,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.schemas...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
			if !errors.Is(err, ErrSchemaInvalid) {
				t.Fatalf("expected ErrSchemaInvalid wrapper, got %v", err)
			}
		})
	}
}

func TestLoadSchemasReportsShapeErrors(t *testing.T) {
	payload := `[{"id":"home","slug":"/","sections":[{"id":"hero","fields":[{"name":"items","type":"array"}]}]}]`
	_, err := LoadSchemas(strings.NewReader(payload))
	if !errors.Is(err, fields.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape got %v", err)
	}
}

func TestIsValidRoute(t *testing.T) {
	cases := map[string]bool{
		"/":             true,
		"/about":        true,
		"/about/team":   true,
		"about":         false,
		"/about us":     false,
		"":              false,
		"/about//team/": false,
	}
	for route, want := range cases {
		if got := IsValidRoute(route); got != want {
			t.Fatalf("IsValidRoute(%q): expected %v got %v", route, want, got)
		}
	}
}
