package markdown

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/testsupport"
)

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	return testsupport.Fixture(tb, path)
}

func aboutSchema(t *testing.T) pages.PageSchema {
	t.Helper()
	schemas, err := pages.LoadSchemaFile("../../schemas/about-page.json")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schemas[0]
}

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(readFixture(t, "testdata/about.md"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Slug != "/about" || doc.Title != "About the studio" || doc.BodyField != "philosophy.body" {
		t.Fatalf("unexpected front matter: %+v", doc)
	}
	hero := doc.Sections["hero"]
	if hero["descriptionMaxWidth"] != float64(720) {
		t.Fatalf("expected yaml integers to be normalised, got %#v", hero["descriptionMaxWidth"])
	}
	values, _ := doc.Sections["studio-values"]["values"].([]any)
	first, _ := values[0].(map[string]any)
	if first["title"] != "Craft" {
		t.Fatalf("expected nested records to be string keyed, got %#v", values)
	}
}

func TestApplyDocument(t *testing.T) {
	schema := aboutSchema(t)
	content, err := pages.NewPageContent(schema, time.Now())
	if err != nil {
		t.Fatalf("new content: %v", err)
	}
	content.Sections = content.Sections[:1]
	content.Sections[0].Data["overlayColor"] = "#000000"

	doc, err := ParseDocument(readFixture(t, "testdata/about.md"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	applied, err := ApplyDocument(schema, content, doc)
	if err != nil {
		t.Fatalf("ApplyDocument: %v", err)
	}

	hero, _ := applied.Section("hero")
	if hero.Data["title"] != "Designed to last" || hero.Data["overlayColor"] != "#000000" {
		t.Fatalf("expected merged hero data, got %#v", hero.Data)
	}
	philosophy, ok := applied.Section("philosophy")
	if !ok || philosophy.Data["body"] != "We build **intentional** homes." {
		t.Fatalf("expected body in philosophy.body, got %#v", philosophy.Data["body"])
	}
	if _, ok := philosophy.Data["items"]; !ok {
		t.Fatalf("expected missing section to start from defaults")
	}
	if applied.Metadata.Title != "About the studio" || applied.Metadata.Description != "Who we are" {
		t.Fatalf("unexpected metadata %+v", applied.Metadata)
	}
	if _, ok := content.Section("philosophy"); ok {
		t.Fatalf("expected the input document to stay untouched")
	}
}

func TestApplyDocumentErrors(t *testing.T) {
	schema := aboutSchema(t)
	content, _ := pages.NewPageContent(schema, time.Now())
	cases := []struct {
		name string
		doc  *Document
		want error
	}{
		{name: "unknown section", doc: &Document{Sections: map[string]map[string]any{"footer": {}}}, want: ErrUnknownSection},
		{name: "malformed body field", doc: &Document{BodyField: "philosophy"}, want: ErrBodyField},
		{name: "non text body field", doc: &Document{BodyField: "hero.descriptionMaxWidth"}, want: ErrBodyField},
		{name: "invalid slug", doc: &Document{Slug: "/About Us!"}, want: pages.ErrSlugInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ApplyDocument(schema, content, tc.doc); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, err)
			}
		})
	}
}

func TestLoaderLoadDirectory(t *testing.T) {
	fixture := readFixture(t, "testdata/about.md")
	fsys := fstest.MapFS{
		"content/about.md":        {Data: fixture, ModTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		"content/notes.txt":       {Data: []byte("skip")},
		"content/nested/extra.md": {Data: []byte("---\nslug: /extra\n---\nbody")},
	}

	flat, err := NewLoader(fsys, LoaderConfig{}).LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(flat) != 1 || flat[0].Path != "content/about.md" || len(flat[0].Checksum) == 0 {
		t.Fatalf("expected only the top level markdown file, got %+v", flat)
	}

	deep, err := NewLoader(fsys, LoaderConfig{Recursive: true}).LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	paths := []string{}
	for _, doc := range deep {
		paths = append(paths, doc.Path)
	}
	if !reflect.DeepEqual(paths, []string{"content/about.md", "content/nested/extra.md"}) {
		t.Fatalf("unexpected paths %v", paths)
	}
}
