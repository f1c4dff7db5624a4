package markdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-sitepages/internal/pages"
)

func newImportService(t *testing.T) pages.Service {
	t.Helper()
	registry, err := pages.NewRegistry(aboutSchema(t))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return pages.NewService(pages.NewMemoryStore(), registry, pages.WithClock(func() time.Time { return now }))
}

func TestImporterCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newImportService(t)
	importer := NewImporter(svc, nil)

	doc, err := ParseDocument(readFixture(t, "testdata/about.md"))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	first, err := importer.Import(ctx, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !first.Created || first.Page.Metadata.Title != "About the studio" {
		t.Fatalf("expected page to be created from the document, got %+v", first)
	}

	doc.Sections["hero"]["title"] = "Second pass"
	second, err := importer.Import(ctx, doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if second.Created || second.Page.ID != first.Page.ID {
		t.Fatalf("expected the existing page to be updated, got %+v", second)
	}
	hero, _ := second.Page.Section("hero")
	if hero.Data["title"] != "Second pass" {
		t.Fatalf("expected updated hero title, got %#v", hero.Data["title"])
	}
	philosophy, _ := second.Page.Section("philosophy")
	if philosophy.Data["body"] != "We build **intentional** homes." {
		t.Fatalf("expected markdown body in philosophy, got %#v", philosophy.Data["body"])
	}
}

func TestImporterRejectsUnboundSlug(t *testing.T) {
	importer := NewImporter(newImportService(t), nil)
	_, err := importer.Import(context.Background(), &Document{Slug: "/contact"})
	if !errors.Is(err, ErrNoSchemaForSlug) {
		t.Fatalf("expected ErrNoSchemaForSlug, got %v", err)
	}
}

func TestImporterImportAllStopsAtFirstFailure(t *testing.T) {
	importer := NewImporter(newImportService(t), nil)
	docs := []*Document{
		{Path: "about.md", Slug: "/about", Title: "About"},
		{Path: "contact.md", Slug: "/contact"},
		{Path: "never.md", Slug: "/about"},
	}
	results, err := importer.ImportAll(context.Background(), docs)
	if err == nil {
		t.Fatalf("expected failure for contact.md")
	}
	if len(results) != 1 || results[0].Path != "about.md" {
		t.Fatalf("expected only the first import to succeed, got %+v", results)
	}
}
