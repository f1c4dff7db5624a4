package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/google/uuid"
)

func newTestService(t *testing.T, store pages.Store) (pages.Service, *time.Time) {
	t.Helper()
	schemas, err := pages.LoadSchemaFile("../../schemas/about-page.json")
	if err != nil {
		t.Fatalf("load schemas: %v", err)
	}
	registry, err := pages.NewRegistry(schemas...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &now
	svc := pages.NewService(store, registry,
		pages.WithClock(func() time.Time { return *clock }),
		pages.WithIDGenerator(func(string) uuid.UUID {
			return uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
		}),
	)
	return svc, clock
}

func TestServiceCreateFillsSchemaDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, pages.NewMemoryStore())

	page, err := svc.Create(ctx, pages.CreatePageRequest{
		PageSchemaID: "about-page",
		Sections: []pages.SectionContent{{
			ID: "hero", Enabled: true, Order: 0, Data: map[string]any{"title": "Hello"},
		}},
		Metadata: pages.MetadataInput{ModifiedBy: fields.Ptr("editor@example.com")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if page.Slug != "/about" || page.Metadata.Title != "About Us Page" {
		t.Fatalf("expected schema slug and name, got %q %q", page.Slug, page.Metadata.Title)
	}
	if len(page.Sections) != 4 {
		t.Fatalf("expected every declared section, got %d", len(page.Sections))
	}
	hero, _ := page.Section("hero")
	if hero.Data["title"] != "Hello" || len(hero.Data) != 1 {
		t.Fatalf("expected submitted hero data verbatim, got %#v", hero.Data)
	}
	philosophy, _ := page.Section("philosophy")
	if items, _ := philosophy.Data["items"].([]any); len(items) != 3 {
		t.Fatalf("expected default philosophy items, got %#v", philosophy.Data["items"])
	}
	founder, _ := page.Section("mon-adams")
	if founder.Enabled {
		t.Fatalf("expected schema enabled=false to seed the section")
	}

	if _, err := svc.Create(ctx, pages.CreatePageRequest{PageSchemaID: "about-page"}); !errors.Is(err, pages.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists got %v", err)
	}
	if _, err := svc.Create(ctx, pages.CreatePageRequest{PageSchemaID: "missing", Slug: "/missing"}); !errors.Is(err, pages.ErrSchemaUnknown) {
		t.Fatalf("expected ErrSchemaUnknown got %v", err)
	}
	if _, err := svc.Create(ctx, pages.CreatePageRequest{}); err == nil {
		t.Fatalf("expected validation error for missing schema id")
	}
}

func TestServiceSectionOperations(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t, pages.NewMemoryStore())
	page, err := svc.Create(ctx, pages.CreatePageRequest{PageSchemaID: "about-page"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	*clock = clock.Add(time.Hour)
	section, err := svc.UpdateSection(ctx, page.ID, "hero", pages.UpdateSectionRequest{
		Data:       map[string]any{"title": "Updated", "descriptionMaxWidth": 640},
		ModifiedBy: "ana",
	})
	if err != nil {
		t.Fatalf("update section: %v", err)
	}
	if section.Data["descriptionMaxWidth"] != float64(640) {
		t.Fatalf("expected normalised number, got %#v", section.Data["descriptionMaxWidth"])
	}
	stored, err := svc.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Metadata.LastModified.Equal(*clock) || stored.Metadata.ModifiedBy != "ana" {
		t.Fatalf("expected stamped metadata, got %+v", stored.Metadata)
	}

	if _, err := svc.UpdateSection(ctx, page.ID, "nope", pages.UpdateSectionRequest{Enabled: fields.Ptr(false)}); !errors.Is(err, pages.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound got %v", err)
	}
	if _, err := svc.UpdateSection(ctx, page.ID, "hero", pages.UpdateSectionRequest{}); err == nil {
		t.Fatalf("expected empty update to be rejected")
	}

	reordered, err := svc.ReorderSections(ctx, page.ID, []string{"studio-values", "hero", "philosophy"})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got := []string{}
	for _, s := range reordered.Sections {
		got = append(got, s.ID)
	}
	want := []string{"studio-values", "hero", "philosophy", "mon-adams"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected display order %v got %v", want, got)
		}
	}
	if _, err := svc.ReorderSections(ctx, page.ID, []string{"ghost"}); !errors.Is(err, pages.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound got %v", err)
	}

	fetched, err := svc.GetSection(ctx, page.ID, "hero")
	if err != nil || fetched.Order != 1 {
		t.Fatalf("expected hero at order 1, got %+v %v", fetched, err)
	}
}

func TestServiceUpdateUpsertsSectionsAndSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, pages.NewMemoryStore())
	page, err := svc.Create(ctx, pages.CreatePageRequest{PageSchemaID: "about-page"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, page.ID, pages.UpdatePageRequest{
		Slug: fields.Ptr("/about-us"),
		Sections: []pages.SectionContent{
			{ID: "hero", Enabled: false, Order: 0, Data: map[string]any{"title": "Replaced"}},
			{ID: "legacy", Enabled: true, Order: 9, Data: map[string]any{}},
		},
		Metadata: pages.MetadataInput{Title: fields.Ptr("About")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "/about-us" || updated.Metadata.Title != "About" {
		t.Fatalf("unexpected metadata %q %q", updated.Slug, updated.Metadata.Title)
	}
	if len(updated.Sections) != 5 {
		t.Fatalf("expected legacy section to be appended, got %d", len(updated.Sections))
	}
	if _, err := svc.GetBySlug(ctx, "/about"); !pages.IsNotFound(err) {
		t.Fatalf("expected old slug to be released, got %v", err)
	}
	found, err := svc.FindBySchemaID(ctx, "about-page")
	if err != nil || found.ID != page.ID {
		t.Fatalf("expected lookup by schema, got %v", err)
	}

	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound *pages.NotFoundError
	if _, err := svc.Get(ctx, page.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError got %v", err)
	}
}
