package pagescmd

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func newService(t *testing.T) (pages.Service, *pages.PageContent) {
	t.Helper()
	schemas, err := pages.LoadSchemaFile("../../../schemas/about-page.json")
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	registry, err := pages.NewRegistry(schemas...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	svc := pages.NewService(pages.NewMemoryStore(), registry, pages.WithClock(func() time.Time { return now }))
	page, err := svc.Create(context.Background(), pages.CreatePageRequest{PageSchemaID: "about-page"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return svc, page
}

func boolPtr(v bool) *bool { return &v }

func TestUpdateSectionCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		msg     UpdateSectionCommand
		wantErr bool
	}{
		{name: "valid", msg: UpdateSectionCommand{PageID: uuid.New(), SectionID: "hero", Enabled: boolPtr(false)}},
		{name: "missing page", msg: UpdateSectionCommand{SectionID: "hero", Data: map[string]any{}}, wantErr: true},
		{name: "blank section", msg: UpdateSectionCommand{PageID: uuid.New(), SectionID: " ", Data: map[string]any{}}, wantErr: true},
		{name: "no change", msg: UpdateSectionCommand{PageID: uuid.New(), SectionID: "hero"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestReorderSectionsCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		ids     []string
		wantErr bool
	}{
		{name: "valid", ids: []string{"hero", "philosophy"}},
		{name: "empty", ids: nil, wantErr: true},
		{name: "blank", ids: []string{"hero", ""}, wantErr: true},
		{name: "duplicate", ids: []string{"hero", " hero"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ReorderSectionsCommand{PageID: uuid.New(), SectionIDs: tc.ids}.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateSectionHandlerUpdatesThroughService(t *testing.T) {
	svc, page := newService(t)
	handler := NewUpdateSectionHandler(svc, logging.NoOp())

	err := handler.Execute(context.Background(), UpdateSectionCommand{
		PageID:    page.ID,
		SectionID: "hero",
		Data:      map[string]any{"title": "From command"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	section, err := svc.GetSection(context.Background(), page.ID, "hero")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if section.Data["title"] != "From command" {
		t.Fatalf("expected updated title, got %#v", section.Data["title"])
	}
}

func TestUpdateSectionHandlerCategorisesErrors(t *testing.T) {
	svc, page := newService(t)
	handler := NewUpdateSectionHandler(svc, nil)

	err := handler.Execute(context.Background(), UpdateSectionCommand{PageID: page.ID})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	err = handler.Execute(context.Background(), UpdateSectionCommand{PageID: page.ID, SectionID: "footer", Enabled: boolPtr(true)})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestReorderSectionsHandler(t *testing.T) {
	svc, page := newService(t)
	handler := NewReorderSectionsHandler(svc, nil)

	err := handler.Execute(context.Background(), ReorderSectionsCommand{
		PageID:     page.ID,
		SectionIDs: []string{"studio-values", "hero", "philosophy", "mon-adams"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	stored, err := svc.Get(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Sections[0].ID != "studio-values" {
		t.Fatalf("expected studio-values first, got %s", stored.Sections[0].ID)
	}
}

func TestDeletePageHandler(t *testing.T) {
	svc, page := newService(t)
	handler := NewDeletePageHandler(svc, nil)

	if err := handler.Execute(context.Background(), DeletePageCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if err := handler.Execute(context.Background(), DeletePageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := svc.Get(context.Background(), page.ID); !pages.IsNotFound(err) {
		t.Fatalf("expected page to be gone, got %v", err)
	}
}
