package sitepages_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sitepages "github.com/goliatone/go-sitepages"
	"github.com/goliatone/go-sitepages/internal/di"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := sitepages.DefaultConfig()
	cfg.Storage.Provider = sitepages.StorageHTTP
	if _, err := sitepages.New(cfg); !errors.Is(err, sitepages.ErrStorageBaseURLRequired) {
		t.Fatalf("expected ErrStorageBaseURLRequired, got %v", err)
	}
}

func TestModuleSchemasAndDefaults(t *testing.T) {
	module, err := sitepages.New(sitepages.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close()

	if got := len(module.Schemas()); got != 1 {
		t.Fatalf("expected one builtin schema, got %d", got)
	}
	defaults, ok := module.Defaults("about-page")
	if !ok {
		t.Fatalf("expected defaults for about-page")
	}
	hero := defaults["hero"]
	if hero["title"] != "Where Insight, Design and Intention Shape Modern Living" {
		t.Fatalf("expected declared default title, got %#v", hero["title"])
	}
	if hero["descriptionMaxWidth"] != float64(885) {
		t.Fatalf("expected numeric default, got %#v", hero["descriptionMaxWidth"])
	}
	if _, ok := hero["backgroundImages"].([]any); !ok {
		t.Fatalf("expected backgroundImages default to be a list, got %#v", hero["backgroundImages"])
	}
	if _, ok := module.Defaults("contact-page"); ok {
		t.Fatalf("expected no defaults for an unknown schema")
	}
}

func TestModuleEditSaveAndExport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	module, err := sitepages.New(sitepages.DefaultConfig(), di.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s, err := module.OpenSession("about-page")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	s.Load(ctx)

	philosophy, ok := s.Section("philosophy")
	if !ok {
		t.Fatalf("expected philosophy section after load")
	}
	philosophy.Data["heading"] = "Our philosophy"
	philosophy.Data["body"] = "We build **intentional** homes."
	if err := s.UpdateSection("philosophy", philosophy.Data); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if remote := s.Save(ctx).Wait(); remote.Err != nil {
		t.Fatalf("Save: %v", remote.Err)
	}

	exported, err := module.Export(ctx, "/about")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var body string
	for _, section := range exported.Sections {
		if section.ID == "philosophy" {
			body, _ = section.Data["body"].(string)
		}
		if section.ID == "mon-adams" {
			t.Fatalf("expected disabled section to be left out of the export")
		}
	}
	if !strings.Contains(body, "<strong>intentional</strong>") {
		t.Fatalf("expected rendered rich text, got %q", body)
	}

	html, err := module.Markdown().RenderHTML(ctx, "*hi*")
	if err != nil || !strings.Contains(html, "<em>hi</em>") {
		t.Fatalf("expected markdown renderer, got %q (%v)", html, err)
	}
}

func TestModuleSeedPages(t *testing.T) {
	ctx := context.Background()
	module, err := sitepages.New(sitepages.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	created, err := module.SeedPages(ctx)
	if err != nil {
		t.Fatalf("SeedPages: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected one seeded page, got %d", len(created))
	}
	listed, err := module.Pages().List(ctx)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected seeded page in listing, got %d (%v)", len(listed), err)
	}
}
