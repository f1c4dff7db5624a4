package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"time"

	sitepages "github.com/goliatone/go-sitepages"
	"github.com/goliatone/go-sitepages/internal/di"
	"github.com/goliatone/go-sitepages/internal/logging/zerologger"
	"github.com/goliatone/go-sitepages/internal/session"
)

// The example runs a page API in-process, edits the about page through an
// http-backed session and shows that edits survive an unreachable backend.
func main() {
	ctx := context.Background()

	logs, err := zerologger.NewProvider(zerologger.Config{Level: "info", Writer: os.Stderr})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	backend, err := sitepages.New(sitepages.DefaultConfig(), di.WithLoggerProvider(logs))
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	defer backend.Close()
	if _, err := backend.SeedPages(ctx); err != nil {
		log.Fatalf("seed: %v", err)
	}

	handler, err := backend.AdminAPI().Handler()
	if err != nil {
		log.Fatalf("admin api: %v", err)
	}
	server := httptest.NewServer(handler)

	cfg := sitepages.DefaultConfig()
	cfg.Storage.Provider = sitepages.StorageHTTP
	cfg.Storage.BaseURL = server.URL + "/api"
	cfg.Storage.Timeout = 2 * time.Second
	cfg.Session.ModifiedBy = "example"
	cfg.Editor.StrictValidation = true
	editor, err := sitepages.New(cfg, di.WithLoggerProvider(logs))
	if err != nil {
		log.Fatalf("editor: %v", err)
	}
	defer editor.Close()

	s, err := editor.OpenSession("about-page")
	if err != nil {
		log.Fatalf("open session: %v", err)
	}
	result := s.Load(ctx)
	fmt.Printf("loaded about page from %s (state %s)\n", result.Source, s.State())

	view, err := s.View("hero")
	if err != nil {
		log.Fatalf("view: %v", err)
	}
	for _, field := range view.Children {
		fmt.Printf("  %-28s %v\n", field.Path, field.Display)
	}

	hero, _ := s.Section("hero")
	hero.Data["title"] = "Homes built with intention"
	if err := s.UpdateSection("hero", hero.Data); err != nil {
		log.Fatalf("update hero: %v", err)
	}
	report(s.Save(ctx), s)

	server.Close()
	fmt.Println("backend stopped")

	if err := s.SetSectionEnabled("mon-adams", true); err != nil {
		log.Fatalf("enable section: %v", err)
	}
	report(s.Save(ctx), s)

	local, _ := s.Section("mon-adams")
	fmt.Printf("local copy keeps the edit: mon-adams enabled=%t\n", local.Enabled)

	stored, err := backend.Pages().GetBySlug(ctx, "/about")
	if err != nil {
		log.Fatalf("backend read: %v", err)
	}
	remote, _ := stored.Section("mon-adams")
	fmt.Printf("backend copy is unchanged: mon-adams enabled=%t\n", remote.Enabled)
}

func report(op *session.SaveOperation, s *sitepages.Session) {
	if op.Local.Err != nil {
		fmt.Printf("local commit failed: %v\n", op.Local.Err)
		return
	}
	fmt.Printf("committed locally (sequence %d, %d section issue(s))\n", op.Local.Sequence, len(op.Local.Issues))
	remote := op.Wait()
	if remote.Err != nil {
		fmt.Printf("remote sync failed, state %s: %v\n", s.State(), remote.Err)
		return
	}
	fmt.Printf("remote sync done, state %s\n", s.State())
}
