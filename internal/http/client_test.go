package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitepages/internal/pages"
)

func newTestClient(t *testing.T) (*Client, pages.Service) {
	t.Helper()
	handler, svc := setupAdminAPI(t)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api", WithHTTPClient(server.Client())), svc
}

func TestClientSaveCreatesThenUpdates(t *testing.T) {
	client, svc := newTestClient(t)
	ctx := context.Background()

	schema, _ := svc.Schemas().Get("about-page")
	doc, err := pages.NewPageContent(schema, time.Now())
	if err != nil {
		t.Fatalf("new content: %v", err)
	}
	doc.Metadata.ModifiedBy = "editor@example.com"

	created, err := client.Save(ctx, doc)
	if err != nil {
		t.Fatalf("save create: %v", err)
	}
	if created.ID == uuid.Nil || created.Metadata.ModifiedBy != "editor@example.com" {
		t.Fatalf("unexpected created page %+v", created)
	}

	for i := range doc.Sections {
		if doc.Sections[i].ID == "hero" {
			doc.Sections[i].Data["title"] = "Over the wire"
		}
	}
	updated, err := client.Save(ctx, doc)
	if err != nil {
		t.Fatalf("save update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected the slug owner %s to be updated, got %s", created.ID, updated.ID)
	}

	stored, err := svc.GetSection(ctx, created.ID, "hero")
	if err != nil {
		t.Fatalf("get section: %v", err)
	}
	if stored.Data["title"] != "Over the wire" {
		t.Fatalf("expected remote update, got %#v", stored.Data["title"])
	}
}

func TestClientLookups(t *testing.T) {
	client, svc := newTestClient(t)
	ctx := context.Background()

	page, err := svc.Create(ctx, pages.CreatePageRequest{PageSchemaID: "about-page"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := client.Get(ctx, page.ID)
	if err != nil || got.Slug != "/about" {
		t.Fatalf("expected page by id, got %+v (%v)", got, err)
	}
	got, err = client.GetBySlug(ctx, "about")
	if err != nil || got.ID != page.ID {
		t.Fatalf("expected page by slug, got %+v (%v)", got, err)
	}
	listed, err := client.List(ctx)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one listed page, got %d (%v)", len(listed), err)
	}

	if _, err := client.GetBySlug(ctx, "/contact"); !pages.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := client.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Get(ctx, page.ID); !pages.IsNotFound(err) {
		t.Fatalf("expected deleted page to be missing, got %v", err)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "database offline"})
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL)

	_, err := client.List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "database offline" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}

	_, err = client.Save(context.Background(), &pages.PageContent{Slug: "/about"})
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected save to surface lookup failure, got %v", err)
	}
}

func TestClientHonoursContext(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
