package di

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-sitepages/internal/identity"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/logging/console"
	"github.com/goliatone/go-sitepages/internal/logging/gologger"
	"github.com/goliatone/go-sitepages/internal/logging/zerologger"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/internal/runtimeconfig"
	"github.com/goliatone/go-sitepages/internal/session"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
}

type recordedEntry struct {
	logger string
	msg    string
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, name: name}
}

func (p *recordingProvider) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, entry.logger+" "+entry.msg)
	}
	return out
}

type recordingLogger struct {
	provider *recordingProvider
	name     string
}

func (l *recordingLogger) record(msg string) {
	l.provider.mu.Lock()
	defer l.provider.mu.Unlock()
	l.provider.entries = append(l.provider.entries, recordedEntry{logger: l.name, msg: msg})
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestNewContainerDefaultsToMemoryStorage(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithClock(fixedNow))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := container.Store().(*pages.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", container.Store())
	}
	if _, ok := container.Registry().Get("about-page"); !ok {
		t.Fatalf("expected builtin about-page schema to be registered")
	}
	if container.Renderer() == nil || container.PageService() == nil {
		t.Fatalf("expected renderer and page service")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewContainerLoadsSchemaFile(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Schemas.Path = "../../schemas/about-page.json"
	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if got := len(container.Registry().List()); got != 1 {
		t.Fatalf("expected one schema, got %d", got)
	}

	cfg.Schemas.Path = "../../schemas/missing.json"
	if _, err := NewContainer(cfg); err == nil {
		t.Fatalf("expected error for missing schema file")
	}
}

func TestSeedPagesIsIdempotentWithDeterministicIDs(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Schemas.DeterministicIDs = true
	container, err := NewContainer(cfg, WithClock(fixedNow))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	created, err := container.SeedPages(ctx)
	if err != nil {
		t.Fatalf("SeedPages: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected one seeded page, got %d", len(created))
	}
	page := created[0]
	if page.ID != identity.PageUUID("about-page") {
		t.Fatalf("expected deterministic id, got %s", page.ID)
	}
	if page.Slug != "/about" || len(page.Sections) != 4 {
		t.Fatalf("unexpected seeded page %+v", page)
	}
	if !page.Metadata.LastModified.Equal(fixedNow()) {
		t.Fatalf("expected container clock on seeded page, got %s", page.Metadata.LastModified)
	}

	again, err := container.SeedPages(ctx)
	if err != nil {
		t.Fatalf("SeedPages second run: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected second seed to create nothing, got %d", len(again))
	}
}

func TestBunStorageWithCache(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:container_bun_%d?mode=memory&cache=shared", time.Now().UnixNano())
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg, WithClock(fixedNow))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if _, ok := container.Store().(*pages.BunStore); !ok {
		t.Fatalf("expected bun store, got %T", container.Store())
	}
	if container.cacheService == nil || container.keySerializer == nil {
		t.Fatalf("expected cache defaults to be configured")
	}

	if _, err := container.SeedPages(ctx); err != nil {
		t.Fatalf("SeedPages: %v", err)
	}
	stored, err := container.PageService().GetBySlug(ctx, "/about")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	title := "Designed to last"
	enabled := true
	if _, err := container.PageService().UpdateSection(ctx, stored.ID, "mon-adams", pages.UpdateSectionRequest{Enabled: &enabled}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	if _, err := container.PageService().Update(ctx, stored.ID, pages.UpdatePageRequest{Metadata: pages.MetadataInput{Title: &title}}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := container.PageService().Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	monAdams, _ := reloaded.Section("mon-adams")
	if reloaded.Metadata.Title != title || !monAdams.Enabled {
		t.Fatalf("expected cached reads to see updates, got %+v", reloaded.Metadata)
	}
}

func TestHTTPStorageTalksToAdminAPI(t *testing.T) {
	ctx := context.Background()
	backend, err := NewContainer(runtimeconfig.DefaultConfig(), WithClock(fixedNow))
	if err != nil {
		t.Fatalf("backend container: %v", err)
	}
	handler, err := backend.AdminAPI().Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageHTTP
	cfg.Storage.BaseURL = server.URL + "/api"
	cfg.Session.ModifiedBy = "editor@studio"
	frontend, err := NewContainer(cfg, WithClock(fixedNow), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("frontend container: %v", err)
	}

	s, err := frontend.OpenSession("about-page")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	result := s.Load(ctx)
	var loadErr *session.LoadError
	if result.Source != session.SourceNew || !errors.As(result.Err, &loadErr) {
		t.Fatalf("expected defaults after a remote miss, got %+v", result)
	}

	if err := s.UpdateSection("hero", map[string]any{"title": "From the editor"}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	op := s.Save(ctx)
	if op.Local.Err != nil {
		t.Fatalf("local commit: %v", op.Local.Err)
	}
	if remote := op.Wait(); remote.Err != nil {
		t.Fatalf("remote sync: %v", remote.Err)
	}

	stored, err := backend.PageService().GetBySlug(ctx, "/about")
	if err != nil {
		t.Fatalf("backend GetBySlug: %v", err)
	}
	hero, _ := stored.Section("hero")
	if hero.Data["title"] != "From the editor" || stored.Metadata.ModifiedBy != "editor@studio" {
		t.Fatalf("expected the session save to reach the backend, got %#v / %+v", hero.Data["title"], stored.Metadata)
	}
}

func TestOpenSessionRejectsUnknownSchema(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, err := container.OpenSession("contact-page"); !errors.Is(err, pages.ErrSchemaUnknown) {
		t.Fatalf("expected ErrSchemaUnknown, got %v", err)
	}
}

func TestOpenSessionStrictValidation(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Editor.StrictValidation = true
	container, err := NewContainer(cfg, WithClock(fixedNow))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	s, err := container.OpenSession("about-page")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	s.Load(ctx)
	if err := s.UpdateSection("hero", map[string]any{"descriptionMaxWidth": "wide"}); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	op := s.Save(ctx)
	if op.Local.Err != nil {
		t.Fatalf("local commit: %v", op.Local.Err)
	}
	if len(op.Local.Issues["hero"]) == 0 {
		t.Fatalf("expected validation issues for hero, got %+v", op.Local.Issues)
	}
	op.Wait()
}

func TestContainerLoggerProviders(t *testing.T) {
	recorder := &recordingProvider{}
	if _, err := NewContainer(runtimeconfig.DefaultConfig(), WithLoggerProvider(recorder)); err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if !contains(recorder.messages(), "sitepages.di container.configured") {
		t.Fatalf("expected container.configured entry, got %v", recorder.messages())
	}

	cases := []struct {
		provider string
		check    func(interfaces.LoggerProvider) bool
	}{
		{provider: "gologger", check: func(p interfaces.LoggerProvider) bool { _, ok := p.(*gologger.Provider); return ok }},
		{provider: "zerolog", check: func(p interfaces.LoggerProvider) bool { _, ok := p.(*zerologger.Provider); return ok }},
		{provider: "console", check: func(p interfaces.LoggerProvider) bool { _, ok := p.(*console.Provider); return ok }},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			cfg.Features.Logger = true
			cfg.Logging.Provider = tc.provider
			cfg.Logging.Level = "error"
			container, err := NewContainer(cfg)
			if err != nil {
				t.Fatalf("NewContainer: %v", err)
			}
			if !tc.check(container.LoggerProvider()) {
				t.Fatalf("unexpected provider %T", container.LoggerProvider())
			}
		})
	}
}

func TestContainerWithoutLoggerFeatureIsSilent(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	logger := container.LoggerProvider().GetLogger("anything")
	if logger != logging.NoOp() {
		t.Fatalf("expected no-op logger, got %T", logger)
	}
}
