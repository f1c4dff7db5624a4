package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitepages/internal/editor"
	apihttp "github.com/goliatone/go-sitepages/internal/http"
	"github.com/goliatone/go-sitepages/internal/identity"
	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/logging/console"
	"github.com/goliatone/go-sitepages/internal/logging/gologger"
	"github.com/goliatone/go-sitepages/internal/logging/zerologger"
	"github.com/goliatone/go-sitepages/internal/markdown"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/internal/runtimeconfig"
	"github.com/goliatone/go-sitepages/internal/session"
	"github.com/goliatone/go-sitepages/internal/validation"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
	"github.com/goliatone/go-sitepages/schemas"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	now            func() time.Time

	schemas  []pages.PageSchema
	registry *pages.Registry

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	httpClient    *http.Client

	store    pages.Store
	pageSvc  pages.Service
	renderer *markdown.Renderer
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider chosen from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithSchemas replaces the configured schema source.
func WithSchemas(schemas ...pages.PageSchema) Option {
	return func(c *Container) {
		c.schemas = append([]pages.PageSchema(nil), schemas...)
	}
}

// WithStore injects the page store, bypassing the storage config.
func WithStore(store pages.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used by bun storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithClock overrides the clock stamped on documents.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithPageService injects the page service.
func WithPageService(svc pages.Service) Option {
	return func(c *Container) {
		c.pageSvc = svc
	}
}

// WithHTTPClient overrides the client used by http storage.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// NewContainer validates cfg and builds the module services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		now:      time.Now,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureSchemas(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStore(); err != nil {
		c.Close()
		return nil, err
	}

	if c.pageSvc == nil {
		serviceOpts := []pages.ServiceOption{pages.WithClock(c.now)}
		if cfg.Schemas.DeterministicIDs {
			serviceOpts = append(serviceOpts, pages.WithIDGenerator(identity.PageUUID))
		}
		c.pageSvc = pages.NewService(c.store, c.registry, serviceOpts...)
	}

	c.renderer = markdown.NewRenderer(markdown.Options{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		SafeMode:   cfg.Markdown.SafeMode,
	})

	logging.ModuleLogger(c.loggerProvider, "sitepages.di").Info("container.configured",
		"storage", normalize(cfg.Storage.Provider),
		"schemas", len(c.registry.List()),
		"cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = noopProvider{}
		return nil
	}

	logCfg := c.Config.Logging
	switch normalize(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zerolog":
		provider, err := zerologger.NewProvider(zerologger.Config{
			Level:  logCfg.Level,
			Writer: os.Stderr,
			Focus:  logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr, TimeFunc: c.now}
		if strings.TrimSpace(logCfg.Level) != "" {
			level, err := console.ParseLevel(logCfg.Level)
			if err != nil {
				return err
			}
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureSchemas() error {
	if c.schemas == nil {
		var err error
		if path := strings.TrimSpace(c.Config.Schemas.Path); path != "" {
			c.schemas, err = pages.LoadSchemaFile(path)
		} else {
			c.schemas, err = schemas.Builtin()
		}
		if err != nil {
			return err
		}
	}
	registry, err := pages.NewRegistry(c.schemas...)
	if err != nil {
		return err
	}
	c.registry = registry
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStore() error {
	if c.store != nil {
		return nil
	}

	storage := c.Config.Storage
	if c.bunDB == nil && normalize(storage.Provider) == runtimeconfig.StorageBun {
		db, err := openBunDB(storage.Driver, storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	switch {
	case c.bunDB != nil:
		ctx, cancel := context.WithTimeout(context.Background(), c.storageTimeout())
		defer cancel()
		if err := pages.RegisterModels(ctx, c.bunDB); err != nil {
			return fmt.Errorf("register page models: %w", err)
		}
		if c.cacheService != nil {
			c.store = pages.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.store = pages.NewBunStore(c.bunDB)
		}
	case normalize(storage.Provider) == runtimeconfig.StorageHTTP:
		clientOpts := []apihttp.ClientOption{apihttp.WithTimeout(c.storageTimeout())}
		if c.httpClient != nil {
			clientOpts = append(clientOpts, apihttp.WithHTTPClient(c.httpClient))
		}
		c.store = apihttp.NewClient(storage.BaseURL, clientOpts...)
	default:
		c.store = pages.NewMemoryStore()
	}
	return nil
}

func (c *Container) storageTimeout() time.Duration {
	if c.Config.Storage.Timeout > 0 {
		return c.Config.Storage.Timeout
	}
	return 10 * time.Second
}

func openBunDB(driver, dsn string) (*bun.DB, error) {
	switch normalize(driver) {
	case runtimeconfig.DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	}
}

// LoggerProvider returns the provider shared by every component.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Registry returns the page schema registry.
func (c *Container) Registry() *pages.Registry {
	return c.registry
}

// Store returns the configured page store.
func (c *Container) Store() pages.Store {
	return c.store
}

// PageService returns the page service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// Renderer returns the markdown renderer used for rich text.
func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// Importer returns a markdown importer writing through the page service.
func (c *Container) Importer() *markdown.Importer {
	return markdown.NewImporter(c.pageSvc, logging.MarkdownLogger(c.loggerProvider))
}

// Loader returns a markdown loader over root using the markdown config.
func (c *Container) Loader(root string) *markdown.Loader {
	return markdown.NewLoader(os.DirFS(root), markdown.LoaderConfig{
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
	})
}

// AdminAPI builds the page API over the container services. opts are
// applied after the defaults.
func (c *Container) AdminAPI(opts ...apihttp.AdminOption) *apihttp.AdminAPI {
	base := []apihttp.AdminOption{
		apihttp.WithBasePath(c.Config.Server.BasePath),
		apihttp.WithPageService(c.pageSvc),
		apihttp.WithRenderer(c.renderer),
		apihttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		apihttp.WithCommandLogger(logging.CommandsLogger(c.loggerProvider)),
	}
	return apihttp.NewAdminAPI(append(base, opts...)...)
}

// OpenSession opens an editing session for schemaID against the container
// store. Session options from the config are applied before opts.
func (c *Container) OpenSession(schemaID string, opts ...session.Option) (*session.Session, error) {
	schema, ok := c.registry.Get(strings.TrimSpace(schemaID))
	if !ok {
		return nil, fmt.Errorf("%w: %q", pages.ErrSchemaUnknown, schemaID)
	}

	base := []session.Option{
		session.WithClock(c.now),
		session.WithLogger(logging.SessionLogger(c.loggerProvider)),
		session.WithModifiedBy(c.Config.Session.ModifiedBy),
		session.WithRemoteTimeout(c.Config.Session.RemoteTimeout),
	}
	if c.Config.Editor.StrictSelect {
		base = append(base, session.WithEditorOptions(editor.WithStrictSelect()))
	}
	if c.Config.Editor.StrictValidation {
		validator, err := validation.NewPageValidator(schema)
		if err != nil {
			return nil, err
		}
		base = append(base, session.WithValidator(validator))
	}
	return session.Open(schema, c.store, append(base, opts...)...)
}

// SeedPages creates a default document for every schema that has none.
// It returns the documents it created.
func (c *Container) SeedPages(ctx context.Context) ([]*pages.PageContent, error) {
	logger := logging.PagesLogger(c.loggerProvider)
	var created []*pages.PageContent
	for _, schema := range c.registry.List() {
		_, err := c.pageSvc.FindBySchemaID(ctx, schema.ID)
		if err == nil {
			continue
		}
		if !pages.IsNotFound(err) {
			return created, err
		}
		page, err := c.pageSvc.Create(ctx, pages.CreatePageRequest{PageSchemaID: schema.ID})
		if err != nil {
			if errors.Is(err, pages.ErrSlugExists) {
				logger.Warn("pages.seed.slug_taken", "schema_id", schema.ID, "page_slug", schema.Slug)
				continue
			}
			return created, err
		}
		logger.Info("pages.seed.created", "schema_id", schema.ID, "page_slug", page.Slug, "page_id", page.ID)
		created = append(created, page)
	}
	return created, nil
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
