// Package bootstrap builds the sitepages module for the command line tools.
package bootstrap

import (
	"flag"
	"fmt"
	"strings"
	"time"

	sitepages "github.com/goliatone/go-sitepages"
	"github.com/goliatone/go-sitepages/internal/di"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// Options captures configuration shared by the sitepages executables.
type Options struct {
	Storage          string
	Driver           string
	DSN              string
	BaseURL          string
	Cache            bool
	SchemaPath       string
	DeterministicIDs bool
	BasePath         string
	ModifiedBy       string
	RemoteTimeout    time.Duration
	LogProvider      string
	LogLevel         string
	LogFormat        string
	LoggerProvider   interfaces.LoggerProvider
}

// RegisterFlags binds the shared options to fs.
func RegisterFlags(fs *flag.FlagSet) *Options {
	opts := &Options{}
	fs.StringVar(&opts.Storage, "storage", sitepages.StorageMemory, "Storage provider: memory, bun or http")
	fs.StringVar(&opts.Driver, "driver", sitepages.DriverSQLite, "Database driver for bun storage: sqlite or postgres")
	fs.StringVar(&opts.DSN, "dsn", "", "Database DSN for bun storage")
	fs.StringVar(&opts.BaseURL, "base-url", "", "Page API root for http storage, e.g. http://localhost:8080/api")
	fs.BoolVar(&opts.Cache, "cache", false, "Enable the repository cache for bun storage")
	fs.StringVar(&opts.SchemaPath, "schemas", "", "Path to a page schema JSON file (defaults to the built-in schemas)")
	fs.BoolVar(&opts.DeterministicIDs, "deterministic-ids", false, "Derive page ids from schema ids")
	fs.StringVar(&opts.ModifiedBy, "modified-by", "", "Name stamped on saved documents")
	fs.DurationVar(&opts.RemoteTimeout, "remote-timeout", 15*time.Second, "Timeout for remote saves")
	fs.StringVar(&opts.LogProvider, "log-provider", "", "Logging provider: console, gologger or zerolog (empty disables logging)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Minimum log level")
	fs.StringVar(&opts.LogFormat, "log-format", "", "Output format for gologger: json, console or pretty")
	return opts
}

// Config converts the options into a module configuration.
func (o Options) Config() sitepages.Config {
	cfg := sitepages.DefaultConfig()
	if storage := strings.TrimSpace(o.Storage); storage != "" {
		cfg.Storage.Provider = storage
	}
	if driver := strings.TrimSpace(o.Driver); driver != "" {
		cfg.Storage.Driver = driver
	}
	cfg.Storage.DSN = strings.TrimSpace(o.DSN)
	cfg.Storage.BaseURL = strings.TrimSpace(o.BaseURL)
	cfg.Cache.Enabled = o.Cache
	cfg.Schemas.Path = strings.TrimSpace(o.SchemaPath)
	cfg.Schemas.DeterministicIDs = o.DeterministicIDs
	if base := strings.TrimSpace(o.BasePath); base != "" {
		cfg.Server.BasePath = base
	}
	cfg.Session.ModifiedBy = strings.TrimSpace(o.ModifiedBy)
	if o.RemoteTimeout > 0 {
		cfg.Session.RemoteTimeout = o.RemoteTimeout
	}
	if provider := strings.TrimSpace(o.LogProvider); provider != "" {
		cfg.Features.Logger = true
		cfg.Logging.Provider = provider
		cfg.Logging.Level = strings.TrimSpace(o.LogLevel)
		cfg.Logging.Format = strings.TrimSpace(o.LogFormat)
	}
	return cfg
}

// BuildModule constructs a sitepages module from opts.
func BuildModule(opts Options) (*sitepages.Module, error) {
	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	module, err := sitepages.New(opts.Config(), diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitepages module: %w", err)
	}
	return module, nil
}
