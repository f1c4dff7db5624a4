package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("sitepages config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("sitepages config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("sitepages config: storage dsn is required for the bun provider")
var ErrStorageBaseURLRequired = errors.New("sitepages config: storage base url is required for the http provider")
var ErrStorageBaseURLInvalid = errors.New("sitepages config: storage base url must be an absolute http(s) url")

// ErrCacheRequiresBunStorage keeps repository caching tied to the bun provider.
var ErrCacheRequiresBunStorage = errors.New("sitepages config: cache can only be enabled for bun storage")
var ErrCacheTTLInvalid = errors.New("sitepages config: cache ttl must be zero or positive")
var ErrLoggingProviderRequired = errors.New("sitepages config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitepages config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitepages config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitepages config: logging format is invalid")
var ErrSessionRemoteTimeoutInvalid = errors.New("sitepages config: session remote timeout must be zero or positive")

const (
	StorageMemory = "memory"
	StorageBun    = "bun"
	StorageHTTP   = "http"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates adapter bindings and editor behaviour for the module.
type Config struct {
	Storage  StorageConfig
	Cache    CacheConfig
	Schemas  SchemaConfig
	Editor   EditorConfig
	Session  SessionConfig
	Markdown MarkdownConfig
	Server   ServerConfig
	Features Features
	Logging  LoggingConfig
}

// StorageConfig selects where page documents live.
type StorageConfig struct {
	// Provider is one of memory, bun or http.
	Provider string
	// Driver and DSN configure the bun provider.
	Driver string
	DSN    string
	// BaseURL is the page API root used by the http provider.
	BaseURL string
	Timeout time.Duration
}

// CacheConfig captures repository cache toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// SchemaConfig points at the JSON file holding page schemas. An empty path
// uses the built-in schemas.
type SchemaConfig struct {
	Path string
	// DeterministicIDs derives page ids from schema ids so separately seeded
	// environments agree on them.
	DeterministicIDs bool
}

// EditorConfig toggles editing strictness.
type EditorConfig struct {
	// StrictSelect renders unknown select values as a warning instead of
	// accepting them silently.
	StrictSelect bool
	// StrictValidation reports JSON Schema issues on every local commit.
	StrictValidation bool
}

// SessionConfig configures editing sessions.
type SessionConfig struct {
	ModifiedBy    string
	RemoteTimeout time.Duration
}

// MarkdownConfig mirrors markdown.Options plus discovery settings for imports.
type MarkdownConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
	Pattern    string
	Recursive  bool
}

// ServerConfig configures the backend API process.
type ServerConfig struct {
	Addr            string
	BasePath        string
	ShutdownTimeout time.Duration
}

// Features toggles module functionality.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns in-memory storage with console logging.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageMemory,
			Driver:   DriverSQLite,
			Timeout:  10 * time.Second,
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Session: SessionConfig{
			RemoteTimeout: 15 * time.Second,
		},
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case StorageMemory:
	case StorageBun:
		if driver := normalize(cfg.Storage.Driver); driver != DriverSQLite && driver != DriverPostgres {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case StorageHTTP:
		raw := strings.TrimSpace(cfg.Storage.BaseURL)
		if raw == "" {
			return ErrStorageBaseURLRequired
		}
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrStorageBaseURLInvalid, raw)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.Enabled && provider != StorageBun {
		return ErrCacheRequiresBunStorage
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Session.RemoteTimeout < 0 {
		return ErrSessionRemoteTimeoutInvalid
	}

	if cfg.Features.Logger {
		logProvider := normalize(cfg.Logging.Provider)
		if logProvider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(logProvider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logProvider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if logProvider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zerolog":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
