package sitepages

import "github.com/goliatone/go-sitepages/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrStorageBaseURLRequired      = runtimeconfig.ErrStorageBaseURLRequired
	ErrStorageBaseURLInvalid       = runtimeconfig.ErrStorageBaseURLInvalid
	ErrCacheRequiresBunStorage     = runtimeconfig.ErrCacheRequiresBunStorage
	ErrCacheTTLInvalid             = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrSessionRemoteTimeoutInvalid = runtimeconfig.ErrSessionRemoteTimeoutInvalid
)

const (
	StorageMemory = runtimeconfig.StorageMemory
	StorageBun    = runtimeconfig.StorageBun
	StorageHTTP   = runtimeconfig.StorageHTTP

	DriverSQLite   = runtimeconfig.DriverSQLite
	DriverPostgres = runtimeconfig.DriverPostgres
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	SchemaConfig   = runtimeconfig.SchemaConfig
	EditorConfig   = runtimeconfig.EditorConfig
	SessionConfig  = runtimeconfig.SessionConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	ServerConfig   = runtimeconfig.ServerConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
