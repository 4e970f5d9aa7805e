package docsite

import "github.com/goliatone/go-docsite/internal/runtimeconfig"

var (
	ErrDocsContentDirRequired     = runtimeconfig.ErrDocsContentDirRequired
	ErrDefaultLocaleRequired      = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleUnknown       = runtimeconfig.ErrDefaultLocaleUnknown
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorBaseURLInvalid    = runtimeconfig.ErrGeneratorBaseURLInvalid
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrWatchRequiresGenerator     = runtimeconfig.ErrWatchRequiresGenerator
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	DocsConfig      = runtimeconfig.DocsConfig
	ParserConfig    = runtimeconfig.ParserConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	CheckConfig     = runtimeconfig.CheckConfig
	WatchConfig     = runtimeconfig.WatchConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the runtime defaults documented on the
// runtimeconfig package.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
