package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrDocsContentDirRequired indicates the document tree location is missing.
var ErrDocsContentDirRequired = errors.New("docsite config: docs content directory is required")

// ErrDefaultLocaleRequired indicates no default locale was configured.
var ErrDefaultLocaleRequired = errors.New("docsite config: default locale is required")

// ErrDefaultLocaleUnknown indicates the default locale is not part of the locale list.
var ErrDefaultLocaleUnknown = errors.New("docsite config: default locale must be listed in locales")

// ErrGeneratorOutputDirRequired indicates the generator has nowhere to write.
var ErrGeneratorOutputDirRequired = errors.New("docsite config: generator output directory is required when generator is enabled")

// ErrGeneratorBaseURLInvalid indicates a malformed site base URL.
var ErrGeneratorBaseURLInvalid = errors.New("docsite config: site base URL must not contain whitespace")

var ErrStorageProviderUnknown = errors.New("docsite config: storage provider is invalid")
var ErrLoggingProviderRequired = errors.New("docsite config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("docsite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsite config: logging format is invalid")
var ErrCheckLanguageUnknown = errors.New("docsite config: snippet check language is not supported")
var ErrWatchRequiresGenerator = errors.New("docsite config: watch mode requires the generator to be enabled")

// Config aggregates feature flags and adapter bindings for the docsite module.
// Fields intentionally use simple types so host applications can extend them.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Site          SiteConfig
	Docs          DocsConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Generator     GeneratorConfig
	Check         CheckConfig
	Watch         WatchConfig
	Features      Features
	Logging       LoggingConfig
}

// SiteConfig carries site-wide metadata surfaced to layouts and the sitemap.
type SiteConfig struct {
	Title   string
	BaseURL string
}

// DocsConfig captures filesystem and parser behaviour for document ingestion.
type DocsConfig struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	LocalePatterns map[string]string
	Locales        []string
	Parser         ParserConfig
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ParseOptions converts the configuration into the parser contract type.
func (p ParserConfig) ParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), p.Extensions...),
		Sanitize:   p.Sanitize,
		HardWraps:  p.HardWraps,
		SafeMode:   p.SafeMode,
	}
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool
	OutputDir       string
	LayoutDir       string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	IncludeDrafts   bool
}

// CheckConfig controls the editorial QA pass.
type CheckConfig struct {
	Links            bool
	Snippets         bool
	SnippetLanguages []string
	FailOnWarning    bool
}

// WatchConfig controls the rebuild-on-change loop used by the preview server.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// Features toggles module functionality.
type Features struct {
	Generator bool
	Check     bool
	Watch     bool
	Logger    bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a docs tree in ./docs
// rendered into ./dist with English as the only locale.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "en",
		Site: SiteConfig{
			Title: "Documentation",
		},
		Docs: DocsConfig{
			ContentDir:     "docs",
			Pattern:        "*.md",
			Recursive:      true,
			LocalePatterns: map[string]string{},
			Locales:        []string{"en"},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			OutputDir:       "dist",
			CleanBuild:      true,
			Incremental:     false,
			GenerateSitemap: true,
			GenerateRobots:  false,
			Workers:         0,
		},
		Check: CheckConfig{
			Links:            true,
			Snippets:         true,
			SnippetLanguages: nil, // nil means every registered grammar
			FailOnWarning:    true,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Features: Features{
			Generator: true,
			Check:     true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Docs.ContentDir) == "" {
		return ErrDocsContentDirRequired
	}
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if len(cfg.Docs.Locales) > 0 && !containsFold(cfg.Docs.Locales, cfg.DefaultLocale) {
		return ErrDefaultLocaleUnknown
	}
	if provider := normalize(cfg.Storage.Provider); provider != "" && !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.Generator && cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if base := cfg.Site.BaseURL; strings.ContainsAny(base, " \t") {
			return ErrGeneratorBaseURLInvalid
		}
	}
	if cfg.Features.Watch && !cfg.Features.Generator {
		return ErrWatchRequiresGenerator
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
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

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "memory", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
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
