package di

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-docsite/internal/check"
	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/console"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/nav"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	syncsvc "github.com/goliatone/go-docsite/internal/sync"
	"github.com/goliatone/go-docsite/internal/watch"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrWatchDisabled indicates the watch feature is turned off in configuration.
var ErrWatchDisabled = errors.New("di: watch feature is disabled")

// Container wires the docsite services. Repositories default to in-memory
// implementations; supplying a bun.DB upgrades the page catalog to SQL
// storage with optional caching.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	writer         generator.ArtifactWriter

	pageRepo docs.PageRepository

	markdownSvc  interfaces.MarkdownService
	docsSvc      docs.Service
	importer     *syncsvc.Importer
	navSvc       nav.Service
	generatorSvc generator.Service
	checkSvc     check.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches the page catalog onto SQL storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS reads documents from the supplied filesystem instead of the
// configured content directory. Tests use fstest.MapFS here.
func WithContentFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.contentFS = filesystem
	}
}

// WithArtifactWriter overrides where generated output lands.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithPageRepository overrides the page catalog storage entirely.
func WithPageRepository(repo docs.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithDocsService overrides the page catalog service.
func WithDocsService(svc docs.Service) Option {
	return func(c *Container) {
		c.docsSvc = svc
	}
}

// NewContainer validates the configuration and assembles the service graph.
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
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if c.bunDB == nil && c.pageRepo == nil {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		c.bunDB = db
	}
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &minLevel})
	}
	return nil
}

func (c *Container) configureRepositories() error {
	if c.pageRepo != nil {
		return nil
	}

	if c.bunDB == nil {
		c.pageRepo = docs.NewMemoryPageRepository()
		return nil
	}

	if c.Config.Cache.Enabled {
		if c.cacheService == nil {
			cacheCfg := repocache.DefaultConfig()
			cacheCfg.TTL = c.cacheTTL
			service, err := repocache.NewCacheService(cacheCfg)
			if err != nil {
				return err
			}
			c.cacheService = service
		}
		if c.keySerializer == nil {
			c.keySerializer = repocache.NewDefaultKeySerializer()
		}
		c.pageRepo = docs.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	}

	c.pageRepo = docs.NewBunPageRepository(c.bunDB)
	return nil
}

func (c *Container) configureServices() error {
	cfg := c.Config

	if c.docsSvc == nil {
		c.docsSvc = docs.NewService(c.pageRepo,
			docs.WithDefaultLocale(cfg.DefaultLocale),
			docs.WithLocales(cfg.Docs.Locales),
			docs.WithLogger(logging.PagesLogger(c.loggerProvider)),
		)
	}

	markdownCfg := markdown.Config{
		BasePath:       cfg.Docs.ContentDir,
		DefaultLocale:  cfg.DefaultLocale,
		Locales:        cfg.Docs.Locales,
		LocalePatterns: cfg.Docs.LocalePatterns,
		Pattern:        cfg.Docs.Pattern,
		Recursive:      cfg.Docs.Recursive,
		Parser:         cfg.Docs.Parser.ParseOptions(),
	}
	if c.contentFS != nil {
		c.markdownSvc = markdown.NewServiceWithFS(markdownCfg, nil, c.contentFS)
	} else {
		svc, err := markdown.NewService(markdownCfg, nil)
		if err != nil {
			return err
		}
		c.markdownSvc = svc
	}

	c.importer = syncsvc.NewImporter(syncsvc.ImporterConfig{
		Pages:         c.docsSvc,
		Logger:        logging.SyncLogger(c.loggerProvider),
		DefaultLocale: cfg.DefaultLocale,
	})

	c.navSvc = nav.NewService(c.docsSvc, nav.Config{
		DefaultLocale: cfg.DefaultLocale,
	})

	if cfg.Features.Generator && cfg.Generator.Enabled {
		if c.writer == nil {
			c.writer = generator.NewDiskWriter(cfg.Generator.OutputDir)
		}
		c.generatorSvc = generator.NewService(generator.Config{
			SiteTitle:       cfg.Site.Title,
			BaseURL:         cfg.Site.BaseURL,
			CleanBuild:      cfg.Generator.CleanBuild,
			Incremental:     cfg.Generator.Incremental,
			GenerateSitemap: cfg.Generator.GenerateSitemap,
			GenerateRobots:  cfg.Generator.GenerateRobots,
			Workers:         cfg.Generator.Workers,
			DefaultLocale:   cfg.DefaultLocale,
			Locales:         cfg.Docs.Locales,
			IncludeDrafts:   cfg.Generator.IncludeDrafts,
		}, generator.Dependencies{
			Pages:    c.docsSvc,
			Nav:      c.navSvc,
			Renderer: generator.NewHTMLRenderer(cfg.Generator.LayoutDir),
			Writer:   c.writer,
			Logger:   logging.GeneratorLogger(c.loggerProvider),
		})
	} else {
		c.generatorSvc = generator.NewDisabledService()
	}

	if cfg.Features.Check {
		registry := check.NewLanguageRegistry()
		for _, name := range cfg.Check.SnippetLanguages {
			if _, ok := registry.Lookup(strings.ToLower(strings.TrimSpace(name))); !ok {
				return fmt.Errorf("%w: %s", runtimeconfig.ErrCheckLanguageUnknown, name)
			}
		}
		c.checkSvc = check.NewService(check.Config{
			DefaultLocale:    cfg.DefaultLocale,
			Links:            cfg.Check.Links,
			Snippets:         cfg.Check.Snippets,
			SnippetLanguages: cfg.Check.SnippetLanguages,
			FailOnWarning:    cfg.Check.FailOnWarning,
		}, check.Dependencies{
			Pages:  c.docsSvc,
			Logger: logging.CheckLogger(c.loggerProvider),
		})
	} else {
		c.checkSvc = check.NewDisabledService()
	}

	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PageRepository exposes the catalog storage layer.
func (c *Container) PageRepository() docs.PageRepository {
	return c.pageRepo
}

// DocsService returns the page catalog service.
func (c *Container) DocsService() docs.Service {
	return c.docsSvc
}

// MarkdownService returns the document loading and rendering service.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// Importer returns the document-to-catalog sync service.
func (c *Container) Importer() *syncsvc.Importer {
	return c.importer
}

// NavService returns the navigation tree builder.
func (c *Container) NavService() nav.Service {
	return c.navSvc
}

// GeneratorService returns the static site generator. When the generator
// feature is off the returned service rejects builds with ErrServiceDisabled.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// CheckService returns the documentation QA checker.
func (c *Container) CheckService() check.Service {
	return c.checkSvc
}

// ArtifactWriter returns the writer the generator publishes through.
func (c *Container) ArtifactWriter() generator.ArtifactWriter {
	return c.writer
}

// NewWatcher builds a filesystem watcher that re-syncs and rebuilds when
// documents under the content directory change. Both the watch feature flag
// and Watch.Enabled must be set.
func (c *Container) NewWatcher(rebuild watch.RebuildFunc) (*watch.Watcher, error) {
	if !c.Config.Features.Watch || !c.Config.Watch.Enabled {
		return nil, ErrWatchDisabled
	}
	return watch.New(watch.Config{
		ContentDir: c.Config.Docs.ContentDir,
		Debounce:   c.Config.Watch.Debounce,
	}, rebuild, watch.WithLogger(logging.WatchLogger(c.loggerProvider)))
}
