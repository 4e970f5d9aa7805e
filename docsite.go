// Package docsite turns a tree of localized Markdown documents into a
// published documentation site. Documents carry front matter (type, layout,
// category, title) ahead of a Markdown body; the module loads them, syncs
// them into a page catalog, builds navigation, renders static HTML, and
// verifies that code snippets parse and internal links resolve.
package docsite

import (
	"github.com/goliatone/go-docsite/internal/check"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/nav"
	syncsvc "github.com/goliatone/go-docsite/internal/sync"
	"github.com/goliatone/go-docsite/internal/watch"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// DocsService exports the page catalog contract.
type DocsService = docs.Service

// MarkdownService exports the document loading and rendering contract.
type MarkdownService = interfaces.MarkdownService

// NavService exports the navigation tree builder contract.
type NavService = nav.Service

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// CheckService exports the documentation QA contract.
type CheckService = check.Service

// SyncImporter exports the document-to-catalog reconciler.
type SyncImporter = syncsvc.Importer

// Module is the top level docsite runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a docsite module from configuration plus optional DI
// overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Docs returns the page catalog service.
func (m *Module) Docs() DocsService {
	return m.container.DocsService()
}

// Markdown returns the document loading and rendering service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Sync returns the importer that reconciles documents into the catalog.
func (m *Module) Sync() *SyncImporter {
	return m.container.Importer()
}

// Nav returns the navigation tree builder.
func (m *Module) Nav() NavService {
	return m.container.NavService()
}

// Generator returns the static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Check returns the snippet and link checker.
func (m *Module) Check() CheckService {
	return m.container.CheckService()
}

// NewWatcher builds a filesystem watcher invoking rebuild after content
// changes settle.
func (m *Module) NewWatcher(rebuild watch.RebuildFunc) (*watch.Watcher, error) {
	return m.container.NewWatcher(rebuild)
}

// LoggerProvider exposes the configured logging provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}
