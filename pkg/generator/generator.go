// Package generator exposes the static site generation API for docsite hosts.
// Use NewService with Config and Dependencies to build prerendered pages,
// sitemaps, and robots files.
package generator

import internal "github.com/goliatone/go-docsite/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	Dependencies     = internal.Dependencies
	TemplateRenderer = internal.TemplateRenderer
	TemplateContext  = internal.TemplateContext
	SiteMetadata     = internal.SiteMetadata
	ArtifactWriter   = internal.ArtifactWriter
	DiskWriter       = internal.DiskWriter
	MemoryWriter     = internal.MemoryWriter
)

var ErrServiceDisabled = internal.ErrServiceDisabled

// NewService wires a static site generator with the supplied configuration
// and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}

// NewDiskWriter returns an ArtifactWriter rooted at dir.
func NewDiskWriter(dir string) *DiskWriter {
	return internal.NewDiskWriter(dir)
}

// NewMemoryWriter returns an ArtifactWriter that captures output in memory.
func NewMemoryWriter() *MemoryWriter {
	return internal.NewMemoryWriter()
}

// NewHTMLRenderer builds the html/template based renderer. An empty layout
// directory uses the embedded layouts.
func NewHTMLRenderer(layoutDir string) TemplateRenderer {
	return internal.NewHTMLRenderer(layoutDir)
}
