package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/nav"
)

//go:embed templates/*.html.tmpl
var defaultTemplates embed.FS

// TemplateContext captures the data contract passed to layout templates.
type TemplateContext struct {
	Site  SiteMetadata
	Page  PageRenderingContext
	Nav   *nav.Tree
	Build BuildMetadata
}

// SiteMetadata exposes locale-aware site information to templates.
type SiteMetadata struct {
	Title         string
	BaseURL       string
	DefaultLocale string
	Locales       []string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Incremental bool
}

// PageRenderingContext contains the resolved data for one page/locale pair.
type PageRenderingContext struct {
	Title       string
	Summary     string
	Kind        string
	Layout      string
	Category    string
	Slug        string
	Locale      string
	Path        string
	Tags        []string
	Content     template.HTML
	FrontMatter map[string]any
	UpdatedAt   time.Time
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	PageID       uuid.UUID
	Locale       string
	Route        string
	Output       string
	Layout       string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

type renderOutcome struct {
	page    RenderedPage
	err     error
	skipped bool
}

// TemplateRenderer turns a template context into final HTML.
type TemplateRenderer interface {
	Render(layout string, ctx TemplateContext) ([]byte, error)
}

// HTMLRenderer renders layouts with html/template. Layouts resolve by name
// ("<layout>.html.tmpl"); unknown layouts fall back to the default layout.
// A layout directory on disk overrides the embedded set.
type HTMLRenderer struct {
	layoutDir string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewHTMLRenderer constructs a renderer. layoutDir may be empty, in which
// case only the embedded layouts are available.
func NewHTMLRenderer(layoutDir string) *HTMLRenderer {
	return &HTMLRenderer{
		layoutDir: strings.TrimSpace(layoutDir),
		cache:     map[string]*template.Template{},
	}
}

// Render satisfies TemplateRenderer.
func (r *HTMLRenderer) Render(layout string, ctx TemplateContext) ([]byte, error) {
	tmpl, err := r.lookup(layout, ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("generator: execute layout %s: %w", layout, err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) lookup(layout string, ctx TemplateContext) (*template.Template, error) {
	name := layoutFileName(layout)
	cacheKey := name + "|" + ctx.Page.Locale

	r.mu.RLock()
	cached, ok := r.cache[cacheKey]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	funcs := r.templateFuncs(ctx)

	tmpl, err := r.parse(name, funcs)
	if err != nil {
		if layout == "" || layout == defaultLayout {
			return nil, err
		}
		// Unknown layout name falls back to the default layout.
		tmpl, err = r.parse(layoutFileName(defaultLayout), funcs)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.cache[cacheKey] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *HTMLRenderer) parse(name string, funcs template.FuncMap) (*template.Template, error) {
	if r.layoutDir != "" {
		candidate := filepath.Join(r.layoutDir, name)
		if data, err := os.ReadFile(candidate); err == nil {
			tmpl, parseErr := template.New(name).Funcs(funcs).Parse(string(data))
			if parseErr != nil {
				return nil, fmt.Errorf("generator: parse layout %s: %w", candidate, parseErr)
			}
			return tmpl, nil
		}
	}

	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("generator: layout %s not found: %w", name, err)
	}
	tmpl, parseErr := template.New(name).Funcs(funcs).Parse(string(data))
	if parseErr != nil {
		return nil, fmt.Errorf("generator: parse embedded layout %s: %w", name, parseErr)
	}
	return tmpl, nil
}

func (r *HTMLRenderer) templateFuncs(ctx TemplateContext) template.FuncMap {
	base := strings.TrimRight(ctx.Site.BaseURL, "/")
	locale := ctx.Page.Locale
	defaultLocale := ctx.Site.DefaultLocale

	return template.FuncMap{
		"absoluteURL": func(path string) string {
			path = strings.TrimSpace(path)
			if path == "" {
				return base
			}
			if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
				return path
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			return base + path
		},
		"localeHome": func() string {
			if strings.EqualFold(locale, defaultLocale) || strings.TrimSpace(locale) == "" {
				return "/"
			}
			return "/" + locale + "/"
		},
		"isDefaultLocale": func() bool {
			return strings.EqualFold(locale, defaultLocale)
		},
	}
}

const defaultLayout = "default"

func layoutFileName(layout string) string {
	layout = strings.TrimSpace(strings.ToLower(layout))
	if layout == "" {
		layout = defaultLayout
	}
	return layout + ".html.tmpl"
}
