package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/internal/nav"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errWriterRequired   = errors.New("generator: artifact writer is required")
	errPagesRequired    = errors.New("generator: pages service is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	SiteTitle       string
	BaseURL         string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	DefaultLocale   string
	Locales         []string
	IncludeDrafts   bool
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	Locales []string
	Slugs   []string
	DryRun  bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	PagesSkipped int
	Locales      []string
	Duration     time.Duration
	Rendered     []RenderedPage
	Errors       []error
	DryRun       bool
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Pages    docs.Service
	Nav      nav.Service
	Renderer TemplateRenderer
	Writer   ArtifactWriter
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return &service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg  Config
	deps Dependencies
	now  func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error { return ErrServiceDisabled }

// renderUnit is one page/locale combination scheduled for rendering.
type renderUnit struct {
	page        *docs.Page
	translation *docs.PageTranslation
	tree        *nav.Tree
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Writer == nil {
		return nil, errWriterRequired
	}
	if s.deps.Pages == nil {
		return nil, errPagesRequired
	}

	start := time.Now()
	generatedAt := s.now().UTC()

	locales := s.scopeLocales(opts.Locales)
	units, err := s.loadUnits(ctx, opts, locales)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		Locales: locales,
		DryRun:  opts.DryRun,
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.deps.Writer.RemoveAll(ctx, ""); err != nil {
			return nil, fmt.Errorf("generator: clean output: %w", err)
		}
	}
	if !opts.DryRun {
		if err := s.deps.Writer.EnsureDir(ctx, ""); err != nil {
			return nil, fmt.Errorf("generator: ensure output dir: %w", err)
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !s.cfg.CleanBuild {
		data, readErr := s.deps.Writer.ReadFile(ctx, manifestFileName)
		if readErr == nil {
			if parsed, parseErr := parseManifest(data); parseErr == nil {
				manifest = parsed
			}
		}
	}

	siteMeta := SiteMetadata{
		Title:         s.cfg.SiteTitle,
		BaseURL:       strings.TrimRight(s.cfg.BaseURL, "/"),
		DefaultLocale: s.cfg.DefaultLocale,
		Locales:       locales,
	}
	buildMeta := BuildMetadata{
		GeneratedAt: generatedAt,
		Incremental: s.cfg.Incremental,
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(units))
		errorsSlice []error
		pageKeys    = map[string]struct{}{}
	)

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		if outcome.page.PageID != uuid.Nil {
			pageKeys[manifest.pageKey(outcome.page.PageID, outcome.page.Locale)] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workerCount := s.effectiveWorkerCount(len(units))
	if workerCount <= 1 {
		for _, unit := range units {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			collect(s.renderUnit(siteMeta, buildMeta, unit, manifest))
		}
	} else {
		s.renderConcurrently(ctx, siteMeta, buildMeta, units, manifest, workerCount, collect)
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		s.logBuild(ctx, result, errorsSlice)
		if len(errorsSlice) > 0 {
			result.Errors = errorsSlice
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	for _, page := range rendered {
		if err := s.deps.Writer.WriteFile(ctx, page.Output, []byte(page.HTML)); err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: write %s: %w", page.Output, err))
		}
	}

	if s.cfg.GenerateSitemap {
		sitemapPages := s.mergeForSitemap(rendered, manifest, pageKeys)
		sitemap := buildSitemap(siteMeta.BaseURL, sitemapPages, generatedAt)
		if err := s.deps.Writer.WriteFile(ctx, "sitemap.xml", []byte(sitemap)); err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: write sitemap: %w", err))
		}
	}

	if s.cfg.GenerateRobots {
		robots := buildRobots(siteMeta.BaseURL, s.cfg.GenerateSitemap)
		if err := s.deps.Writer.WriteFile(ctx, "robots.txt", []byte(robots)); err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: write robots: %w", err))
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = generatedAt
		for _, page := range rendered {
			manifest.setPage(manifestPage{
				PageID:       page.PageID.String(),
				Locale:       page.Locale,
				Route:        page.Route,
				Output:       page.Output,
				Layout:       page.Layout,
				Hash:         page.Checksum,
				Checksum:     page.Checksum,
				LastModified: page.LastModified,
				RenderedAt:   generatedAt,
			})
		}
		manifest.prunePages(pageKeys)
		if data, marshalErr := manifest.marshal(); marshalErr == nil {
			if err := s.deps.Writer.WriteFile(ctx, manifestFileName, data); err != nil {
				errorsSlice = append(errorsSlice, fmt.Errorf("generator: write manifest: %w", err))
			}
		} else {
			errorsSlice = append(errorsSlice, marshalErr)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logBuild(ctx, result, errorsSlice)
	if len(errorsSlice) > 0 {
		result.Errors = errorsSlice
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

func (s *service) logBuild(ctx context.Context, result *BuildResult, errs []error) {
	if s.deps.Logger == nil {
		return
	}
	s.deps.Logger.WithContext(ctx).Info("build complete",
		"pages", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"locales", strings.Join(result.Locales, ","),
		"duration", result.Duration.String(),
		"dry_run", result.DryRun,
		"errors", len(errs),
	)
}

func (s *service) Clean(ctx context.Context) error {
	if s.deps.Writer == nil {
		return errWriterRequired
	}
	if s.deps.Logger != nil {
		s.deps.Logger.WithContext(ctx).Debug("cleaning output")
	}
	return s.deps.Writer.RemoveAll(ctx, "")
}

func (s *service) loadUnits(ctx context.Context, opts BuildOptions, locales []string) ([]renderUnit, error) {
	records, err := s.deps.Pages.List(ctx, docs.ListOptions{IncludeDrafts: s.cfg.IncludeDrafts})
	if err != nil {
		return nil, fmt.Errorf("generator: list pages: %w", err)
	}

	slugFilter := map[string]struct{}{}
	for _, slug := range opts.Slugs {
		slug = strings.TrimSpace(slug)
		if slug != "" {
			slugFilter[slug] = struct{}{}
		}
	}

	localeSet := map[string]struct{}{}
	for _, locale := range locales {
		localeSet[locale] = struct{}{}
	}

	trees := map[string]*nav.Tree{}
	if s.deps.Nav != nil {
		built, err := s.deps.Nav.BuildAll(ctx, locales)
		if err != nil {
			return nil, fmt.Errorf("generator: build navigation: %w", err)
		}
		trees = built
	}

	var units []renderUnit
	for _, record := range records {
		if record == nil {
			continue
		}
		if len(slugFilter) > 0 {
			if _, ok := slugFilter[record.Slug]; !ok {
				continue
			}
		}
		for _, translation := range record.Translations {
			if translation == nil {
				continue
			}
			if _, ok := localeSet[translation.Locale]; !ok {
				continue
			}
			units = append(units, renderUnit{
				page:        record,
				translation: translation,
				tree:        treeForLocale(trees, translation.Locale),
			})
		}
	}
	return units, nil
}

func (s *service) renderUnit(site SiteMetadata, build BuildMetadata, unit renderUnit, manifest *buildManifest) renderOutcome {
	started := time.Now()
	route := unit.translation.Path
	output := buildOutputPath(route)
	hash := unitHash(site, unit)

	if s.cfg.Incremental && manifest.shouldSkipPage(unit.page.ID, unit.translation.Locale, hash, output) {
		return renderOutcome{
			page: RenderedPage{
				PageID: unit.page.ID,
				Locale: unit.translation.Locale,
				Route:  route,
				Output: output,
			},
			skipped: true,
		}
	}

	pageCtx := PageRenderingContext{
		Title:       unit.translation.Title,
		Summary:     stringValue(unit.translation.Summary),
		Kind:        unit.page.Kind,
		Layout:      unit.page.Layout,
		Category:    unit.page.Category,
		Slug:        unit.page.Slug,
		Locale:      unit.translation.Locale,
		Path:        route,
		Tags:        unit.translation.Tags,
		Content:     template.HTML(unit.translation.BodyHTML),
		FrontMatter: unit.translation.FrontMatter,
		UpdatedAt:   unit.translation.UpdatedAt,
	}

	html, err := s.deps.Renderer.Render(unit.page.Layout, TemplateContext{
		Site:  site,
		Page:  pageCtx,
		Nav:   unit.tree,
		Build: build,
	})
	if err != nil {
		return renderOutcome{
			page: RenderedPage{
				PageID: unit.page.ID,
				Locale: unit.translation.Locale,
				Route:  route,
			},
			err: fmt.Errorf("generator: render %s (%s): %w", unit.page.Slug, unit.translation.Locale, err),
		}
	}

	return renderOutcome{
		page: RenderedPage{
			PageID:       unit.page.ID,
			Locale:       unit.translation.Locale,
			Route:        route,
			Output:       output,
			Layout:       unit.page.Layout,
			HTML:         string(html),
			Checksum:     hash,
			LastModified: unit.translation.UpdatedAt,
			Duration:     time.Since(started),
		},
	}
}

func (s *service) renderConcurrently(ctx context.Context, site SiteMetadata, build BuildMetadata, units []renderUnit, manifest *buildManifest, workers int, collect func(renderOutcome)) {
	jobs := make(chan renderUnit)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for unit := range jobs {
				collect(s.renderUnit(site, build, unit, manifest))
			}
		}()
	}

	for _, unit := range units {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- unit:
		}
	}
	close(jobs)
	wg.Wait()
}

// mergeForSitemap combines freshly rendered pages with manifest entries for
// pages skipped by the incremental check, so the sitemap stays complete.
func (s *service) mergeForSitemap(rendered []RenderedPage, manifest *buildManifest, pageKeys map[string]struct{}) []RenderedPage {
	merged := append([]RenderedPage(nil), rendered...)
	seen := map[string]struct{}{}
	for _, page := range rendered {
		seen[manifest.pageKey(page.PageID, page.Locale)] = struct{}{}
	}
	for key, entry := range manifest.Pages {
		if _, ok := seen[key]; ok {
			continue
		}
		if _, inScope := pageKeys[key]; !inScope {
			continue
		}
		merged = append(merged, RenderedPage{
			Route:        entry.Route,
			Output:       entry.Output,
			LastModified: entry.LastModified,
		})
	}
	return merged
}

func (s *service) scopeLocales(requested []string) []string {
	configured := s.cfg.Locales
	if len(configured) == 0 {
		configured = []string{s.cfg.DefaultLocale}
	}
	if len(requested) == 0 {
		return append([]string(nil), configured...)
	}

	allowed := map[string]struct{}{}
	for _, locale := range configured {
		allowed[locale] = struct{}{}
	}
	out := make([]string, 0, len(requested))
	for _, locale := range requested {
		locale = strings.TrimSpace(locale)
		if locale == "" {
			continue
		}
		if _, ok := allowed[locale]; ok {
			out = append(out, locale)
		}
	}
	return out
}

func (s *service) effectiveWorkerCount(unitCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > unitCount {
		workers = unitCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func unitHash(site SiteMetadata, unit renderUnit) string {
	h := sha256.New()
	h.Write([]byte(site.BaseURL))
	h.Write([]byte{0})
	h.Write([]byte(site.Title))
	h.Write([]byte{0})
	h.Write([]byte(unit.page.Layout))
	h.Write([]byte{0})
	h.Write([]byte(unit.translation.Locale))
	h.Write([]byte{0})
	h.Write([]byte(unit.translation.Path))
	h.Write([]byte{0})
	h.Write([]byte(unit.translation.Title))
	h.Write([]byte{0})
	h.Write([]byte(unit.translation.Checksum))
	h.Write([]byte{0})
	h.Write([]byte(unit.translation.BodyHTML))
	return hex.EncodeToString(h.Sum(nil))
}

func treeForLocale(trees map[string]*nav.Tree, locale string) *nav.Tree {
	if tree, ok := trees[locale]; ok {
		return tree
	}
	return &nav.Tree{Locale: locale}
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
