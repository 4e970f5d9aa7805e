package check

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/internal/docs"
	"github.com/goliatone/go-docsite/internal/sync"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ErrPagesServiceRequired is returned when the checker is built without a
// page catalog.
var ErrPagesServiceRequired = errors.New("check: pages service is required")

// ErrServiceDisabled indicates the check feature is disabled.
var ErrServiceDisabled = errors.New("check: service disabled")

// Service runs the documentation quality checks: every fenced snippet must
// parse under its language grammar, and every internal link must resolve to
// a published route (and anchor, when a fragment is present).
type Service interface {
	Run(ctx context.Context, opts Options) (*Report, error)
	CheckDocuments(ctx context.Context, documents []*interfaces.Document) (*Report, error)
}

// Options scopes a check run.
type Options struct {
	// Locales limits the run to the given locales. Empty checks everything.
	Locales []string
	// IncludeDrafts widens the catalog listing beyond published pages.
	IncludeDrafts bool
}

// Config carries the static checker settings.
type Config struct {
	DefaultLocale string
	// Links and Snippets select which passes run.
	Links    bool
	Snippets bool
	// SnippetLanguages limits snippet parsing to the named grammars. Empty
	// means every registered grammar.
	SnippetLanguages []string
	// FailOnWarning promotes warning findings to run failures.
	FailOnWarning bool
}

// Dependencies wires the checker's collaborators.
type Dependencies struct {
	Pages  docs.Service
	Logger interfaces.Logger
}

type service struct {
	cfg      Config
	pages    docs.Service
	logger   interfaces.Logger
	snippets *SnippetChecker
}

// NewService builds the checker over a page catalog.
func NewService(cfg Config, deps Dependencies) Service {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	registry := NewLanguageRegistry().Restrict(cfg.SnippetLanguages)
	return &service{
		cfg:      cfg,
		pages:    deps.Pages,
		logger:   deps.Logger,
		snippets: NewSnippetChecker(registry),
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Run(context.Context, Options) (*Report, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) CheckDocuments(context.Context, []*interfaces.Document) (*Report, error) {
	return nil, ErrServiceDisabled
}

// Run checks every translation in the catalog. The link target set always
// covers the full catalog, even when Locales narrows which pages get checked,
// so cross-locale links still resolve.
func (s *service) Run(ctx context.Context, opts Options) (*Report, error) {
	if s.pages == nil {
		return nil, ErrPagesServiceRequired
	}

	pages, err := s.pages.List(ctx, docs.ListOptions{IncludeDrafts: opts.IncludeDrafts})
	if err != nil {
		return nil, err
	}

	links := NewLinkChecker()
	for _, page := range pages {
		for _, tr := range page.Translations {
			links.AddTarget(tr.Path, []byte(tr.Body))
		}
	}

	scope := localeSet(opts.Locales)
	report := &Report{}
	for _, page := range pages {
		for _, tr := range page.Translations {
			if scope != nil {
				if _, ok := scope[strings.ToLower(tr.Locale)]; !ok {
					continue
				}
			}
			s.checkPage(report, links, sourceName(tr.SourcePath, tr.Path), tr.Path, []byte(tr.Body))
		}
	}

	sortIssues(report.Issues)
	s.logReport(ctx, report)
	return report, nil
}

// CheckDocuments validates loaded Markdown documents before they reach the
// catalog, deriving routes the same way the importer will.
func (s *service) CheckDocuments(ctx context.Context, documents []*interfaces.Document) (*Report, error) {
	links := NewLinkChecker()
	routes := make([]string, len(documents))
	for i, doc := range documents {
		routes[i] = docs.RoutePath(doc.Locale, s.cfg.DefaultLocale, sync.Slug(doc))
		links.AddTarget(routes[i], doc.Body)
	}

	report := &Report{}
	for i, doc := range documents {
		s.checkPage(report, links, doc.FilePath, routes[i], doc.Body)
	}

	sortIssues(report.Issues)
	s.logReport(ctx, report)
	return report, nil
}

func (s *service) checkPage(report *Report, links *LinkChecker, file, route string, body []byte) {
	report.PagesChecked++

	if s.cfg.Snippets {
		issues, snippetStats := s.snippets.Check(file, body)
		report.add(issues...)
		report.SnippetsChecked += snippetStats.Checked
		report.SnippetsSkipped += snippetStats.Skipped
	}

	if s.cfg.Links {
		issues, linkStats := links.Check(file, route, body)
		report.add(issues...)
		report.LinksChecked += linkStats.Checked
		report.LinksSkipped += linkStats.Skipped
	}
}

func (s *service) logReport(ctx context.Context, report *Report) {
	if s.logger == nil {
		return
	}
	logger := s.logger.WithContext(ctx)
	logger.Info("check complete",
		"pages", report.PagesChecked,
		"snippets", report.SnippetsChecked,
		"links", report.LinksChecked,
		"issues", len(report.Issues),
	)
	for _, issue := range report.Issues {
		emit := logger.Error
		if issue.Severity == SeverityWarning {
			emit = logger.Warn
		}
		emit("check finding", "file", issue.File, "line", issue.Line, "rule", issue.Rule, "detail", issue.Detail)
	}
}

func sourceName(sourcePath, route string) string {
	if strings.TrimSpace(sourcePath) != "" {
		return sourcePath
	}
	return route
}

func localeSet(locales []string) map[string]struct{} {
	if len(locales) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(locales))
	for _, locale := range locales {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale != "" {
			set[locale] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// sortIssues orders findings by file then line for stable CLI output.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].File == issues[j].File {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].File < issues[j].File
	})
}
