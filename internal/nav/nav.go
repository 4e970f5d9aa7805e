package nav

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/goliatone/go-docsite/internal/docs"
)

var ErrPagesServiceRequired = errors.New("nav: pages service is required")

// Item is a single navigation entry pointing at a page route.
type Item struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Path   string `json:"path"`
	Weight int    `json:"weight"`
}

// Section groups navigation items under a page category.
type Section struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// Tree is the navigation for one locale.
type Tree struct {
	Locale   string    `json:"locale"`
	Sections []Section `json:"sections"`
}

// Service builds navigation trees from the page catalog.
type Service interface {
	Build(ctx context.Context, locale string) (*Tree, error)
	BuildAll(ctx context.Context, locales []string) (map[string]*Tree, error)
}

// Config controls how navigation falls back across locales.
type Config struct {
	DefaultLocale string
	// CategoryOrder pins categories to an explicit position; unlisted
	// categories sort alphabetically after the pinned ones.
	CategoryOrder []string
	// IncludeDrafts exposes draft pages in navigation, useful for previews.
	IncludeDrafts bool
}

type service struct {
	pages         docs.Service
	defaultLocale string
	categoryRank  map[string]int
	includeDrafts bool
}

// NewService constructs a navigation service over the page catalog.
func NewService(pages docs.Service, cfg Config) Service {
	defaultLocale := strings.TrimSpace(cfg.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	rank := make(map[string]int, len(cfg.CategoryOrder))
	for i, category := range cfg.CategoryOrder {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		if _, ok := rank[category]; !ok {
			rank[category] = i
		}
	}
	return &service{
		pages:         pages,
		defaultLocale: defaultLocale,
		categoryRank:  rank,
		includeDrafts: cfg.IncludeDrafts,
	}
}

// Build assembles the navigation tree for a locale. Pages missing a
// translation in the requested locale fall back to the default locale's
// title and route so navigation stays complete.
func (s *service) Build(ctx context.Context, locale string) (*Tree, error) {
	if s.pages == nil {
		return nil, ErrPagesServiceRequired
	}

	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = s.defaultLocale
	}

	records, err := s.pages.List(ctx, docs.ListOptions{IncludeDrafts: s.includeDrafts})
	if err != nil {
		return nil, err
	}

	grouped := map[string][]Item{}
	for _, record := range records {
		if record == nil {
			continue
		}
		translation := pickTranslation(record, locale, s.defaultLocale)
		if translation == nil {
			continue
		}
		grouped[record.Category] = append(grouped[record.Category], Item{
			Title:  translation.Title,
			Slug:   record.Slug,
			Path:   translation.Path,
			Weight: record.Weight,
		})
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return s.categoryLess(categories[i], categories[j])
	})

	sections := make([]Section, 0, len(categories))
	for _, category := range categories {
		items := grouped[category]
		sort.Slice(items, func(i, j int) bool {
			if items[i].Weight != items[j].Weight {
				return items[i].Weight < items[j].Weight
			}
			return items[i].Title < items[j].Title
		})
		sections = append(sections, Section{
			Category: category,
			Items:    items,
		})
	}

	return &Tree{
		Locale:   locale,
		Sections: sections,
	}, nil
}

// BuildAll assembles navigation trees for every supplied locale.
func (s *service) BuildAll(ctx context.Context, locales []string) (map[string]*Tree, error) {
	if len(locales) == 0 {
		locales = []string{s.defaultLocale}
	}

	trees := make(map[string]*Tree, len(locales))
	for _, locale := range locales {
		tree, err := s.Build(ctx, locale)
		if err != nil {
			return nil, err
		}
		trees[tree.Locale] = tree
	}
	return trees, nil
}

func (s *service) categoryLess(a, b string) bool {
	rankA, okA := s.categoryRank[a]
	rankB, okB := s.categoryRank[b]
	switch {
	case okA && okB:
		return rankA < rankB
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func pickTranslation(page *docs.Page, locale, defaultLocale string) *docs.PageTranslation {
	var fallback *docs.PageTranslation
	for _, tr := range page.Translations {
		if tr == nil {
			continue
		}
		if tr.Locale == locale {
			return tr
		}
		if tr.Locale == defaultLocale {
			fallback = tr
		}
	}
	return fallback
}
