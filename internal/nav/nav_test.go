package nav

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsite/internal/docs"
)

func TestBuild_GroupsByCategoryAndWeight(t *testing.T) {
	svc := newTestNav(t)

	tree, err := svc.Build(context.Background(), "en")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tree.Locale != "en" {
		t.Fatalf("expected locale en, got %q", tree.Locale)
	}
	if len(tree.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(tree.Sections))
	}

	// basics is pinned first by category order.
	if tree.Sections[0].Category != "basics" {
		t.Fatalf("expected basics first, got %q", tree.Sections[0].Category)
	}
	if tree.Sections[1].Category != "types" {
		t.Fatalf("expected types second, got %q", tree.Sections[1].Category)
	}

	types := tree.Sections[1].Items
	if len(types) != 2 {
		t.Fatalf("expected 2 items in types, got %d", len(types))
	}
	if types[0].Slug != "basic-types" || types[1].Slug != "null-safety" {
		t.Fatalf("expected weight ordering, got %q then %q", types[0].Slug, types[1].Slug)
	}
	if types[1].Path != "/null-safety/" {
		t.Fatalf("unexpected path %q", types[1].Path)
	}
}

func TestBuild_LocaleFallsBackToDefault(t *testing.T) {
	svc := newTestNav(t)

	tree, err := svc.Build(context.Background(), "es")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var nullSafety *Item
	var gettingStarted *Item
	for _, section := range tree.Sections {
		for i := range section.Items {
			switch section.Items[i].Slug {
			case "null-safety":
				nullSafety = &section.Items[i]
			case "getting-started":
				gettingStarted = &section.Items[i]
			}
		}
	}

	if nullSafety == nil || gettingStarted == nil {
		t.Fatalf("expected both pages in navigation: %#v", tree)
	}
	if nullSafety.Title != "Seguridad ante nulos" || nullSafety.Path != "/es/null-safety/" {
		t.Fatalf("expected localized entry, got %#v", nullSafety)
	}
	// getting-started has no Spanish translation; the default locale fills in.
	if gettingStarted.Path != "/getting-started/" {
		t.Fatalf("expected fallback route, got %#v", gettingStarted)
	}
}

func TestBuild_ExcludesDraftsByDefault(t *testing.T) {
	pages := newTestCatalog(t)
	svc := NewService(pages, Config{DefaultLocale: "en"})

	tree, err := svc.Build(context.Background(), "en")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, section := range tree.Sections {
		for _, item := range section.Items {
			if item.Slug == "unfinished" {
				t.Fatalf("expected draft page hidden from navigation")
			}
		}
	}
}

func TestBuildAll(t *testing.T) {
	svc := newTestNav(t)

	trees, err := svc.BuildAll(context.Background(), []string{"en", "es"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("expected 2 trees, got %d", len(trees))
	}
	if trees["en"] == nil || trees["es"] == nil {
		t.Fatalf("expected trees keyed by locale: %#v", trees)
	}
}

func newTestNav(tb testing.TB) Service {
	tb.Helper()
	return NewService(newTestCatalog(tb), Config{
		DefaultLocale: "en",
		CategoryOrder: []string{"basics", "concepts"},
	})
}

func newTestCatalog(tb testing.TB) docs.Service {
	tb.Helper()

	svc := docs.NewService(docs.NewMemoryPageRepository(),
		docs.WithDefaultLocale("en"),
		docs.WithLocales([]string{"en", "es"}),
	)

	ctx := context.Background()
	create := func(req docs.CreatePageRequest, publish bool) {
		page, err := svc.Create(ctx, req)
		if err != nil {
			tb.Fatalf("create %s: %v", req.Slug, err)
		}
		if publish {
			if _, err := svc.Publish(ctx, docs.PublishPageRequest{ID: page.ID}); err != nil {
				tb.Fatalf("publish %s: %v", req.Slug, err)
			}
		}
	}

	create(docs.CreatePageRequest{
		Kind: "doc", Layout: "guide", Category: "basics", Slug: "getting-started", Weight: 10,
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Getting Started", Body: "b", BodyHTML: "<p>b</p>"},
		},
	}, true)

	create(docs.CreatePageRequest{
		Kind: "doc", Layout: "reference", Category: "types", Slug: "basic-types", Weight: 10,
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Basic Types", Body: "b", BodyHTML: "<p>b</p>"},
		},
	}, true)

	create(docs.CreatePageRequest{
		Kind: "doc", Layout: "reference", Category: "types", Slug: "null-safety", Weight: 40,
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Null Safety", Body: "b", BodyHTML: "<p>b</p>"},
			{Locale: "es", Title: "Seguridad ante nulos", Body: "b", BodyHTML: "<p>b</p>"},
		},
	}, true)

	create(docs.CreatePageRequest{
		Kind: "doc", Layout: "guide", Category: "wip", Slug: "unfinished",
		Translations: []docs.PageTranslationInput{
			{Locale: "en", Title: "Unfinished", Body: "b", BodyHTML: "<p>b</p>"},
		},
	}, false)

	return svc
}
