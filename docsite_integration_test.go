package docsite_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	docsite "github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const nullSafetyDoc = `---
type: doc
layout: reference
category: types
title: Null Safety
slug: null-safety
weight: 40
tags: [types]
---

# Null Safety

Nullable types end in ` + "`?`" + `.

## Safe Calls

Use [safe calls](#safe-calls) or read about [basics](/getting-started/).

` + "```kotlin" + `
val length = name?.length ?: 0
` + "```" + `
`

const gettingStartedDoc = `---
type: doc
layout: guide
category: basics
title: Getting Started
slug: getting-started
weight: 10
---

# Getting Started

Continue with [null safety](/null-safety/#safe-calls).
`

const gettingStartedDocES = `---
type: doc
layout: guide
category: basics
title: Primeros pasos
slug: getting-started
weight: 10
---

# Primeros pasos

Sigue con [null safety](/null-safety/#safe-calls).
`

// testModule roots the filesystem at the content directory, the contract
// di.WithContentFS documents. Locale directories sit at the top level so the
// loader infers locales from the leading path segment.
func testModule(t *testing.T, writer generator.ArtifactWriter) *docsite.Module {
	t.Helper()

	cfg := docsite.DefaultConfig()
	cfg.Site.Title = "Kotlin Docs"
	cfg.Site.BaseURL = "https://docs.example.com"
	cfg.Docs.ContentDir = "docs"
	cfg.Docs.Locales = []string{"en", "es"}
	cfg.Generator.CleanBuild = false

	filesystem := fstest.MapFS{
		"getting-started.md": &fstest.MapFile{
			Data:    []byte(gettingStartedDoc),
			ModTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		"types/null-safety.md": &fstest.MapFile{
			Data:    []byte(nullSafetyDoc),
			ModTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
		"es/getting-started.md": &fstest.MapFile{
			Data:    []byte(gettingStartedDocES),
			ModTime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		},
	}

	module, err := docsite.New(cfg,
		di.WithContentFS(filesystem),
		di.WithArtifactWriter(writer),
	)
	if err != nil {
		t.Fatalf("docsite.New: %v", err)
	}
	return module
}

func TestModule_EndToEnd(t *testing.T) {
	ctx := context.Background()
	writer := generator.NewMemoryWriter()
	module := testModule(t, writer)

	documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(documents))
	}
	for _, doc := range documents {
		want := "en"
		if strings.HasPrefix(doc.FilePath, "es/") {
			want = "es"
		}
		if doc.Locale != want {
			t.Fatalf("expected locale %s for %s, got %s", want, doc.FilePath, doc.Locale)
		}
	}

	report, err := module.Check().CheckDocuments(ctx, documents)
	if err != nil {
		t.Fatalf("CheckDocuments: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected clean check report, got %v", report.Issues)
	}
	if report.SnippetsChecked != 1 {
		t.Fatalf("expected 1 snippet checked, got %d", report.SnippetsChecked)
	}

	result, err := module.Sync().SyncDocuments(ctx, documents, interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("SyncDocuments: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("expected 2 pages created, got %+v", result)
	}

	build, err := module.Generator().Build(ctx, generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if build.PagesBuilt != 3 {
		t.Fatalf("expected 3 pages built, got %d", build.PagesBuilt)
	}

	html, ok := writer.File("null-safety/index.html")
	if !ok {
		t.Fatalf("expected null-safety output, have %v", writer.Paths())
	}
	page := string(html)
	if !strings.Contains(page, "<h1>Null Safety</h1>") {
		t.Fatalf("expected rendered heading, got %q", page)
	}
	if !strings.Contains(page, `href="/getting-started/"`) {
		t.Fatalf("expected nav link in layout, got %q", page)
	}

	if _, ok := writer.File("es/getting-started/index.html"); !ok {
		t.Fatalf("expected localized output under the locale prefix, have %v", writer.Paths())
	}

	if _, ok := writer.File("sitemap.xml"); !ok {
		t.Fatalf("expected sitemap.xml, have %v", writer.Paths())
	}
}

func TestModule_CatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	module := testModule(t, generator.NewMemoryWriter())

	documents, err := module.Markdown().LoadDirectory(ctx, "", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if _, err := module.Sync().SyncDocuments(ctx, documents, interfaces.SyncOptions{}); err != nil {
		t.Fatalf("SyncDocuments: %v", err)
	}

	page, err := module.Docs().GetBySlug(ctx, "null-safety")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if page.Category != "types" || page.Weight != 40 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	if len(page.Translations) != 1 {
		t.Fatalf("expected 1 translation, got %d", len(page.Translations))
	}
	if page.Translations[0].Path != "/null-safety/" {
		t.Fatalf("unexpected route: %s", page.Translations[0].Path)
	}

	localized, err := module.Docs().GetBySlug(ctx, "getting-started")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	routes := map[string]string{}
	for _, tr := range localized.Translations {
		routes[tr.Locale] = tr.Path
	}
	if routes["en"] != "/getting-started/" || routes["es"] != "/es/getting-started/" {
		t.Fatalf("unexpected localized routes: %v", routes)
	}

	trees, err := module.Nav().BuildAll(ctx, []string{"en"})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(trees) == 0 {
		t.Fatalf("expected navigation trees")
	}
}
