package markdown

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc := newTestService(t, true)

	doc, err := svc.Load(context.Background(), "getting-started.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if doc.Locale != "en" {
		t.Fatalf("expected locale en, got %s", doc.Locale)
	}
	if doc.FrontMatter.Title != "Getting Started" {
		t.Fatalf("expected title Getting Started, got %q", doc.FrontMatter.Title)
	}
	if len(doc.BodyHTML) == 0 {
		t.Fatalf("expected BodyHTML to be populated")
	}
	if len(doc.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
}

func TestServiceLoadDirectory_MixedLocales(t *testing.T) {
	svc := newTestService(t, true)

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	locales := map[string]int{}
	var foundNested bool
	for _, doc := range docs {
		locales[doc.Locale]++
		if filepath.Ext(doc.FilePath) != ".md" {
			t.Fatalf("expected markdown file, got %s", doc.FilePath)
		}
		if len(doc.Checksum) == 0 {
			t.Fatalf("expected checksum set for %s", doc.FilePath)
		}
		if doc.FilePath == "types/null-safety.md" {
			foundNested = true
		}
	}

	if locales["en"] != 2 || locales["es"] != 1 {
		t.Fatalf("unexpected locale distribution: %#v", locales)
	}
	if !foundNested {
		t.Fatalf("expected to include types/null-safety.md")
	}
}

func TestServiceLoadDirectory_NonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, true)

	no := false
	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{
		Recursive: &no,
	})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}

	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FilePath != "getting-started.md" {
		t.Fatalf("expected getting-started.md, got %s", docs[0].FilePath)
	}
}

func TestServiceRenderDocument(t *testing.T) {
	svc := newTestService(t, true)

	doc := &interfaces.Document{Body: []byte("# Title\n\nbody")}
	html, err := svc.RenderDocument(context.Background(), doc, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	if len(html) == 0 || len(doc.BodyHTML) == 0 {
		t.Fatalf("expected rendered HTML on the document")
	}
}

func newTestService(tb testing.TB, recursive bool) *Service {
	tb.Helper()

	filesystem := fstest.MapFS{
		"getting-started.md": &fstest.MapFile{
			Data: []byte("---\ntype: doc\nlayout: guide\ncategory: basics\ntitle: Getting Started\n---\n\n# Getting Started\n"),
		},
		"types/null-safety.md": &fstest.MapFile{
			Data: []byte("---\ntype: doc\nlayout: reference\ncategory: types\ntitle: Null Safety\n---\n\n# Null Safety\n"),
		},
		"es/getting-started.md": &fstest.MapFile{
			Data: []byte("---\ntype: doc\nlayout: guide\ncategory: basics\ntitle: Primeros Pasos\n---\n\n# Primeros Pasos\n"),
		},
	}

	cfg := Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		LocalePatterns: map[string]string{
			"es": "es/**/*.md",
		},
		Pattern:   "*.md",
		Recursive: recursive,
	}

	return NewServiceWithFS(cfg, nil, filesystem)
}
