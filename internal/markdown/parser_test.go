package markdown

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Kind != "doc" {
		t.Fatalf("FrontMatter Kind mismatch, got %q", fm.Kind)
	}
	if fm.Layout != "reference" {
		t.Fatalf("FrontMatter Layout mismatch, got %q", fm.Layout)
	}
	if fm.Category != "types" {
		t.Fatalf("FrontMatter Category mismatch, got %q", fm.Category)
	}
	if fm.Title != "Null Safety" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Slug != "null-safety" {
		t.Fatalf("FrontMatter Slug mismatch, got %q", fm.Slug)
	}
	if fm.Weight != 40 {
		t.Fatalf("FrontMatter Weight mismatch, got %d", fm.Weight)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "types" {
		t.Fatalf("FrontMatter Tags mismatch: %#v", fm.Tags)
	}
	if fm.Custom["audience"] != "beginner" {
		t.Fatalf("FrontMatter Custom audience missing: %#v", fm.Custom)
	}
	if fm.Raw["summary"] != "Nullable and non-nullable types, safe calls, and the Elvis operator" {
		t.Fatalf("FrontMatter Raw summary missing: %#v", fm.Raw)
	}
	if len(body) == 0 || !strings.Contains(string(body), "# Null Safety") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestBuildDocument(t *testing.T) {
	data := readFixture(t, "testdata/basic.md")
	modified := time.Now().UTC()

	doc, err := BuildDocument("testdata/basic.md", "en", data, modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "testdata/basic.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if doc.Locale != "en" {
		t.Fatalf("expected Locale to be en, got %q", doc.Locale)
	}
	if doc.LastModified != modified {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	if len(doc.Body) == 0 {
		t.Fatalf("expected Body to contain markdown content")
	}
	if len(doc.BodyHTML) != 0 {
		t.Fatalf("expected BodyHTML to stay empty until rendered")
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_HeadingAnchors(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("## Safe Calls"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !strings.Contains(string(html), `id="safe-calls"`) {
		t.Fatalf("expected auto heading id, got %q", string(html))
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeStripsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("<script>alert(1)</script>"), interfaces.ParseOptions{
		SafeMode: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML to be suppressed, got %q", string(html))
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
