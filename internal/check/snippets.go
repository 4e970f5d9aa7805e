package check

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/goliatone/go-docsite/internal/markdown"
)

// maxSnippetIssues caps findings per snippet so one mangled block does not
// drown the report.
const maxSnippetIssues = 5

// SnippetStats counts snippet outcomes for a single document.
type SnippetStats struct {
	Checked int
	Skipped int
}

// SnippetChecker parses fenced code blocks with tree-sitter and reports
// blocks the grammar cannot accept.
type SnippetChecker struct {
	registry *LanguageRegistry
}

// NewSnippetChecker builds a checker. A nil registry falls back to the
// built-in grammars.
func NewSnippetChecker(registry *LanguageRegistry) *SnippetChecker {
	if registry == nil {
		registry = NewLanguageRegistry()
	}
	return &SnippetChecker{registry: registry}
}

// Check extracts every fenced code block from body and parses each one with
// the grammar named by its fence info string. Fences with no info string or
// an unregistered language are skipped.
func (c *SnippetChecker) Check(file string, body []byte) ([]Issue, SnippetStats) {
	var issues []Issue
	var stats SnippetStats

	for _, snippet := range markdown.ExtractSnippets(body) {
		if snippet.Language == "" {
			stats.Skipped++
			continue
		}
		lang, ok := c.registry.Lookup(snippet.Language)
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Checked++
		issues = append(issues, parseSnippet(file, snippet, lang)...)
	}

	return issues, stats
}

func parseSnippet(file string, snippet markdown.Snippet, lang *tree_sitter.Language) []Issue {
	if len(snippet.Code) == 0 {
		return nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return []Issue{{
			File:     file,
			Line:     snippet.Line,
			Rule:     RuleSnippetSyntax,
			Severity: SeverityError,
			Detail:   fmt.Sprintf("%s grammar unavailable: %v", snippet.Language, err),
		}}
	}

	tree := parser.Parse(snippet.Code, nil)
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	var issues []Issue
	collectSyntaxErrors(root, snippet, file, &issues)
	if len(issues) == 0 {
		// HasError with no reachable ERROR/MISSING node still means the
		// snippet did not parse cleanly.
		issues = append(issues, Issue{
			File:     file,
			Line:     snippet.Line,
			Rule:     RuleSnippetSyntax,
			Severity: SeverityError,
			Detail:   fmt.Sprintf("invalid %s snippet", snippet.Language),
		})
	}
	return issues
}

// collectSyntaxErrors walks subtrees that carry errors and records ERROR and
// MISSING nodes with document-relative line numbers.
func collectSyntaxErrors(n *tree_sitter.Node, snippet markdown.Snippet, file string, issues *[]Issue) {
	if len(*issues) >= maxSnippetIssues {
		return
	}

	switch {
	case n.IsMissing():
		*issues = append(*issues, Issue{
			File:     file,
			Line:     snippetLine(snippet, n),
			Rule:     RuleSnippetSyntax,
			Severity: SeverityError,
			Detail:   fmt.Sprintf("%s snippet is missing %q", snippet.Language, n.Kind()),
		})
		return
	case n.IsError():
		*issues = append(*issues, Issue{
			File:     file,
			Line:     snippetLine(snippet, n),
			Rule:     RuleSnippetSyntax,
			Severity: SeverityError,
			Detail:   fmt.Sprintf("%s snippet has invalid syntax near %q", snippet.Language, errorContext(n, snippet.Code)),
		})
		return
	}

	if !n.HasError() {
		return
	}
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		collectSyntaxErrors(n.Child(i), snippet, file, issues)
	}
}

// snippetLine converts a node row inside the snippet into a line number
// within the Markdown body.
func snippetLine(snippet markdown.Snippet, n *tree_sitter.Node) int {
	return snippet.Line + int(n.StartPosition().Row)
}

// errorContext returns a short excerpt of the offending source text.
func errorContext(n *tree_sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if start >= uint(len(source)) {
		return ""
	}
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	text := strings.TrimSpace(string(source[start:end]))
	if line := strings.IndexByte(text, '\n'); line >= 0 {
		text = text[:line]
	}
	const limit = 40
	if len(text) > limit {
		text = text[:limit] + "…"
	}
	return text
}
