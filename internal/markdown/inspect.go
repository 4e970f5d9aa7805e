package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Snippet is a fenced code block lifted out of a document body.
type Snippet struct {
	// Language is the first word of the fence info string, lower-cased.
	// Empty when the fence carries no info string.
	Language string
	Code     []byte
	// Line is the 1-based line of the snippet's first content line within the body.
	Line int
}

// LinkRef is a link or image destination found in a document body.
type LinkRef struct {
	Destination string
	Title       string
	Image       bool
}

// Heading captures a section heading and the anchor id goldmark assigns to it.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// inspectEngine parses without rendering; auto heading ids must match the
// rendering configuration so anchors line up with generated HTML.
var inspectEngine = goldmark.New(
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
)

// ExtractSnippets walks the Markdown AST and returns every fenced code block
// in document order.
func ExtractSnippets(source []byte) []Snippet {
	root := inspectEngine.Parser().Parse(text.NewReader(source))

	var snippets []Snippet
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := ""
		if fence.Info != nil {
			info := string(fence.Info.Segment.Value(source))
			if fields := strings.Fields(info); len(fields) > 0 {
				lang = strings.ToLower(fields[0])
			}
		}

		var code bytes.Buffer
		line := 0
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			if i == 0 {
				line = lineNumber(source, segment.Start)
			}
			code.Write(segment.Value(source))
		}

		snippets = append(snippets, Snippet{
			Language: lang,
			Code:     code.Bytes(),
			Line:     line,
		})
		return ast.WalkContinue, nil
	})

	return snippets
}

// ExtractLinks returns every link, image, and autolink destination in the body.
func ExtractLinks(source []byte) []LinkRef {
	root := inspectEngine.Parser().Parse(text.NewReader(source))

	var links []LinkRef
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Link:
			links = append(links, LinkRef{
				Destination: string(n.Destination),
				Title:       string(n.Title),
			})
		case *ast.Image:
			links = append(links, LinkRef{
				Destination: string(n.Destination),
				Title:       string(n.Title),
				Image:       true,
			})
		case *ast.AutoLink:
			links = append(links, LinkRef{
				Destination: string(n.URL(source)),
			})
		}
		return ast.WalkContinue, nil
	})

	return links
}

// ExtractHeadings returns the document's headings with the anchor ids the
// renderer will emit.
func ExtractHeadings(source []byte) []Heading {
	root := inspectEngine.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		anchor := ""
		if id, found := heading.AttributeString("id"); found {
			if raw, ok := id.([]byte); ok {
				anchor = string(raw)
			}
		}

		headings = append(headings, Heading{
			Level:  heading.Level,
			Text:   string(heading.Text(source)),
			Anchor: anchor,
		})
		return ast.WalkContinue, nil
	})

	return headings
}

func lineNumber(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
