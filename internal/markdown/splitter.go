// Package markdown splits markdown documents into sections at heading
// boundaries, used to turn hand-maintained data-source notes into
// retrievable units.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Section is one heading-delimited slice of a markdown document.
type Section struct {
	Index      int    // Position in document (0, 1, 2...)
	Title      string // Heading text, "" for the preamble before the first heading
	HeaderPath string // Hierarchy: "# Doc Title > ## Section Name"
	Content    string // Section body without the heading line
}

// Splitter splits markdown documents at H1 and H2 boundaries.
type Splitter struct {
	parser goldmark.Markdown
}

// NewSplitter creates a splitter backed by a goldmark parser.
func NewSplitter() *Splitter {
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Splitter{parser: md}
}

// Split parses source and returns its sections in document order. Text
// before the first heading becomes a preamble section. A document without
// headings is returned as one section.
func (s *Splitter) Split(source []byte) ([]Section, error) {
	reader := text.NewReader(source)
	doc := s.parser.Parser().Parse(reader)

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2), // Split at H1 and H2 only
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect toc: %w", err)
	}

	if len(tree.Items) == 0 {
		return []Section{{
			Index:   0,
			Content: strings.TrimSpace(string(source)),
		}}, nil
	}

	var sections []Section

	// Preamble: everything before the first heading. The heading segment
	// starts after its "#" markers, so trim them off the tail.
	if first := findHeadingByID(doc, string(tree.Items[0].ID)); first != nil {
		pre := strings.TrimRight(string(source[:first.Lines().At(0).Start]), "# \t\n")
		if pre = strings.TrimSpace(pre); pre != "" {
			sections = append(sections, Section{Index: 0, Content: pre})
		}
	}

	s.collect(doc, source, tree.Items, nil, &sections)
	return sections, nil
}

// collect walks TOC items recursively, appending one section per heading.
func (s *Splitter) collect(doc ast.Node, source []byte, items toc.Items, ancestors []string, sections *[]Section) {
	for i, item := range items {
		path := append(ancestors, string(item.Title))

		headingNode := findHeadingByID(doc, string(item.ID))
		if headingNode == nil {
			continue
		}

		start := headingNode.Lines().At(0)
		var end text.Segment
		if i+1 < len(items) {
			if next := findHeadingByID(doc, string(items[i+1].ID)); next != nil {
				end = next.Lines().At(0)
			}
		} else {
			end = nextBoundary(doc, headingNode, headingNode.(*ast.Heading).Level)
		}

		body := sectionBody(source, start, end, string(item.Title))
		*sections = append(*sections, Section{
			Index:      len(*sections),
			Title:      string(item.Title),
			HeaderPath: formatHeaderPath(path),
			Content:    body,
		})

		if len(item.Items) > 0 {
			s.collect(doc, source, item.Items, path, sections)
		}
	}
}

// formatHeaderPath builds a heading hierarchy string.
// Example: ["Subsidies", "EU Chips Act"] -> "# Subsidies > ## EU Chips Act".
func formatHeaderPath(path []string) string {
	parts := make([]string, len(path))
	for i, segment := range path {
		parts[i] = fmt.Sprintf("%s %s", strings.Repeat("#", i+1), segment)
	}
	return strings.Join(parts, " > ")
}

// findHeadingByID locates a heading node by its auto-generated ID.
func findHeadingByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headingID, ok := n.AttributeString("id")
			if ok && string(headingID.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}

// nextBoundary finds the start of the next heading at the same or a higher
// level after current, or the zero segment to mean end-of-document.
func nextBoundary(root ast.Node, current ast.Node, level int) text.Segment {
	var next ast.Node
	passed := false

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		if !passed {
			if n == current {
				passed = true
			}
			return ast.WalkContinue, nil
		}
		if n.(*ast.Heading).Level <= level {
			next = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if next != nil {
		return next.Lines().At(0)
	}
	return text.Segment{}
}

// sectionBody extracts the text between start and end, dropping the
// heading's own line.
func sectionBody(source []byte, start, end text.Segment, title string) string {
	var buf bytes.Buffer
	if end.Start == 0 && end.Stop == 0 {
		buf.Write(source[start.Start:])
	} else {
		buf.Write(source[start.Start:end.Start])
	}
	body := strings.TrimSpace(buf.String())
	body = strings.TrimSpace(strings.TrimPrefix(body, title))
	return body
}
