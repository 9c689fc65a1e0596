package docsindex

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/docnav/internal/nav"
)

// NewMarkdown returns the goldmark instance used to parse pages. Heading ids
// are generated by the parser, so a toc and the page rendered from the same
// AST always agree on anchors. extra options are appended, e.g. renderer
// extensions used by the site generator.
func NewMarkdown(extra ...goldmark.Option) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	return goldmark.New(append(opts, extra...)...)
}

// ParseTOC parses a markdown page and returns its toc together with the
// document AST.
func ParseTOC(md goldmark.Markdown, src []byte, pageKey string) ([]nav.HeadingNode, ast.Node) {
	doc := md.Parser().Parse(text.NewReader(src))
	return BuildTOC(doc, src, pageKey), doc
}

type heading struct {
	level int
	id    string
	title string
}

type tocNode struct {
	heading
	children []*tocNode
}

// BuildTOC turns the headings of a parsed document into a toc whose first
// entry is the page itself. When the document opens with its top-level
// heading, that heading is the page and holds every other heading;
// otherwise a page node named after
// pageKey is synthesised and every heading nests below it.
func BuildTOC(doc ast.Node, src []byte, pageKey string) []nav.HeadingNode {
	var flat []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		flat = append(flat, heading{level: h.Level, id: headingID(h), title: nodeText(h, src)})
		return ast.WalkSkipChildren, nil
	})

	page := nav.HeadingNode{ID: pageKey, Title: Titleize(pageKey)}
	if len(flat) == 0 {
		return []nav.HeadingNode{page}
	}

	minLevel := flat[0].level
	for _, h := range flat {
		minLevel = min(minLevel, h.level)
	}
	if flat[0].level == minLevel {
		// Later top-level headings fold under the first so the sidebar,
		// which only shows toc[0], keeps them.
		nodes := nest(flat)
		nodes[0].children = append(nodes[0].children, nodes[1:]...)
		return convert(nodes[:1])
	}
	page.Children = convert(nest(flat))
	return []nav.HeadingNode{page}
}

// nest builds the heading hierarchy: each heading becomes a child of the
// closest preceding heading with a smaller level.
func nest(flat []heading) []*tocNode {
	root := &tocNode{}
	stack := []*tocNode{root}
	for _, h := range flat {
		n := &tocNode{heading: h}
		for len(stack) > 1 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, n)
		stack = append(stack, n)
	}
	return root.children
}

func convert(nodes []*tocNode) []nav.HeadingNode {
	out := make([]nav.HeadingNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nav.HeadingNode{
			ID:       n.id,
			Title:    n.title,
			Children: convert(n.children),
		})
	}
	return out
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// nodeText concatenates the literal text below n, dropping inline markup.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// Titleize converts a page or section key to a display title:
// "getting-started" -> "Getting Started".
func Titleize(key string) string {
	words := strings.FieldsFunc(key, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Summary returns the text of the first paragraph of a parsed document.
func Summary(doc ast.Node, src []byte) string {
	var summary string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if p, ok := n.(*ast.Paragraph); ok {
			summary = nodeText(p, src)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return summary
}
