package nav

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// el creates an element node. Nil children are skipped so optional parts
// (toggles, empty heading lists) can be passed unconditionally.
func el(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}

// toggle is the hidden checkbox whose native checked state drives
// expand/collapse in the stylesheet.
func toggle(id string, checked bool) *html.Node {
	a := attrs("id", id, "class", "nav_toggle", "type", "checkbox")
	if checked {
		a = append(a, html.Attribute{Key: "checked"})
	}
	return el("input", a)
}

func toggleLabelClass(hasChildren bool) string {
	if hasChildren {
		return "nav_toggle-label"
	}
	return "nav_toggle-label-empty"
}

// Render writes n as HTML.
func Render(w io.Writer, n *html.Node) error {
	if n == nil {
		return nil
	}
	return html.Render(w, n)
}

// RenderString returns n serialised as HTML.
func RenderString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
