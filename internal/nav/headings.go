package nav

import "golang.org/x/net/html"

// Headings renders the heading tree of one page as nested lists. Anchors are
// always relative to the owning page's path. Heading toggles start closed.
// An empty toc renders nothing.
func Headings(toc []HeadingNode, path string) *html.Node {
	if len(toc) == 0 {
		return nil
	}
	ul := el("ul", nil)
	for _, item := range toc {
		href := path + "#" + item.ID
		hasChildren := len(item.Children) > 0

		var tg *html.Node
		if hasChildren {
			tg = toggle(href, false)
		}
		label := el("label",
			attrs("for", href, "class", toggleLabelClass(hasChildren)+" nav_sublink"),
			el("a", attrs("href", href), text(item.Title)),
		)
		ul.AppendChild(el("li", nil, tg, label, Headings(item.Children, path)))
	}
	return ul
}
