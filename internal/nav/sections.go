package nav

import (
	"strings"

	"golang.org/x/net/html"
)

// PagePath returns the URL of the page at position index within its section.
// The first page of a section is served as the section index.
func PagePath(sectionKey, pageKey string, index int) string {
	if index == 0 {
		return "/docs/" + sectionKey + "/index.html"
	}
	return "/docs/" + sectionKey + "/" + pageKey + ".html"
}

// SectionLabel is the display label of a section key.
func SectionLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// Sections renders the home entry followed by one collapsible entry per section.
func Sections(docs DocsTree, docName, sectionName string) *html.Node {
	ul := el("ul", nil)
	ul.AppendChild(el("li", attrs("class", "nav_item"),
		el("label", attrs("class", "nav_toggle-label nav_section nav_home"),
			el("a", attrs("href", "/"), text("HOME")),
		),
	))

	for _, section := range docs {
		open := section.Key == sectionName
		ul.AppendChild(el("li", attrs("class", itemClass("nav_item", open)),
			toggle(section.Key, open),
			el("label", attrs("for", section.Key, "class", "nav_toggle-label nav_section"),
				el("a", nil, text(SectionLabel(section.Key))),
			),
			Pages(section, docName, open),
		))
	}
	return ul
}

// Pages renders the pages of one section. A page is open only when it is the
// current doc and its section is open.
func Pages(section Section, docName string, sectionOpen bool) *html.Node {
	ul := el("ul", nil)
	for i, p := range section.Pages {
		page := p.Root()
		path := PagePath(section.Key, p.Key, i)
		open := p.Key == docName && sectionOpen
		hasChildren := len(page.Children) > 0

		var tg *html.Node
		if hasChildren {
			tg = toggle(path, open)
		}
		ul.AppendChild(el("li", attrs("class", itemClass("page_item", open)),
			tg,
			el("label",
				attrs("for", path, "class", toggleLabelClass(hasChildren)+" nav_link nav_page"),
				el("a", attrs("href", path), text(page.Title)),
			),
			Headings(page.Children, path),
		))
	}
	return ul
}

func itemClass(base string, open bool) string {
	if open {
		return base + " nav_open"
	}
	return base
}
