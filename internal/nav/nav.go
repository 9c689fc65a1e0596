// Package nav renders the documentation sidebar: a home link, collapsible
// sections, their pages and each page's heading tree, plus a header with a
// search box and external links.
//
// Rendering is a pure function of its inputs. Expand/collapse is handled by
// hidden checkboxes in the output; only their initial checked state is
// computed here.
package nav

import "golang.org/x/net/html"

// Link is an external link button in the sidebar header.
type Link struct {
	Title string
	URL   string
	// Icon selects the nav_button-{Icon} class of the button body.
	Icon string
}

// Options are the static parts of the sidebar.
type Options struct {
	SearchPlaceholder string
	Links             []Link
}

// DefaultOptions returns the stock header: a search box and links to the
// source repository, chat and social accounts.
func DefaultOptions() Options {
	return Options{
		SearchPlaceholder: "search...",
		Links: []Link{
			{Title: "GitHub", URL: "https://github.com/cerebral/cerebral", Icon: "github"},
			{Title: "Chat", URL: "https://discord.gg/0kIweV4bd2bwwsvH", Icon: "discord"},
			{Title: "Chat", URL: "https://twitter.com/cerebraljs", Icon: "twitter"},
		},
	}
}

// Renderer renders the sidebar with a fixed set of Options. It holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer for opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Navigation renders the whole sidebar for the page docName in section
// sectionName.
func (r *Renderer) Navigation(docs DocsTree, docName, sectionName string) *html.Node {
	return el("div", attrs("id", "nav"),
		r.Header(),
		Sections(docs, docName, sectionName),
	)
}

// Header renders the search box followed by the external link buttons.
func (r *Renderer) Header() *html.Node {
	header := el("div", attrs("id", "nav_header"), Search(r.opts.SearchPlaceholder))
	for _, l := range r.opts.Links {
		header.AppendChild(el("a",
			attrs("href", l.URL, "class", "nav_button", "target", "_new", "title", l.Title),
			el("div", attrs("class", "nav_button-"+l.Icon)),
		))
	}
	return header
}

// Search renders the search input and its result container. Searching
// itself is done client side.
func Search(placeholder string) *html.Node {
	input := el("input", []html.Attribute{
		{Key: "id", Val: "search-docs"},
		{Key: "autofocus"},
		{Key: "type", Val: "text"},
		{Key: "placeholder", Val: placeholder},
	})
	return el("div", attrs("id", "nav_search"),
		input,
		el("div", attrs("id", "search-result")),
	)
}
