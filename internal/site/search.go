package site

import (
	"encoding/json"
	"os"

	"github.com/ziadkadry99/docnav/internal/nav"
)

// SearchEntry is one searchable page or heading of the site.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Section string `json:"section"`
	Page    string `json:"page"`
	Summary string `json:"summary,omitempty"`
}

// maxSummary bounds the summary stored per page.
const maxSummary = 300

// pageSearchEntries returns an entry for the page followed by one per
// heading, depth first, each linking to its anchor on the page.
func pageSearchEntries(sectionKey string, page nav.Page, pagePath, summary string) []SearchEntry {
	if r := []rune(summary); len(r) > maxSummary {
		summary = string(r[:maxSummary]) + "..."
	}
	root := page.Root()
	pageTitle := root.Title
	entries := []SearchEntry{{
		Path:    pagePath,
		Title:   pageTitle,
		Section: nav.SectionLabel(sectionKey),
		Page:    pageTitle,
		Summary: summary,
	}}

	var walk func(nodes []nav.HeadingNode)
	walk = func(nodes []nav.HeadingNode) {
		for _, h := range nodes {
			entries = append(entries, SearchEntry{
				Path:    pagePath + "#" + h.ID,
				Title:   h.Title,
				Section: nav.SectionLabel(sectionKey),
				Page:    pageTitle,
			})
			walk(h.Children)
		}
	}
	walk(root.Children)
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	if entries == nil {
		entries = []SearchEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
