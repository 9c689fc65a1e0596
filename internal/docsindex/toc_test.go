package docsindex

import (
	"testing"

	"github.com/ziadkadry99/docnav/internal/nav"
)

func titles(nodes []nav.HeadingNode) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestParseTOCNesting(t *testing.T) {
	src := []byte(`# Intro

Welcome.

## Setup

### Install **the** CLI

### Configure

## Usage

Text.
`)
	toc, doc := ParseTOC(NewMarkdown(), src, "intro")
	if doc == nil {
		t.Fatal("expected a document AST")
	}
	if len(toc) != 1 {
		t.Fatalf("top-level entries = %d, want 1", len(toc))
	}
	page := toc[0]
	if page.Title != "Intro" || page.ID != "intro" {
		t.Errorf("page = %q (%q), want Intro (intro)", page.Title, page.ID)
	}
	if got := titles(page.Children); len(got) != 2 || got[0] != "Setup" || got[1] != "Usage" {
		t.Fatalf("children = %v, want [Setup Usage]", got)
	}
	setup := page.Children[0]
	if setup.ID != "setup" {
		t.Errorf("setup id = %q", setup.ID)
	}
	if got := titles(setup.Children); len(got) != 2 || got[0] != "Install the CLI" || got[1] != "Configure" {
		t.Errorf("setup children = %v", got)
	}
	if len(page.Children[1].Children) != 0 {
		t.Error("usage should have no children")
	}
}

func TestParseTOCSeveralTopLevelHeadings(t *testing.T) {
	src := []byte("# Intro\n\n## Setup\n\n# Appendix\n\n## Links\n")
	toc, _ := ParseTOC(NewMarkdown(), src, "intro")
	if len(toc) != 1 || toc[0].Title != "Intro" {
		t.Fatalf("toc = %+v, want a single Intro entry", toc)
	}
	if got := titles(toc[0].Children); len(got) != 2 || got[0] != "Setup" || got[1] != "Appendix" {
		t.Fatalf("children = %v, want [Setup Appendix]", got)
	}
	if got := titles(toc[0].Children[1].Children); len(got) != 1 || got[0] != "Links" {
		t.Errorf("appendix children = %v, want [Links]", got)
	}
}

func TestParseTOCNoHeadings(t *testing.T) {
	toc, _ := ParseTOC(NewMarkdown(), []byte("just text\n"), "getting-started")
	if len(toc) != 1 {
		t.Fatalf("entries = %d, want 1", len(toc))
	}
	if toc[0].ID != "getting-started" || toc[0].Title != "Getting Started" {
		t.Errorf("synthesised page = %+v", toc[0])
	}
	if len(toc[0].Children) != 0 {
		t.Error("synthesised page should have no children")
	}
}

func TestParseTOCWithoutTitleHeading(t *testing.T) {
	src := []byte("## First\n\n# Big\n\n## Second\n")
	toc, _ := ParseTOC(NewMarkdown(), src, "notes")
	if len(toc) != 1 || toc[0].Title != "Notes" {
		t.Fatalf("toc = %+v, want synthesised Notes page", toc)
	}
	got := titles(toc[0].Children)
	if len(got) != 2 || got[0] != "First" || got[1] != "Big" {
		t.Fatalf("children = %v, want [First Big]", got)
	}
	if sub := titles(toc[0].Children[1].Children); len(sub) != 1 || sub[0] != "Second" {
		t.Errorf("Big children = %v", sub)
	}
}

func TestParseTOCDuplicateHeadingIDs(t *testing.T) {
	src := []byte("# Page\n\n## Example\n\n## Example\n")
	toc, _ := ParseTOC(NewMarkdown(), src, "page")
	kids := toc[0].Children
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	if kids[0].ID == kids[1].ID {
		t.Errorf("duplicate headings should get distinct ids, both %q", kids[0].ID)
	}
}

func TestParseTOCSkippedLevels(t *testing.T) {
	src := []byte("# Page\n\n#### Deep\n\n## Shallow\n")
	toc, _ := ParseTOC(NewMarkdown(), src, "page")
	got := titles(toc[0].Children)
	if len(got) != 2 || got[0] != "Deep" || got[1] != "Shallow" {
		t.Errorf("children = %v, want [Deep Shallow]", got)
	}
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"intro", "Intro"},
		{"getting-started", "Getting Started"},
		{"api_reference", "Api Reference"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Titleize(tt.input); got != tt.want {
			t.Errorf("Titleize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"guides/intro.md", []string{"**/*.md"}, true},
		{"guides/intro.md", []string{"api/*.md"}, false},
		{"guides/_partial.md", []string{"**/_*.md"}, true},
		{"guides/drafts.md", []string{"drafts.md"}, true},
		{"guides/intro.md", nil, true},
	}
	for _, tt := range tests {
		if got := MatchesInclude(tt.path, tt.patterns); got != tt.want {
			t.Errorf("MatchesInclude(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
		}
	}
	if MatchesExclude("guides/intro.md", nil) {
		t.Error("empty exclude list should exclude nothing")
	}
}

func TestSummary(t *testing.T) {
	src := []byte("# Title\n\nFirst *paragraph* here.\n\nSecond.\n")
	_, doc := ParseTOC(NewMarkdown(), src, "p")
	if got := Summary(doc, src); got != "First paragraph here." {
		t.Errorf("Summary = %q", got)
	}
	src = []byte("# Only a title\n")
	_, doc = ParseTOC(NewMarkdown(), src, "p")
	if got := Summary(doc, src); got != "" {
		t.Errorf("Summary = %q, want empty", got)
	}
}
