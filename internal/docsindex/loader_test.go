package docsindex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/docnav/internal/cache"
	"github.com/ziadkadry99/docnav/internal/nav"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
}

func sampleDocsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "guides", "setup.md"), "# Setup\n\n## Install\n")
	writeTestFile(t, filepath.Join(dir, "guides", "index.md"), "# Guides\n\nOverview.\n")
	writeTestFile(t, filepath.Join(dir, "guides", "_partial.md"), "# Partial\n")
	writeTestFile(t, filepath.Join(dir, "api", "controller.md"), "# Controller\n\n## Methods\n\n### run\n")
	writeTestFile(t, filepath.Join(dir, "README.md"), "# Not a page\n")
	writeTestFile(t, filepath.Join(dir, "api", "deep", "nested.md"), "# Too deep\n")
	writeTestFile(t, filepath.Join(dir, "api", "notes.txt"), "not markdown")
	return dir
}

func TestLoaderDiscover(t *testing.T) {
	dir := sampleDocsDir(t)
	l := NewLoader(dir, []string{"**/*.md"}, []string{"**/_*.md"})

	ix, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ix.Docs) != 2 {
		t.Fatalf("sections = %d, want 2", len(ix.Docs))
	}
	if ix.Docs[0].Key != "api" || ix.Docs[1].Key != "guides" {
		t.Errorf("sections = %s, %s; want api, guides", ix.Docs[0].Key, ix.Docs[1].Key)
	}
	guides := ix.Docs[1]
	if len(guides.Pages) != 2 {
		t.Fatalf("guides pages = %d, want 2 (partial excluded)", len(guides.Pages))
	}
	if guides.Pages[0].Key != "index" || guides.Pages[1].Key != "setup" {
		t.Errorf("guides pages = %s, %s; want index first", guides.Pages[0].Key, guides.Pages[1].Key)
	}
	if got := guides.Pages[1].Root().Children[0].Title; got != "Install" {
		t.Errorf("setup heading = %q, want Install", got)
	}
	if ix.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", ix.PageCount())
	}
	if f, ok := ix.File("api", "controller"); !ok || f != "api/controller.md" {
		t.Errorf("File(api, controller) = %q, %v", f, ok)
	}
}

func TestLoaderManifestOrder(t *testing.T) {
	dir := sampleDocsDir(t)
	writeTestFile(t, filepath.Join(dir, ManifestFile), "guides:\n  - setup\n  - _partial\napi:\n  - controller\n")

	ix, err := NewLoader(dir, []string{"**/*.md"}, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ix.Docs[0].Key != "guides" || ix.Docs[1].Key != "api" {
		t.Errorf("sections = %s, %s; want manifest order", ix.Docs[0].Key, ix.Docs[1].Key)
	}
	pages := ix.Docs[0].Pages
	if len(pages) != 2 || pages[0].Key != "setup" || pages[1].Key != "_partial" {
		t.Errorf("guides pages = %+v", pages)
	}
	if _, ok := ix.Docs[0].Page("index"); ok {
		t.Error("pages not in the manifest should be left out")
	}
}

func TestLoaderManifestHonoursExcludes(t *testing.T) {
	dir := sampleDocsDir(t)
	writeTestFile(t, filepath.Join(dir, ManifestFile), "guides:\n  - setup\n  - _partial\n  - _missing\napi:\n  - controller\n")

	ix, err := NewLoader(dir, []string{"**/*.md"}, []string{"**/_*.md", "api/**"}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ix.Docs) != 1 || ix.Docs[0].Key != "guides" {
		t.Fatalf("sections = %+v, want only guides", ix.Docs)
	}
	pages := ix.Docs[0].Pages
	if len(pages) != 1 || pages[0].Key != "setup" {
		t.Errorf("guides pages = %+v, want only setup", pages)
	}
}

func TestLoaderManifestMissingPage(t *testing.T) {
	dir := sampleDocsDir(t)
	writeTestFile(t, filepath.Join(dir, ManifestFile), "guides:\n  - nope\n")
	_, err := NewLoader(dir, nil, nil).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "guides/nope") {
		t.Errorf("expected missing page error, got %v", err)
	}
}

func TestLoaderMissingDir(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent"), nil, nil).Load(context.Background())
	if err == nil {
		t.Error("expected error for a missing docs dir")
	}
}

func TestLoaderEmptyDir(t *testing.T) {
	ix, err := NewLoader(t.TempDir(), nil, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ix.Docs) != 0 {
		t.Errorf("sections = %d, want 0", len(ix.Docs))
	}
}

func TestLoaderUsesCache(t *testing.T) {
	dir := sampleDocsDir(t)
	db, err := cache.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	l := NewLoader(dir, []string{"**/*.md"}, nil)
	l.Cache = db
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("first Load: %v", err)
	}

	// Seed a different toc for unchanged content: a cache hit must return it.
	src, _ := os.ReadFile(filepath.Join(dir, "guides", "setup.md"))
	fake := []nav.HeadingNode{{ID: "setup", Title: "From cache"}}
	if err := db.PutTOC(ctx, "guides/setup.md", cache.Hash(src), fake); err != nil {
		t.Fatal(err)
	}
	ix, err := l.Load(ctx)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	guides, _ := ix.Docs.Section("guides")
	setup, _ := guides.Page("setup")
	if setup.Root().Title != "From cache" {
		t.Errorf("title = %q, want cached toc", setup.Root().Title)
	}

	// Changing the file invalidates the entry.
	writeTestFile(t, filepath.Join(dir, "guides", "setup.md"), "# Setup v2\n")
	ix, err = l.Load(ctx)
	if err != nil {
		t.Fatalf("third Load: %v", err)
	}
	guides, _ = ix.Docs.Section("guides")
	setup, _ = guides.Page("setup")
	if setup.Root().Title != "Setup v2" {
		t.Errorf("title = %q, want reparsed toc", setup.Root().Title)
	}

	// Removed files are pruned from the cache.
	os.Remove(filepath.Join(dir, "api", "controller.md"))
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("fourth Load: %v", err)
	}
	if _, ok, _ := db.GetTOC(ctx, "api/controller.md", "anything"); ok {
		t.Error("removed page should not be cached")
	}
}

func TestLoaderCancelled(t *testing.T) {
	dir := sampleDocsDir(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(dir, nil, nil).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "docs.json")
	writeTestFile(t, p, `{"guides": {"intro": {"toc": [{"id": "intro", "title": "Intro", "children": []}]}, "more": {"toc": [{"id": "more", "title": "More", "children": []}]}}}`)

	ix, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(ix.Docs) != 1 || len(ix.Docs[0].Pages) != 2 || ix.Docs[0].Pages[1].Key != "more" {
		t.Errorf("docs = %+v", ix.Docs)
	}
	if _, ok := ix.File("guides", "intro"); ok {
		t.Error("index file pages have no markdown source")
	}
}

func TestLoadFileEmptyTOC(t *testing.T) {
	p := filepath.Join(t.TempDir(), "docs.yml")
	writeTestFile(t, p, "guides:\n  intro:\n    toc: []\n")
	if _, err := LoadFile(p); !errors.Is(err, ErrEmptyTOC) {
		t.Errorf("err = %v, want ErrEmptyTOC", err)
	}
}

func TestValidate(t *testing.T) {
	page := func(key string) nav.Page {
		return nav.Page{Key: key, TOC: []nav.HeadingNode{{ID: key, Title: key}}}
	}
	tests := []struct {
		name    string
		docs    nav.DocsTree
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", nav.DocsTree{{Key: "a", Pages: []nav.Page{page("index"), page("x")}}}, false},
		{"duplicate section", nav.DocsTree{{Key: "a"}, {Key: "a"}}, true},
		{"duplicate page", nav.DocsTree{{Key: "a", Pages: []nav.Page{page("x"), page("x")}}}, true},
		{"empty key", nav.DocsTree{{Key: ""}}, true},
		{"slash in key", nav.DocsTree{{Key: "a", Pages: []nav.Page{page("x/y")}}}, true},
		{"late index", nav.DocsTree{{Key: "a", Pages: []nav.Page{page("x"), page("index")}}}, true},
		{"empty toc", nav.DocsTree{{Key: "a", Pages: []nav.Page{{Key: "x"}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.docs)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
