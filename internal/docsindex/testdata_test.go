package docsindex

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// testdataDir returns the absolute path to a directory under the repository
// testdata/ directory.
func testdataDir(t *testing.T, name string) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	root := filepath.Join(filepath.Dir(filename), "..", "..", "testdata", name)
	abs, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		t.Fatalf("testdata path does not exist: %s", abs)
	}
	return abs
}

func TestLoadSampleDocs(t *testing.T) {
	dir := testdataDir(t, "sample_docs")
	ix, err := NewLoader(dir, []string{"**/*.md"}, []string{"**/_*.md"}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got []string
	for _, s := range ix.Docs {
		for _, p := range s.Pages {
			got = append(got, s.Key+"/"+p.Key)
		}
	}
	want := []string{
		"introduction/index",
		"introduction/install",
		"in_depth/computed",
		"api/controller",
		"api/module",
	}
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d = %s, want %s", i, got[i], want[i])
		}
	}

	computed, _ := ix.Docs[1].Page("computed")
	if root := computed.Root(); root.ID != "computed" || root.Title != "Computed" {
		t.Errorf("synthesised root = %+v", root)
	}

	controller, _ := ix.Docs[2].Page("controller")
	root := controller.Root()
	if len(root.Children) != 2 || root.Children[1].ID != "methods" {
		t.Fatalf("controller headings = %+v", root.Children)
	}
	if n := len(root.Children[1].Children); n != 2 {
		t.Errorf("methods children = %d, want 2", n)
	}
}

func TestLoadFileSample(t *testing.T) {
	ix, err := LoadFile(filepath.Join(testdataDir(t, "."), "docs.yml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(ix.Docs) != 2 || ix.Docs[0].Key != "introduction" || ix.Docs[1].Key != "api" {
		t.Fatalf("sections = %+v", ix.Docs)
	}
	if _, ok := ix.File("introduction", "index"); ok {
		t.Error("pages from an index file have no source file")
	}
	if ix.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", ix.PageCount())
	}
}
