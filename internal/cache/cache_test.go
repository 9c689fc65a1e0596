package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/docnav/internal/nav"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestTOCRoundTrip(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	toc := []nav.HeadingNode{{ID: "intro", Title: "Intro", Children: []nav.HeadingNode{
		{ID: "setup", Title: "Setup"},
	}}}
	hash := Hash([]byte("# Intro\n## Setup\n"))

	if _, ok, err := d.GetTOC(ctx, "guides/intro.md", hash); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	if err := d.PutTOC(ctx, "guides/intro.md", hash, toc); err != nil {
		t.Fatalf("PutTOC: %v", err)
	}

	got, ok, err := d.GetTOC(ctx, "guides/intro.md", hash)
	if err != nil || !ok {
		t.Fatalf("GetTOC: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Title != "Intro" || len(got[0].Children) != 1 || got[0].Children[0].ID != "setup" {
		t.Errorf("toc = %+v", got)
	}

	// A different hash is a miss.
	if _, ok, _ := d.GetTOC(ctx, "guides/intro.md", Hash([]byte("changed"))); ok {
		t.Error("changed content should miss the cache")
	}
}

func TestPutTOCOverwrites(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	if err := d.PutTOC(ctx, "a.md", "h1", []nav.HeadingNode{{ID: "a", Title: "Old"}}); err != nil {
		t.Fatal(err)
	}
	if err := d.PutTOC(ctx, "a.md", "h2", []nav.HeadingNode{{ID: "a", Title: "New"}}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := d.GetTOC(ctx, "a.md", "h2")
	if err != nil || !ok {
		t.Fatalf("GetTOC: ok=%v err=%v", ok, err)
	}
	if got[0].Title != "New" {
		t.Errorf("title = %q, want New", got[0].Title)
	}
}

func TestPrune(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	for _, p := range []string{"a.md", "b.md", "c.md"} {
		if err := d.PutTOC(ctx, p, "h", nil); err != nil {
			t.Fatal(err)
		}
	}
	n, err := d.Prune(ctx, []string{"b.md"})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2", n)
	}
	if _, ok, _ := d.GetTOC(ctx, "b.md", "h"); !ok {
		t.Error("kept entry should remain")
	}
	if _, ok, _ := d.GetTOC(ctx, "a.md", "h"); ok {
		t.Error("pruned entry should be gone")
	}
}

func TestBuilds(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()

	last, err := d.LastBuild(ctx)
	if err != nil || last != nil {
		t.Fatalf("LastBuild on empty cache = %+v, %v", last, err)
	}

	id, err := d.StartBuild(ctx, "site")
	if err != nil {
		t.Fatalf("StartBuild: %v", err)
	}
	if id == "" {
		t.Fatal("build id should not be empty")
	}

	last, err = d.LastBuild(ctx)
	if err != nil {
		t.Fatalf("LastBuild: %v", err)
	}
	if last.ID != id || last.FinishedAt != nil {
		t.Errorf("running build = %+v", last)
	}

	if err := d.FinishBuild(ctx, id, 12, errors.New("boom")); err != nil {
		t.Fatalf("FinishBuild: %v", err)
	}
	last, err = d.LastBuild(ctx)
	if err != nil {
		t.Fatalf("LastBuild: %v", err)
	}
	if last.Pages != 12 || last.Error != "boom" || last.FinishedAt == nil {
		t.Errorf("finished build = %+v", last)
	}

	if err := d.FinishBuild(ctx, "missing", 0, nil); err == nil {
		t.Error("finishing an unknown build should fail")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()
	if d.Path() != path {
		t.Errorf("Path = %q, want %q", d.Path(), path)
	}
	if err := d.PutTOC(context.Background(), "x.md", "h", nil); err != nil {
		t.Errorf("PutTOC: %v", err)
	}
}

func TestHashStable(t *testing.T) {
	if Hash([]byte("a")) != Hash([]byte("a")) {
		t.Error("hash should be deterministic")
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different content should hash differently")
	}
}
