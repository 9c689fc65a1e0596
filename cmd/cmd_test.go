package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func repoTestdata(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file location")
	}
	abs, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "testdata"))
	if err != nil {
		t.Fatalf("resolve testdata path: %v", err)
	}
	return abs
}

// writeConfig writes a config pointing at the sample docs and returns its path.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".docnav.yml")
	content := "title: Sample\n" +
		"docs_dir: " + filepath.Join(repoTestdata(t), "sample_docs") + "\n" +
		"output_dir: " + filepath.Join(dir, "site") + "\n" +
		"cache_file: " + filepath.Join(dir, "cache", "cache.db") + "\n" + extra
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		for _, c := range []string{"doc", "section", "json"} {
			_ = navCmd.Flags().Set(c, navCmd.Flags().Lookup(c).DefValue)
		}
		_ = buildCmd.Flags().Set("output", "")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNavCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	out, err := execute(t, "nav", "--config", cfg, "--doc", "install", "--section", "introduction")
	if err != nil {
		t.Fatalf("nav: %v", err)
	}
	for _, want := range []string{
		`<div id="nav">`,
		`<input id="introduction" class="nav_toggle" type="checkbox" checked=""/>`,
		`<a href="/docs/introduction/install.html">Install</a>`,
		`<a>IN DEPTH</a>`,
		`<a href="/docs/in_depth/index.html">Computed</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("nav output missing %q", want)
		}
	}
}

func TestNavCommandJSON(t *testing.T) {
	cfg := writeConfig(t, "index_file: "+filepath.Join(repoTestdata(t), "docs.yml")+"\n")
	out, err := execute(t, "nav", "--config", cfg, "--json")
	if err != nil {
		t.Fatalf("nav --json: %v", err)
	}
	if !strings.HasPrefix(out, `{"introduction":{"index":`) {
		t.Errorf("json output = %q", out)
	}
}

func TestBuildCommand(t *testing.T) {
	cfg := writeConfig(t, "")
	outDir := filepath.Join(t.TempDir(), "out")
	if _, err := execute(t, "build", "--config", cfg, "--output", outDir); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, rel := range []string{"index.html", "docs/introduction/index.html", "docs/api/module.html", "search-index.json"} {
		if _, err := os.Stat(filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("expected %s: %v", rel, err)
		}
	}
}

func TestBuildCommandInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "highlight_style: no-such-style\n")
	if _, err := execute(t, "build", "--config", cfg); err == nil {
		t.Error("expected error for unknown highlight style")
	}
}
