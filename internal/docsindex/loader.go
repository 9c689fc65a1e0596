// Package docsindex builds the documentation tree rendered by the sidebar:
// it discovers markdown pages laid out as <docs>/<section>/<page>.md,
// extracts each page's heading tree, or reads a ready-made index file.
package docsindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/docnav/internal/cache"
	"github.com/ziadkadry99/docnav/internal/nav"
)

// ErrEmptyTOC reports a page whose toc lacks the entry describing the page.
var ErrEmptyTOC = errors.New("page has an empty toc")

// Index is a loaded documentation tree plus the markdown file behind each page.
type Index struct {
	Docs nav.DocsTree
	// files maps "section/page" to the page's path relative to the docs dir.
	files map[string]string
}

// File returns the markdown file of a page, relative to the docs directory.
// Pages loaded from an index file have no source.
func (ix *Index) File(section, page string) (string, bool) {
	f, ok := ix.files[section+"/"+page]
	return f, ok
}

// PageCount returns the number of pages across all sections.
func (ix *Index) PageCount() int {
	n := 0
	for _, s := range ix.Docs {
		n += len(s.Pages)
	}
	return n
}

// Loader discovers and parses the pages of a docs directory.
type Loader struct {
	DocsDir string
	Include []string
	Exclude []string
	// Cache is optional; when set, tocs of unchanged files are reused.
	Cache    *cache.DB
	Markdown goldmark.Markdown
	Verbose  bool
}

// NewLoader returns a Loader for docsDir with the default markdown parser.
func NewLoader(docsDir string, include, exclude []string) *Loader {
	return &Loader{
		DocsDir:  docsDir,
		Include:  include,
		Exclude:  exclude,
		Markdown: NewMarkdown(),
	}
}

type pageFile struct {
	section string
	page    string
	rel     string
}

// Load builds the index. Order comes from nav.yml when present, otherwise
// sections sort by name and pages sort by name with "index" first.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	if _, err := os.Stat(l.DocsDir); err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}

	manifest, err := LoadManifest(filepath.Join(l.DocsDir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var files []pageFile
	if manifest != nil {
		files, err = l.filesFromManifest(manifest)
	} else {
		files, err = l.discover()
	}
	if err != nil {
		return nil, err
	}

	ix := &Index{files: make(map[string]string, len(files))}
	var kept []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		toc, err := l.pageTOC(ctx, f)
		if err != nil {
			return nil, err
		}
		if n := len(ix.Docs); n == 0 || ix.Docs[n-1].Key != f.section {
			ix.Docs = append(ix.Docs, nav.Section{Key: f.section})
		}
		last := &ix.Docs[len(ix.Docs)-1]
		last.Pages = append(last.Pages, nav.Page{Key: f.page, TOC: toc})
		ix.files[f.section+"/"+f.page] = f.rel
		kept = append(kept, f.rel)
	}

	if l.Cache != nil {
		if n, err := l.Cache.Prune(ctx, kept); err != nil {
			log.Printf("docsindex: pruning cache: %v", err)
		} else if n > 0 && l.Verbose {
			log.Printf("docsindex: pruned %d stale cache entries", n)
		}
	}

	if err := Validate(ix.Docs); err != nil {
		return nil, err
	}
	return ix, nil
}

// filesFromManifest lists the pages named in the manifest, in its order.
// Include and exclude globs still apply to listed pages.
func (l *Loader) filesFromManifest(m Manifest) ([]pageFile, error) {
	var files []pageFile
	for _, s := range m {
		for _, p := range s.Pages {
			rel := path.Join(s.Key, p+".md")
			if !MatchesInclude(rel, l.Include) || MatchesExclude(rel, l.Exclude) {
				if l.Verbose {
					log.Printf("docsindex: %s lists %s, skipped by include/exclude", ManifestFile, rel)
				}
				continue
			}
			if _, err := os.Stat(filepath.Join(l.DocsDir, filepath.FromSlash(rel))); err != nil {
				return nil, fmt.Errorf("%s lists %s/%s: %w", ManifestFile, s.Key, p, err)
			}
			files = append(files, pageFile{section: s.Key, page: p, rel: rel})
		}
	}
	return files, nil
}

// discover walks the docs directory for <section>/<page>.md files. Files at
// the top level or nested deeper are not pages.
func (l *Loader) discover() ([]pageFile, error) {
	var files []pageFile
	err := filepath.WalkDir(l.DocsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(l.DocsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		parts := strings.Split(rel, "/")
		if len(parts) != 2 {
			return nil
		}
		if !MatchesInclude(rel, l.Include) || MatchesExclude(rel, l.Exclude) {
			return nil
		}
		files = append(files, pageFile{
			section: parts[0],
			page:    strings.TrimSuffix(parts[1], ".md"),
			rel:     rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking docs dir: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.section != b.section {
			return a.section < b.section
		}
		if (a.page == "index") != (b.page == "index") {
			return a.page == "index"
		}
		return a.page < b.page
	})
	return files, nil
}

func (l *Loader) pageTOC(ctx context.Context, f pageFile) ([]nav.HeadingNode, error) {
	src, err := os.ReadFile(filepath.Join(l.DocsDir, filepath.FromSlash(f.rel)))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.rel, err)
	}

	var hash string
	if l.Cache != nil {
		hash = cache.Hash(src)
		toc, ok, err := l.Cache.GetTOC(ctx, f.rel, hash)
		if err != nil {
			log.Printf("docsindex: %v", err)
		} else if ok {
			return toc, nil
		}
	}

	md := l.Markdown
	if md == nil {
		md = NewMarkdown()
	}
	toc, _ := ParseTOC(md, src, f.page)
	if l.Verbose {
		log.Printf("docsindex: parsed %s (%d top-level headings)", f.rel, len(toc))
	}

	if l.Cache != nil {
		if err := l.Cache.PutTOC(ctx, f.rel, hash, toc); err != nil {
			log.Printf("docsindex: %v", err)
		}
	}
	return toc, nil
}

// LoadFile reads a docs tree from a YAML or JSON index file mapping section
// keys to page keys to {toc: [...]}, keeping key order.
func LoadFile(p string) (*Index, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", p, err)
	}
	var docs nav.DocsTree
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing index %s: %w", p, err)
	}
	if err := Validate(docs); err != nil {
		return nil, fmt.Errorf("index %s: %w", p, err)
	}
	return &Index{Docs: docs, files: map[string]string{}}, nil
}

// Validate checks the guarantees the sidebar relies on: non-empty keys
// usable in paths, keys unique within their container, and a toc entry for
// every page. A page keyed "index" may only come first.
func Validate(docs nav.DocsTree) error {
	sections := make(map[string]bool, len(docs))
	for _, s := range docs {
		if err := validKey(s.Key); err != nil {
			return fmt.Errorf("section %q: %w", s.Key, err)
		}
		if sections[s.Key] {
			return fmt.Errorf("duplicate section %q", s.Key)
		}
		sections[s.Key] = true

		pages := make(map[string]bool, len(s.Pages))
		for i, p := range s.Pages {
			if err := validKey(p.Key); err != nil {
				return fmt.Errorf("page %s/%q: %w", s.Key, p.Key, err)
			}
			if pages[p.Key] {
				return fmt.Errorf("duplicate page %s/%s", s.Key, p.Key)
			}
			pages[p.Key] = true
			// The first page is served as index.html already.
			if p.Key == "index" && i > 0 {
				return fmt.Errorf("page %s/index must be the first page of its section", s.Key)
			}
			if len(p.TOC) == 0 {
				return fmt.Errorf("page %s/%s: %w", s.Key, p.Key, ErrEmptyTOC)
			}
		}
	}
	return nil
}

func validKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if strings.ContainsAny(key, "/\\#?") {
		return fmt.Errorf("key contains a reserved character")
	}
	return nil
}
