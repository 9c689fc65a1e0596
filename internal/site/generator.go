package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/docnav/internal/cache"
	"github.com/ziadkadry99/docnav/internal/docsindex"
	"github.com/ziadkadry99/docnav/internal/nav"
	"github.com/ziadkadry99/docnav/internal/progress"
)

// SiteGenerator renders a loaded docs index into a static HTML site. Every
// page embeds the navigation sidebar opened at that page.
type SiteGenerator struct {
	DocsDir        string
	OutputDir      string
	Title          string
	HighlightStyle string
	Nav            *nav.Renderer
	// Cache is optional; when set, each build is recorded.
	Cache    *cache.DB
	Reporter progress.Reporter
	// LiveReload adds the dev server reload script to every page.
	LiveReload bool
	Verbose    bool
}

// NewSiteGenerator creates a SiteGenerator with the given directories.
func NewSiteGenerator(docsDir, outputDir, title string, opts nav.Options) *SiteGenerator {
	return &SiteGenerator{
		DocsDir:        docsDir,
		OutputDir:      outputDir,
		Title:          title,
		HighlightStyle: "github",
		Nav:            nav.NewRenderer(opts),
		Reporter:       progress.Nop{},
	}
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title      string
	SiteTitle  string
	Section    string
	Content    template.HTML
	NavHTML    template.HTML
	LiveReload bool
}

// homeSection is one section card on the home page.
type homeSection struct {
	Label string
	Path  string
	Pages []homePage
}

type homePage struct {
	Title string
	Path  string
}

// Generate builds the full static site for ix. Returns the number of pages
// generated, excluding the home page.
func (g *SiteGenerator) Generate(ctx context.Context, ix *docsindex.Index) (count int, err error) {
	if g.Cache != nil {
		buildID, startErr := g.Cache.StartBuild(ctx, g.OutputDir)
		if startErr != nil {
			log.Printf("site: %v", startErr)
		} else {
			defer func() {
				if finishErr := g.Cache.FinishBuild(context.Background(), buildID, count, err); finishErr != nil {
					log.Printf("site: %v", finishErr)
				}
			}()
		}
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}

	// Write static assets.
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "search.js"), []byte(searchJS), 0o644); err != nil {
		return 0, err
	}

	md := g.markdown()

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return 0, fmt.Errorf("parsing page template: %w", err)
	}

	paths := pagePaths(ix.Docs)
	var searchEntries []SearchEntry

	g.Reporter.Start(ix.PageCount())
	defer g.Reporter.Finish()

	for _, section := range ix.Docs {
		for i, page := range section.Pages {
			if err := ctx.Err(); err != nil {
				return count, err
			}
			entries, err := g.renderPage(md, tmpl, ix, section, i, paths)
			if err != nil {
				return count, fmt.Errorf("rendering %s/%s: %w", section.Key, page.Key, err)
			}
			searchEntries = append(searchEntries, entries...)
			count++
			g.Reporter.Update(count, section.Key+"/"+page.Key)
		}
	}

	if err := g.removeStalePages(paths); err != nil {
		return count, fmt.Errorf("removing stale pages: %w", err)
	}

	if err := g.renderHome(tmpl, ix.Docs); err != nil {
		return count, fmt.Errorf("rendering home page: %w", err)
	}

	if err := WriteSearchIndex(searchEntries, filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return count, fmt.Errorf("writing search index: %w", err)
	}

	return count, nil
}

// markdown returns the goldmark instance for page content: the index
// parser plus syntax highlighting and raw HTML passthrough.
func (g *SiteGenerator) markdown() goldmark.Markdown {
	style := g.HighlightStyle
	if style == "" {
		style = "github"
	}
	return docsindex.NewMarkdown(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// renderPage writes one documentation page and returns its search entries.
func (g *SiteGenerator) renderPage(md goldmark.Markdown, tmpl *template.Template, ix *docsindex.Index, section nav.Section, index int, paths map[string]string) ([]SearchEntry, error) {
	page := section.Pages[index]
	pagePath := nav.PagePath(section.Key, page.Key, index)

	var content, summary string
	if rel, ok := ix.File(section.Key, page.Key); ok {
		src, err := os.ReadFile(filepath.Join(g.DocsDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		doc := md.Parser().Parse(text.NewReader(src))
		rewriteLinks(doc, section.Key, paths)

		var buf bytes.Buffer
		if err := md.Renderer().Render(&buf, src, doc); err != nil {
			return nil, fmt.Errorf("converting markdown: %w", err)
		}
		content = buf.String()
		summary = docsindex.Summary(doc, src)
	} else {
		content = tocContent(page.TOC)
	}

	navHTML, err := nav.RenderString(g.Nav.Navigation(ix.Docs, page.Key, section.Key))
	if err != nil {
		return nil, fmt.Errorf("rendering navigation: %w", err)
	}

	root := page.Root()
	data := pageData{
		Title:      root.Title,
		SiteTitle:  g.Title,
		Section:    nav.SectionLabel(section.Key),
		Content:    template.HTML(content),
		NavHTML:    template.HTML(navHTML),
		LiveReload: g.LiveReload,
	}
	if err := g.writeTemplate(tmpl, strings.TrimPrefix(pagePath, "/"), data); err != nil {
		return nil, err
	}
	if g.Verbose {
		log.Printf("site: wrote %s", pagePath)
	}

	return pageSearchEntries(section.Key, page, pagePath, summary), nil
}

// renderHome writes the landing page with the sidebar fully collapsed.
func (g *SiteGenerator) renderHome(tmpl *template.Template, docs nav.DocsTree) error {
	var sections []homeSection
	for _, s := range docs {
		hs := homeSection{Label: nav.SectionLabel(s.Key), Path: nav.PagePath(s.Key, "", 0)}
		for i, p := range s.Pages {
			hs.Pages = append(hs.Pages, homePage{Title: p.Root().Title, Path: nav.PagePath(s.Key, p.Key, i)})
		}
		sections = append(sections, hs)
	}

	home, err := template.New("home").Parse(homeContentTemplate)
	if err != nil {
		return fmt.Errorf("parsing home template: %w", err)
	}
	var content bytes.Buffer
	if err := home.Execute(&content, struct {
		Title    string
		Sections []homeSection
	}{g.Title, sections}); err != nil {
		return err
	}

	navHTML, err := nav.RenderString(g.Nav.Navigation(docs, "", ""))
	if err != nil {
		return fmt.Errorf("rendering navigation: %w", err)
	}

	return g.writeTemplate(tmpl, "index.html", pageData{
		Title:      g.Title,
		SiteTitle:  g.Title,
		Content:    template.HTML(content.String()),
		NavHTML:    template.HTML(navHTML),
		LiveReload: g.LiveReload,
	})
}

func (g *SiteGenerator) writeTemplate(tmpl *template.Template, relPath string, data pageData) error {
	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// removeStalePages deletes generated pages under docs/ that are no longer
// part of the site, then any directories left empty.
func (g *SiteGenerator) removeStalePages(paths map[string]string) error {
	root := filepath.Join(g.OutputDir, "docs")
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	current := make(map[string]bool, len(paths))
	for _, p := range paths {
		current[filepath.Join(g.OutputDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))] = true
	}

	var dirs []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root {
				dirs = append(dirs, p)
			}
			return nil
		}
		if filepath.Ext(p) != ".html" || current[p] {
			return nil
		}
		if g.Verbose {
			log.Printf("site: removing stale %s", p)
		}
		return os.Remove(p)
	})
	if err != nil {
		return err
	}

	// Deepest first; non-empty directories fail to remove and stay.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
	return nil
}

// pagePaths maps "section/page.md" to the URL the page is served at.
func pagePaths(docs nav.DocsTree) map[string]string {
	paths := make(map[string]string)
	for _, s := range docs {
		for i, p := range s.Pages {
			paths[s.Key+"/"+p.Key+".md"] = nav.PagePath(s.Key, p.Key, i)
		}
	}
	return paths
}

// rewriteLinks points relative links to other markdown pages at their
// generated URLs. Links to unknown .md files just get an .html extension.
func rewriteLinks(doc ast.Node, sectionKey string, paths map[string]string) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		link.Destination = []byte(rewriteLink(string(link.Destination), sectionKey, paths))
		return ast.WalkContinue, nil
	})
}

func rewriteLink(dest, sectionKey string, paths map[string]string) string {
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "#") {
		return dest
	}
	target, fragment, _ := strings.Cut(dest, "#")
	if !strings.HasSuffix(target, ".md") {
		return dest
	}

	var key string
	if strings.HasPrefix(target, "/") {
		key = strings.TrimPrefix(path.Clean(target), "/docs/")
	} else {
		key = path.Join(sectionKey, target)
	}

	out := strings.TrimSuffix(target, ".md") + ".html"
	if p, ok := paths[key]; ok {
		out = p
	}
	if fragment != "" {
		out += "#" + fragment
	}
	return out
}

// tocContent renders a page known only from an index file: its title and
// headings, with anchors matching the sidebar links.
func tocContent(toc []nav.HeadingNode) string {
	var b strings.Builder
	var write func(nodes []nav.HeadingNode, level int)
	write = func(nodes []nav.HeadingNode, level int) {
		for _, n := range nodes {
			lvl := min(level, 6)
			fmt.Fprintf(&b, "<h%d id=\"%s\">%s</h%d>\n", lvl, template.HTMLEscapeString(n.ID), template.HTMLEscapeString(n.Title), lvl)
			write(n.Children, level+1)
		}
	}
	write(toc, 1)
	return b.String()
}
