package config

import "github.com/ziadkadry99/docnav/internal/nav"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".docnav.yml"

// DefaultExcludes are glob patterns never treated as documentation pages.
var DefaultExcludes = []string{
	"**/_*.md",
	"**/.*/**",
	"**/node_modules/**",
	"**/drafts/**",
}

// DefaultConfig returns a Config with sensible defaults. The header links
// are the ones the sidebar ships with.
func DefaultConfig() *Config {
	opts := nav.DefaultOptions()
	links := make([]LinkConfig, 0, len(opts.Links))
	for _, l := range opts.Links {
		links = append(links, LinkConfig{Title: l.Title, URL: l.URL, Icon: l.Icon})
	}
	return &Config{
		Title:          "Documentation",
		DocsDir:        "docs",
		OutputDir:      "site",
		Include:        []string{"**/*.md"},
		Exclude:        append([]string(nil), DefaultExcludes...),
		HighlightStyle: "github",
		CacheFile:      ".docnav/cache.db",
		Search:         SearchConfig{Placeholder: opts.SearchPlaceholder},
		Links:          links,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// NavOptions converts the header settings into sidebar render options.
func (c *Config) NavOptions() nav.Options {
	links := make([]nav.Link, 0, len(c.Links))
	for _, l := range c.Links {
		links = append(links, nav.Link{Title: l.Title, URL: l.URL, Icon: l.Icon})
	}
	return nav.Options{
		SearchPlaceholder: c.Search.Placeholder,
		Links:             links,
	}
}
