package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCNAV_*). Nested keys use a double
// underscore: DOCNAV_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCNAV_DOCS_DIR -> docs_dir, etc.
	if err := k.Load(env.Provider("DOCNAV_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DOCNAV_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Lists from the file replace the defaults rather than merging into them.
	if k.Exists("include") {
		cfg.Include = nil
	}
	if k.Exists("exclude") {
		cfg.Exclude = nil
	}
	if k.Exists("links") {
		cfg.Links = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DocsDir == "" && c.IndexFile == "" {
		return fmt.Errorf("docs_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.DocsDir != "" && filepath.Clean(c.DocsDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("output_dir must differ from docs_dir")
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include must list at least one pattern")
	}
	if c.HighlightStyle != "" {
		if _, ok := styles.Registry[c.HighlightStyle]; !ok {
			return fmt.Errorf("unknown highlight_style %q", c.HighlightStyle)
		}
	}
	for i, l := range c.Links {
		if l.URL == "" {
			return fmt.Errorf("links[%d]: url is required", i)
		}
		if l.Title == "" {
			return fmt.Errorf("links[%d]: title is required", i)
		}
		if l.Icon == "" {
			return fmt.Errorf("links[%d]: icon is required", i)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}
