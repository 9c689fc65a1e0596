package config

// LinkConfig is an external link button in the sidebar header.
type LinkConfig struct {
	Title string `yaml:"title" koanf:"title"`
	URL   string `yaml:"url" koanf:"url"`
	Icon  string `yaml:"icon" koanf:"icon"`
}

// SearchConfig controls the sidebar search box.
type SearchConfig struct {
	Placeholder string `yaml:"placeholder" koanf:"placeholder"`
}

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Config is the top-level docnav configuration, corresponding to .docnav.yml.
type Config struct {
	Title          string       `yaml:"title" koanf:"title"`
	DocsDir        string       `yaml:"docs_dir" koanf:"docs_dir"`
	OutputDir      string       `yaml:"output_dir" koanf:"output_dir"`
	IndexFile      string       `yaml:"index_file" koanf:"index_file"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	HighlightStyle string       `yaml:"highlight_style" koanf:"highlight_style"`
	CacheFile      string       `yaml:"cache_file" koanf:"cache_file"`
	Search         SearchConfig `yaml:"search" koanf:"search"`
	Links          []LinkConfig `yaml:"links" koanf:"links"`
	Server         ServerConfig `yaml:"server" koanf:"server"`
}
