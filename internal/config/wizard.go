package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// highlightStyles offered by the wizard. Any chroma style name is accepted
// in the config file.
var highlightStyles = []string{"github", "monokai", "dracula", "solarized-light", "nord"}

// detectDocsDir returns the first conventional documentation directory
// present in the working directory.
func detectDocsDir() string {
	for _, dir := range []string{"docs", "doc", "documentation", "content"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "docs"
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docnav! Let's configure your documentation site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site title.
	defaultTitle := cfg.Title
	if wd, err := os.Getwd(); err == nil {
		defaultTitle = filepath.Base(wd)
	}
	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: defaultTitle,
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site title: %w", err)
	}
	cfg.Title = title

	// 2. Docs directory.
	docsPrompt := promptui.Prompt{
		Label:   "Markdown docs directory",
		Default: detectDocsDir(),
	}
	if cfg.DocsDir, err = docsPrompt.Run(); err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}

	// 3. Output directory.
	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the generated site",
		Default: cfg.OutputDir,
	}
	if cfg.OutputDir, err = outputPrompt.Run(); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Code highlighting style.
	stylePrompt := promptui.Select{
		Label: "Code highlighting style",
		Items: highlightStyles,
	}
	if _, cfg.HighlightStyle, err = stylePrompt.Run(); err != nil {
		return nil, fmt.Errorf("highlight style: %w", err)
	}

	// 5. Header links.
	repoPrompt := promptui.Prompt{
		Label:   "Source repository URL (blank to skip)",
		Default: "",
	}
	repoURL, err := repoPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("repository url: %w", err)
	}
	chatPrompt := promptui.Prompt{
		Label:   "Chat URL (blank to skip)",
		Default: "",
	}
	chatURL, err := chatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chat url: %w", err)
	}
	cfg.Links = wizardLinks(repoURL, chatURL)

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// wizardLinks builds header links from the URLs answered in the wizard.
func wizardLinks(repoURL, chatURL string) []LinkConfig {
	var links []LinkConfig
	if repoURL = strings.TrimSpace(repoURL); repoURL != "" {
		links = append(links, LinkConfig{Title: "GitHub", URL: repoURL, Icon: "github"})
	}
	if chatURL = strings.TrimSpace(chatURL); chatURL != "" {
		links = append(links, LinkConfig{Title: "Chat", URL: chatURL, Icon: "discord"})
	}
	return links
}
