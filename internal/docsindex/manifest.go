package docsindex

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional file in the docs directory that fixes the
// order and membership of sections and pages.
const ManifestFile = "nav.yml"

// Manifest is an ordered list of sections and the page keys they contain.
// It fixes order and membership only; a listed page that the include and
// exclude globs filter out is left out.
//
//	guides:
//	  - intro
//	  - setup
//	api:
//	  - controller
type Manifest []ManifestSection

// ManifestSection lists the pages of one section in display order.
type ManifestSection struct {
	Key   string
	Pages []string
}

// UnmarshalYAML decodes the manifest mapping, keeping key order.
func (m *Manifest) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping of section to pages", value.Line, ManifestFile)
	}
	out := make(Manifest, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var pages []string
		if err := value.Content[i+1].Decode(&pages); err != nil {
			return fmt.Errorf("section %q: %w", value.Content[i].Value, err)
		}
		out = append(out, ManifestSection{Key: value.Content[i].Value, Pages: pages})
	}
	*m = out
	return nil
}

// LoadManifest reads the manifest at path. A missing file returns nil and no
// error.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}
