package nav

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DocsTree is the ordered list of documentation sections. Order is display order.
type DocsTree []Section

// Section is a top-level group of pages, identified by Key.
type Section struct {
	Key   string
	Pages []Page
}

// Page is a single documentation page. TOC[0] describes the page itself:
// its title is the page label and its children are the page's headings.
type Page struct {
	Key string        `yaml:"-"`
	TOC []HeadingNode `yaml:"toc"`
}

// HeadingNode is one heading of a page with its nested sub-headings.
type HeadingNode struct {
	ID       string        `yaml:"id" json:"id"`
	Title    string        `yaml:"title" json:"title"`
	Children []HeadingNode `yaml:"children" json:"children"`
}

// Root returns the node that represents the page itself. A page without a
// toc falls back to a childless node named after its key.
func (p Page) Root() HeadingNode {
	if len(p.TOC) == 0 {
		return HeadingNode{ID: p.Key, Title: p.Key}
	}
	return p.TOC[0]
}

// Section returns the section with the given key.
func (d DocsTree) Section(key string) (Section, bool) {
	for _, s := range d {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// Page returns the page with the given key.
func (s Section) Page(key string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Key == key {
			return p, true
		}
	}
	return Page{}, false
}

// UnmarshalYAML decodes a mapping of section key -> section, keeping the
// mapping's key order. JSON documents decode the same way.
func (d *DocsTree) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*d = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: docs tree must be a mapping of sections", value.Line)
	}
	tree := make(DocsTree, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var s Section
		if err := value.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("section %q: %w", value.Content[i].Value, err)
		}
		s.Key = value.Content[i].Value
		tree = append(tree, s)
	}
	*d = tree
	return nil
}

// UnmarshalJSON decodes an ordered JSON object of sections. JSON is a
// subset of YAML, so the YAML decoder keeps the key order.
func (d *DocsTree) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, d)
}

// UnmarshalYAML decodes a mapping of page key -> page, keeping key order.
func (s *Section) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: section must be a mapping of pages", value.Line)
	}
	pages := make([]Page, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var p Page
		if err := value.Content[i+1].Decode(&p); err != nil {
			return fmt.Errorf("page %q: %w", value.Content[i].Value, err)
		}
		p.Key = value.Content[i].Value
		pages = append(pages, p)
	}
	s.Pages = pages
	return nil
}

// MarshalJSON encodes the tree as an ordered JSON object.
func (d DocsTree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, s.Key); err != nil {
			return nil, err
		}
		data, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the section as an ordered JSON object of pages.
func (s Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.Pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, p.Key); err != nil {
			return nil, err
		}
		toc := p.TOC
		if toc == nil {
			toc = []HeadingNode{}
		}
		data, err := json.Marshal(struct {
			TOC []HeadingNode `json:"toc"`
		}{toc})
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON always emits children as an array.
func (h HeadingNode) MarshalJSON() ([]byte, error) {
	type heading HeadingNode
	out := heading(h)
	if out.Children == nil {
		out.Children = []HeadingNode{}
	}
	return json.Marshal(out)
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
