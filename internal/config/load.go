package config

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RootName is the name of the document element.
const RootName = "argos-configuration"

// Format identifies the document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// FormatOf picks the syntax from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml", ".argos":
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Document is a parsed experiment file. It is never mutated after loading.
type Document struct {
	Path string
	Root *Node
}

// LoadFile reads and parses an experiment file.
func LoadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Document{Path: path, Root: root}, nil
}

func Parse(data []byte, format Format) (*Node, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatXML:
		return ParseXML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ParseYAML decodes a YAML document. A document with a single top-level
// key equal to RootName is unwrapped.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrBadDocument)
	}
	top := resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping (line %d)", ErrBadDocument, top.Line)
	}
	if len(top.Content) == 2 && top.Content[0].Value == RootName {
		top = resolve(top.Content[1])
	}
	root := NewNode(RootName)
	if err := fillFromMapping(root, top); err != nil {
		return nil, err
	}
	return root, nil
}

func resolve(y *yaml.Node) *yaml.Node {
	for y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}

func isNull(y *yaml.Node) bool {
	return y.Kind == yaml.ScalarNode && y.ShortTag() == "!!null"
}

func fillFromMapping(n *Node, m *yaml.Node) error {
	if isNull(m) {
		return nil
	}
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: <%s> must be a mapping (line %d)", ErrBadDocument, n.Name, m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		val := resolve(m.Content[i+1])
		switch {
		case isNull(val):
			n.Add(NewNode(key))
		case val.Kind == yaml.ScalarNode:
			n.SetAttr(key, val.Value)
		case val.Kind == yaml.MappingNode:
			if err := fillFromMapping(n.Add(NewNode(key)), val); err != nil {
				return err
			}
		case val.Kind == yaml.SequenceNode:
			if err := fillFromSequence(n, key, val); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unexpected value for %q (line %d)", ErrBadDocument, key, val.Line)
		}
	}
	return nil
}

// isTagged reports whether every item is a single-key mapping whose value is
// a mapping or null, i.e. a list of heterogeneous tagged elements.
func isTagged(seq *yaml.Node) bool {
	if len(seq.Content) == 0 {
		return false
	}
	for _, item := range seq.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return false
		}
		v := resolve(item.Content[1])
		if v.Kind != yaml.MappingNode && !isNull(v) {
			return false
		}
	}
	return true
}

func fillFromSequence(n *Node, key string, seq *yaml.Node) error {
	if isTagged(seq) {
		container := n.Add(NewNode(key))
		for _, item := range seq.Content {
			item = resolve(item)
			child := container.Add(NewNode(item.Content[0].Value))
			if err := fillFromMapping(child, resolve(item.Content[1])); err != nil {
				return err
			}
		}
		return nil
	}
	for _, item := range seq.Content {
		if err := fillFromMapping(n.Add(NewNode(key)), resolve(item)); err != nil {
			return err
		}
	}
	return nil
}

type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []xmlElement `xml:",any"`
}

func (e *xmlElement) node() *Node {
	n := NewNode(e.XMLName.Local)
	for _, a := range e.Attrs {
		n.SetAttr(a.Name.Local, a.Value)
	}
	for i := range e.Children {
		n.Add(e.Children[i].node())
	}
	return n
}

// ParseXML decodes an XML document; the document element becomes the root
// whatever its name.
func ParseXML(data []byte) (*Node, error) {
	var root xmlElement
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrBadDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return root.node(), nil
}
