package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one element of the configuration tree.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
}

// NewNode returns an empty element.
func NewNode(name string) *Node {
	return &Node{Name: name, Attrs: map[string]string{}}
}

// Child returns the first child with the given name.
func (n *Node) Child(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: <%s> in <%s>", ErrNodeNotFound, name, n.Name)
}

func (n *Node) HasChild(name string) bool {
	_, err := n.Child(name)
	return err == nil
}

// ChildrenNamed returns every child with the given name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Lookup walks a path of child names from n.
func (n *Node) Lookup(path ...string) (*Node, error) {
	cur := n
	for _, name := range path {
		next, err := cur.Child(name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// SetAttr sets an attribute, allocating the map if needed.
func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[name] = value
}

// Add appends c as the last child and returns it.
func (n *Node) Add(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, Attrs: make(map[string]string, len(n.Attrs))}
	for k, v := range n.Attrs {
		c.Attrs[k] = v
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Value is the set of types an attribute can be read as.
type Value interface {
	string | bool | int | uint32 | uint64 | float64
}

// Attr reads and converts a mandatory attribute.
func Attr[T Value](n *Node, name string) (T, error) {
	var zero T
	raw, ok := n.Attrs[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q in <%s>", ErrAttrNotFound, name, n.Name)
	}
	v, err := parse[T](strings.TrimSpace(raw))
	if err != nil {
		return zero, fmt.Errorf("%w: %q in <%s>: %v", ErrBadAttr, name, n.Name, err)
	}
	return v, nil
}

// AttrOrDefault reads an optional attribute. A present but malformed
// attribute is still an error.
func AttrOrDefault[T Value](n *Node, name string, def T) (T, error) {
	if !n.HasAttr(name) {
		return def, nil
	}
	return Attr[T](n, name)
}

func parse[T Value](raw string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *uint32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return out, err
		}
		*p = uint32(v)
	case *uint64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, err
		}
		*p = v
	}
	return out, nil
}

// Floats reads a comma-separated list of reals, as used for positions and
// sizes ("1,2,0.5").
func Floats(n *Node, name string) ([]float64, error) {
	raw, err := Attr[string](n, name)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in <%s>: %v", ErrBadAttr, name, n.Name, err)
		}
		out[i] = v
	}
	return out, nil
}
