// Package rawdoc decodes JSON or YAML documents into generic values while
// keeping access to the source key order.
//
// YAML is a superset of JSON, so a single yaml.Node decode serves both.
// Mapping keys are always converted to strings, so unquoted YAML keys such as
// response codes (200:) come back as "200".
package rawdoc

import (
	"errors"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// ErrEmpty is returned when the input holds no document.
var ErrEmpty = errors.New("rawdoc: empty document")

var (
	// ErrAliasCycle is returned for an alias to a node that encloses it.
	ErrAliasCycle = errors.New("alias refers to an enclosing node")
	// ErrAliasExpansion is returned when aliases expand to more than
	// MaxAliasNodes nodes.
	ErrAliasExpansion = errors.New("alias expansion exceeds limit")
)

// MaxAliasNodes caps the nodes produced by expanding aliases.
const MaxAliasNodes = 1 << 20

// Parse decodes data and returns the root content node.
func Parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rawdoc: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, ErrEmpty
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return nil, ErrEmpty
	}
	return root, nil
}

// Decode parses data into map[string]any, []any and scalar values.
func Decode(data []byte) (any, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Value(root)
}

// Value converts a node tree to generic values. Aliases are expanded in
// place; an alias to one of its own enclosing nodes fails with
// ErrAliasCycle and oversized expansions with ErrAliasExpansion.
func Value(n *yaml.Node) (any, error) {
	c := converter{open: make(map[*yaml.Node]bool)}
	return c.value(n)
}

// converter tracks the container nodes on the current path and the
// nodes produced under aliases.
type converter struct {
	open       map[*yaml.Node]bool
	aliasDepth int
	aliasNodes int
}

func (c *converter) value(n *yaml.Node) (any, error) {
	if c.aliasDepth > 0 {
		c.aliasNodes++
		if c.aliasNodes > MaxAliasNodes {
			return nil, fmt.Errorf("rawdoc: line %d: %w", n.Line, ErrAliasExpansion)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.value(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("rawdoc: line %d: dangling alias", n.Line)
		}
		if c.open[n.Alias] {
			return nil, fmt.Errorf("rawdoc: line %d: alias *%s: %w", n.Line, n.Value, ErrAliasCycle)
		}
		c.aliasDepth++
		defer func() { c.aliasDepth-- }()
		return c.value(n.Alias)
	case yaml.MappingNode:
		c.open[n] = true
		defer delete(c.open, n)
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := c.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		c.open[n] = true
		defer delete(c.open, n)
		s := make([]any, 0, len(n.Content))
		for _, e := range n.Content {
			v, err := c.value(e)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("rawdoc: line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("rawdoc: line %d: unexpected node kind %v", n.Line, n.Kind)
	}
}

// Keys returns the keys of a mapping node in source order.
// It returns nil for any other node kind.
func Keys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

// Lookup returns the value node stored under key in a mapping node.
func Lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
