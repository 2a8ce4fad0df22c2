package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodeKind discriminates the three shapes a hierarchy node can take.
type NodeKind int

const (
	// Empty is a category with no children.
	Empty NodeKind = iota
	// Leaves is a category whose children are plain names.
	Leaves
	// Subtree is a category whose children are nested nodes.
	Subtree
)

// Node is one entry in a hierarchy definition. Exactly one of Leaves or
// Children is populated, according to Kind, so loaders can branch exhaustively
// instead of type-switching on raw JSON.
type Node struct {
	Kind     NodeKind
	Leaves   []string
	Children map[string]Node
}

// Forest maps root category names to their nodes within one department.
type Forest map[string]Node

// Definition maps department names to the forest seeded for each.
type Definition map[string]Forest

// LeafNode builds a node whose children are plain names.
func LeafNode(names ...string) Node {
	if len(names) == 0 {
		return Node{Kind: Empty}
	}
	return Node{Kind: Leaves, Leaves: names}
}

// SubtreeNode builds a node with nested children.
func SubtreeNode(children map[string]Node) Node {
	if len(children) == 0 {
		return Node{Kind: Empty}
	}
	return Node{Kind: Subtree, Children: children}
}

// UnmarshalJSON decodes the polymorphic definition shape: a JSON array of
// strings becomes Leaves, an object becomes Subtree, null or an empty
// collection becomes Empty.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Node{Kind: Empty}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var leaves []string
		if err := json.Unmarshal(trimmed, &leaves); err != nil {
			return fmt.Errorf("decode leaf list: %w", err)
		}
		if len(leaves) == 0 {
			*n = Node{Kind: Empty}
			return nil
		}
		*n = Node{Kind: Leaves, Leaves: leaves}
		return nil
	case '{':
		var children map[string]Node
		if err := json.Unmarshal(trimmed, &children); err != nil {
			return fmt.Errorf("decode subtree: %w", err)
		}
		if len(children) == 0 {
			*n = Node{Kind: Empty}
			return nil
		}
		*n = Node{Kind: Subtree, Children: children}
		return nil
	default:
		return fmt.Errorf("category node must be null, a list of names or a nested object, got %q", string(trimmed))
	}
}

// MarshalJSON emits the same compact shape the definition files use.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case Leaves:
		return json.Marshal(n.Leaves)
	case Subtree:
		return json.Marshal(n.Children)
	default:
		return []byte("null"), nil
	}
}

// ParseDefinition decodes a full hierarchy definition document.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse hierarchy definition: %w", err)
	}
	return def, nil
}
