package tree

import (
	"encoding/json"
	"fmt"
)

// wireNode is the shape the graph API returns inside its "data" array.
// Two variants exist in the wild: flat rows carrying a "parent" pointer,
// and already-nested rows carrying a "children" array. A node may use
// either; Normalize flattens both into FlatNode rows.
type wireNode struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parent      string     `json:"parent"`
	Children    []wireNode `json:"children"`
}

// wireEnvelope is the top-level response: {"data": [...]}.
type wireEnvelope struct {
	Data []wireNode `json:"data"`
}

// Normalize decodes a graph API response body and flattens it into rows
// suitable for [Build]. Nested children are walked recursively; a child's
// ParentID is taken from the explicit "parent" field when present, falling
// back to the enclosing node's name.
func Normalize(body []byte) ([]FlatNode, error) {
	var env wireEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	var rows []FlatNode
	for _, n := range env.Data {
		rows = flattenWire(rows, n, "")
	}
	return rows, nil
}

func flattenWire(rows []FlatNode, n wireNode, enclosing string) []FlatNode {
	parent := n.Parent
	if parent == "" {
		parent = enclosing
	}
	rows = append(rows, FlatNode{ID: n.Name, Description: n.Description, ParentID: parent})
	for _, c := range n.Children {
		rows = flattenWire(rows, c, n.Name)
	}
	return rows
}
