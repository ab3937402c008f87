// Package tree rebuilds rooted trees from flat parent-pointer records.
//
// The input is a sequence of [FlatNode] rows, each naming itself and its
// parent by string identifier. [Build] resolves the parent references into a
// single rooted [Node] hierarchy, assigning each node a depth (root = 0).
// The inverse operation, [Flatten], walks a tree back into rows.
//
// Build is a pure function: it performs no I/O, holds no state between
// calls, and is safe to invoke concurrently on independent inputs.
package tree

import (
	"errors"
	"slices"
)

var (
	// ErrNoRoot is returned by [Build] when no row has an empty ParentID.
	// An empty input slice also fails with ErrNoRoot.
	ErrNoRoot = errors.New("no root node found")

	// ErrMultipleRoots is returned by [Build] when more than one row has an
	// empty ParentID. The build refuses to pick one arbitrarily.
	ErrMultipleRoots = errors.New("multiple root nodes found")

	// ErrCycleDetected is returned by [Build] when following parent
	// references revisits a node. Cyclic inputs would otherwise recurse
	// without bound.
	ErrCycleDetected = errors.New("cycle detected in parent references")

	// ErrOrphanRow is returned by [Build] when [BuildOptions.FailOnOrphan]
	// is set and a row references a parent that does not exist.
	ErrOrphanRow = errors.New("row references unknown parent")
)

// FlatNode is a single input row: a node naming itself and its parent by
// string identifier. An empty ParentID marks the root. The JSON field names
// match the wire format of the graph API ({name, description, parent}).
type FlatNode struct {
	ID          string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	ParentID    string `json:"parent" bson:"parent"`
}

// Node is a vertex in the reconstructed hierarchy. Each node exclusively
// owns its children: a child appears under exactly one parent and does not
// outlive it. Depth is 0 for the root and parent depth + 1 for children.
//
// Nodes are built fresh on every [Build] call and never shared between
// results.
type Node struct {
	ID          string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Depth       int     `json:"depth"`
	Children    []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Count returns the number of nodes in the subtree rooted at n, including
// n itself. Returns 0 for a nil node.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Walk visits n and every descendant in depth-first pre-order, calling fn
// for each. Children are visited in the order they were attached. Walk
// stops early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node in the subtree whose ID matches, searching
// depth-first, or nil if no such node exists.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// MaxDepth returns the largest depth value in the subtree rooted at n.
// Returns -1 for a nil node.
func (n *Node) MaxDepth() int {
	if n == nil {
		return -1
	}
	maxd := n.Depth
	for _, c := range n.Children {
		if d := c.MaxDepth(); d > maxd {
			maxd = d
		}
	}
	return maxd
}

// Flatten converts a tree back into flat rows in depth-first pre-order.
// The root row has an empty ParentID. Flattening the result of [Build]
// reproduces the input's parent→child edge set minus duplicates and
// orphans.
func Flatten(root *Node) []FlatNode {
	if root == nil {
		return nil
	}
	rows := make([]FlatNode, 0, root.Count())
	var walk func(n *Node, parentID string)
	walk = func(n *Node, parentID string) {
		rows = append(rows, FlatNode{ID: n.ID, Description: n.Description, ParentID: parentID})
		for _, c := range n.Children {
			walk(c, n.ID)
		}
	}
	walk(root, "")
	return rows
}

// Edges returns the parent→child pairs of the subtree in depth-first
// pre-order, one pair per attached child, in child attachment order.
func Edges(root *Node) [][2]string {
	if root == nil {
		return nil
	}
	var edges [][2]string
	root.Walk(func(n *Node) bool {
		for _, c := range n.Children {
			edges = append(edges, [2]string{n.ID, c.ID})
		}
		return true
	})
	return edges
}

// SortRows orders rows by ID, keeping relative order of equal IDs. Build
// output does not depend on row order, but sorted rows make fixtures and
// store dumps deterministic.
func SortRows(rows []FlatNode) {
	slices.SortStableFunc(rows, func(a, b FlatNode) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
}
