// Package layout assigns visual positions and color tokens to rooted trees.
//
// The positioning itself is delegated to an [Algorithm], treated as a black
// box: given a rooted tree it returns a coordinate for every node. The
// package contract on algorithms is deliberately small - the same tree
// (same shape, same child order) must yield the same coordinates, and a
// node's y coordinate must be monotonic in its depth. [Tidy] is the default
// implementation.
//
// [Project] is a pure transform: it walks the tree once, pairs every node
// with its coordinate and a depth-derived color token, and derives the
// parent→child edge list. It never draws anything - rendering is a separate
// concern (see pkg/render).
package layout

import (
	"errors"
	"fmt"

	"github.com/arborview/arborview/pkg/tree"
)

// ErrMissingCoordinate is returned by [Project] when the algorithm did not
// produce a coordinate for a node present in the tree.
var ErrMissingCoordinate = errors.New("layout algorithm returned no coordinate for node")

// Point is a 2-D coordinate. The y axis carries depth: deeper nodes have
// strictly larger y for any conforming [Algorithm].
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Algorithm computes coordinates for every node of a rooted tree.
// Implementations must be deterministic with respect to tree shape and
// child order, and must map depth monotonically onto the y axis.
type Algorithm interface {
	// Layout returns a coordinate for every node in the tree, keyed by
	// node ID. Every reachable node must be present in the result.
	Layout(root *tree.Node) (map[string]Point, error)
}

// PositionedNode is a tree node annotated with its display position and a
// depth-cycled color token.
type PositionedNode struct {
	ID          string  `json:"name" bson:"name"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Depth       int     `json:"depth" bson:"depth"`
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	ColorToken  string  `json:"color" bson:"color"`
}

// Edge is a parent→child pair derived from the tree structure. Edges are
// emitted in depth-first pre-order, children in attachment order.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Project walks the tree and pairs every node with the coordinate computed
// by algo and a color token derived from its depth. The returned slices are
// fresh values ordered depth-first pre-order; the input tree is not
// modified.
//
// Project fails with [ErrMissingCoordinate] if algo omits any node, so a
// partial layout can never reach the rendering surface.
func Project(root *tree.Node, algo Algorithm) ([]PositionedNode, []Edge, error) {
	if root == nil {
		return nil, nil, nil
	}
	points, err := algo.Layout(root)
	if err != nil {
		return nil, nil, fmt.Errorf("layout: %w", err)
	}

	nodes := make([]PositionedNode, 0, root.Count())
	var edges []Edge
	var missing error
	root.Walk(func(n *tree.Node) bool {
		p, ok := points[n.ID]
		if !ok {
			missing = fmt.Errorf("%w: %q", ErrMissingCoordinate, n.ID)
			return false
		}
		nodes = append(nodes, PositionedNode{
			ID:          n.ID,
			Description: n.Description,
			Depth:       n.Depth,
			X:           p.X,
			Y:           p.Y,
			ColorToken:  ColorToken(n.Depth),
		})
		for _, c := range n.Children {
			edges = append(edges, Edge{From: n.ID, To: c.ID})
		}
		return true
	})
	if missing != nil {
		return nil, nil, missing
	}
	return nodes, edges, nil
}
