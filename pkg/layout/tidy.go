package layout

import "github.com/arborview/arborview/pkg/tree"

// Default spacing between adjacent leaves and between depth levels, in
// abstract layout units. The rendering surface scales these to pixels.
const (
	DefaultNodeSep  = 1.0
	DefaultLevelSep = 1.0
)

// Tidy is the built-in tree layout: leaves are placed left to right in
// sibling order, and every internal node is centered over the span of its
// children. Depth maps directly onto the y axis (y = depth * LevelSep), so
// the depth-monotonicity contract holds by construction. The walk visits
// children strictly in attachment order, which makes the output a pure
// function of tree shape.
type Tidy struct {
	// NodeSep is the horizontal distance between adjacent leaves.
	// Zero means DefaultNodeSep.
	NodeSep float64

	// LevelSep is the vertical distance between depth levels.
	// Zero means DefaultLevelSep.
	LevelSep float64
}

// Layout implements [Algorithm].
func (t Tidy) Layout(root *tree.Node) (map[string]Point, error) {
	nodeSep := t.NodeSep
	if nodeSep == 0 {
		nodeSep = DefaultNodeSep
	}
	levelSep := t.LevelSep
	if levelSep == 0 {
		levelSep = DefaultLevelSep
	}

	points := make(map[string]Point, root.Count())
	var nextLeaf float64

	var place func(n *tree.Node) float64
	place = func(n *tree.Node) float64 {
		y := float64(n.Depth) * levelSep
		if n.IsLeaf() {
			x := nextLeaf
			nextLeaf += nodeSep
			points[n.ID] = Point{X: x, Y: y}
			return x
		}

		first := place(n.Children[0])
		last := first
		for _, c := range n.Children[1:] {
			last = place(c)
		}
		x := (first + last) / 2
		points[n.ID] = Point{X: x, Y: y}
		return x
	}
	place(root)

	return points, nil
}

var _ Algorithm = Tidy{}
