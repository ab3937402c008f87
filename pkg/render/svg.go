// Package render draws positioned hierarchies.
//
// The package strictly consumes [graph.Layout] values - positions and
// colors are computed upstream by pkg/layout and never inside the drawing
// code. Two surfaces are provided: a native SVG renderer with optional
// hover popups, and a Graphviz-backed node-link view via DOT.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/arborview/arborview/pkg/graph"
)

// Default frame dimensions in pixels.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Node box dimensions and frame margin, in pixels.
const (
	boxWidth  = 120.0
	boxHeight = 36.0
	margin    = 40.0
)

// SVGOptions configures SVG rendering.
type SVGOptions struct {
	// Width and Height set the frame size. Zero means the defaults.
	Width  float64
	Height float64

	// Popups embeds a hover popup per node showing its description.
	Popups bool
}

// SVG renders the layout as a standalone SVG document: one rounded
// rectangle per node filled with its color token, connecting lines for
// edges, and centered labels. Edges are drawn first so boxes sit on top.
func SVG(l graph.Layout, opts SVGOptions) []byte {
	width := opts.Width
	if width == 0 {
		width = DefaultWidth
	}
	height := opts.Height
	if height == 0 {
		height = DefaultHeight
	}

	centers := scaleToFrame(l, width, height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %.0f %.0f\" width=\"%.0f\" height=\"%.0f\">\n",
		width, height, width, height)

	buf.WriteString("  <g class=\"edges\" stroke=\"#999\" stroke-width=\"1.5\">\n")
	for _, e := range l.Edges {
		from, to := centers[e.From], centers[e.To]
		fmt.Fprintf(&buf, "    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n",
			from.x, from.y+boxHeight/2, to.x, to.y-boxHeight/2)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"nodes\">\n")
	for _, n := range l.Nodes {
		c := centers[n.ID]
		fmt.Fprintf(&buf,
			"    <rect x=\"%.1f\" y=\"%.1f\" width=\"%.0f\" height=\"%.0f\" rx=\"6\" fill=\"%s\"/>\n",
			c.x-boxWidth/2, c.y-boxHeight/2, boxWidth, boxHeight, n.ColorToken)
		fmt.Fprintf(&buf,
			"    <text class=\"node-text\" data-node=\"%s\" x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" dominant-baseline=\"central\" fill=\"white\" font-size=\"13\" font-family=\"sans-serif\">%s</text>\n",
			html.EscapeString(n.ID), c.x, c.y, html.EscapeString(n.ID))
	}
	buf.WriteString("  </g>\n")

	if opts.Popups {
		writePopups(&buf, l, centers)
		writePopupScript(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// center is a node's pixel position within the frame.
type center struct{ x, y float64 }

// scaleToFrame maps the abstract layout coordinates onto the pixel frame,
// leaving a margin on every side. Degenerate extents (a single node or a
// single level) collapse to the frame midline.
func scaleToFrame(l graph.Layout, width, height float64) map[string]center {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}

	scale := func(v, lo, hi, size float64) float64 {
		if hi == lo {
			return size / 2
		}
		return margin + (v-lo)/(hi-lo)*(size-2*margin)
	}

	centers := make(map[string]center, len(l.Nodes))
	for _, n := range l.Nodes {
		centers[n.ID] = center{
			x: scale(n.X, minX, maxX, width),
			y: scale(n.Y, minY, maxY, height),
		}
	}
	return centers
}
