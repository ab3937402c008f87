package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/arborview/arborview/pkg/graph"
)

// ToDOT converts a layout to Graphviz DOT format for a node-link view.
// Node fill colors carry the depth color tokens; hierarchy depth maps to
// rank via rankdir=TB. Use [GraphvizSVG] to rasterize the result.
func ToDOT(l graph.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		label := n.ID
		if n.Description != "" {
			label = fmt.Sprintf("%s\n%s", n.ID, n.Description)
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", n.ID, label, n.ColorToken)
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GraphvizSVG renders a DOT graph to SVG using the in-process Graphviz
// engine.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
