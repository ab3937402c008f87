// Package graph is the canonical serialization format for positioned
// hierarchies.
//
// A [Layout] pairs the projector output (positioned, colored nodes) with
// the derived edge list. The format is used for API responses, store
// snapshots, and caching; the bson tags make values directly storable in
// MongoDB. Round-trip fidelity holds: marshal → unmarshal reproduces the
// same layout.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arborview/arborview/pkg/layout"
)

// Layout is a fully positioned hierarchy ready for a rendering surface:
// one entry per node with coordinates and color token, plus one edge per
// parent→child relationship. Node and edge order is depth-first pre-order,
// as produced by [layout.Project].
type Layout struct {
	Nodes []layout.PositionedNode `json:"nodes" bson:"nodes"`
	Edges []layout.Edge           `json:"edges" bson:"edges"`
}

// NodeCount returns the number of positioned nodes.
func (l Layout) NodeCount() int { return len(l.Nodes) }

// EdgeCount returns the number of derived edges.
func (l Layout) EdgeCount() int { return len(l.Edges) }

// Node returns the positioned node with the given ID and true, or a zero
// value and false if not present.
func (l Layout) Node(id string) (layout.PositionedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return layout.PositionedNode{}, false
}

// Marshal converts a layout to indented JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes to a Layout.
func Unmarshal(data []byte) (Layout, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a layout as indented JSON to w.
func Write(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// Read decodes a JSON layout from r.
func Read(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// WriteFile writes a layout to a JSON file with 0644 permissions.
func WriteFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(l, f)
}

// ReadFile reads a JSON file and returns the decoded layout.
func ReadFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
