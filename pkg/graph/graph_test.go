package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/arborview/arborview/pkg/layout"
	"github.com/arborview/arborview/pkg/tree"
)

func sampleLayout(t *testing.T) Layout {
	t.Helper()
	root, err := tree.Build([]tree.FlatNode{
		{ID: "A", Description: "root", ParentID: ""},
		{ID: "B", ParentID: "A"},
		{ID: "C", ParentID: "A"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	nodes, edges, err := layout.Project(root, layout.Tidy{})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	return Layout{Nodes: nodes, Edges: edges}
}

func TestMarshalRoundTrip(t *testing.T) {
	l := sampleLayout(t)

	data, err := Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, l)
	}
}

func TestMarshalFieldNames(t *testing.T) {
	data, err := Marshal(sampleLayout(t))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, field := range []string{`"nodes"`, `"edges"`, `"name"`, `"x"`, `"y"`, `"color"`, `"from"`, `"to"`} {
		if !strings.Contains(s, field) {
			t.Errorf("serialized layout missing field %s", field)
		}
	}
}

func TestNodeLookup(t *testing.T) {
	l := sampleLayout(t)

	n, ok := l.Node("B")
	if !ok {
		t.Fatal("node B not found")
	}
	if n.Depth != 1 {
		t.Errorf("B depth = %d, want 1", n.Depth)
	}
	if _, ok := l.Node("nope"); ok {
		t.Error("lookup of unknown node should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	l := sampleLayout(t)
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteFile(l, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.NodeCount() != l.NodeCount() || got.EdgeCount() != l.EdgeCount() {
		t.Errorf("counts = %d/%d, want %d/%d",
			got.NodeCount(), got.EdgeCount(), l.NodeCount(), l.EdgeCount())
	}
}

func TestReadMalformed(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"nodes": [`)); err == nil {
		t.Error("Unmarshal of malformed JSON should fail")
	}
	if _, err := ReadFile(filepath.Join(os.TempDir(), "does-not-exist-arborview.json")); err == nil {
		t.Error("ReadFile of missing file should fail")
	}
}
