package tree

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		rows    []FlatNode
		wantErr error
		check   func(t *testing.T, root *Node)
	}{
		{
			name: "SingleRoot",
			rows: []FlatNode{{ID: "A", ParentID: ""}},
			check: func(t *testing.T, root *Node) {
				if root.ID != "A" || root.Depth != 0 || !root.IsLeaf() {
					t.Errorf("root = %+v, want leaf A at depth 0", root)
				}
			},
		},
		{
			name: "TwoLevels",
			rows: []FlatNode{
				{ID: "A", ParentID: ""},
				{ID: "B", ParentID: "A"},
				{ID: "C", ParentID: "A"},
				{ID: "B1", ParentID: "B"},
			},
			check: func(t *testing.T, root *Node) {
				if got := root.Count(); got != 4 {
					t.Fatalf("Count() = %d, want 4", got)
				}
				if len(root.Children) != 2 {
					t.Fatalf("root children = %d, want 2", len(root.Children))
				}
				b, c := root.Children[0], root.Children[1]
				if b.ID != "B" || c.ID != "C" {
					t.Errorf("children = %s, %s, want B, C", b.ID, c.ID)
				}
				if b.Depth != 1 || c.Depth != 1 {
					t.Errorf("depths = %d, %d, want 1, 1", b.Depth, c.Depth)
				}
				if len(b.Children) != 1 || b.Children[0].ID != "B1" || b.Children[0].Depth != 2 {
					t.Errorf("B subtree = %+v, want single child B1 at depth 2", b.Children)
				}
				wantEdges := [][2]string{{"A", "B"}, {"B", "B1"}, {"A", "C"}}
				if got := Edges(root); !reflect.DeepEqual(got, wantEdges) {
					t.Errorf("Edges() = %v, want %v", got, wantEdges)
				}
			},
		},
		{
			name: "RowOrderIrrelevant",
			rows: []FlatNode{
				{ID: "B1", ParentID: "B"},
				{ID: "C", ParentID: "A"},
				{ID: "A", ParentID: ""},
				{ID: "B", ParentID: "A"},
			},
			check: func(t *testing.T, root *Node) {
				if got := root.Count(); got != 4 {
					t.Errorf("Count() = %d, want 4", got)
				}
				if root.Find("B1") == nil {
					t.Error("B1 not reachable from root")
				}
			},
		},
		{
			name: "DuplicatePairSuppressed",
			rows: []FlatNode{
				{ID: "A", ParentID: ""},
				{ID: "X", ParentID: "A"},
				{ID: "X", ParentID: "A"},
			},
			check: func(t *testing.T, root *Node) {
				if len(root.Children) != 1 {
					t.Fatalf("A children = %d, want X exactly once", len(root.Children))
				}
				if root.Children[0].ID != "X" {
					t.Errorf("child = %s, want X", root.Children[0].ID)
				}
			},
		},
		{
			name: "DuplicateIDLastDescriptionWins",
			rows: []FlatNode{
				{ID: "A", ParentID: ""},
				{ID: "X", Description: "first", ParentID: "A"},
				{ID: "X", Description: "second", ParentID: "A"},
			},
			check: func(t *testing.T, root *Node) {
				if got := root.Children[0].Description; got != "second" {
					t.Errorf("description = %q, want last occurrence %q", got, "second")
				}
			},
		},
		{
			name: "OrphanDroppedSilently",
			rows: []FlatNode{
				{ID: "A", ParentID: ""},
				{ID: "B", ParentID: "A"},
				{ID: "ghost", ParentID: "missing"},
			},
			check: func(t *testing.T, root *Node) {
				if got := root.Count(); got != 2 {
					t.Errorf("Count() = %d, want 2 (orphan dropped)", got)
				}
				if root.Find("ghost") != nil {
					t.Error("orphan should not be attached")
				}
			},
		},
		{
			name:    "EmptyInput",
			rows:    nil,
			wantErr: ErrNoRoot,
		},
		{
			name: "NoRoot",
			rows: []FlatNode{
				{ID: "A", ParentID: "B"},
				{ID: "B", ParentID: "A"},
			},
			wantErr: ErrNoRoot,
		},
		{
			name: "MultipleRoots",
			rows: []FlatNode{
				{ID: "A", ParentID: ""},
				{ID: "Z", ParentID: ""},
				{ID: "B", ParentID: "A"},
			},
			wantErr: ErrMultipleRoots,
		},
		{
			name: "SelfReferenceUnderRoot",
			rows: []FlatNode{
				{ID: "R", ParentID: ""},
				{ID: "A", ParentID: "R"},
				{ID: "A", ParentID: "A"},
			},
			wantErr: ErrCycleDetected,
		},
		{
			name: "CycleThroughDuplicateID",
			rows: []FlatNode{
				{ID: "R", ParentID: ""},
				{ID: "A", ParentID: "R"},
				{ID: "B", ParentID: "A"},
				{ID: "A", ParentID: "B"},
			},
			wantErr: ErrCycleDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, root)
			}
		})
	}
}

func TestBuildWithFailOnOrphan(t *testing.T) {
	rows := []FlatNode{
		{ID: "A", ParentID: ""},
		{ID: "ghost", ParentID: "missing"},
	}

	if _, err := Build(rows); err != nil {
		t.Fatalf("default policy should drop orphan, got %v", err)
	}

	_, err := BuildWith(rows, BuildOptions{FailOnOrphan: true})
	if !errors.Is(err, ErrOrphanRow) {
		t.Fatalf("strict policy error = %v, want ErrOrphanRow", err)
	}
}

func TestBuildNodeCountMatchesInput(t *testing.T) {
	// Well-formed input: one root, no cycles, no orphans, no duplicates.
	rows := []FlatNode{
		{ID: "root", ParentID: ""},
		{ID: "a", ParentID: "root"},
		{ID: "b", ParentID: "root"},
		{ID: "a1", ParentID: "a"},
		{ID: "a2", ParentID: "a"},
		{ID: "b1", ParentID: "b"},
		{ID: "a1x", ParentID: "a1"},
	}

	root, err := Build(rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := root.Count(); got != len(rows) {
		t.Errorf("Count() = %d, want %d", got, len(rows))
	}
}

func TestBuildIdempotent(t *testing.T) {
	rows := []FlatNode{
		{ID: "root", ParentID: ""},
		{ID: "b", ParentID: "root"},
		{ID: "a", ParentID: "root"},
		{ID: "b1", ParentID: "b"},
	}

	first, err := Build(rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Build on the same input should produce identical trees")
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	rows := []FlatNode{
		{ID: "root", Description: "the root", ParentID: ""},
		{ID: "a", Description: "left", ParentID: "root"},
		{ID: "b", Description: "right", ParentID: "root"},
		{ID: "a1", ParentID: "a"},
		{ID: "a", ParentID: "root"}, // duplicate pair, suppressed
		{ID: "ghost", ParentID: "nowhere"}, // orphan, dropped
	}

	root, err := Build(rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	flat := Flatten(root)
	rebuilt, err := Build(flat)
	if err != nil {
		t.Fatalf("rebuild error = %v", err)
	}
	if !reflect.DeepEqual(root, rebuilt) {
		t.Error("Build(Flatten(tree)) should reproduce the tree")
	}

	// Edge set round-trips minus duplicates and orphans.
	want := [][2]string{{"root", "a"}, {"a", "a1"}, {"root", "b"}}
	if got := Edges(rebuilt); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestFlattenNil(t *testing.T) {
	if got := Flatten(nil); got != nil {
		t.Errorf("Flatten(nil) = %v, want nil", got)
	}
}
