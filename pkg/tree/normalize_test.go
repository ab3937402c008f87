package tree

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		want  []FlatNode
		wantErr bool
	}{
		{
			name: "FlatRows",
			body: `{"data": [
				{"name": "A", "description": "root node", "parent": ""},
				{"name": "B", "description": "", "parent": "A"}
			]}`,
			want: []FlatNode{
				{ID: "A", Description: "root node", ParentID: ""},
				{ID: "B", ParentID: "A"},
			},
		},
		{
			name: "NestedChildren",
			body: `{"data": [
				{"name": "A", "children": [
					{"name": "B", "children": [{"name": "B1"}]},
					{"name": "C"}
				]}
			]}`,
			want: []FlatNode{
				{ID: "A"},
				{ID: "B", ParentID: "A"},
				{ID: "B1", ParentID: "B"},
				{ID: "C", ParentID: "A"},
			},
		},
		{
			name: "ExplicitParentWinsOverNesting",
			body: `{"data": [
				{"name": "A", "children": [
					{"name": "B", "parent": "other"}
				]}
			]}`,
			want: []FlatNode{
				{ID: "A"},
				{ID: "B", ParentID: "other"},
			},
		},
		{
			name: "Empty",
			body: `{"data": []}`,
			want: nil,
		},
		{
			name:    "Malformed",
			body:    `{"data": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Normalize() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeThenBuild(t *testing.T) {
	body := `{"data": [
		{"name": "root", "description": "top", "parent": ""},
		{"name": "left", "parent": "root"},
		{"name": "right", "parent": "root"}
	]}`

	rows, err := Normalize([]byte(body))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	root, err := Build(rows)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := root.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}
