package tree

import "fmt"

// BuildOptions controls policy choices for [Build] that the default
// behavior leaves implicit.
type BuildOptions struct {
	// FailOnOrphan makes Build return ErrOrphanRow when a row references a
	// parent that does not exist. The default drops orphaned rows silently,
	// matching the observed behavior of the upstream data source.
	FailOnOrphan bool
}

// Build converts flat rows into a single rooted tree.
//
// The row whose ParentID is empty becomes the root. Children are resolved
// by matching each row's ParentID against node IDs; a given parent→child
// pair is attached at most once even if the input repeats it. Rows whose
// parent cannot be resolved are dropped. If duplicate IDs appear, the last
// occurrence wins in the lookup, but the first occurrence's position among
// its siblings is kept.
//
// Build fails with [ErrNoRoot] when no root candidate exists (including
// empty input), [ErrMultipleRoots] when more than one row has an empty
// ParentID, and [ErrCycleDetected] when parent references form a loop.
func Build(rows []FlatNode) (*Node, error) {
	return BuildWith(rows, BuildOptions{})
}

// BuildWith is [Build] with explicit policy options.
func BuildWith(rows []FlatNode, opts BuildOptions) (*Node, error) {
	var root *FlatNode
	for i := range rows {
		if rows[i].ParentID != "" {
			continue
		}
		if root != nil {
			return nil, fmt.Errorf("%w: %q and %q", ErrMultipleRoots, root.ID, rows[i].ID)
		}
		root = &rows[i]
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	idx := newRowIndex(rows)

	if opts.FailOnOrphan {
		for i := range rows {
			r := rows[i]
			if r.ParentID == "" {
				continue
			}
			if _, ok := idx.byID[r.ParentID]; !ok {
				return nil, fmt.Errorf("%w: %q -> %q", ErrOrphanRow, r.ID, r.ParentID)
			}
		}
	}

	visited := map[string]bool{root.ID: true}
	children, err := buildChildren(idx, root.ID, 1, visited)
	if err != nil {
		return nil, err
	}

	return &Node{
		ID:          root.ID,
		Description: idx.byID[root.ID].Description,
		Depth:       0,
		Children:    children,
	}, nil
}

// rowIndex holds the two lookups Build needs: row by ID (last occurrence
// wins) and child IDs by parent ID (first occurrence order, deduplicated).
type rowIndex struct {
	byID     map[string]FlatNode
	childIDs map[string][]string
}

func newRowIndex(rows []FlatNode) *rowIndex {
	idx := &rowIndex{
		byID:     make(map[string]FlatNode, len(rows)),
		childIDs: make(map[string][]string),
	}
	seen := make(map[[2]string]bool, len(rows))
	for _, r := range rows {
		idx.byID[r.ID] = r
		if r.ParentID == "" {
			continue
		}
		pair := [2]string{r.ParentID, r.ID}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		idx.childIDs[r.ParentID] = append(idx.childIDs[r.ParentID], r.ID)
	}
	return idx
}

// buildChildren constructs the child subtrees of the named parent. The
// visited set is threaded through the recursion so that a parent-reference
// loop fails fast instead of overflowing the stack.
func buildChildren(idx *rowIndex, parentID string, depth int, visited map[string]bool) ([]*Node, error) {
	ids := idx.childIDs[parentID]
	if len(ids) == 0 {
		return nil, nil
	}
	children := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if visited[id] {
			return nil, fmt.Errorf("%w: at %q", ErrCycleDetected, id)
		}
		visited[id] = true

		sub, err := buildChildren(idx, id, depth+1, visited)
		if err != nil {
			return nil, err
		}
		children = append(children, &Node{
			ID:          id,
			Description: idx.byID[id].Description,
			Depth:       depth,
			Children:    sub,
		})
	}
	return children, nil
}
