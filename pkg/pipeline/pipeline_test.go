package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/arborview/arborview/pkg/cache"
	"github.com/arborview/arborview/pkg/store"
	"github.com/arborview/arborview/pkg/tree"
)

// countingSource wraps a store and counts how often rows are fetched, so
// tests can tell cache hits from source reads.
type countingSource struct {
	store store.Store
	calls int
}

func (s *countingSource) Rows(ctx context.Context) ([]tree.FlatNode, error) {
	s.calls++
	return s.store.Rows(ctx)
}

func seededSource(t *testing.T) *countingSource {
	t.Helper()
	s := store.NewMemoryStore()
	if err := s.Put(context.Background(), store.SampleRows()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	return &countingSource{store: s}
}

func TestRunnerRun(t *testing.T) {
	src := seededSource(t)
	r := NewRunner(src, nil, nil, nil)

	res, err := r.Run(context.Background(), Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Stats.RowCount != 11 {
		t.Errorf("RowCount = %d, want 11", res.Stats.RowCount)
	}
	if res.Stats.NodeCount != 11 {
		t.Errorf("NodeCount = %d, want 11", res.Stats.NodeCount)
	}
	if res.Stats.EdgeCount != 10 {
		t.Errorf("EdgeCount = %d, want 10", res.Stats.EdgeCount)
	}
	if res.Root == nil || res.Root.ID != "Acme" {
		t.Errorf("Root = %+v, want Acme", res.Root)
	}
	for _, format := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(res.Artifacts[format]) == 0 {
			t.Errorf("artifact %s is empty", format)
		}
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should be an SVG document")
	}
	if res.CacheInfo.RowsHit || res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should not hit cache, got %+v", res.CacheInfo)
	}
}

func TestRunnerCachesStages(t *testing.T) {
	src := seededSource(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(src, c, nil, nil)

	ctx := context.Background()
	if _, err := r.Run(ctx, Options{}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	res, err := r.Run(ctx, Options{})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
	if !res.CacheInfo.RowsHit || !res.CacheInfo.LayoutHit || !res.CacheInfo.RenderHit {
		t.Errorf("second run should hit every stage, got %+v", res.CacheInfo)
	}
}

func TestRunnerRefreshBypassesRowsCache(t *testing.T) {
	src := seededSource(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(src, c, nil, nil)

	ctx := context.Background()
	if _, err := r.Run(ctx, Options{}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	res, err := r.Run(ctx, Options{Refresh: true})
	if err != nil {
		t.Fatalf("refresh Run() error = %v", err)
	}

	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
	if res.CacheInfo.RowsHit {
		t.Error("refresh run must not report a rows cache hit")
	}
	// Same rows, same options: the downstream stages still hit.
	if !res.CacheInfo.LayoutHit {
		t.Error("layout should still hit on identical rows")
	}
}

func TestRunnerLayoutOptionChangesKey(t *testing.T) {
	src := seededSource(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	r := NewRunner(src, c, nil, nil)

	ctx := context.Background()
	if _, err := r.Run(ctx, Options{}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	res, err := r.Run(ctx, Options{NodeSep: 3})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !res.CacheInfo.RowsHit {
		t.Error("rows should hit regardless of layout options")
	}
	if res.CacheInfo.LayoutHit {
		t.Error("changed node separation must recompute the layout")
	}
}

func TestRunnerBuildErrorPropagates(t *testing.T) {
	s := store.NewMemoryStore()
	rows := []tree.FlatNode{
		{ID: "A", ParentID: ""},
		{ID: "B", ParentID: ""},
	}
	if err := s.Put(context.Background(), rows); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	r := NewRunner(&countingSource{store: s}, nil, nil, nil)

	_, err := r.Run(context.Background(), Options{})
	if err == nil || !strings.Contains(err.Error(), tree.ErrMultipleRoots.Error()) {
		t.Errorf("Run() error = %v, want multiple roots", err)
	}
}

func TestRunnerLayoutStage(t *testing.T) {
	r := NewRunner(seededSource(t), nil, nil, nil)

	l, err := r.Layout(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if l.NodeCount() != 11 || l.EdgeCount() != 10 {
		t.Errorf("layout size = %d nodes / %d edges, want 11/10", l.NodeCount(), l.EdgeCount())
	}
	if _, ok := l.Node("Storage"); !ok {
		t.Error("layout should contain the Storage node")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"Defaults", Options{}, false},
		{"ExplicitFormats", Options{Formats: []string{FormatJSON, FormatDOT}}, false},
		{"InvalidFormat", Options{Formats: []string{"png"}}, true},
		{"UnknownAlgorithm", Options{Algorithm: "radial"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Algorithm != DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", opts.Algorithm, DefaultAlgorithm)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}
