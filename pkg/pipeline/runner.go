package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arborview/arborview/pkg/cache"
	"github.com/arborview/arborview/pkg/graph"
	"github.com/arborview/arborview/pkg/layout"
	"github.com/arborview/arborview/pkg/render"
	"github.com/arborview/arborview/pkg/tree"
)

// Runner executes the visualization pipeline with per-stage caching.
// Rows, projected layouts and rendered artifacts are cached
// independently so a layout option change reuses cached rows and a
// format change reuses the cached layout.
type Runner struct {
	source RowSource
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching and
// a nil keyer selects the default key scheme.
func NewRunner(source RowSource, c cache.Cache, k cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{source: source, cache: c, keyer: k, logger: logger}
}

// Run executes all pipeline stages and returns the combined result.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{Artifacts: make(map[string][]byte)}

	start := time.Now()
	rows, rowsRaw, hit, err := r.rowsWithCache(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	res.Rows = rows
	res.CacheInfo.RowsHit = hit
	res.Stats.RowsTime = time.Since(start)
	res.Stats.RowCount = len(rows)
	r.logger.Debug("rows acquired", "source", opts.SourceName, "count", len(rows), "cached", hit)

	start = time.Now()
	root, err := tree.BuildWith(rows, tree.BuildOptions{FailOnOrphan: opts.FailOnOrphan})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	res.Root = root
	res.Stats.BuildTime = time.Since(start)

	start = time.Now()
	rowsHash := cache.Hash(rowsRaw)
	l, layoutRaw, hit, err := r.layoutWithCache(ctx, root, rowsHash, &opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Layout = l
	res.CacheInfo.LayoutHit = hit
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.NodeCount = l.NodeCount()
	res.Stats.EdgeCount = l.EdgeCount()

	start = time.Now()
	layoutHash := cache.Hash(layoutRaw)
	res.CacheInfo.RenderHit = true
	for _, format := range opts.Formats {
		artifact, hit, err := r.renderWithCache(ctx, format, l, layoutHash, &opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		res.Artifacts[format] = artifact
		if !hit {
			res.CacheInfo.RenderHit = false
		}
	}
	res.Stats.RenderTime = time.Since(start)

	r.logger.Info("pipeline complete",
		"source", opts.SourceName,
		"rows", res.Stats.RowCount,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"formats", opts.Formats)
	return res, nil
}

// Rows runs only the row acquisition stage.
func (r *Runner) Rows(ctx context.Context, opts Options) ([]tree.FlatNode, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	rows, _, _, err := r.rowsWithCache(ctx, &opts)
	return rows, err
}

// Layout runs the pipeline up to the projection stage.
func (r *Runner) Layout(ctx context.Context, opts Options) (graph.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, err
	}
	rows, rowsRaw, _, err := r.rowsWithCache(ctx, &opts)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("rows: %w", err)
	}
	root, err := tree.BuildWith(rows, tree.BuildOptions{FailOnOrphan: opts.FailOnOrphan})
	if err != nil {
		return graph.Layout{}, fmt.Errorf("build: %w", err)
	}
	l, _, _, err := r.layoutWithCache(ctx, root, cache.Hash(rowsRaw), &opts)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("layout: %w", err)
	}
	return l, nil
}

// rowsWithCache returns the flat rows, their serialized form for
// downstream key derivation, and whether the cache was hit.
func (r *Runner) rowsWithCache(ctx context.Context, opts *Options) ([]tree.FlatNode, []byte, bool, error) {
	key := r.keyer.RowsKey(opts.SourceName)

	if !opts.Refresh {
		if data, ok, err := r.cache.Get(ctx, key); err != nil {
			r.logger.Warn("rows cache read failed", "key", key, "error", err)
		} else if ok {
			var rows []tree.FlatNode
			if err := json.Unmarshal(data, &rows); err == nil {
				return rows, data, true, nil
			}
			r.logger.Warn("rows cache entry corrupt, refetching", "key", key)
		}
	}

	rows, err := r.source.Rows(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, nil, false, fmt.Errorf("marshal rows: %w", err)
	}
	if err := r.cache.Set(ctx, key, data, cache.TTLRows); err != nil {
		r.logger.Warn("rows cache write failed", "key", key, "error", err)
	}
	return rows, data, false, nil
}

// layoutWithCache projects the tree, consulting the cache first. The
// returned bytes are the serialized layout used for artifact keys.
func (r *Runner) layoutWithCache(ctx context.Context, root *tree.Node, rowsHash string, opts *Options) (graph.Layout, []byte, bool, error) {
	key := r.keyer.LayoutKey(rowsHash, opts.layoutKeyOpts())

	if data, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("layout cache read failed", "key", key, "error", err)
	} else if ok {
		var l graph.Layout
		if err := json.Unmarshal(data, &l); err == nil {
			return l, data, true, nil
		}
		r.logger.Warn("layout cache entry corrupt, recomputing", "key", key)
	}

	nodes, edges, err := layout.Project(root, opts.algorithm())
	if err != nil {
		return graph.Layout{}, nil, false, err
	}
	l := graph.Layout{Nodes: nodes, Edges: edges}
	data, err := json.Marshal(l)
	if err != nil {
		return graph.Layout{}, nil, false, fmt.Errorf("marshal layout: %w", err)
	}
	if err := r.cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.logger.Warn("layout cache write failed", "key", key, "error", err)
	}
	return l, data, false, nil
}

// renderWithCache produces one artifact format, consulting the cache
// first.
func (r *Runner) renderWithCache(ctx context.Context, format string, l graph.Layout, layoutHash string, opts *Options) ([]byte, bool, error) {
	key := r.keyer.ArtifactKey(layoutHash, opts.artifactKeyOpts(format))

	if data, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("artifact cache read failed", "key", key, "error", err)
	} else if ok {
		return data, true, nil
	}

	artifact, err := r.renderFormat(ctx, format, l, opts)
	if err != nil {
		return nil, false, err
	}
	if err := r.cache.Set(ctx, key, artifact, cache.TTLArtifact); err != nil {
		r.logger.Warn("artifact cache write failed", "key", key, "error", err)
	}
	return artifact, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, format string, l graph.Layout, opts *Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(l, render.SVGOptions{
			Width:  opts.Width,
			Height: opts.Height,
			Popups: opts.Popups,
		}), nil
	case FormatJSON:
		return graph.Marshal(l)
	case FormatDOT:
		return []byte(render.ToDOT(l)), nil
	case FormatGraphviz:
		return render.GraphvizSVG(ctx, render.ToDOT(l))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}
