// Package pipeline provides the core visualization pipeline for Arborview.
//
// The pipeline has four stages:
//
//  1. Rows: acquire flat rows from a [RowSource] (store, remote API, file)
//  2. Build: rebuild the rooted hierarchy from the rows
//  3. Project: assign positions and color tokens via the layout algorithm
//  4. Render: produce output artifacts (svg, json, dot, graphviz)
//
// A [Runner] executes the stages with per-stage caching so the CLI and the
// HTTP server share identical behavior. Stages can also be run
// individually.
package pipeline

import (
	"context"
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

// Output format identifiers.
const (
	FormatSVG      = "svg"      // native SVG with depth colors and popups
	FormatJSON     = "json"     // serialized graph.Layout
	FormatDOT      = "dot"      // Graphviz DOT source
	FormatGraphviz = "graphviz" // SVG rendered by the Graphviz engine
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// DefaultAlgorithm is the default layout algorithm name.
const DefaultAlgorithm = "tidy"

// RowSource supplies the flat rows the hierarchy is built from. Both
// store backends and the remote API client satisfy this interface.
type RowSource interface {
	Rows(ctx context.Context) ([]tree.FlatNode, error)
}

// Options configures a pipeline run.
type Options struct {
	// SourceName identifies the row source in cache keys and logs,
	// e.g. "store:default" or the remote URL.
	SourceName string `json:"source_name"`

	// FailOnOrphan rejects rows referencing missing parents instead of
	// dropping them.
	FailOnOrphan bool `json:"fail_on_orphan,omitempty"`

	// Layout options
	Algorithm string  `json:"algorithm,omitempty"`
	NodeSep   float64 `json:"node_sep,omitempty"`
	LevelSep  float64 `json:"level_sep,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Popups  bool     `json:"popups,omitempty"`

	// Refresh bypasses the rows cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger      `json:"-"`
	Algo   layout.Algorithm `json:"-"` // overrides Algorithm when set
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent; safe to call more than once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.SourceName == "" {
		o.SourceName = "store:default"
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Algorithm != DefaultAlgorithm && o.Algo == nil {
		return fmt.Errorf("unknown layout algorithm: %q", o.Algorithm)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("invalid format: %q (must be one of: svg, json, dot, graphviz)", f)
		}
	}
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = render.DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// algorithm returns the layout algorithm selected by the options.
func (o *Options) algorithm() layout.Algorithm {
	if o.Algo != nil {
		return o.Algo
	}
	return layout.Tidy{NodeSep: o.NodeSep, LevelSep: o.LevelSep}
}

// layoutKeyOpts returns cache key options for the projection stage.
func (o *Options) layoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm: o.Algorithm,
		NodeSep:   o.NodeSep,
		LevelSep:  o.LevelSep,
	}
}

// artifactKeyOpts returns cache key options for one rendered format.
func (o *Options) artifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Width,
		Height: o.Height,
		Popups: o.Popups,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Rows is the normalized flat row set.
	Rows []tree.FlatNode

	// Root is the rebuilt hierarchy.
	Root *tree.Node

	// Layout is the positioned node and edge lists.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount   int
	NodeCount  int
	EdgeCount  int
	RowsTime   time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached pipeline stage.
type CacheInfo struct {
	RowsHit   bool // rows came from cache
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}
