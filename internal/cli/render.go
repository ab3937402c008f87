package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arborview/arborview/pkg/pipeline"
	"github.com/arborview/arborview/pkg/store"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path (or base path for multiple formats)
	input    string  // optional local rows file instead of the configured source
	width    float64 // viewport width in pixels
	height   float64 // viewport height in pixels
	nodeSep  float64 // horizontal separation between sibling leaves
	levelSep float64 // vertical separation between depth levels
	popups   bool    // embed hover popups in the SVG
	refresh  bool    // bypass the rows cache
	strict   bool    // fail on rows referencing missing parents
}

// renderCommand creates the render command writing artifacts to files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{popups: true}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the hierarchy to SVG, JSON or DOT files",
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			return c.runRender(cmd.Context(), formats, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "graph", "output file or base path (extension added per format)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "local rows file in the API wire format")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, graphviz (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height")
	cmd.Flags().Float64Var(&opts.nodeSep, "node-sep", 0, "sibling separation")
	cmd.Flags().Float64Var(&opts.levelSep, "level-sep", 0, "level separation")
	cmd.Flags().BoolVar(&opts.popups, "popups", opts.popups, "embed hover popups in the SVG")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the rows cache")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on rows referencing missing parents")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

func (c *CLI) runRender(ctx context.Context, formats []string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var source pipeline.RowSource
	var sourceName string
	if opts.input != "" {
		rows, err := readRowsFile(opts.input)
		if err != nil {
			return err
		}
		s := store.NewMemoryStore()
		if err := s.Put(ctx, rows); err != nil {
			return err
		}
		source, sourceName = s, "file:"+opts.input
	} else {
		st, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())
		if cfg.Source.URL == "" {
			if _, err := store.NewSeeder(st, nil).Seed(ctx); err != nil {
				return err
			}
		}
		source, sourceName = rowSource(cfg, st)
	}

	ca, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer ca.Close()

	runOpts := pipelineOptions(cfg, sourceName)
	runOpts.Formats = formats
	runOpts.Refresh = opts.refresh
	runOpts.FailOnOrphan = opts.strict
	runOpts.Popups = opts.popups
	if opts.width > 0 {
		runOpts.Width = opts.width
	}
	if opts.height > 0 {
		runOpts.Height = opts.height
	}
	if opts.nodeSep > 0 {
		runOpts.NodeSep = opts.nodeSep
	}
	if opts.levelSep > 0 {
		runOpts.LevelSep = opts.levelSep
	}
	runOpts.Logger = c.Logger

	res, err := pipeline.NewRunner(source, ca, nil, c.Logger).Run(ctx, runOpts)
	if err != nil {
		printError("render failed: %v", err)
		return err
	}

	printInfo("%d rows, %d nodes, %d edges", res.Stats.RowCount, res.Stats.NodeCount, res.Stats.EdgeCount)
	for _, format := range formats {
		path := outputPath(opts.output, format, len(formats) > 1)
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSuccess("wrote %s", path)
	}
	return nil
}

// outputPath derives the file path for one format. With several formats
// the base path always gets a per-format extension; with one format an
// explicit extension on the base is respected.
func outputPath(base, format string, multi bool) string {
	ext := "." + format
	if format == pipeline.FormatGraphviz {
		ext = ".gv.svg"
	}
	if !multi && filepath.Ext(base) != "" {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
