// Package cli implements the arborview command-line interface.
//
// Commands cover the full pipeline: serving the HTTP API, rendering
// hierarchies to files, seeding a store, managing the pipeline cache, and
// browsing a hierarchy interactively in the terminal. All commands share
// a --config flag pointing at a TOML file and support --verbose for
// debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arborview/arborview/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "arborview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Arborview renders hierarchies as interactive diagrams",
		Long:         `Arborview rebuilds rooted hierarchies from flat parent-pointer rows and renders them as positioned, depth-colored diagrams, served over HTTP or written to files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.seedCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.browseCommand())

	return root
}
