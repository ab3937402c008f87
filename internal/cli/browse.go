package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arborview/arborview/pkg/store"
	"github.com/arborview/arborview/pkg/tree"
)

// browseCommand creates the browse command opening the interactive tree
// viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the hierarchy interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), file)
		},
	}

	cmd.Flags().StringVarP(&file, "input", "i", "", "local rows file in the API wire format")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, file string) error {
	rows, err := c.browseRows(ctx, file)
	if err != nil {
		return err
	}
	root, err := tree.Build(rows)
	if err != nil {
		printError("cannot build hierarchy: %v", err)
		return err
	}

	p := tea.NewProgram(NewTreeModel(root))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

func (c *CLI) browseRows(ctx context.Context, file string) ([]tree.FlatNode, error) {
	if file != "" {
		return readRowsFile(file)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	defer st.Close(context.Background())

	if cfg.Source.URL == "" {
		if _, err := store.NewSeeder(st, nil).Seed(ctx); err != nil {
			return nil, err
		}
	}
	source, _ := rowSource(cfg, st)
	return source.Rows(ctx)
}
