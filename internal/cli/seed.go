package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arborview/arborview/pkg/store"
	"github.com/arborview/arborview/pkg/tree"
)

// seedCommand creates the seed command populating an empty store.
func (c *CLI) seedCommand() *cobra.Command {
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty store with sample or file-provided rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd.Context(), file, force)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "rows file in the API wire format (default: built-in sample)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing rows instead of skipping")
	return cmd
}

func (c *CLI) runSeed(ctx context.Context, file string, force bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	var rows []tree.FlatNode
	if file != "" {
		if rows, err = readRowsFile(file); err != nil {
			return err
		}
		// Reject malformed hierarchies before they reach the store.
		if _, err := tree.Build(rows); err != nil {
			printError("rows do not form a valid hierarchy: %v", err)
			return err
		}
	}

	if force {
		if rows == nil {
			rows = store.SampleRows()
		}
		if err := st.Put(ctx, rows); err != nil {
			return err
		}
		printSuccess("stored %d rows in %s store", len(rows), cfg.Store.Backend)
		return nil
	}

	seeded, err := store.NewSeeder(st, rows).Seed(ctx)
	if err != nil {
		return err
	}
	if seeded {
		printSuccess("seeded %s store", cfg.Store.Backend)
	} else {
		printInfo("store already holds rows, nothing to do")
		printDetail("use --force to overwrite")
	}
	return nil
}
