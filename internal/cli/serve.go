package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/arborview/arborview/internal/config"
	"github.com/arborview/arborview/internal/server"
	"github.com/arborview/arborview/pkg/pipeline"
	"github.com/arborview/arborview/pkg/store"
)

// shutdownTimeout bounds graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph API and rendered views over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	ca, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer ca.Close()

	source, sourceName := rowSource(cfg, st)
	runner := pipeline.NewRunner(source, ca, nil, c.Logger)

	// Seeding only applies when rows come from our own store.
	var seeder *store.Seeder
	if cfg.Source.URL == "" {
		seeder = store.NewSeeder(st, nil)
	}

	srv := server.NewServer(runner, seeder, pipelineOptions(cfg, sourceName), c.Logger)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
