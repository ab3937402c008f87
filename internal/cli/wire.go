package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arborview/arborview/internal/config"
	"github.com/arborview/arborview/pkg/cache"
	"github.com/arborview/arborview/pkg/fetch"
	"github.com/arborview/arborview/pkg/pipeline"
	"github.com/arborview/arborview/pkg/store"
	"github.com/arborview/arborview/pkg/tree"
)

// loadConfig resolves the effective configuration for a command.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// openStore creates the configured store backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// openCache creates the configured cache backend.
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNull:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		return cache.NewFileCache(cfg.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Addr})
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// rowSource picks where rows come from: a remote endpoint when configured,
// otherwise the given store.
func rowSource(cfg config.Config, s store.Store) (pipeline.RowSource, string) {
	if cfg.Source.URL != "" {
		return fetch.NewClient(cfg.Source.URL, nil), cfg.Source.URL
	}
	return s, "store:" + cfg.Store.Backend
}

// pipelineOptions translates configuration into baseline pipeline options.
func pipelineOptions(cfg config.Config, sourceName string) pipeline.Options {
	return pipeline.Options{
		SourceName: sourceName,
		Algorithm:  cfg.Layout.Algorithm,
		NodeSep:    cfg.Layout.NodeSep,
		LevelSep:   cfg.Layout.LevelSep,
		Width:      cfg.Server.Width,
		Height:     cfg.Server.Height,
		Popups:     cfg.Server.Popups,
	}
}

// readRowsFile loads flat rows from a local JSON file in the API wire
// format.
func readRowsFile(path string) ([]tree.FlatNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rows, err := tree.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// defaultCacheDir returns the per-user cache directory.
func defaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
