// Package config loads Arborview configuration from a TOML file with
// environment variable overrides. Defaults work out of the box: an
// in-memory store seeded with the sample hierarchy and no cache service.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in the store and cache sections.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"

	CacheNull  = "null"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Source SourceConfig `toml:"source"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr   string  `toml:"addr"`
	Popups bool    `toml:"popups"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// StoreConfig selects and configures the row store backend.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Addr    string `toml:"addr"`
}

// SourceConfig points at a remote row API. When URL is empty, rows come
// from the store.
type SourceConfig struct {
	URL string `toml:"url"`
}

// LayoutConfig sets layout algorithm parameters.
type LayoutConfig struct {
	Algorithm string  `toml:"algorithm"`
	NodeSep   float64 `toml:"node_sep"`
	LevelSep  float64 `toml:"level_sep"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", Popups: true},
		Store:  StoreConfig{Backend: StoreMemory, Database: "arborview", Collection: "nodes"},
		Cache:  CacheConfig{Backend: CacheNull},
		Layout: LayoutConfig{Algorithm: "tidy"},
	}
}

// Load reads configuration from the given TOML file, if any, then applies
// environment variable overrides. An empty path skips the file entirely; a
// named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides configuration from ARBORVIEW_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "ARBORVIEW_ADDR")
	setBool(&c.Server.Popups, "ARBORVIEW_POPUPS")
	setString(&c.Store.Backend, "ARBORVIEW_STORE")
	setString(&c.Store.URI, "ARBORVIEW_MONGO_URI")
	setString(&c.Store.Database, "ARBORVIEW_MONGO_DB")
	setString(&c.Cache.Backend, "ARBORVIEW_CACHE")
	setString(&c.Cache.Dir, "ARBORVIEW_CACHE_DIR")
	setString(&c.Cache.Addr, "ARBORVIEW_REDIS_ADDR")
	setString(&c.Source.URL, "ARBORVIEW_SOURCE_URL")
}

// Validate checks backend names and cross-field requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.URI == "" {
			return fmt.Errorf("store backend %q requires a uri", StoreMongo)
		}
	default:
		return fmt.Errorf("unknown store backend: %q (must be %q or %q)",
			c.Store.Backend, StoreMemory, StoreMongo)
	}

	switch c.Cache.Backend {
	case CacheNull:
	case CacheFile:
		if c.Cache.Dir == "" {
			return fmt.Errorf("cache backend %q requires a dir", CacheFile)
		}
	case CacheRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache backend %q requires an addr", CacheRedis)
		}
	default:
		return fmt.Errorf("unknown cache backend: %q (must be %q, %q or %q)",
			c.Cache.Backend, CacheNull, CacheFile, CacheRedis)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
