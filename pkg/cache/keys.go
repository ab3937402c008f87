package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// RowsKey identifies a row set fetched from a named source.
	RowsKey(source string) string

	// LayoutKey identifies a projected layout: the content hash of the
	// rows plus the options that influence projection.
	LayoutKey(rowsHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact: the content hash of the
	// layout plus the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change projection output.
type LayoutKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	NodeSep   float64 `json:"node_sep,omitempty"`
	LevelSep  float64 `json:"level_sep,omitempty"`
}

// ArtifactKeyOpts are the options that change rendered output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Popups bool    `json:"popups,omitempty"`
}

// DefaultKeyer hashes options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) RowsKey(source string) string {
	return "rows:" + Hash([]byte(source))
}

func (DefaultKeyer) LayoutKey(rowsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", rowsHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
