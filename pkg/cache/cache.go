package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the storage backend for memoized pipeline stages. A miss is
// reported through the bool, not through an error; errors are reserved
// for backend failures.
type Cache interface {
	// Get retrieves the value for key. The bool reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the pipeline stages. Keys embed a
// content hash of the stage input, so any change to the history or the
// tuning produces a fresh key.
type Keyer interface {
	// HistoryKey identifies a snapshot of a repository's commit data.
	HistoryKey(source, ref string) string
	// LayoutKey identifies a computed layout for a history hash under
	// the given options.
	LayoutKey(historyHash string, opts LayoutKeyOpts) string
	// RenderKey identifies a rendered artifact for a layout hash.
	RenderKey(layoutHash, format string) string
}

// LayoutKeyOpts are the engine tunables that affect layout output and
// therefore participate in the cache key.
type LayoutKeyOpts struct {
	Linear               bool     `json:"linear"`
	HeadTakeoverPremium  float64  `json:"head_takeover_premium"`
	ReuseTakeoverPremium float64  `json:"reuse_takeover_premium"`
	HeadLookahead        int      `json:"head_lookahead"`
	Palette              []string `json:"palette,omitempty"`
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a
// SHA-256 of the JSON-encoded key parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// HistoryKey generates a key for cached commit history snapshots.
func (k *DefaultKeyer) HistoryKey(source, ref string) string {
	return hashKey("history", source, ref)
}

// LayoutKey generates a key for cached layouts.
func (k *DefaultKeyer) LayoutKey(historyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", historyHash, opts)
}

// RenderKey generates a key for cached render artifacts.
func (k *DefaultKeyer) RenderKey(layoutHash, format string) string {
	return fmt.Sprintf("render:%s:%s", format, layoutHash)
}

var _ Keyer = (*DefaultKeyer)(nil)
