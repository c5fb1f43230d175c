package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when one cache backend is shared between repositories or
// users and their entries must not collide.
//
// Example usage:
//
//	// Repository-specific keys
//	repoKeyer := NewScopedKeyer(NewDefaultKeyer(), "repo:frontend:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HistoryKey generates a prefixed key for history snapshots.
func (k *ScopedKeyer) HistoryKey(source, ref string) string {
	return k.prefix + k.inner.HistoryKey(source, ref)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(historyHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(historyHash, opts)
}

// RenderKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) RenderKey(layoutHash, format string) string {
	return k.prefix + k.inner.RenderKey(layoutHash, format)
}
