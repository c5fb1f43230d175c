package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// hashKey builds a stage-scoped cache key: stage:hash(parts...). The
// stage prefix ("history", "layout", "render") keeps the key spaces of
// the pipeline stages disjoint and lets tooling group entries by stage.
func hashKey(stage string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", stage, hex.EncodeToString(sum[:]))
}

// keyStage returns the stage prefix of a key produced by hashKey, or ""
// for keys without one.
func keyStage(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return ""
}

// Hash computes the SHA-256 hex digest of data. It keys the layout cache
// (hash of the history snapshot) and names rendered artifacts (hash of
// the serialized layout, which doubles as the HTTP ETag).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
