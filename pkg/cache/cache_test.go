package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "layout:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get miss after Set")
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("Get hit after Delete")
	}
}

func TestFileCache_NonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Zero and negative TTLs mean "no expiration".
	if err := c.Set(ctx, "key", []byte("value"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Error("non-positive TTL should mean no expiration")
	}
}

func TestFileCache_DeleteAbsent(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Delete(context.Background(), "never-set"); err != nil {
		t.Errorf("Delete of absent key error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	opts := LayoutKeyOpts{HeadTakeoverPremium: 0.2, ReuseTakeoverPremium: 0.5, HeadLookahead: 10}
	key := k.LayoutKey("abc123", opts)
	if !strings.HasPrefix(key, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", key)
	}
	if key != k.LayoutKey("abc123", opts) {
		t.Error("LayoutKey should be deterministic")
	}

	tuned := opts
	tuned.HeadLookahead = 5
	if key == k.LayoutKey("abc123", tuned) {
		t.Error("LayoutKey should change when options change")
	}

	if k.HistoryKey("/repo", "main") == k.HistoryKey("/repo", "feature") {
		t.Error("HistoryKey should depend on ref")
	}
	if got := k.RenderKey("abc", "svg"); got != "render:svg:abc" {
		t.Errorf("RenderKey = %q, want render:svg:abc", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "repo:frontend:")

	key := scoped.LayoutKey("abc", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "repo:frontend:layout:") {
		t.Errorf("ScopedKeyer LayoutKey unexpected: %s", key)
	}
	if !strings.HasSuffix(key, inner.LayoutKey("abc", LayoutKeyOpts{})[len("layout:"):]) {
		t.Errorf("ScopedKeyer should wrap the inner key: %s", key)
	}
}

func TestScopedKeyer_NilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if !strings.HasPrefix(scoped.RenderKey("abc", "svg"), "prefix:render:") {
		t.Error("ScopedKeyer with nil inner should fall back to DefaultKeyer")
	}
}

func TestFileCache_EntryMetadata(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	key := hashKey("layout", "abc")
	if err := c.Set(ctx, key, []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	var raw []byte
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		raw, err = os.ReadFile(path)
		return err
	})
	if err != nil {
		t.Fatalf("walk cache dir: %v", err)
	}
	if raw == nil {
		t.Fatal("Set wrote no entry file")
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if entry.Stage != "layout" {
		t.Errorf("entry stage = %q, want %q", entry.Stage, "layout")
	}
	if entry.StoredAt.IsZero() {
		t.Error("entry stored_at should be set")
	}
	if string(entry.Data) != "payload" {
		t.Errorf("entry data = %q, want %q", entry.Data, "payload")
	}

	// No temp file left behind after the rename.
	matches, _ := filepath.Glob(filepath.Join(dir, "*", "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files remain: %v", matches)
	}
}

func TestKeyStage(t *testing.T) {
	if got := keyStage(hashKey("render", "hash", "svg")); got != "render" {
		t.Errorf("keyStage() = %q, want %q", got, "render")
	}
	if got := keyStage("noprefix"); got != "" {
		t.Errorf("keyStage(noprefix) = %q, want empty", got)
	}
}
