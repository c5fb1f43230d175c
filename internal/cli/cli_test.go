package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvollmer/lanegraph/pkg/config"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q, want XDG path", dir)
	}
}

func TestOpenCacheNoCache(t *testing.T) {
	c, err := openCache(context.Background(), config.Default().Cache, true)
	if err != nil {
		t.Fatalf("openCache() error: %v", err)
	}
	defer c.Close()

	if _, ok, _ := c.Get(context.Background(), "anything"); ok {
		t.Error("null cache should always miss")
	}
}

func TestOpenCacheNullBackend(t *testing.T) {
	cfg := config.Default().Cache
	cfg.Backend = "null"

	c, err := openCache(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("openCache() error: %v", err)
	}
	defer c.Close()
}

func TestOpenCacheFileBackend(t *testing.T) {
	cfg := config.Default().Cache
	cfg.Dir = t.TempDir()

	c, err := openCache(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("openCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, ok, err := c.Get(context.Background(), "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want hit", ok, err)
	}
	if string(data) != "v" {
		t.Errorf("Get() = %q, want %q", data, "v")
	}
}

func TestParseFormats(t *testing.T) {
	got := parseFormats("svg,png")
	if len(got) != 2 || got[0] != "svg" || got[1] != "png" {
		t.Errorf("parseFormats() = %v, want [svg png]", got)
	}

	got = parseFormats("")
	if len(got) != 1 || got[0] != "json" {
		t.Errorf("parseFormats(\"\") = %v, want [json]", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base   string
		format string
		multi  bool
		want   string
	}{
		{"graph", "svg", false, "graph.svg"},
		{"out.svg", "svg", false, "out.svg"},
		{"out.svg", "png", true, "out.png"},
		{"graph", "dot", true, "graph.dot"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.base, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.base, tt.format, tt.multi, got, tt.want)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2026-01-01")

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2026-01-01" {
		t.Errorf("date = %q, want %q", date, "2026-01-01")
	}
}

func TestServeHelpNamesAPIRoutes(t *testing.T) {
	long := newServeCmd().Long
	for _, route := range []string{"/api/graph", "/api/graph.svg", "/api/graph.png", "/api/graph.dot", "/ws"} {
		if !strings.Contains(long, route) {
			t.Errorf("serve help should mention route %q", route)
		}
	}
}
