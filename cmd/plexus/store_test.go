package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plexkit/plexus/pkg/config"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("PLEXUS_TEST_VALUE", "from-env")
	if got := envOrDefault("PLEXUS_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("envOrDefault = %q, want from-env", got)
	}
	os.Unsetenv("PLEXUS_TEST_VALUE")
	if got := envOrDefault("PLEXUS_TEST_VALUE", "fallback"); got != "fallback" {
		t.Errorf("envOrDefault = %q, want fallback", got)
	}
}

func TestStoreFlagsMerge(t *testing.T) {
	base := config.StoreConfig{
		Backend:   "memory",
		DBPath:    "plexus.db",
		RedisAddr: "127.0.0.1:6379",
	}

	tests := []struct {
		name  string
		flags storeFlags
		want  config.StoreConfig
	}{
		{
			name:  "no overrides keeps config",
			flags: storeFlags{},
			want:  base,
		},
		{
			name:  "backend override",
			flags: storeFlags{backend: "sqlite"},
			want:  config.StoreConfig{Backend: "sqlite", DBPath: "plexus.db", RedisAddr: "127.0.0.1:6379"},
		},
		{
			name:  "all overrides",
			flags: storeFlags{backend: "redis", dbPath: "other.db", redisAddr: "redis:6379"},
			want:  config.StoreConfig{Backend: "redis", DBPath: "other.db", RedisAddr: "redis:6379"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.merge(base); got != tt.want {
				t.Errorf("merge = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOpenStoreFromFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := `{"nodes":[{"id":"a","label":"alpha"},{"id":"b"}],"edges":[{"id":"e","source":"a","target":"b"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	st, savePath, err := openStore(config.StoreConfig{Backend: "redis"}, path, logger)
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer st.Close()

	// A document file wins over the configured backend.
	if savePath != path {
		t.Errorf("savePath = %q, want %q", savePath, path)
	}
	snap, err := st.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Errorf("got %d nodes and %d edges, want 2 and 1", len(snap.Nodes), len(snap.Edges))
	}
}

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, savePath, err := openStore(config.StoreConfig{}, "", logger)
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	defer st.Close()
	if savePath != "" {
		t.Errorf("savePath = %q, want empty", savePath)
	}
	snap, err := st.Load()
	if err != nil || len(snap.Nodes) != 0 {
		t.Errorf("empty memory store: snap=%+v err=%v", snap, err)
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, _, err := openStore(config.StoreConfig{Backend: "etcd"}, "", logger)
	if err == nil || !strings.Contains(err.Error(), "unknown store backend") {
		t.Errorf("err = %v, want unknown backend error", err)
	}
}

func TestOpenStoreMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, _, err := openStore(config.StoreConfig{}, filepath.Join(t.TempDir(), "nope.json"), logger)
	if err == nil {
		t.Error("expected error for missing document file")
	}
}
