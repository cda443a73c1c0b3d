package main

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/plexkit/plexus/pkg/config"
	"github.com/plexkit/plexus/pkg/loader"
	"github.com/plexkit/plexus/pkg/store"
	redisstore "github.com/plexkit/plexus/pkg/store/redis"
)

// storeFlags are the backend selection flags shared by every command
// that needs a live graph store.
type storeFlags struct {
	backend   string
	dbPath    string
	redisAddr string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", envOrDefault("PLEXUS_STORE", ""),
		"graph store backend: memory|sqlite|redis (default from config)")
	cmd.Flags().StringVar(&f.dbPath, "db", envOrDefault("PLEXUS_DB_PATH", ""),
		"SQLite database path")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", envOrDefault("PLEXUS_REDIS_ADDR", ""),
		"Redis server address")
}

// merge folds flag overrides into the configured backend selection.
func (f *storeFlags) merge(cfg config.StoreConfig) config.StoreConfig {
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.redisAddr != "" {
		cfg.RedisAddr = f.redisAddr
	}
	return cfg
}

// openStore opens the selected backend. When a document file is given,
// the file is the store: it loads into memory and the returned save path
// tells the caller where to write the document back.
func openStore(sel config.StoreConfig, file string, logger *slog.Logger) (store.GraphStore, string, error) {
	if file != "" {
		snap, err := loader.Load(file, logger)
		if err != nil {
			return nil, "", err
		}
		return store.NewMemoryStoreFrom(snap), file, nil
	}

	switch sel.Backend {
	case "", "memory":
		return store.NewMemoryStore(), "", nil
	case "sqlite":
		st, err := store.NewSQLiteStore(sel.DBPath)
		if err != nil {
			return nil, "", err
		}
		return st, "", nil
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: sel.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, "", fmt.Errorf("failed to reach redis at %s: %w", sel.RedisAddr, err)
		}
		return redisstore.NewRedisGraphStore(client), "", nil
	default:
		return nil, "", fmt.Errorf("unknown store backend %q (want memory, sqlite or redis)", sel.Backend)
	}
}
