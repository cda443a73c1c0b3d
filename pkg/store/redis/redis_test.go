package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/plexkit/plexus/pkg/store"
	"github.com/plexkit/plexus/pkg/store/storetest"
)

func TestRedisGraphStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.GraphStore {
		// Each subtest gets its own miniredis so keys never bleed over.
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("Failed to start miniredis: %v", err)
		}
		t.Cleanup(mr.Close)

		client := redis.NewClient(&redis.Options{
			Addr: mr.Addr(),
		})
		return NewRedisGraphStore(client)
	})
}
