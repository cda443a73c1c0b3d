// Package redis provides a GraphStore backed by a Redis server, for
// setups where several canvas instances share one graph.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/plexkit/plexus/pkg/graph"
	"github.com/plexkit/plexus/pkg/store"
)

const (
	nodesSet = "plexus:nodes"
	edgesSet = "plexus:edges"
)

type RedisGraphStore struct {
	client *redis.Client
}

func NewRedisGraphStore(client *redis.Client) *RedisGraphStore {
	return &RedisGraphStore{client: client}
}

func nodeKey(id string) string {
	return fmt.Sprintf("plexus:node:%s", id)
}

func edgeKey(id string) string {
	return fmt.Sprintf("plexus:edge:%s", id)
}

// Load reads every node and edge. Keys are sorted so repeated loads of an
// unchanged graph come back in the same order.
func (s *RedisGraphStore) Load() (graph.Snapshot, error) {
	var snap graph.Snapshot
	ctx := context.Background()

	nodeKeys, err := s.client.SMembers(ctx, nodesSet).Result()
	if err != nil {
		return snap, fmt.Errorf("failed to SMEMBERS %s: %w", nodesSet, err)
	}
	sort.Strings(nodeKeys)

	if len(nodeKeys) > 0 {
		values, err := s.client.MGet(ctx, nodeKeys...).Result()
		if err != nil {
			return snap, fmt.Errorf("failed to MGET node keys: %w", err)
		}
		for i, val := range values {
			str, ok := val.(string)
			if !ok {
				// Key vanished between SMEMBERS and MGET.
				continue
			}
			var n graph.Node
			if err := json.Unmarshal([]byte(str), &n); err != nil {
				return snap, fmt.Errorf("failed to unmarshal node %s: %w", nodeKeys[i], err)
			}
			snap.Nodes = append(snap.Nodes, n)
		}
	}

	edgeKeys, err := s.client.SMembers(ctx, edgesSet).Result()
	if err != nil {
		return snap, fmt.Errorf("failed to SMEMBERS %s: %w", edgesSet, err)
	}
	sort.Strings(edgeKeys)

	if len(edgeKeys) > 0 {
		values, err := s.client.MGet(ctx, edgeKeys...).Result()
		if err != nil {
			return snap, fmt.Errorf("failed to MGET edge keys: %w", err)
		}
		for i, val := range values {
			str, ok := val.(string)
			if !ok {
				continue
			}
			var e graph.Edge
			if err := json.Unmarshal([]byte(str), &e); err != nil {
				return snap, fmt.Errorf("failed to unmarshal edge %s: %w", edgeKeys[i], err)
			}
			snap.Edges = append(snap.Edges, e)
		}
	}

	return snap, nil
}

// CreateNode inserts a new node at the given position and returns it.
func (s *RedisGraphStore) CreateNode(label, typ string, x, y float64) (graph.Node, error) {
	n := graph.Node{
		ID:    uuid.New().String(),
		Label: label,
		Type:  typ,
		X:     x,
		Y:     y,
	}
	if err := s.putNode(n); err != nil {
		return graph.Node{}, err
	}
	return n, nil
}

// MoveNode records a user-chosen position and pins the node there.
func (s *RedisGraphStore) MoveNode(id string, x, y float64) error {
	ctx := context.Background()
	key := nodeKey(id)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
		}
		return fmt.Errorf("failed to GET key %s: %w", key, err)
	}

	var n graph.Node
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return fmt.Errorf("failed to unmarshal node %s: %w", id, err)
	}

	n.X, n.Y = x, y
	n.Pin(x, y)
	return s.putNode(n)
}

// DeleteNode removes a node and every edge touching it.
func (s *RedisGraphStore) DeleteNode(id string) error {
	ctx := context.Background()
	key := nodeKey(id)

	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to DEL key %s: %w", key, err)
	}
	if removed == 0 {
		return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
	}
	if err := s.client.SRem(ctx, nodesSet, key).Err(); err != nil {
		return fmt.Errorf("failed to SREM key %s: %w", key, err)
	}

	snap, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load edges for cascade: %w", err)
	}
	for _, e := range snap.Edges {
		if !e.Touches(id) {
			continue
		}
		if err := s.DeleteEdge(e.ID); err != nil {
			return fmt.Errorf("failed to cascade delete edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// CreateEdge inserts a new edge after checking both endpoints exist.
func (s *RedisGraphStore) CreateEdge(source, target, label string, directed bool) (graph.Edge, error) {
	ctx := context.Background()

	for _, id := range []string{source, target} {
		exists, err := s.client.Exists(ctx, nodeKey(id)).Result()
		if err != nil {
			return graph.Edge{}, fmt.Errorf("failed to check node %s: %w", id, err)
		}
		if exists == 0 {
			return graph.Edge{}, fmt.Errorf("node %s: %w", id, store.ErrNotFound)
		}
	}

	e := graph.Edge{
		ID:       uuid.New().String(),
		Source:   source,
		Target:   target,
		Label:    label,
		Directed: directed,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return graph.Edge{}, fmt.Errorf("failed to marshal edge: %w", err)
	}
	key := edgeKey(e.ID)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return graph.Edge{}, fmt.Errorf("failed to SET key %s: %w", key, err)
	}
	if err := s.client.SAdd(ctx, edgesSet, key).Err(); err != nil {
		return graph.Edge{}, fmt.Errorf("failed to SADD key %s to set: %w", key, err)
	}
	return e, nil
}

// DeleteEdge removes a single edge.
func (s *RedisGraphStore) DeleteEdge(id string) error {
	ctx := context.Background()
	key := edgeKey(id)

	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to DEL key %s: %w", key, err)
	}
	if removed == 0 {
		return fmt.Errorf("edge %s: %w", id, store.ErrNotFound)
	}
	if err := s.client.SRem(ctx, edgesSet, key).Err(); err != nil {
		return fmt.Errorf("failed to SREM key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisGraphStore) Close() error {
	return s.client.Close()
}

func (s *RedisGraphStore) putNode(n graph.Node) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal node: %w", err)
	}
	ctx := context.Background()
	key := nodeKey(n.ID)
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to SET key %s: %w", key, err)
	}
	if err := s.client.SAdd(ctx, nodesSet, key).Err(); err != nil {
		return fmt.Errorf("failed to SADD key %s to set: %w", key, err)
	}
	return nil
}
