// Package sample generates demo graphs for exploring the canvas without
// a real document at hand. Layout positions and cross-cluster wiring come
// from a simplex noise field, so the same seed always produces the same
// graph and different seeds produce usefully different ones.
package sample

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/plexkit/plexus/pkg/graph"
)

var clusterNames = []string{"auth", "billing", "search", "orders", "mailer", "metrics", "cdn", "chat"}

// Graph builds a demo graph of service clusters. Each cluster is a hub
// service with perCluster satellite nodes; hubs call each other where the
// noise field says so.
func Graph(seed int64, clusters, perCluster int) graph.Snapshot {
	if clusters < 1 {
		clusters = 1
	}
	if perCluster < 0 {
		perCluster = 0
	}

	noise := opensimplex.New(seed)
	var snap graph.Snapshot

	hubs := make([]string, clusters)
	for c := 0; c < clusters; c++ {
		name := clusterName(c)
		hubs[c] = name

		// Hubs sit on a ring, nudged off it by the noise field.
		angle := 2 * math.Pi * float64(c) / float64(clusters)
		radius := 250 + 60*noise.Eval2(float64(c)*0.9, 0.5)
		hx := math.Cos(angle) * radius
		hy := math.Sin(angle) * radius

		snap.Nodes = append(snap.Nodes, graph.Node{
			ID:    name,
			Label: name,
			Type:  "service",
			X:     hx,
			Y:     hy,
		})

		for k := 0; k < perCluster; k++ {
			kind := memberKind(noise.Eval2(float64(c)*1.3+0.1, float64(k)*1.7+0.1))
			id := fmt.Sprintf("%s-%s-%d", name, kind, k)

			spread := 2 * math.Pi * float64(k) / float64(perCluster)
			mr := 80 + 30*noise.Eval2(float64(k)*0.8+2, float64(c)*0.8+2)
			snap.Nodes = append(snap.Nodes, graph.Node{
				ID:    id,
				Label: id,
				Type:  kind,
				X:     hx + math.Cos(spread)*mr,
				Y:     hy + math.Sin(spread)*mr,
			})

			src, dst, label := memberEdge(name, id, kind)
			snap.Edges = append(snap.Edges, graph.Edge{
				ID:       "e-" + src + "-" + dst,
				Source:   src,
				Target:   dst,
				Label:    label,
				Directed: true,
			})
		}
	}

	// Cross-cluster calls where the field is positive enough.
	for i := 0; i < clusters; i++ {
		for j := i + 1; j < clusters; j++ {
			if noise.Eval2(float64(i)*0.7+0.3, float64(j)*0.7+0.3) <= 0.25 {
				continue
			}
			snap.Edges = append(snap.Edges, graph.Edge{
				ID:       "e-" + hubs[i] + "-" + hubs[j],
				Source:   hubs[i],
				Target:   hubs[j],
				Label:    "calls",
				Directed: true,
			})
		}
	}

	return snap
}

func clusterName(c int) string {
	if c < len(clusterNames) {
		return clusterNames[c]
	}
	return fmt.Sprintf("svc-%d", c)
}

func memberKind(v float64) string {
	switch {
	case v < -0.3:
		return "database"
	case v < 0.2:
		return "cache"
	case v < 0.6:
		return "queue"
	default:
		return "user"
	}
}

// memberEdge picks direction and verb for a hub-member connection. Users
// call into the hub; the hub reads from and publishes to everything else.
func memberEdge(hub, member, kind string) (src, dst, label string) {
	switch kind {
	case "database":
		return hub, member, "reads"
	case "cache":
		return hub, member, "caches"
	case "queue":
		return hub, member, "publishes"
	default:
		return member, hub, "calls"
	}
}
