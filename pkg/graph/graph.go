// Package graph derives the capped connection graph from the similarity
// matrix and discovers clusters of tightly related projects.
//
// The graph is a per-project ranked adjacency: every pair at or above
// the similarity threshold contributes both directions, each list is
// sorted by strength and truncated to the connection cap. Queries never
// recompute similarity; they read the precomputed lists.
package graph

import (
	"sort"

	"github.com/orreryworks/orrery/pkg/similarity"
)

// Defaults for graph construction.
const (
	DefaultMinSimilarity  = 0.3
	DefaultMaxConnections = 10
)

// Edge is one ranked neighbor entry.
type Edge struct {
	// ID is the neighbor project id
	ID string

	// Strength is the stored similarity at build/patch time
	Strength float64
}

// Graph is the thresholded, capped, ranked adjacency structure.
//
// Not safe for concurrent mutation; the engine serializes Patch calls
// together with their matrix updates under one critical section.
type Graph struct {
	threshold      float64
	maxConnections int
	adj            map[string][]Edge
}

// Build constructs the graph from a similarity matrix.
//
// Every stored pair with score >= threshold is added in both directions.
// Each adjacency list is then sorted by strength descending and
// truncated to maxConnections. Equal strengths break ties by neighbor
// id ascending, so rebuilds are deterministic. The ids slice
// registers every project so isolated projects still answer queries
// with an empty list.
func Build(m *similarity.Matrix, ids []string, threshold float64, maxConnections int) *Graph {
	if threshold <= 0 {
		threshold = DefaultMinSimilarity
	}
	if maxConnections <= 0 {
		maxConnections = DefaultMaxConnections
	}

	g := &Graph{
		threshold:      threshold,
		maxConnections: maxConnections,
		adj:            make(map[string][]Edge, len(ids)),
	}
	for _, id := range ids {
		g.adj[id] = nil
	}

	for _, ps := range m.Pairs() {
		if ps.Score < threshold {
			continue
		}
		g.adj[ps.A] = append(g.adj[ps.A], Edge{ID: ps.B, Strength: ps.Score})
		g.adj[ps.B] = append(g.adj[ps.B], Edge{ID: ps.A, Strength: ps.Score})
	}

	for id := range g.adj {
		g.adj[id] = rankAndCap(g.adj[id], g.maxConnections)
	}
	return g
}

// rankAndCap sorts edges by strength descending (id ascending on ties)
// and truncates to the cap.
func rankAndCap(edges []Edge, cap int) []Edge {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Strength != edges[j].Strength {
			return edges[i].Strength > edges[j].Strength
		}
		return edges[i].ID < edges[j].ID
	})
	if len(edges) > cap {
		edges = edges[:cap]
	}
	return edges
}

// Contains reports whether the graph knows the given project id.
func (g *Graph) Contains(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Related returns up to limit neighbors from the precomputed ranked
// list. A non-positive limit returns the whole list. The returned slice
// is a copy; callers may retain it.
func (g *Graph) Related(id string, limit int) []Edge {
	edges := g.adj[id]
	if limit <= 0 || limit > len(edges) {
		limit = len(edges)
	}
	out := make([]Edge, limit)
	copy(out, edges[:limit])
	return out
}

// Neighbors returns the full ranked adjacency list for a project.
func (g *Graph) Neighbors(id string) []Edge {
	return g.Related(id, 0)
}

// Patch incrementally repairs the adjacency lists of exactly the two
// given projects after a single-pair similarity change.
//
// If the pair clears the threshold its edge is inserted or updated in
// both lists; otherwise any existing edge is removed, since every
// surviving entry must meet the threshold. Lists are
// re-ranked and re-truncated. No other project's list is touched.
func (g *Graph) Patch(a, b string, strength float64) {
	g.patchOne(a, b, strength)
	g.patchOne(b, a, strength)
}

func (g *Graph) patchOne(owner, neighbor string, strength float64) {
	edges := g.adj[owner]

	idx := -1
	for i, e := range edges {
		if e.ID == neighbor {
			idx = i
			break
		}
	}

	switch {
	case strength >= g.threshold && idx >= 0:
		edges[idx].Strength = strength
	case strength >= g.threshold:
		edges = append(edges, Edge{ID: neighbor, Strength: strength})
	case idx >= 0:
		edges = append(edges[:idx], edges[idx+1:]...)
	default:
		return
	}

	g.adj[owner] = rankAndCap(edges, g.maxConnections)
}

// IDs returns all registered project ids, sorted.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ConnectionCount returns the number of directed adjacency entries.
// After cap truncation an edge may survive in one direction only, so
// this is not necessarily twice the undirected edge count.
func (g *Graph) ConnectionCount() int {
	var n int
	for _, edges := range g.adj {
		n += len(edges)
	}
	return n
}

// MostConnected returns the project with the largest adjacency list and
// its size. Ties break by id ascending; empty graphs return ("", 0).
func (g *Graph) MostConnected() (string, int) {
	var best string
	var bestN int
	for _, id := range g.IDs() {
		if n := len(g.adj[id]); n > bestN {
			best, bestN = id, n
		}
	}
	return best, bestN
}

// Threshold returns the minimum similarity for edges in this graph.
func (g *Graph) Threshold() float64 {
	return g.threshold
}

// MaxConnections returns the per-project adjacency cap.
func (g *Graph) MaxConnections() int {
	return g.maxConnections
}
