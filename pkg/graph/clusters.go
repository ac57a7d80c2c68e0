package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/orreryworks/orrery/pkg/features"
)

// Defaults for cluster detection.
const (
	// DefaultHighSimilarity is the edge strength a traversal follows.
	DefaultHighSimilarity = 0.6

	// DefaultMinClusterSize is the smallest retained cluster.
	DefaultMinClusterSize = 3

	// traitDominance is the member ratio above which an experiential
	// trait names the cluster.
	traitDominance = 0.6
)

// Cluster is a cohesive group of projects found via strong-edge
// traversal. Clusters are ephemeral: detection is a pure function of
// the current graph and produces fresh ids each call.
type Cluster struct {
	// ID is a fresh synthetic identifier for this detection run
	ID string

	// Members lists the project ids, sorted
	Members []string

	// Cohesion is the mean pairwise similarity among members; pairs with
	// no stored similarity count as 0
	Cohesion float64

	// Category is the dominant member category
	Category string

	// Title and Description are synthesized for display
	Title       string
	Description string
}

// Collection is a named grouping of projects derived from a cluster.
type Collection struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ProjectIDs    []string `json:"project_ids"`
	AutoGenerated bool     `json:"auto_generated"`
}

// SimilarityLookup reads stored pairwise scores during cohesion
// computation. *similarity.Matrix satisfies it.
type SimilarityLookup interface {
	Get(a, b string) (float64, bool)
}

// Detector finds clusters on a connection graph.
type Detector struct {
	// HighSimilarity is the minimum edge strength a traversal follows
	// (exclusive). Zero means DefaultHighSimilarity.
	HighSimilarity float64

	// MinClusterSize discards smaller candidate clusters. Zero means
	// DefaultMinClusterSize.
	MinClusterSize int
}

// Detect discovers clusters by traversing high-strength edges.
//
// Each unvisited project seeds one iterative depth-first traversal that
// follows only edges with strength above the high-similarity bar and
// marks every reached project visited, so a project lands in at most
// one cluster per run. Candidates below the size floor are discarded.
// Projects are seeded in sorted id order, which makes membership
// deterministic for a given graph.
func (d *Detector) Detect(g *Graph, sim SimilarityLookup, profiles map[string]*features.Profile) []Cluster {
	high := d.HighSimilarity
	if high <= 0 {
		high = DefaultHighSimilarity
	}
	minSize := d.MinClusterSize
	if minSize <= 0 {
		minSize = DefaultMinClusterSize
	}

	visited := make(map[string]bool, len(g.adj))
	var clusters []Cluster

	for _, seed := range g.IDs() {
		if visited[seed] {
			continue
		}

		members := traverse(g, seed, high, visited)
		if len(members) < minSize {
			continue
		}
		sort.Strings(members)

		c := Cluster{
			ID:       uuid.NewString(),
			Members:  members,
			Cohesion: cohesion(members, sim),
		}
		c.Category = dominantCategory(members, profiles)
		c.Title, c.Description = synthesizeLabel(c.Category, members, profiles)
		clusters = append(clusters, c)
	}

	return clusters
}

// traverse runs an iterative DFS from seed over edges stronger than
// high, marking every reached project in visited.
func traverse(g *Graph, seed string, high float64, visited map[string]bool) []string {
	stack := []string{seed}
	visited[seed] = true
	var members []string

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members = append(members, id)

		for _, e := range g.adj[id] {
			if e.Strength > high && !visited[e.ID] {
				visited[e.ID] = true
				stack = append(stack, e.ID)
			}
		}
	}
	return members
}

// cohesion is the mean pairwise similarity among members. Pairs with no
// stored similarity count as 0.
func cohesion(members []string, sim SimilarityLookup) float64 {
	if len(members) < 2 {
		return 0
	}

	var sum float64
	var pairs int
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			score, _ := sim.Get(members[i], members[j])
			sum += score
			pairs++
		}
	}
	return sum / float64(pairs)
}

// dominantCategory returns the most common member category, breaking
// ties lexicographically. Falls back to "mixed" when no member has one.
func dominantCategory(members []string, profiles map[string]*features.Profile) string {
	counts := make(map[string]int)
	for _, id := range members {
		if p := profiles[id]; p != nil && p.Category != "" {
			counts[p.Category]++
		}
	}
	if len(counts) == 0 {
		return "mixed"
	}

	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	best := cats[0]
	for _, c := range cats[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// synthesizeLabel picks a category-flavored title and description based
// on which experiential trait dominates the membership. A trait
// dominates when more than 60% of members express it strongly; with no
// dominant trait the label falls back to "{Category} Explorations".
func synthesizeLabel(category string, members []string, profiles map[string]*features.Profile) (string, string) {
	var contemplative, interactive, complex int
	for _, id := range members {
		p := profiles[id]
		if p == nil {
			continue
		}
		if p.Interaction["contemplativeness"] > 0.6 {
			contemplative++
		}
		if p.Interaction["responsiveness"] > 0.6 {
			interactive++
		}
		if p.Complexity > 0.6 {
			complex++
		}
	}

	n := float64(len(members))
	display := titleCase(category)

	switch {
	case float64(contemplative)/n > traitDominance:
		return fmt.Sprintf("Meditative %s Collection", display),
			fmt.Sprintf("A set of %d slow, contemplative %s pieces that reward patient viewing.", len(members), category)
	case float64(interactive)/n > traitDominance:
		return fmt.Sprintf("Interactive %s Experiences", display),
			fmt.Sprintf("%d %s pieces that respond directly to the viewer.", len(members), category)
	case float64(complex)/n > traitDominance:
		return fmt.Sprintf("Complex %s Systems", display),
			fmt.Sprintf("%d computationally rich %s systems with deep internal structure.", len(members), category)
	default:
		return fmt.Sprintf("%s Explorations", display),
			fmt.Sprintf("%d closely related %s projects.", len(members), category)
	}
}

// titleCase uppercases the first letter of each word. Categories are
// short ASCII tags, so a simple rune swap is enough.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Collections converts clusters into auto-generated collections.
func Collections(clusters []Cluster) []Collection {
	out := make([]Collection, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, Collection{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			ProjectIDs:    c.Members,
			AutoGenerated: true,
		})
	}
	return out
}
