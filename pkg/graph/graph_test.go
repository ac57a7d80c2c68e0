package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orreryworks/orrery/pkg/similarity"
)

func TestBuildThresholdFilter(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.8)
	m.Set("a", "c", 0.3)  // exactly at threshold: kept
	m.Set("b", "c", 0.29) // below: dropped

	g := Build(m, []string{"a", "b", "c"}, 0.3, 10)

	assert.Len(t, g.Neighbors("a"), 2)
	require.Len(t, g.Neighbors("b"), 1)
	assert.Equal(t, "a", g.Neighbors("b")[0].ID)
	require.Len(t, g.Neighbors("c"), 1)
	assert.Equal(t, "a", g.Neighbors("c")[0].ID)
}

func TestBuildRankingAndTieBreak(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("hub", "strong", 0.9)
	m.Set("hub", "weak", 0.4)
	m.Set("hub", "tie-b", 0.5)
	m.Set("hub", "tie-a", 0.5)

	g := Build(m, []string{"hub", "strong", "weak", "tie-a", "tie-b"}, 0.3, 10)

	got := g.Neighbors("hub")
	require.Len(t, got, 4)
	assert.Equal(t, "strong", got[0].ID)
	assert.Equal(t, "tie-a", got[1].ID)
	assert.Equal(t, "tie-b", got[2].ID)
	assert.Equal(t, "weak", got[3].ID)
}

func TestBuildCapEnforced(t *testing.T) {
	m := similarity.NewMatrix()
	ids := []string{"hub"}
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("n%02d", i)
		ids = append(ids, id)
		m.Set("hub", id, 0.4+float64(i)*0.01)
	}

	g := Build(m, ids, 0.3, 10)

	edges := g.Neighbors("hub")
	require.Len(t, edges, 10)
	// Strongest survive the truncation.
	assert.Equal(t, "n14", edges[0].ID)
	assert.Equal(t, "n05", edges[9].ID)
	for _, e := range edges {
		assert.GreaterOrEqual(t, e.Strength, 0.3)
	}
}

func TestBuildRegistersIsolatedProjects(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)

	g := Build(m, []string{"a", "b", "loner"}, 0.3, 10)

	assert.True(t, g.Contains("loner"))
	assert.Empty(t, g.Neighbors("loner"))
	assert.False(t, g.Contains("stranger"))
}

func TestBuildZeroConfigUsesDefaults(t *testing.T) {
	g := Build(similarity.NewMatrix(), nil, 0, 0)
	assert.Equal(t, DefaultMinSimilarity, g.Threshold())
	assert.Equal(t, DefaultMaxConnections, g.MaxConnections())
}

func TestRelatedLimit(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)
	m.Set("a", "c", 0.8)
	m.Set("a", "d", 0.7)

	g := Build(m, []string{"a", "b", "c", "d"}, 0.3, 10)

	assert.Len(t, g.Related("a", 2), 2)
	assert.Len(t, g.Related("a", 0), 3)
	assert.Len(t, g.Related("a", 100), 3)
	assert.Empty(t, g.Related("unknown", 5))
}

func TestRelatedReturnsCopy(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)
	g := Build(m, []string{"a", "b"}, 0.3, 10)

	edges := g.Related("a", 0)
	edges[0].ID = "mutated"
	assert.Equal(t, "b", g.Neighbors("a")[0].ID)
}

func TestPatch(t *testing.T) {
	tests := []struct {
		name     string
		strength float64
		wantEdge bool
	}{
		{name: "update above threshold", strength: 0.75, wantEdge: true},
		{name: "insert new edge", strength: 0.5, wantEdge: true},
		{name: "drop below threshold removes", strength: 0.1, wantEdge: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := similarity.NewMatrix()
			m.Set("a", "b", 0.6)
			g := Build(m, []string{"a", "b", "c"}, 0.3, 10)

			if tt.name == "insert new edge" {
				g.Patch("a", "c", tt.strength)
				if tt.wantEdge {
					require.Len(t, g.Neighbors("c"), 1)
					assert.Equal(t, tt.strength, g.Neighbors("c")[0].Strength)
				}
				return
			}

			g.Patch("a", "b", tt.strength)
			if tt.wantEdge {
				require.Len(t, g.Neighbors("a"), 1)
				assert.Equal(t, tt.strength, g.Neighbors("a")[0].Strength)
				require.Len(t, g.Neighbors("b"), 1)
				assert.Equal(t, tt.strength, g.Neighbors("b")[0].Strength)
			} else {
				assert.Empty(t, g.Neighbors("a"))
				assert.Empty(t, g.Neighbors("b"))
			}
		})
	}
}

func TestPatchReRanks(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)
	m.Set("a", "c", 0.5)
	g := Build(m, []string{"a", "b", "c"}, 0.3, 10)

	g.Patch("a", "c", 0.95)

	got := g.Neighbors("a")
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestPatchRespectsCap(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("hub", "x", 0.8)
	m.Set("hub", "y", 0.7)
	g := Build(m, []string{"hub", "x", "y", "z"}, 0.3, 2)

	g.Patch("hub", "z", 0.9)

	got := g.Neighbors("hub")
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].ID)
	assert.Equal(t, "x", got[1].ID)
}

func TestPatchBelowThresholdOnAbsentPairIsNoOp(t *testing.T) {
	m := similarity.NewMatrix()
	g := Build(m, []string{"a", "b"}, 0.3, 10)

	g.Patch("a", "b", 0.1)
	assert.Empty(t, g.Neighbors("a"))
	assert.Empty(t, g.Neighbors("b"))
}

func TestConnectionCountAndMostConnected(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)
	m.Set("a", "c", 0.8)
	m.Set("b", "c", 0.7)
	g := Build(m, []string{"a", "b", "c", "d"}, 0.3, 10)

	assert.Equal(t, 6, g.ConnectionCount())

	id, n := g.MostConnected()
	assert.Equal(t, "a", id) // three projects tie at 2; id ascending wins
	assert.Equal(t, 2, n)
}

func TestIDsSorted(t *testing.T) {
	g := Build(similarity.NewMatrix(), []string{"c", "a", "b"}, 0.3, 10)
	assert.Equal(t, []string{"a", "b", "c"}, g.IDs())
}
