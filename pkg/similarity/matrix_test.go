package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orreryworks/orrery/pkg/catalog"
	"github.com/orreryworks/orrery/pkg/features"
)

func TestPairKeyCanonical(t *testing.T) {
	assert.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	assert.Equal(t, Pair{A: "a", B: "b"}, PairKey("b", "a"))
}

func TestMatrixSymmetricAccess(t *testing.T) {
	m := NewMatrix()
	m.Set("lorenz", "rossler", 0.8)

	got, ok := m.Get("rossler", "lorenz")
	require.True(t, ok)
	assert.Equal(t, 0.8, got)

	got, ok = m.Get("lorenz", "rossler")
	require.True(t, ok)
	assert.Equal(t, 0.8, got)

	_, ok = m.Get("lorenz", "unknown")
	assert.False(t, ok)
}

func TestMatrixRejectsSelfPairs(t *testing.T) {
	m := NewMatrix()
	m.Set("a", "a", 0.9)

	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("a", "a")
	assert.False(t, ok)
}

func TestMatrixOverwrite(t *testing.T) {
	m := NewMatrix()
	m.Set("a", "b", 0.2)
	m.Set("b", "a", 0.5)

	assert.Equal(t, 1, m.Len())
	got, _ := m.Get("a", "b")
	assert.Equal(t, 0.5, got)
}

func TestMatrixAverage(t *testing.T) {
	m := NewMatrix()
	assert.Equal(t, 0.0, m.Average())

	m.Set("a", "b", 0.2)
	m.Set("a", "c", 0.6)
	assert.InDelta(t, 0.4, m.Average(), 1e-9)
}

func TestBuildMatrixComplete(t *testing.T) {
	e := features.NewExtractor(nil)
	projects := []catalog.Project{
		{ID: "a", Category: "fractals", Description: "mandelbrot"},
		{ID: "b", Category: "fractals", Description: "julia set"},
		{ID: "c", Category: "particles", Description: "boids"},
		{ID: "d", Category: "waves", Description: "interference"},
	}

	ids := make([]string, 0, len(projects))
	profiles := make(map[string]*features.Profile, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		profiles[p.ID] = e.Profile(p)
	}

	m, err := BuildMatrix(context.Background(), ids, profiles, &Scorer{}, 2)
	require.NoError(t, err)

	// n(n-1)/2 pairs, every one present and symmetric.
	assert.Equal(t, 6, m.Len())
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			fwd, ok := m.Get(ids[i], ids[j])
			require.True(t, ok, "%s/%s", ids[i], ids[j])
			rev, _ := m.Get(ids[j], ids[i])
			assert.Equal(t, fwd, rev)
		}
	}
}

func TestBuildMatrixMissingProfile(t *testing.T) {
	_, err := BuildMatrix(context.Background(), []string{"a", "b"}, map[string]*features.Profile{}, &Scorer{}, 1)
	assert.Error(t, err)
}

func TestBuildMatrixCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := features.NewExtractor(nil)
	profiles := map[string]*features.Profile{
		"a": e.Profile(catalog.Project{ID: "a"}),
		"b": e.Profile(catalog.Project{ID: "b"}),
	}

	_, err := BuildMatrix(ctx, []string{"a", "b"}, profiles, &Scorer{}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
