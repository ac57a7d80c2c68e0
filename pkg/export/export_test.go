package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orreryworks/orrery/pkg/features"
	"github.com/orreryworks/orrery/pkg/graph"
	"github.com/orreryworks/orrery/pkg/similarity"
)

func exportFixture(t *testing.T) Graph {
	t.Helper()

	m := similarity.NewMatrix()
	m.Set("lorenz", "rossler", 0.82)
	m.Set("lorenz", "julia", 0.45)
	m.Set("julia", "mandelbrot", 0.91)

	g := graph.Build(m, []string{"lorenz", "rossler", "julia", "mandelbrot", "loner"}, 0.3, 10)
	profiles := map[string]*features.Profile{
		"lorenz": {ProjectID: "lorenz", Category: "attractors", Complexity: 0.7, Tags: []string{"attractors", "attractor"}},
		"julia":  {ProjectID: "julia", Category: "fractals", Complexity: 0.5, Tags: []string{"fractals", "fractal"}},
	}
	titles := map[string]string{"lorenz": "Lorenz Attractor"}

	return FromConnectionGraph(g, profiles, titles, g.Threshold())
}

func TestFromConnectionGraph(t *testing.T) {
	g := exportFixture(t)

	require.Len(t, g.Nodes, 5)
	// Nodes follow sorted id order.
	assert.Equal(t, "julia", g.Nodes[0].ID)
	assert.Equal(t, "rossler", g.Nodes[4].ID)

	byID := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, "Lorenz Attractor", byID["lorenz"].Label)
	assert.Equal(t, "attractors", byID["lorenz"].Category)
	assert.Equal(t, "loner", byID["loner"].Label, "missing title falls back to id")
	assert.Empty(t, byID["loner"].Category)

	// Each undirected pair appears exactly once, sorted.
	require.Len(t, g.Edges, 3)
	assert.Equal(t, Edge{Source: "julia", Target: "lorenz", Weight: 0.45}, g.Edges[0])
	assert.Equal(t, Edge{Source: "julia", Target: "mandelbrot", Weight: 0.91}, g.Edges[1])
	assert.Equal(t, Edge{Source: "lorenz", Target: "rossler", Weight: 0.82}, g.Edges[2])
}

func TestFromConnectionGraphHigherThreshold(t *testing.T) {
	m := similarity.NewMatrix()
	m.Set("a", "b", 0.9)
	m.Set("a", "c", 0.4)
	g := graph.Build(m, []string{"a", "b", "c"}, 0.3, 10)

	out := FromConnectionGraph(g, nil, nil, 0.5)
	require.Len(t, out.Edges, 1)
	assert.Equal(t, "b", out.Edges[0].Target)
	assert.Len(t, out.Nodes, 3, "threshold thins edges, never nodes")
}

func TestJSONRoundTrip(t *testing.T) {
	g := exportFixture(t)

	data, err := Marshal(g, FormatJSON)
	require.NoError(t, err)

	decoded, err := ParseJSON(data)
	require.NoError(t, err)

	assert.Equal(t, g.Edges, decoded.Edges)
	require.Len(t, decoded.Nodes, len(g.Nodes))
	for i, n := range g.Nodes {
		assert.Equal(t, n.ID, decoded.Nodes[i].ID)
	}
}

func TestMarshalGraphML(t *testing.T) {
	data, err := Marshal(exportFixture(t), FormatGraphML)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `edgedefault="undirected"`)
	assert.Contains(t, out, `<node id="lorenz">`)
	assert.Contains(t, out, `<data key="label">Lorenz Attractor</data>`)
	assert.Contains(t, out, `<edge source="julia" target="mandelbrot">`)
	assert.Contains(t, out, `<data key="weight">0.9100</data>`)
}

func TestMarshalDOT(t *testing.T) {
	data, err := Marshal(exportFixture(t), FormatDOT)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "graph orrery {"))
	assert.Contains(t, out, `"lorenz" [label="Lorenz Attractor", category="attractors"];`)
	assert.Contains(t, out, `"julia" -- "mandelbrot" [weight=0.9100];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestMarshalCSV(t *testing.T) {
	data, err := Marshal(exportFixture(t), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "source,target,weight", lines[0])
	assert.Equal(t, "julia,lorenz,0.4500", lines[1])
	assert.Equal(t, "lorenz,rossler,0.8200", lines[3])
}

func TestMarshalUnsupportedFormat(t *testing.T) {
	_, err := Marshal(Graph{}, Format("yaml"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), `"yaml"`)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	assert.Error(t, err)
}
