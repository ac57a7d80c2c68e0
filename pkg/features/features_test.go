package features

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orreryworks/orrery/pkg/catalog"
)

func fractalProject() catalog.Project {
	return catalog.Project{
		ID:          "mandelbrot-zoom",
		Title:       "Mandelbrot Zoom",
		Category:    "fractals",
		Type:        "visualization",
		Description: "Deep fractal zoom with recursive subdivision",
		Technical: catalog.Technical{
			ComplexityClass: "O(n^2)",
			FrameRate:       30,
			Resolution:      "1080p",
		},
		Experience: catalog.Experience{
			InteractionLevel: "passive",
			Contemplative:    true,
		},
		Outputs: []string{"canvas"},
	}
}

func TestAttributeOrderings(t *testing.T) {
	for _, d := range Domains() {
		assert.Len(t, DomainAttributes(d), GroupSize, "domain %s", d)
	}
	assert.Nil(t, DomainAttributes(Domain("unknown")))
}

func TestAttributeAt(t *testing.T) {
	tests := []struct {
		index      int
		wantDomain Domain
		wantName   string
		wantOK     bool
	}{
		{0, DomainMathematical, "has_attractor", true},
		{15, DomainMathematical, "nonlinearity", true},
		{16, DomainVisual, "color_complexity", true},
		{32, DomainTechnical, "algorithm_complexity", true},
		{63, DomainInteraction, "therapeutic_value", true},
		{64, "", "", false},
		{-1, "", "", false},
	}

	for _, tt := range tests {
		domain, name, ok := AttributeAt(tt.index)
		assert.Equal(t, tt.wantOK, ok, "index %d", tt.index)
		assert.Equal(t, tt.wantDomain, domain, "index %d", tt.index)
		assert.Equal(t, tt.wantName, name, "index %d", tt.index)
	}
}

// Every attribute of every domain must lie in [0,1] regardless of
// jitter, and every group must be complete.
func TestExtractorBoundedness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewExtractor(rng)

	projects := []catalog.Project{
		fractalProject(),
		{ID: "empty"}, // all fields absent: neutral defaults, no panic
		{
			ID:       "vr-swarm",
			Category: "particles",
			Title:    "VR Particle Swarm",
			Technical: catalog.Technical{
				ComplexityClass: "O(2^n)",
				FrameRate:       144,
				ThreeD:          true,
				WebGL:           true,
			},
			Experience: catalog.Experience{
				InteractionLevel: "high",
				AudioReactive:    true,
				VRCompatible:     true,
			},
			Parameters: make([]catalog.Parameter, 20),
		},
	}

	for _, p := range projects {
		prof := e.Profile(p)
		for _, d := range Domains() {
			group := prof.Group(d)
			require.Len(t, group, GroupSize, "project %s domain %s", p.ID, d)
			for name, v := range group {
				assert.GreaterOrEqual(t, v, 0.0, "%s/%s/%s", p.ID, d, name)
				assert.LessOrEqual(t, v, 1.0, "%s/%s/%s", p.ID, d, name)
			}
		}
		assert.GreaterOrEqual(t, prof.Complexity, 0.0)
		assert.LessOrEqual(t, prof.Complexity, 1.0)
	}
}

// A nil randomness source pins every attribute to its base value.
func TestExtractorDeterministicWithoutJitter(t *testing.T) {
	e := NewExtractor(nil)
	p := fractalProject()

	first := e.Profile(p)
	second := e.Profile(p)
	assert.Equal(t, first.Vector(), second.Vector())
}

func TestMathematicalBooleanDetectors(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		name    string
		project catalog.Project
		want    map[string]float64
	}{
		{
			name:    "fractal keywords",
			project: catalog.Project{ID: "julia-set", Description: "julia set explorer"},
			want:    map[string]float64{"has_fractal": 1, "has_attractor": 0},
		},
		{
			name:    "attractor keywords",
			project: catalog.Project{ID: "x", Title: "Lorenz system"},
			want:    map[string]float64{"has_attractor": 1, "has_fractal": 0},
		},
		{
			name:    "particle keywords",
			project: catalog.Project{ID: "x", Description: "boids flocking"},
			want:    map[string]float64{"has_particles": 1},
		},
		{
			name:    "growth keywords",
			project: catalog.Project{ID: "x", Category: "cellular automata"},
			want:    map[string]float64{"has_growth": 1},
		},
		{
			name:    "no keywords",
			project: catalog.Project{ID: "plain", Description: "colorful lines"},
			want:    map[string]float64{"has_attractor": 0, "has_fractal": 0, "has_particles": 0, "has_growth": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := e.Mathematical(tt.project)
			for name, want := range tt.want {
				assert.Equal(t, want, attrs[name], name)
			}
		})
	}
}

func TestProfileVector(t *testing.T) {
	e := NewExtractor(nil)
	prof := e.Profile(fractalProject())

	vec := prof.Vector()
	require.Len(t, vec, VectorSize)

	// Spot-check the index mapping round trip.
	domain, name, ok := AttributeAt(1)
	require.True(t, ok)
	assert.Equal(t, prof.Group(domain)[name], vec[1])
	assert.Equal(t, "has_fractal", name)
	assert.Equal(t, 1.0, vec[1], "fractal project must set has_fractal")
}

func TestProfileTags(t *testing.T) {
	e := NewExtractor(nil)
	prof := e.Profile(fractalProject())

	assert.Equal(t, "fractals", prof.Category)
	assert.True(t, prof.HasTag("fractals"))
	assert.True(t, prof.HasTag("visualization"))
	assert.True(t, prof.HasTag("contemplative"))
	assert.True(t, prof.HasTag("fractal"))
	assert.False(t, prof.HasTag("vr"))
}

func TestProfileComplexity(t *testing.T) {
	e := NewExtractor(nil)

	low := e.Profile(catalog.Project{ID: "low"})
	assert.Equal(t, 0.0, low.Complexity)

	high := e.Profile(catalog.Project{
		ID: "high",
		Technical: catalog.Technical{ComplexityClass: "O(2^n)"},
		Experience: catalog.Experience{
			InteractionLevel:   "high",
			AudioReactive:      true,
			VRCompatible:       true,
			ScientificAccuracy: true,
		},
	})
	assert.Greater(t, high.Complexity, 0.9)
	assert.LessOrEqual(t, high.Complexity, 1.0)
}

func TestComplexityClassScore(t *testing.T) {
	tests := []struct {
		class string
		want  float64
	}{
		{"", 0},
		{"O(1)", 0.1},
		{"O(n)", 0.4},
		{"o(n log n)", 0.55},
		{"O(n^2)", 0.75},
		{"O(n²)", 0.75},
		{"O(2^n)", 1},
		{"mystery", 0.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, complexityClassScore(tt.class), "class %q", tt.class)
	}
}

func TestMissingFieldsNeutralDefaults(t *testing.T) {
	e := NewExtractor(nil)

	// An entirely empty record must extract without panicking, with
	// boolean detectors off and declared-data scores at their floors.
	prof := e.Profile(catalog.Project{ID: "bare"})
	assert.Equal(t, 0.0, prof.Mathematical["has_fractal"])
	assert.Equal(t, 0.0, prof.Mathematical["complexity"])
	assert.Equal(t, 0.0, prof.Technical["interactivity_level"])
	assert.Equal(t, 0.0, prof.Technical["performance"])
	assert.Equal(t, 0.0, prof.Interaction["responsiveness"])
}
