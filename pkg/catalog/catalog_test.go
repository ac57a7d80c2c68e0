package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		projects []Project
		wantErr  error
	}{
		{
			name:     "empty catalog",
			projects: nil,
			wantErr:  ErrEmptyCatalog,
		},
		{
			name: "missing id",
			projects: []Project{
				{ID: "a"},
				{Title: "no id"},
			},
			wantErr: ErrMissingID,
		},
		{
			name: "duplicate id",
			projects: []Project{
				{ID: "a"},
				{ID: "a"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "valid",
			projects: []Project{
				{ID: "a"},
				{ID: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.projects)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`[
		{
			"id": "lorenz-attractor",
			"title": "Lorenz Attractor",
			"category": "attractors",
			"type": "simulation",
			"description": "Classic strange attractor",
			"technical": {"complexity_class": "O(n)", "frame_rate": 60, "three_d": true},
			"experience": {"interaction_level": "moderate", "contemplative": true},
			"outputs": ["canvas"],
			"parameters": [{"name": "sigma", "default": 10}]
		},
		{"id": "mandelbrot-zoom", "title": "Mandelbrot Zoom", "category": "fractals"}
	]`)

	projects, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	p := projects[0]
	assert.Equal(t, "lorenz-attractor", p.ID)
	assert.Equal(t, "attractors", p.Category)
	assert.Equal(t, "O(n)", p.Technical.ComplexityClass)
	assert.Equal(t, 60, p.Technical.FrameRate)
	assert.True(t, p.Technical.ThreeD)
	assert.Equal(t, "moderate", p.Experience.InteractionLevel)
	assert.True(t, p.Experience.Contemplative)
	assert.Len(t, p.Parameters, 1)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[]`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "a", "title": "A"}]`), 0o600))

	projects, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, "a", projects[0].ID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
