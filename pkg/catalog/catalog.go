// Package catalog provides the project record model and catalog loading.
//
// A catalog is an ordered list of project records supplied by an external
// source (typically a JSON file). Records are read-only for the lifetime
// of an engine session; the engine derives all of its state from them.
//
// Example usage:
//
//	projects, err := catalog.LoadFile("catalog.json")
//	if err != nil {
//	    // Handle error
//	}
//	eng, err := engine.New(ctx, engine.Config{}, projects)
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrEmptyCatalog indicates a catalog with no projects
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrDuplicateID indicates two projects sharing an identifier
	ErrDuplicateID = errors.New("duplicate project id")

	// ErrMissingID indicates a project record without an identifier
	ErrMissingID = errors.New("missing project id")
)

// maxCatalogFileSize caps catalog files at 16MB to prevent resource
// exhaustion from a malformed or hostile file.
const maxCatalogFileSize = 16 * 1024 * 1024

// Technical holds declared implementation metadata for a project.
//
// All fields are optional; extractors substitute neutral defaults for
// anything absent.
type Technical struct {
	// Algorithms lists named algorithm strings (e.g., "lorenz", "l-system")
	Algorithms []string `json:"algorithms,omitempty"`

	// ComplexityClass is the declared big-O class (e.g., "O(n log n)")
	ComplexityClass string `json:"complexity_class,omitempty"`

	// FrameRate is the claimed rendering frame rate
	FrameRate int `json:"frame_rate,omitempty"`

	// Resolution is the claimed output resolution (e.g., "4k", "1080p")
	Resolution string `json:"resolution,omitempty"`

	// ThreeD indicates 3D rendering
	ThreeD bool `json:"three_d,omitempty"`

	// WebGL indicates GPU-accelerated rendering
	WebGL bool `json:"webgl,omitempty"`
}

// Experience holds declared experience metadata for a project.
type Experience struct {
	// InteractionLevel is one of "", "none", "passive", "moderate", "high"
	InteractionLevel string `json:"interaction_level,omitempty"`

	// AudioReactive indicates the piece responds to sound
	AudioReactive bool `json:"audio_reactive,omitempty"`

	// VRCompatible indicates VR support
	VRCompatible bool `json:"vr_compatible,omitempty"`

	// ScientificAccuracy indicates the simulation aims for physical accuracy
	ScientificAccuracy bool `json:"scientific_accuracy,omitempty"`

	// Contemplative indicates a slow, meditative piece
	Contemplative bool `json:"contemplative,omitempty"`

	// Educational indicates the piece explains its own mechanics
	Educational bool `json:"educational,omitempty"`
}

// Parameter is a single user-tunable parameter declared by a project.
type Parameter struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Default float64 `json:"default,omitempty"`
}

// Project is a single catalog entry.
//
// Projects are immutable for the duration of an engine session. The
// engine never mutates a record; it derives feature profiles from them.
type Project struct {
	// ID is the unique project identifier
	ID string `json:"id"`

	// Title is the display title
	Title string `json:"title"`

	// Category is a single category tag (e.g., "fractals", "attractors")
	Category string `json:"category"`

	// Type describes the project kind (e.g., "simulation", "visualization")
	Type string `json:"type"`

	// Description is free-form descriptive text
	Description string `json:"description"`

	// Technical holds declared implementation metadata
	Technical Technical `json:"technical,omitempty"`

	// Experience holds declared experience metadata
	Experience Experience `json:"experience,omitempty"`

	// Outputs lists declared output formats (e.g., "canvas", "svg", "audio")
	Outputs []string `json:"outputs,omitempty"`

	// Parameters lists user-tunable parameters
	Parameters []Parameter `json:"parameters,omitempty"`

	// Metadata carries any additional nested metadata untouched
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate checks a slice of projects for structural problems.
//
// Returns ErrEmptyCatalog for an empty slice, ErrMissingID for a record
// without an id, and ErrDuplicateID when two records share one.
func Validate(projects []Project) error {
	if len(projects) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(projects))
	for i, p := range projects {
		if p.ID == "" {
			return fmt.Errorf("%w: record %d", ErrMissingID, i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// LoadFile loads a catalog from a JSON file.
//
// The file must contain a JSON array of project records. The returned
// slice preserves file order, which callers may rely on for stable
// iteration.
func LoadFile(path string) ([]Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat catalog file: %w", err)
	}
	if info.Size() > maxCatalogFileSize {
		return nil, fmt.Errorf("catalog file too large: %d bytes (max %d)", info.Size(), maxCatalogFileSize)
	}

	var projects []Project
	if err := json.NewDecoder(f).Decode(&projects); err != nil {
		return nil, fmt.Errorf("decoding catalog file %s: %w", path, err)
	}

	if err := Validate(projects); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	return projects, nil
}

// Parse decodes a catalog from raw JSON bytes.
//
// Behaves like LoadFile but for in-memory content.
func Parse(data []byte) ([]Project, error) {
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := Validate(projects); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	return projects, nil
}
