package features

import (
	"strings"

	"github.com/orreryworks/orrery/pkg/catalog"
)

// Profile is the derived feature description of one project.
//
// Profiles are created once per engine initialization and recomputed
// wholesale on catalog reload; they are never partially mutated.
type Profile struct {
	// ProjectID keys the profile to its catalog record
	ProjectID string

	// Category mirrors the record's category tag; similarity and cluster
	// labeling read it without needing the catalog
	Category string

	// The four named attribute groups
	Mathematical AttributeSet
	Visual       AttributeSet
	Technical    AttributeSet
	Interaction  AttributeSet

	// Complexity is a scalar summary in [0,1]
	Complexity float64

	// Tags is the union of category, type, and flag-derived tokens
	Tags []string
}

// Group returns the attribute set for a domain. Returns nil for an
// unknown domain.
func (p *Profile) Group(d Domain) AttributeSet {
	switch d {
	case DomainMathematical:
		return p.Mathematical
	case DomainVisual:
		return p.Visual
	case DomainTechnical:
		return p.Technical
	case DomainInteraction:
		return p.Interaction
	}
	return nil
}

// Vector flattens the profile into its canonical 64-value form.
//
// Index i maps back to a named attribute via AttributeAt(i).
func (p *Profile) Vector() []float64 {
	vec := make([]float64, 0, VectorSize)
	for _, d := range Domains() {
		group := p.Group(d)
		for _, name := range DomainAttributes(d) {
			vec = append(vec, group[name])
		}
	}
	return vec
}

// HasTag reports whether the profile carries the given tag.
func (p *Profile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Profile builds the full feature profile for one project.
//
// Attribute extraction runs the four domain extractors; complexity is a
// weighted combination of the declared algorithmic complexity,
// interaction level, and the audio-reactive, VR, and scientific-accuracy
// flags, clamped to [0,1].
func (e *Extractor) Profile(p catalog.Project) *Profile {
	prof := &Profile{
		ProjectID:    p.ID,
		Category:     p.Category,
		Mathematical: e.Mathematical(p),
		Visual:       e.Visual(p),
		Technical:    e.Technical(p),
		Interaction:  e.Interaction(p),
	}

	prof.Complexity = clamp(
		0.4*complexityClassScore(p.Technical.ComplexityClass) +
			0.2*interactionLevelScore(p.Experience.InteractionLevel) +
			0.15*boolValue(p.Experience.AudioReactive) +
			0.15*boolValue(p.Experience.VRCompatible) +
			0.1*boolValue(p.Experience.ScientificAccuracy),
	)

	prof.Tags = buildTags(p, prof)
	return prof
}

// Profiles builds profiles for a whole catalog, keyed by project id.
func (e *Extractor) Profiles(projects []catalog.Project) map[string]*Profile {
	out := make(map[string]*Profile, len(projects))
	for _, p := range projects {
		out[p.ID] = e.Profile(p)
	}
	return out
}

// buildTags assembles the tag union: category, type, experience flags,
// technical flags, and the mathematical boolean detectors that fired.
func buildTags(p catalog.Project, prof *Profile) []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	add(p.Category)
	add(p.Type)

	if p.Experience.AudioReactive {
		add("audio-reactive")
	}
	if p.Experience.VRCompatible {
		add("vr")
	}
	if p.Experience.Contemplative {
		add("contemplative")
	}
	if p.Experience.Educational {
		add("educational")
	}
	if p.Experience.ScientificAccuracy {
		add("scientific")
	}
	if p.Technical.ThreeD {
		add("3d")
	}
	if p.Technical.WebGL {
		add("webgl")
	}

	for flag, tag := range map[string]string{
		"has_attractor": "attractor",
		"has_fractal":   "fractal",
		"has_particles": "particles",
		"has_growth":    "growth",
	} {
		if prof.Mathematical[flag] == 1 {
			add(tag)
		}
	}

	return tags
}
