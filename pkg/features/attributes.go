// Package features derives per-project feature profiles.
//
// Four heuristic extractors (mathematical, visual, technical,
// interaction) each map a raw project record to a fixed set of 16 named
// attributes in [0,1]. The profile builder concatenates the groups, in
// canonical order, into one 64-value vector while preserving the
// index-to-name mapping for explanations.
//
// Several continuous attributes deliberately include bounded random
// jitter to diversify otherwise identical categories. Jitter is a design
// choice for variety, not measurement noise: it comes from an injectable
// randomness source owned by the Extractor, so profiles are stable
// within a session and tests can pin determinism by passing a nil or
// seeded source.
package features

import "sort"

// AttributeSet maps attribute names to values in [0,1].
// Boolean attributes are stored as 0 or 1.
type AttributeSet map[string]float64

// Domain identifies one of the four attribute groups.
type Domain string

const (
	DomainMathematical Domain = "mathematical"
	DomainVisual       Domain = "visual"
	DomainTechnical    Domain = "technical"
	DomainInteraction  Domain = "interaction"
)

// Canonical attribute orderings. The profile vector is the concatenation
// of the four groups in this order; changing these lists changes vector
// layout and invalidates any trained embedding state.
var (
	MathematicalAttributes = []string{
		"has_attractor", "has_fractal", "has_particles", "has_growth",
		"complexity", "chaos_level", "symmetry", "recursion",
		"dimensionality", "entropy", "geometric_complexity", "spatial_complexity",
		"temporal_dynamics", "emergence", "self_similarity", "nonlinearity",
	}

	VisualAttributes = []string{
		"color_complexity", "motion_intensity", "organic_geometric_balance", "contrast",
		"texture", "rhythm", "balance", "energy",
		"harmony", "luminance_variance", "spatial_frequency", "temporal_coherence",
		"visual_entropy", "aesthetic_complexity", "emotional_resonance", "depth_perception",
	}

	TechnicalAttributes = []string{
		"algorithm_complexity", "computational_intensity", "interactivity_level", "performance",
		"code_complexity", "rendering_complexity", "memory_usage", "optimization",
		"scalability", "maintainability", "modularity", "testability",
		"reliability", "efficiency", "robustness", "extensibility",
	}

	InteractionAttributes = []string{
		"engagement", "contemplativeness", "responsiveness", "feedback_quality",
		"learning_curve", "accessibility", "collaboration", "personalization",
		"replayability", "exploration_depth", "intuitiveness", "emotional_connection",
		"cognitive_load", "flow", "social_aspects", "therapeutic_value",
	}
)

// GroupSize is the number of attributes per domain group.
const GroupSize = 16

// VectorSize is the total profile vector length (4 groups x 16).
const VectorSize = 4 * GroupSize

// booleanAttributes names the attributes compared as exact matches
// rather than by distance.
var booleanAttributes = map[string]bool{
	"has_attractor": true,
	"has_fractal":   true,
	"has_particles": true,
	"has_growth":    true,
}

// IsBoolean reports whether the named attribute is a boolean detector.
func IsBoolean(name string) bool {
	return booleanAttributes[name]
}

// DomainAttributes returns the canonical attribute ordering for a domain.
// Returns nil for an unknown domain.
func DomainAttributes(d Domain) []string {
	switch d {
	case DomainMathematical:
		return MathematicalAttributes
	case DomainVisual:
		return VisualAttributes
	case DomainTechnical:
		return TechnicalAttributes
	case DomainInteraction:
		return InteractionAttributes
	}
	return nil
}

// Domains returns the four domains in canonical vector order.
func Domains() []Domain {
	return []Domain{DomainMathematical, DomainVisual, DomainTechnical, DomainInteraction}
}

// AttributeAt maps a profile vector index back to its domain and
// attribute name. Returns ok=false for an out-of-range index.
func AttributeAt(index int) (domain Domain, name string, ok bool) {
	if index < 0 || index >= VectorSize {
		return "", "", false
	}
	d := Domains()[index/GroupSize]
	return d, DomainAttributes(d)[index%GroupSize], true
}

// SortedNames returns the attribute names of a set in lexicographic
// order. Useful for stable iteration in explanations and tests.
func SortedNames(attrs AttributeSet) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clamp bounds v to [0,1]. Every continuous attribute passes through it.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// boolValue converts a boolean detector result to its stored form.
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
