// Package similarity computes blended pairwise similarity between
// feature profiles and maintains the sparse symmetric score matrix.
//
// Each unordered pair gets a base score from four per-domain similarity
// functions combined under fixed domain weights. When an embedding model
// has been trained, cosine similarity between latent vectors is blended
// in at 30%, reducing the base contribution to 70%. Results always clamp
// to [0,1].
package similarity

import "github.com/orreryworks/orrery/pkg/features"

// Domain weights for the base similarity blend. They sum to 1.0.
var domainWeights = map[features.Domain]float64{
	features.DomainMathematical: 0.30,
	features.DomainVisual:       0.25,
	features.DomainTechnical:    0.25,
	features.DomainInteraction:  0.20,
}

// DomainWeight returns the blend weight of a domain (0 for unknown).
func DomainWeight(d features.Domain) float64 {
	return domainWeights[d]
}

// Per-attribute weight tables. Within a domain the weights sum to 1.0;
// a boolean attribute contributes its full weight when the two values
// are equal, a continuous attribute contributes weight x (1 - |diff|).
//
// The tables lean on the attributes that actually separate projects
// (the boolean detectors, complexity, motion, interactivity) and spread
// the remainder evenly over the soft scores.
var attributeWeights = map[features.Domain]map[string]float64{
	features.DomainMathematical: {
		"has_attractor": 0.12,
		"has_fractal":   0.12,
		"has_particles": 0.12,
		"has_growth":    0.12,

		"complexity":  0.08,
		"chaos_level": 0.06,
		"symmetry":    0.05,
		"recursion":   0.05,

		"dimensionality":       0.05,
		"entropy":              0.02,
		"geometric_complexity": 0.04,
		"spatial_complexity":   0.03,

		"temporal_dynamics": 0.04,
		"emergence":         0.04,
		"self_similarity":   0.04,
		"nonlinearity":      0.02,
	},

	features.DomainVisual: {
		"color_complexity":          0.10,
		"motion_intensity":          0.10,
		"organic_geometric_balance": 0.10,
		"contrast":                  0.06,

		"texture": 0.06,
		"rhythm":  0.06,
		"balance": 0.04,
		"energy":  0.08,

		"harmony":            0.04,
		"luminance_variance": 0.05,
		"spatial_frequency":  0.05,
		"temporal_coherence": 0.06,

		"visual_entropy":       0.05,
		"aesthetic_complexity": 0.06,
		"emotional_resonance":  0.05,
		"depth_perception":     0.04,
	},

	features.DomainTechnical: {
		"algorithm_complexity":    0.12,
		"computational_intensity": 0.10,
		"interactivity_level":     0.10,
		"performance":             0.08,

		"code_complexity":      0.06,
		"rendering_complexity": 0.08,
		"memory_usage":         0.05,
		"optimization":         0.05,

		"scalability":     0.05,
		"maintainability": 0.04,
		"modularity":      0.04,
		"testability":     0.04,

		"reliability":   0.05,
		"efficiency":    0.05,
		"robustness":    0.05,
		"extensibility": 0.04,
	},

	features.DomainInteraction: {
		"engagement":        0.10,
		"contemplativeness": 0.10,
		"responsiveness":    0.09,
		"feedback_quality":  0.07,

		"learning_curve":  0.05,
		"accessibility":   0.05,
		"collaboration":   0.04,
		"personalization": 0.07,

		"replayability":        0.06,
		"exploration_depth":    0.08,
		"intuitiveness":        0.05,
		"emotional_connection": 0.06,

		"cognitive_load":    0.05,
		"flow":              0.06,
		"social_aspects":    0.03,
		"therapeutic_value": 0.04,
	},
}

const (
	// embeddingBlend is the latent-cosine share once trained.
	embeddingBlend = 0.30

	// categoryBonus is added to the base score when two projects share a
	// non-empty category.
	categoryBonus = 0.10
)
