package features

import "github.com/orreryworks/orrery/pkg/catalog"

// Mathematical derives the mathematical attribute group.
//
// Boolean detectors are pure keyword membership tests over the project's
// id, title, category, type, and description. Continuous scores are
// rule-based heuristics over declared metadata; the ones marked with a
// jitter range diversify otherwise identical categories.
func (e *Extractor) Mathematical(p catalog.Project) AttributeSet {
	text := searchText(p)

	hasAttractor := containsAny(text, "attractor", "lorenz", "rossler", "strange")
	hasFractal := containsAny(text, "fractal", "mandelbrot", "julia", "sierpinski", "l-system", "ifs")
	hasParticles := containsAny(text, "particle", "boids", "flock", "swarm", "agents")
	hasGrowth := containsAny(text, "growth", "cellular", "automata", "reaction-diffusion", "morphogenesis", "genetic")

	classScore := complexityClassScore(p.Technical.ComplexityClass)

	// Dimensionality: flat canvas pieces sit low, 3D raises it, VR tops it.
	dimensionality := 0.3
	if p.Technical.ThreeD {
		dimensionality = 0.7
	}
	if p.Experience.VRCompatible {
		dimensionality = 0.9
	}

	chaos := 0.2
	if hasAttractor {
		chaos = 0.85
	} else if hasParticles {
		chaos = 0.55
	}

	symmetry := 0.3
	if hasFractal {
		symmetry = 0.8
	} else if containsAny(text, "symmetr", "tiling", "tessellat", "mandala", "kaleidoscope") {
		symmetry = 0.75
	}

	recursion := 0.1
	if hasFractal {
		recursion = 0.9
	} else if containsAny(text, "recursive", "subdivision", "tree") {
		recursion = 0.65
	}

	temporal := 0.4
	if containsAny(text, "animation", "evolv", "time", "dynamic", "flow") {
		temporal = 0.7
	}
	if p.Experience.AudioReactive {
		temporal = 0.85
	}

	emergence := 0.2
	if hasParticles || hasGrowth {
		emergence = 0.8
	}

	nonlinearity := 0.3
	if hasAttractor {
		nonlinearity = 0.9
	} else if hasGrowth {
		nonlinearity = 0.6
	}

	return AttributeSet{
		"has_attractor": boolValue(hasAttractor),
		"has_fractal":   boolValue(hasFractal),
		"has_particles": boolValue(hasParticles),
		"has_growth":    boolValue(hasGrowth),

		"complexity":  clamp(classScore),
		"chaos_level": e.jitter(chaos, 0.1),     // ±0.1
		"symmetry":    e.jitter(symmetry, 0.15), // ±0.15
		"recursion":   clamp(recursion),

		"dimensionality":       clamp(dimensionality),
		"entropy":              e.jitter(0.5, 0.3), // ±0.3: no declared signal, variety only
		"geometric_complexity": e.jitter(0.3+0.4*boolValue(hasFractal), 0.15),
		"spatial_complexity":   e.jitter(dimensionality, 0.1),

		"temporal_dynamics": clamp(temporal),
		"emergence":         e.jitter(emergence, 0.1),
		"self_similarity":   clamp(0.2 + 0.7*boolValue(hasFractal)),
		"nonlinearity":      e.jitter(nonlinearity, 0.1),
	}
}
