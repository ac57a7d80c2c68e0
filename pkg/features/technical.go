package features

import "github.com/orreryworks/orrery/pkg/catalog"

// Technical derives the technical attribute group.
//
// Implementation-quality proxies derived from the declared complexity
// class, frame-rate and resolution claims, and interaction level. This
// group is fully deterministic: every score is a pure function of the
// record, no jitter.
func (e *Extractor) Technical(p catalog.Project) AttributeSet {
	classScore := complexityClassScore(p.Technical.ComplexityClass)
	fps := frameRateScore(p.Technical.FrameRate)
	res := resolutionScore(p.Technical.Resolution)
	interaction := interactionLevelScore(p.Experience.InteractionLevel)

	intensity := classScore
	if p.Technical.WebGL {
		intensity = clamp(intensity + 0.2)
	}
	if p.Technical.ThreeD {
		intensity = clamp(intensity + 0.15)
	}

	rendering := 0.3*res + 0.3*fps
	if p.Technical.ThreeD {
		rendering += 0.25
	}
	if p.Technical.WebGL {
		rendering += 0.15
	}

	// High claimed frame rate at high complexity implies real optimization
	// work; the same frame rate on O(1) code implies nothing.
	optimization := fps * (0.4 + 0.6*classScore)

	memory := 0.3 + 0.4*classScore
	if p.Technical.ThreeD {
		memory += 0.15
	}

	algorithms := float64(len(p.Technical.Algorithms))
	modularity := clamp(0.3 + 0.15*algorithms)

	return AttributeSet{
		"algorithm_complexity":    clamp(classScore),
		"computational_intensity": clamp(intensity),
		"interactivity_level":     clamp(interaction),
		"performance":             clamp(fps),

		"code_complexity":      clamp(0.3 + 0.5*classScore + 0.1*algorithms),
		"rendering_complexity": clamp(rendering),
		"memory_usage":         clamp(memory),
		"optimization":         clamp(optimization),

		"scalability":     clamp(1 - 0.6*classScore),
		"maintainability": clamp(0.8 - 0.4*classScore),
		"modularity":      modularity,
		"testability":     clamp(0.7 - 0.3*interaction),

		"reliability":   clamp(0.5 + 0.3*fps),
		"efficiency":    clamp(0.3 + 0.5*optimization),
		"robustness":    clamp(0.4 + 0.2*fps + 0.2*(1-classScore)),
		"extensibility": clamp(0.3 + 0.2*algorithms + 0.2*interaction),
	}
}
