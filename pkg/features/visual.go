package features

import "github.com/orreryworks/orrery/pkg/catalog"

// categoryVisualBase maps known categories to base aesthetic scores.
// Categories outside the table fall back to neutral midpoints.
var categoryVisualBase = map[string]struct {
	color   float64
	motion  float64
	organic float64
	energy  float64
}{
	"fractals":   {color: 0.8, motion: 0.4, organic: 0.35, energy: 0.5},
	"attractors": {color: 0.6, motion: 0.8, organic: 0.55, energy: 0.75},
	"particles":  {color: 0.5, motion: 0.9, organic: 0.7, energy: 0.85},
	"growth":     {color: 0.55, motion: 0.6, organic: 0.9, energy: 0.6},
	"geometry":   {color: 0.45, motion: 0.3, organic: 0.15, energy: 0.4},
	"noise":      {color: 0.65, motion: 0.7, organic: 0.75, energy: 0.65},
}

// Visual derives the visual attribute group.
//
// Scores come from category membership, declared output formats, and
// interaction flags. Most carry jitter (ranges noted inline) so projects
// in one category do not collapse onto identical aesthetics.
func (e *Extractor) Visual(p catalog.Project) AttributeSet {
	base, known := categoryVisualBase[p.Category]
	if !known {
		base.color, base.motion, base.organic, base.energy = 0.5, 0.5, 0.5, 0.5
	}

	interaction := interactionLevelScore(p.Experience.InteractionLevel)

	motion := base.motion
	if p.Experience.AudioReactive {
		motion = clamp(motion + 0.2)
	}

	// Audio-reactive pieces pulse; coherence drops, rhythm rises.
	rhythm := 0.4
	coherence := 0.7
	if p.Experience.AudioReactive {
		rhythm = 0.85
		coherence = 0.5
	}

	contrast := 0.5
	if hasOutput(p, "svg") {
		contrast = 0.7 // vector output tends toward hard edges
	}

	texture := base.organic
	if hasOutput(p, "canvas") || p.Technical.WebGL {
		texture = clamp(texture + 0.1)
	}

	return AttributeSet{
		"color_complexity":          e.jitter(base.color, 0.15),  // ±0.15
		"motion_intensity":          e.jitter(motion, 0.1),       // ±0.1
		"organic_geometric_balance": e.jitter(base.organic, 0.1), // ±0.1
		"contrast":                  e.jitter(contrast, 0.2),     // ±0.2

		"texture": e.jitter(texture, 0.15),
		"rhythm":  e.jitter(rhythm, 0.1),
		"balance": e.jitter(0.6, 0.2), // ±0.2: pure variety
		"energy":  e.jitter(base.energy, 0.1),

		"harmony":            e.jitter(0.6, 0.2), // ±0.2: pure variety
		"luminance_variance": e.jitter(base.color*0.8, 0.15),
		"spatial_frequency":  e.jitter(base.color*0.6+0.2, 0.15),
		"temporal_coherence": e.jitter(coherence, 0.1),

		"visual_entropy":       e.jitter(base.motion*0.7+0.15, 0.15),
		"aesthetic_complexity": e.jitter((base.color+base.organic)/2, 0.1),
		"emotional_resonance":  e.jitter(0.4+0.3*boolValue(p.Experience.Contemplative), 0.15),
		"depth_perception":     clamp(0.3 + 0.4*boolValue(p.Technical.ThreeD) + 0.2*boolValue(p.Experience.VRCompatible) + 0.1*interaction),
	}
}
