package features

import "github.com/orreryworks/orrery/pkg/catalog"

// Interaction derives the interaction attribute group.
//
// Experience proxies derived from declared experience flags and the
// number of user-tunable parameters. A couple of soft scores carry a
// small jitter (±0.1) for variety.
func (e *Extractor) Interaction(p catalog.Project) AttributeSet {
	level := interactionLevelScore(p.Experience.InteractionLevel)
	params := float64(len(p.Parameters))
	contemplative := boolValue(p.Experience.Contemplative)
	educational := boolValue(p.Experience.Educational)

	engagement := 0.3 + 0.5*level
	if p.Experience.AudioReactive {
		engagement += 0.15
	}

	// Many parameters mean depth to explore but also a steeper ramp.
	personalization := clamp(0.1 + 0.12*params)
	learningCurve := clamp(0.2 + 0.08*params + 0.2*level)

	exploration := clamp(0.2 + 0.4*level + 0.08*params)

	cognitiveLoad := clamp(0.2 + 0.3*level + 0.05*params - 0.2*contemplative)

	flow := 0.4 + 0.3*contemplative
	if level > 0.5 {
		flow += 0.2
	}

	return AttributeSet{
		"engagement":        e.jitter(engagement, 0.1), // ±0.1
		"contemplativeness": clamp(0.2 + 0.7*contemplative - 0.2*level),
		"responsiveness":    clamp(level),
		"feedback_quality":  clamp(0.3 + 0.5*level),

		"learning_curve":  learningCurve,
		"accessibility":   clamp(0.8 - 0.3*learningCurve),
		"collaboration":   0, // no collaborative pieces in the catalog model yet
		"personalization": personalization,

		"replayability":        clamp(0.3 + 0.3*level + 0.05*params),
		"exploration_depth":    exploration,
		"intuitiveness":        clamp(0.8 - 0.06*params),
		"emotional_connection": e.jitter(0.3+0.3*contemplative+0.2*level, 0.1), // ±0.1

		"cognitive_load":    cognitiveLoad,
		"flow":              clamp(flow),
		"social_aspects":    0, // same: no social surface in the record model
		"therapeutic_value": clamp(0.2 + 0.6*contemplative + 0.1*educational),
	}
}
