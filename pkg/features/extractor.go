package features

import (
	"math/rand"
	"strings"

	"github.com/orreryworks/orrery/pkg/catalog"
)

// Extractor derives attribute sets from project records.
//
// An Extractor is cheap and stateless apart from its randomness source.
// Passing a nil source disables jitter entirely, which pins every
// attribute to its deterministic base value; tests rely on this.
type Extractor struct {
	rng *rand.Rand
}

// NewExtractor creates an extractor with the given randomness source.
// A nil source disables jitter.
func NewExtractor(rng *rand.Rand) *Extractor {
	return &Extractor{rng: rng}
}

// jitter perturbs v by a uniform value in [-amount, +amount], clamped to
// [0,1]. No-op when the extractor has no randomness source.
func (e *Extractor) jitter(v, amount float64) float64 {
	if e.rng == nil {
		return clamp(v)
	}
	return clamp(v + (e.rng.Float64()*2-1)*amount)
}

// searchText builds the lowercase haystack used by keyword detectors:
// id, title, category, type, and description joined together.
func searchText(p catalog.Project) string {
	return strings.ToLower(strings.Join([]string{
		p.ID, p.Title, p.Category, p.Type, p.Description,
	}, " "))
}

// containsAny reports whether the haystack contains any of the words.
func containsAny(haystack string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

// complexityClassScore maps a declared big-O class string to [0,1].
// Absent data maps to 0; an unrecognized non-empty class maps to 0.5.
func complexityClassScore(class string) float64 {
	switch normalizeComplexityClass(class) {
	case "":
		return 0
	case "o(1)":
		return 0.1
	case "o(log n)":
		return 0.25
	case "o(n)":
		return 0.4
	case "o(n log n)":
		return 0.55
	case "o(n^2)":
		return 0.75
	case "o(n^3)":
		return 0.9
	case "o(2^n)", "o(n!)":
		return 1
	default:
		return 0.5
	}
}

// normalizeComplexityClass lowercases and strips the unicode variants
// ("O(n²)", "O(n·log n)") catalogs tend to declare.
func normalizeComplexityClass(class string) string {
	s := strings.ToLower(strings.TrimSpace(class))
	replacer := strings.NewReplacer("²", "^2", "³", "^3", "·", " ", "  ", " ")
	return replacer.Replace(s)
}

// interactionLevelScore maps a declared interaction level to [0,1].
func interactionLevelScore(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return 0.9
	case "moderate", "medium":
		return 0.6
	case "passive", "low":
		return 0.3
	default:
		// "", "none", and anything unrecognized
		return 0
	}
}

// resolutionScore maps a claimed resolution string to [0,1].
func resolutionScore(resolution string) float64 {
	switch strings.ToLower(strings.TrimSpace(resolution)) {
	case "8k":
		return 1
	case "4k":
		return 0.85
	case "1440p", "2k":
		return 0.7
	case "1080p", "fullhd", "full-hd":
		return 0.55
	case "720p", "hd":
		return 0.4
	case "":
		return 0
	default:
		return 0.3
	}
}

// frameRateScore maps a claimed frame rate to [0,1].
func frameRateScore(fps int) float64 {
	switch {
	case fps <= 0:
		return 0
	case fps >= 120:
		return 1
	default:
		return float64(fps) / 120
	}
}

// hasOutput reports whether the project declares the given output format.
func hasOutput(p catalog.Project, format string) bool {
	for _, out := range p.Outputs {
		if strings.EqualFold(out, format) {
			return true
		}
	}
	return false
}
