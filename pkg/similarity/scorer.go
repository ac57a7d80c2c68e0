package similarity

import (
	"math"
	"sort"

	"github.com/orreryworks/orrery/pkg/embedding"
	"github.com/orreryworks/orrery/pkg/features"
)

// Scorer computes pairwise similarity between two profiles.
//
// A Scorer is callable for any two known profiles without requiring the
// full matrix to exist; the engine uses it both for the initial matrix
// build and for on-demand pair queries. Latents is optional: when set,
// latent cosine similarity is blended in at 30%.
type Scorer struct {
	// Latents maps project id to its trained latent vector. Nil or
	// missing entries fall back to pure base similarity for that pair.
	Latents map[string][]float64
}

// Breakdown explains one pairwise score.
type Breakdown struct {
	// Domains holds the per-domain similarity in [0,1]
	Domains map[features.Domain]float64

	// Base is the domain-weighted similarity before any embedding blend,
	// including the shared-category bonus
	Base float64

	// SharedCategory is set when both projects carry the same category
	SharedCategory string

	// SharedTags lists tags present on both profiles, sorted
	SharedTags []string

	// EmbeddingUsed reports whether latent cosine entered the blend
	EmbeddingUsed bool

	// EmbeddingCosine is the latent cosine term (0 when unused)
	EmbeddingCosine float64

	// Score is the final clamped similarity
	Score float64
}

// DomainSimilarity compares one attribute group of two profiles under
// the domain's fixed weight table.
//
// Boolean attributes contribute their full weight when equal; continuous
// attributes contribute weight x (1 - |difference|). A missing attribute
// reads as 0 on either side.
func DomainSimilarity(d features.Domain, a, b features.AttributeSet) float64 {
	weights := attributeWeights[d]
	if weights == nil {
		return 0
	}

	var sum float64
	for name, weight := range weights {
		av, bv := a[name], b[name]
		if features.IsBoolean(name) {
			if av == bv {
				sum += weight
			}
			continue
		}
		sum += weight * (1 - math.Abs(av-bv))
	}
	return clamp(sum)
}

// Score computes the blended similarity for one pair.
func (s *Scorer) Score(a, b *features.Profile) float64 {
	return s.Explain(a, b).Score
}

// Explain computes the blended similarity for one pair along with the
// per-domain contributions used to build user-facing reasons.
func (s *Scorer) Explain(a, b *features.Profile) Breakdown {
	bd := Breakdown{
		Domains: make(map[features.Domain]float64, 4),
	}

	var base float64
	for _, d := range features.Domains() {
		ds := DomainSimilarity(d, a.Group(d), b.Group(d))
		bd.Domains[d] = ds
		base += domainWeights[d] * ds
	}

	if a.Category != "" && a.Category == b.Category {
		base += categoryBonus
		bd.SharedCategory = a.Category
	}
	bd.Base = clamp(base)
	bd.SharedTags = sharedTags(a, b)

	score := bd.Base
	if la, lb := s.latent(a.ProjectID), s.latent(b.ProjectID); la != nil && lb != nil {
		// Negative cosine carries no "these are related" signal; floor at 0
		// so the blend can only describe affinity.
		cos := embedding.CosineSimilarity(la, lb)
		if cos < 0 {
			cos = 0
		}
		bd.EmbeddingUsed = true
		bd.EmbeddingCosine = cos
		score = (1-embeddingBlend)*bd.Base + embeddingBlend*cos
	}

	bd.Score = clamp(score)
	return bd
}

func (s *Scorer) latent(id string) []float64 {
	if s == nil || s.Latents == nil {
		return nil
	}
	return s.Latents[id]
}

// sharedTags returns the sorted intersection of two tag sets.
func sharedTags(a, b *features.Profile) []string {
	set := make(map[string]struct{}, len(a.Tags))
	for _, t := range a.Tags {
		set[t] = struct{}{}
	}
	var shared []string
	for _, t := range b.Tags {
		if _, ok := set[t]; ok {
			shared = append(shared, t)
		}
	}
	sort.Strings(shared)
	return shared
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
