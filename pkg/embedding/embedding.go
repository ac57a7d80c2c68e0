// Package embedding compresses profile vectors into latent embeddings.
//
// The engine blends cosine similarity between latent vectors into its
// pairwise score once an embedder has been trained. The Embedder
// interface is deliberately narrow (train on a batch of vectors,
// encode one vector) so any numeric backend can satisfy it; the
// bundled Autoencoder is a small pure-Go implementation.
package embedding

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// the trained input width
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotTrained indicates Encode was called before a successful Train
	ErrNotTrained = errors.New("embedder not trained")
)

// MinTrainingVectors is the smallest batch an embedder will train on.
// Train calls below this threshold no-op without error.
const MinTrainingVectors = 5

// Embedder produces comparable latent vectors from profile vectors.
//
// Train is idempotent: a successful run fully replaces any prior state.
// A failed or cancelled run must leave prior state untouched.
type Embedder interface {
	// Train fits the embedder to the given vectors. Training below
	// MinTrainingVectors is a silent no-op; check Trained afterwards.
	Train(ctx context.Context, vectors [][]float64) error

	// Encode maps one input vector to its latent form.
	Encode(vector []float64) ([]float64, error)

	// Trained reports whether a successful Train has completed.
	Trained() bool
}

// CosineSimilarity computes cosine similarity between two vectors.
//
// A zero-norm or mismatched pair degrades to 0 rather than failing;
// callers treat that as "no embedding signal".
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
