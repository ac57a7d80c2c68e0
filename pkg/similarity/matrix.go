package similarity

import "sync"

// Pair is an unordered project-id pair in canonical (A < B) order.
type Pair struct {
	A, B string
}

// PairKey canonicalizes two ids into a Pair. Self-pairs are the
// caller's responsibility to avoid; the matrix never stores them.
func PairKey(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// PairScore is one stored matrix entry.
type PairScore struct {
	Pair
	Score float64
}

// Matrix is the sparse symmetric pairwise score store.
//
// Get(a,b) always equals Get(b,a) because entries are keyed by the
// canonical pair. Safe for concurrent use; the engine additionally
// serializes feedback mutations so matrix and adjacency never diverge.
type Matrix struct {
	mu     sync.RWMutex
	scores map[Pair]float64
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{scores: make(map[Pair]float64)}
}

// Get returns the stored score for a pair and whether one exists.
// Self-pairs report not found.
func (m *Matrix) Get(a, b string) (float64, bool) {
	if a == b {
		return 0, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.scores[PairKey(a, b)]
	return score, ok
}

// Set stores a score symmetrically. Self-pairs are ignored.
func (m *Matrix) Set(a, b string, score float64) {
	if a == b {
		return
	}
	m.mu.Lock()
	m.scores[PairKey(a, b)] = score
	m.mu.Unlock()
}

// Len returns the number of stored pairs.
func (m *Matrix) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scores)
}

// Pairs returns a snapshot of all stored entries in unspecified order.
func (m *Matrix) Pairs() []PairScore {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PairScore, 0, len(m.scores))
	for pair, score := range m.scores {
		out = append(out, PairScore{Pair: pair, Score: score})
	}
	return out
}

// Average returns the mean stored score, or 0 for an empty matrix.
func (m *Matrix) Average() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.scores) == 0 {
		return 0
	}
	var sum float64
	for _, score := range m.scores {
		sum += score
	}
	return sum / float64(len(m.scores))
}
