package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/orreryworks/orrery/pkg/features"
)

// BuildMatrix computes the full pairwise matrix for the given profiles.
//
// Pairwise scoring is embarrassingly parallel, so rows are fanned out
// across workers (default GOMAXPROCS). The final matrix is
// order-independent; no caller may assume anything about completion
// order beyond that.
func BuildMatrix(ctx context.Context, ids []string, profiles map[string]*features.Profile, scorer *Scorer, workers int) (*Matrix, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	matrix := NewMatrix()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range ids {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			a := profiles[ids[i]]
			if a == nil {
				return fmt.Errorf("no profile for project %q", ids[i])
			}
			for j := i + 1; j < len(ids); j++ {
				b := profiles[ids[j]]
				if b == nil {
					return fmt.Errorf("no profile for project %q", ids[j])
				}
				matrix.Set(ids[i], ids[j], scorer.Score(a, b))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building similarity matrix: %w", err)
	}
	return matrix, nil
}
