package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orreryworks/orrery/internal/telemetry"
	"github.com/orreryworks/orrery/pkg/embedding"
	"github.com/orreryworks/orrery/pkg/similarity"
)

// TrainingStatus reports the outcome of a TrainEmbeddings call.
type TrainingStatus string

const (
	TrainingTrained TrainingStatus = "trained"
	TrainingSkipped TrainingStatus = "skipped"
)

// TrainingResult summarizes one training run.
type TrainingResult struct {
	Status TrainingStatus `json:"status"`

	// Projects is the number of vectors trained on
	Projects int `json:"projects"`

	// ValidationLoss is the held-out reconstruction loss (trained only)
	ValidationLoss float64 `json:"validation_loss,omitempty"`

	// Duration is the wall-clock training time
	Duration time.Duration `json:"duration"`
}

// TrainEmbeddings trains the embedding model and folds latent cosine
// similarity into the engine's scores.
//
// With fewer than embedding.MinTrainingVectors projects this is a
// no-op that reports "skipped", not an error. Training runs outside the
// engine lock, so queries proceed against the prior state throughout;
// on success the latents, a fully recomputed matrix, and a rebuilt
// graph are swapped in atomically. Failure or cancellation leaves the
// engine exactly as it was. Training is idempotent: a second run
// fully replaces all stored embeddings. Only one training may run at a
// time; a concurrent call fails with ErrTrainingInProgress.
func (e *Engine) TrainEmbeddings(ctx context.Context) (TrainingResult, error) {
	if !e.trainingMu.TryLock() {
		return TrainingResult{}, ErrTrainingInProgress
	}
	defer e.trainingMu.Unlock()

	ctx, span := telemetry.Tracer().Start(ctx, "engine.train_embeddings")
	defer span.End()

	start := time.Now()

	if len(e.ids) < embedding.MinTrainingVectors {
		e.metrics.TrainingRuns.WithLabelValues("skipped").Inc()
		e.logger.Info("embedding training skipped",
			zap.Int("projects", len(e.ids)),
			zap.Int("required", embedding.MinTrainingVectors),
		)
		return TrainingResult{
			Status:   TrainingSkipped,
			Projects: len(e.ids),
			Duration: time.Since(start),
		}, nil
	}

	// Profiles are immutable after construction; vectors can be
	// snapshotted without the lock.
	vectors := make([][]float64, len(e.ids))
	for i, id := range e.ids {
		vectors[i] = e.profiles[id].Vector()
	}

	// Train a fresh candidate so a failed run cannot disturb an earlier
	// trained state.
	candidate, err := embedding.NewAutoencoder(e.cfg.Autoencoder)
	if err != nil {
		e.metrics.TrainingRuns.WithLabelValues("failed").Inc()
		return TrainingResult{}, fmt.Errorf("creating embedder: %w", err)
	}
	if err := candidate.Train(ctx, vectors); err != nil {
		e.metrics.TrainingRuns.WithLabelValues("failed").Inc()
		return TrainingResult{}, fmt.Errorf("training embedder: %w", err)
	}

	latents := make(map[string][]float64, len(e.ids))
	for i, id := range e.ids {
		latent, err := candidate.Encode(vectors[i])
		if err != nil {
			e.metrics.TrainingRuns.WithLabelValues("failed").Inc()
			return TrainingResult{}, fmt.Errorf("encoding project %q: %w", id, err)
		}
		latents[id] = latent
	}

	// Recompute the matrix with the blended scorer before taking the
	// write lock; only the swap itself blocks readers.
	scorer := &similarity.Scorer{Latents: latents}
	matrix, conn, err := e.compute(ctx, scorer)
	if err != nil {
		e.metrics.TrainingRuns.WithLabelValues("failed").Inc()
		return TrainingResult{}, fmt.Errorf("recomputing similarity after training: %w", err)
	}

	e.mu.Lock()
	e.embedder = candidate
	e.scorer = scorer
	e.matrix = matrix
	e.conn = conn
	e.trainedAt = time.Now()
	e.mu.Unlock()

	e.metrics.TrainingRuns.WithLabelValues("trained").Inc()
	e.logger.Info("embedding training complete",
		zap.Int("projects", len(vectors)),
		zap.Float64("validation_loss", candidate.ValidationLoss()),
		zap.Duration("duration", time.Since(start)),
	)

	return TrainingResult{
		Status:         TrainingTrained,
		Projects:       len(vectors),
		ValidationLoss: candidate.ValidationLoss(),
		Duration:       time.Since(start),
	}, nil
}
