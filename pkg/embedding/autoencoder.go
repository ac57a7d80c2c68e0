package embedding

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// AutoencoderConfig holds training hyperparameters.
type AutoencoderConfig struct {
	// InputDim is the profile vector width
	InputDim int

	// LatentDim is the bottleneck width
	LatentDim int

	// Epochs is the fixed number of passes over the training split
	Epochs int

	// BatchSize is the mini-batch size
	BatchSize int

	// LearningRate is the SGD step size
	LearningRate float64

	// ValidationSplit is the held-out fraction in (0,1)
	ValidationSplit float64

	// Seed seeds weight initialization and batch shuffling
	Seed int64
}

// DefaultAutoencoderConfig returns the tuning used by the engine:
// a 64-to-32 bottleneck trained for 50 epochs.
func DefaultAutoencoderConfig() AutoencoderConfig {
	return AutoencoderConfig{
		InputDim:        64,
		LatentDim:       32,
		Epochs:          50,
		BatchSize:       8,
		LearningRate:    0.05,
		ValidationSplit: 0.2,
		Seed:            1,
	}
}

// Validate checks the configuration.
func (c AutoencoderConfig) Validate() error {
	if c.InputDim <= 0 || c.LatentDim <= 0 {
		return fmt.Errorf("dimensions must be positive (input %d, latent %d)", c.InputDim, c.LatentDim)
	}
	if c.LatentDim >= c.InputDim {
		return fmt.Errorf("latent dim %d must be narrower than input dim %d", c.LatentDim, c.InputDim)
	}
	if c.Epochs <= 0 || c.BatchSize <= 0 {
		return fmt.Errorf("epochs and batch size must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.ValidationSplit < 0 || c.ValidationSplit >= 1 {
		return fmt.Errorf("validation split must be in [0,1)")
	}
	return nil
}

// weights is one full parameter set. Training builds a candidate set and
// swaps it in only on success, so a failed or cancelled run never leaves
// the autoencoder half-updated.
type weights struct {
	encW [][]float64 // latent x input
	encB []float64   // latent
	decW [][]float64 // input x latent
	decB []float64   // input
}

// Autoencoder is a single-bottleneck reconstruction network trained
// with mini-batch SGD. It satisfies Embedder.
type Autoencoder struct {
	config AutoencoderConfig

	mu      sync.RWMutex
	current *weights
	valLoss float64
}

// NewAutoencoder creates an untrained autoencoder.
func NewAutoencoder(config AutoencoderConfig) (*Autoencoder, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid autoencoder config: %w", err)
	}
	return &Autoencoder{config: config}, nil
}

// Trained reports whether a successful Train has completed.
func (a *Autoencoder) Trained() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current != nil
}

// ValidationLoss returns the reconstruction loss on the held-out split
// from the most recent training run. Zero before training.
func (a *Autoencoder) ValidationLoss() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.valLoss
}

// Train fits the autoencoder to the given vectors.
//
// Fewer than MinTrainingVectors vectors is a silent no-op. Vectors are
// split into training and validation sets, then trained for a fixed
// number of epochs over shuffled mini-batches. The context is checked
// once per epoch; cancellation aborts without touching existing state.
func (a *Autoencoder) Train(ctx context.Context, vectors [][]float64) error {
	if len(vectors) < MinTrainingVectors {
		return nil
	}
	for i, v := range vectors {
		if len(v) != a.config.InputDim {
			return fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(v), a.config.InputDim)
		}
	}

	rng := rand.New(rand.NewSource(a.config.Seed))
	cand := newWeights(a.config, rng)

	// Shuffle once, then carve off the validation split.
	order := rng.Perm(len(vectors))
	shuffled := make([][]float64, len(vectors))
	for i, j := range order {
		shuffled[i] = vectors[j]
	}
	valCount := int(float64(len(shuffled)) * a.config.ValidationSplit)
	if valCount >= len(shuffled) {
		valCount = len(shuffled) - 1
	}
	train := shuffled[valCount:]
	val := shuffled[:valCount]

	for epoch := 0; epoch < a.config.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("training cancelled at epoch %d: %w", epoch, ctx.Err())
		default:
		}

		perm := rng.Perm(len(train))
		for start := 0; start < len(perm); start += a.config.BatchSize {
			end := start + a.config.BatchSize
			if end > len(perm) {
				end = len(perm)
			}
			for _, idx := range perm[start:end] {
				cand.step(train[idx], a.config.LearningRate)
			}
		}
	}

	valLoss := 0.0
	if len(val) > 0 {
		for _, v := range val {
			valLoss += cand.loss(v)
		}
		valLoss /= float64(len(val))
	}

	a.mu.Lock()
	a.current = cand
	a.valLoss = valLoss
	a.mu.Unlock()
	return nil
}

// Encode maps one input vector to its latent form.
func (a *Autoencoder) Encode(vector []float64) ([]float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return nil, ErrNotTrained
	}
	if len(vector) != a.config.InputDim {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(vector), a.config.InputDim)
	}
	return a.current.encode(vector), nil
}

// newWeights initializes a parameter set with small uniform weights.
func newWeights(cfg AutoencoderConfig, rng *rand.Rand) *weights {
	scale := 1 / math.Sqrt(float64(cfg.InputDim))
	w := &weights{
		encW: make([][]float64, cfg.LatentDim),
		encB: make([]float64, cfg.LatentDim),
		decW: make([][]float64, cfg.InputDim),
		decB: make([]float64, cfg.InputDim),
	}
	for j := range w.encW {
		w.encW[j] = make([]float64, cfg.InputDim)
		for i := range w.encW[j] {
			w.encW[j][i] = (rng.Float64()*2 - 1) * scale
		}
	}
	for i := range w.decW {
		w.decW[i] = make([]float64, cfg.LatentDim)
		for j := range w.decW[i] {
			w.decW[i][j] = (rng.Float64()*2 - 1) * scale
		}
	}
	return w
}

// encode computes the latent activation (tanh bottleneck).
func (w *weights) encode(x []float64) []float64 {
	latent := make([]float64, len(w.encB))
	for j := range latent {
		sum := w.encB[j]
		row := w.encW[j]
		for i := range x {
			sum += row[i] * x[i]
		}
		latent[j] = math.Tanh(sum)
	}
	return latent
}

// decode reconstructs the input from a latent vector (linear output).
func (w *weights) decode(latent []float64) []float64 {
	out := make([]float64, len(w.decB))
	for i := range out {
		sum := w.decB[i]
		row := w.decW[i]
		for j := range latent {
			sum += row[j] * latent[j]
		}
		out[i] = sum
	}
	return out
}

// loss is the mean squared reconstruction error for one vector.
func (w *weights) loss(x []float64) float64 {
	recon := w.decode(w.encode(x))
	var sum float64
	for i := range x {
		d := recon[i] - x[i]
		sum += d * d
	}
	return sum / float64(len(x))
}

// step performs one SGD update on a single vector: backprop through the
// linear decoder and tanh encoder.
func (w *weights) step(x []float64, lr float64) {
	latent := w.encode(x)
	recon := w.decode(latent)

	// Output layer gradient: d(loss)/d(recon) for MSE.
	outGrad := make([]float64, len(recon))
	for i := range recon {
		outGrad[i] = 2 * (recon[i] - x[i]) / float64(len(recon))
	}

	// Latent gradient through the decoder, with tanh derivative.
	latGrad := make([]float64, len(latent))
	for j := range latent {
		var sum float64
		for i := range outGrad {
			sum += w.decW[i][j] * outGrad[i]
		}
		latGrad[j] = sum * (1 - latent[j]*latent[j])
	}

	for i := range outGrad {
		for j := range latent {
			w.decW[i][j] -= lr * outGrad[i] * latent[j]
		}
		w.decB[i] -= lr * outGrad[i]
	}
	for j := range latGrad {
		for i := range x {
			w.encW[j][i] -= lr * latGrad[j] * x[i]
		}
		w.encB[j] -= lr * latGrad[j]
	}
}
