// Package engine assembles the orrery relation engine.
//
// An Engine is constructed per catalog snapshot; there is no ambient
// global state. Construction derives feature profiles, computes the
// full pairwise similarity matrix, and builds the connection graph;
// afterwards the engine answers related-project queries, pair
// similarity with explanations, collection generation, feedback
// learning, graph export, and network analytics.
//
// Example usage:
//
//	projects, err := catalog.LoadFile("catalog.json")
//	if err != nil {
//	    // Handle error
//	}
//	eng, err := engine.New(ctx, engine.Config{Logger: logger}, projects)
//	if err != nil {
//	    // Handle error
//	}
//	related, err := eng.RelatedProjects("lorenz-attractor", 5)
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orreryworks/orrery/internal/telemetry"
	"github.com/orreryworks/orrery/pkg/catalog"
	"github.com/orreryworks/orrery/pkg/embedding"
	"github.com/orreryworks/orrery/pkg/features"
	"github.com/orreryworks/orrery/pkg/graph"
	"github.com/orreryworks/orrery/pkg/similarity"
)

var (
	// ErrNotFound indicates a query for an unknown project id
	ErrNotFound = errors.New("project not found")

	// ErrInvalidSignal indicates an unrecognized feedback signal
	ErrInvalidSignal = errors.New("invalid feedback signal")

	// ErrTrainingInProgress indicates a concurrent training attempt
	ErrTrainingInProgress = errors.New("embedding training already in progress")
)

// Config tunes engine construction.
type Config struct {
	// MinSimilarityThreshold is the graph edge floor (default 0.3)
	MinSimilarityThreshold float64

	// MaxConnections caps each adjacency list (default 10)
	MaxConnections int

	// HighSimilarity is the cluster traversal bar (default 0.6)
	HighSimilarity float64

	// MinClusterSize discards smaller clusters (default 3)
	MinClusterSize int

	// JitterSeed seeds extractor randomness. Zero derives a seed from
	// the clock, giving each session its own jitter; tests pin it.
	JitterSeed int64

	// DisableJitter pins every heuristic attribute to its base value.
	DisableJitter bool

	// Workers bounds parallel matrix computation (default GOMAXPROCS)
	Workers int

	// Autoencoder overrides embedding training hyperparameters.
	// Zero value means embedding.DefaultAutoencoderConfig.
	Autoencoder embedding.AutoencoderConfig

	// Logger receives engine logs. Nil means zap.NewNop().
	Logger *zap.Logger

	// Metrics receives engine metrics. Nil means a fresh registry.
	Metrics *telemetry.Metrics
}

// Engine is a relation engine over one catalog snapshot.
//
// Queries take a read lock; feedback and retraining take the write
// lock, so a reader never observes the matrix and adjacency out of
// step with each other.
type Engine struct {
	cfg     Config
	logger  *zap.Logger
	metrics *telemetry.Metrics

	projects []catalog.Project
	byID     map[string]catalog.Project
	ids      []string
	profiles map[string]*features.Profile

	mu        sync.RWMutex
	matrix    *similarity.Matrix
	conn      *graph.Graph
	scorer    *similarity.Scorer
	embedder  *embedding.Autoencoder
	trainedAt time.Time

	trainingMu sync.Mutex
}

// New constructs an engine for the given catalog snapshot.
//
// Construction performs the full pairwise computation, so it can take a
// moment for large catalogs; the context cancels it.
func New(ctx context.Context, cfg Config, projects []catalog.Project) (*Engine, error) {
	if err := catalog.Validate(projects); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	if cfg.MinSimilarityThreshold == 0 {
		cfg.MinSimilarityThreshold = graph.DefaultMinSimilarity
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = graph.DefaultMaxConnections
	}
	if cfg.HighSimilarity == 0 {
		cfg.HighSimilarity = graph.DefaultHighSimilarity
	}
	if cfg.MinClusterSize == 0 {
		cfg.MinClusterSize = graph.DefaultMinClusterSize
	}
	if cfg.Autoencoder == (embedding.AutoencoderConfig{}) {
		cfg.Autoencoder = embedding.DefaultAutoencoderConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NewMetrics()
	}

	var rng *rand.Rand
	if !cfg.DisableJitter {
		seed := cfg.JitterSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	e := &Engine{
		cfg:      cfg,
		logger:   cfg.Logger.Named("engine"),
		metrics:  cfg.Metrics,
		projects: projects,
		byID:     make(map[string]catalog.Project, len(projects)),
		ids:      make([]string, 0, len(projects)),
		scorer:   &similarity.Scorer{},
	}
	for _, p := range projects {
		e.byID[p.ID] = p
		e.ids = append(e.ids, p.ID)
	}

	extractor := features.NewExtractor(rng)
	e.profiles = extractor.Profiles(projects)

	embedder, err := embedding.NewAutoencoder(cfg.Autoencoder)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	e.embedder = embedder

	matrix, conn, err := e.compute(ctx, e.scorer)
	if err != nil {
		return nil, err
	}
	e.matrix = matrix
	e.conn = conn

	e.logger.Info("engine initialized",
		zap.Int("projects", len(projects)),
		zap.Int("pairs", matrix.Len()),
		zap.Int("connections", conn.ConnectionCount()),
	)
	return e, nil
}

// compute runs the full pairwise build plus graph derivation with the
// given scorer. Callers swap the results in under the write lock.
func (e *Engine) compute(ctx context.Context, scorer *similarity.Scorer) (*similarity.Matrix, *graph.Graph, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "engine.compute")
	defer span.End()

	start := time.Now()
	matrix, err := similarity.BuildMatrix(ctx, e.ids, e.profiles, scorer, e.cfg.Workers)
	if err != nil {
		return nil, nil, err
	}
	e.metrics.MatrixBuildSeconds.Observe(time.Since(start).Seconds())
	e.metrics.SimilarityComputations.Add(float64(matrix.Len()))

	conn := graph.Build(matrix, e.ids, e.cfg.MinSimilarityThreshold, e.cfg.MaxConnections)
	e.metrics.GraphRebuilds.Inc()
	return matrix, conn, nil
}

// Projects returns the catalog snapshot in load order.
func (e *Engine) Projects() []catalog.Project {
	return e.projects
}

// Profile returns the feature profile for a project.
func (e *Engine) Profile(id string) (*features.Profile, error) {
	p, ok := e.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Related is one ranked neighbor in a RelatedProjects answer.
type Related struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
	Reason     string  `json:"reason"`
}

// RelatedProjects returns up to limit neighbors from the precomputed
// ranked adjacency list. It never recomputes similarity; strengths come
// from the stored graph, reasons from profile tag overlap.
func (e *Engine) RelatedProjects(id string, limit int) ([]Related, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.conn.Contains(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	edges := e.conn.Related(id, limit)
	out := make([]Related, 0, len(edges))
	for _, edge := range edges {
		out = append(out, Related{
			ID:         edge.ID,
			Similarity: edge.Strength,
			Reason:     e.reason(id, edge.ID, edge.Strength),
		})
	}
	return out, nil
}

// reason builds a short human-readable connection reason from profile
// overlap. Cheap on purpose: no similarity recomputation.
func (e *Engine) reason(a, b string, strength float64) string {
	pa, pb := e.profiles[a], e.profiles[b]
	if pa == nil || pb == nil {
		return "related"
	}

	var parts []string
	if pa.Category != "" && pa.Category == pb.Category {
		parts = append(parts, "same "+pa.Category+" category")
	}

	var shared []string
	for _, t := range pb.Tags {
		if t != pa.Category && pa.HasTag(t) {
			shared = append(shared, t)
		}
	}
	if len(shared) > 0 {
		sort.Strings(shared)
		if len(shared) > 3 {
			shared = shared[:3]
		}
		parts = append(parts, "shared traits: "+strings.Join(shared, ", "))
	}

	if len(parts) == 0 {
		switch {
		case strength > 0.6:
			parts = append(parts, "strong overall affinity")
		default:
			parts = append(parts, "similar overall character")
		}
	}
	return strings.Join(parts, "; ")
}

// SimilarityResult answers a pair query.
type SimilarityResult struct {
	// Score is the stored similarity when the pair is in the matrix
	// (including any feedback adjustment), otherwise a fresh computation.
	Score float64 `json:"score"`

	// Explanation breaks the freshly computed score into its parts.
	Explanation similarity.Breakdown `json:"explanation"`
}

// Similarity returns the similarity between two known projects with a
// per-domain explanation. Callable for any pair; the full matrix is not
// required (on-demand pairs are computed directly).
func (e *Engine) Similarity(idA, idB string) (SimilarityResult, error) {
	pa, ok := e.profiles[idA]
	if !ok {
		return SimilarityResult{}, fmt.Errorf("%w: %q", ErrNotFound, idA)
	}
	pb, ok := e.profiles[idB]
	if !ok {
		return SimilarityResult{}, fmt.Errorf("%w: %q", ErrNotFound, idB)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	bd := e.scorer.Explain(pa, pb)
	e.metrics.SimilarityComputations.Inc()

	result := SimilarityResult{Score: bd.Score, Explanation: bd}
	if stored, ok := e.matrix.Get(idA, idB); ok {
		result.Score = stored
	}
	return result, nil
}

// GenerateCollections detects clusters on the current graph and returns
// them as auto-generated collections. Detection is a pure function of
// the adjacency graph: safe to call repeatedly, fresh ids each call.
func (e *Engine) GenerateCollections() []graph.Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()

	detector := &graph.Detector{
		HighSimilarity: e.cfg.HighSimilarity,
		MinClusterSize: e.cfg.MinClusterSize,
	}
	clusters := detector.Detect(e.conn, e.matrix, e.profiles)
	return graph.Collections(clusters)
}

// Clusters runs cluster detection and returns the raw clusters with
// cohesion scores.
func (e *Engine) Clusters() []graph.Cluster {
	e.mu.RLock()
	defer e.mu.RUnlock()

	detector := &graph.Detector{
		HighSimilarity: e.cfg.HighSimilarity,
		MinClusterSize: e.cfg.MinClusterSize,
	}
	return detector.Detect(e.conn, e.matrix, e.profiles)
}
