package engine

import "time"

// EmbeddingStatus describes the embedding model's state.
type EmbeddingStatus struct {
	IsTrained      bool      `json:"is_trained"`
	LatentDim      int       `json:"latent_dim,omitempty"`
	ValidationLoss float64   `json:"validation_loss,omitempty"`
	TrainedAt      time.Time `json:"trained_at,omitempty"`
}

// ComplexityStats summarizes the profile complexity distribution.
type ComplexityStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Analytics is the network-wide summary returned by NetworkAnalytics.
type Analytics struct {
	TotalProjects        int             `json:"total_projects"`
	TotalConnections     int             `json:"total_connections"`
	AverageSimilarity    float64         `json:"average_similarity"`
	MostConnected        string          `json:"most_connected"`
	MostConnectedCount   int             `json:"most_connected_count"`
	CategoryDistribution map[string]int  `json:"category_distribution"`
	ComplexityStats      ComplexityStats `json:"complexity_stats"`
	EmbeddingStatus      EmbeddingStatus `json:"embedding_status"`
}

// NetworkAnalytics summarizes the current engine state.
func (e *Engine) NetworkAnalytics() Analytics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a := Analytics{
		TotalProjects:        len(e.ids),
		TotalConnections:     e.conn.ConnectionCount(),
		AverageSimilarity:    e.matrix.Average(),
		CategoryDistribution: make(map[string]int),
	}
	a.MostConnected, a.MostConnectedCount = e.conn.MostConnected()

	first := true
	var sum float64
	for _, id := range e.ids {
		p := e.profiles[id]
		if p.Category != "" {
			a.CategoryDistribution[p.Category]++
		}

		sum += p.Complexity
		if first || p.Complexity < a.ComplexityStats.Min {
			a.ComplexityStats.Min = p.Complexity
		}
		if first || p.Complexity > a.ComplexityStats.Max {
			a.ComplexityStats.Max = p.Complexity
		}
		first = false
	}
	if len(e.ids) > 0 {
		a.ComplexityStats.Mean = sum / float64(len(e.ids))
	}

	a.EmbeddingStatus = EmbeddingStatus{IsTrained: e.embedder.Trained()}
	if a.EmbeddingStatus.IsTrained {
		a.EmbeddingStatus.LatentDim = e.cfg.Autoencoder.LatentDim
		a.EmbeddingStatus.ValidationLoss = e.embedder.ValidationLoss()
		a.EmbeddingStatus.TrainedAt = e.trainedAt
	}
	return a
}
