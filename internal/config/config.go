// Package config provides configuration loading for orrery.
package config

import (
	"fmt"

	"github.com/orreryworks/orrery/internal/logging"
)

// EngineConfig tunes the relation engine.
type EngineConfig struct {
	// MinSimilarityThreshold is the graph edge floor (default 0.3)
	MinSimilarityThreshold float64 `koanf:"min_similarity_threshold"`

	// MaxConnections caps each adjacency list (default 10)
	MaxConnections int `koanf:"max_connections"`

	// HighSimilarity is the cluster traversal bar (default 0.6)
	HighSimilarity float64 `koanf:"high_similarity"`

	// MinClusterSize discards smaller clusters (default 3)
	MinClusterSize int `koanf:"min_cluster_size"`

	// JitterSeed seeds the per-session extractor randomness. Zero means
	// a time-derived seed; tests pin it for determinism.
	JitterSeed int64 `koanf:"jitter_seed"`

	// Workers bounds parallel matrix computation (default GOMAXPROCS)
	Workers int `koanf:"workers"`

	// TrainingEpochs is the embedding training epoch count (default 50)
	TrainingEpochs int `koanf:"training_epochs"`
}

// ServerConfig holds the HTTP surface configuration.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// FeedbackRPS rate-limits the feedback route (default 5/s)
	FeedbackRPS float64 `koanf:"feedback_rps"`
}

// Config is the full orrery configuration.
type Config struct {
	// CatalogPath is the JSON catalog file
	CatalogPath string `koanf:"catalog_path"`

	Engine  EngineConfig   `koanf:"engine"`
	Server  ServerConfig   `koanf:"server"`
	Logging logging.Config `koanf:"logging"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Engine.MinSimilarityThreshold < 0 || c.Engine.MinSimilarityThreshold > 1 {
		return fmt.Errorf("engine.min_similarity_threshold must be in [0,1], got %v", c.Engine.MinSimilarityThreshold)
	}
	if c.Engine.HighSimilarity < 0 || c.Engine.HighSimilarity > 1 {
		return fmt.Errorf("engine.high_similarity must be in [0,1], got %v", c.Engine.HighSimilarity)
	}
	if c.Engine.MaxConnections < 0 {
		return fmt.Errorf("engine.max_connections must be non-negative, got %d", c.Engine.MaxConnections)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Engine.MinSimilarityThreshold == 0 {
		cfg.Engine.MinSimilarityThreshold = 0.3
	}
	if cfg.Engine.MaxConnections == 0 {
		cfg.Engine.MaxConnections = 10
	}
	if cfg.Engine.HighSimilarity == 0 {
		cfg.Engine.HighSimilarity = 0.6
	}
	if cfg.Engine.MinClusterSize == 0 {
		cfg.Engine.MinClusterSize = 3
	}
	if cfg.Engine.TrainingEpochs == 0 {
		cfg.Engine.TrainingEpochs = 50
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9280
	}
	if cfg.Server.FeedbackRPS == 0 {
		cfg.Server.FeedbackRPS = 5
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
