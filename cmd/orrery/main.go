// Package main implements the orrery CLI for running and querying the
// catalog relation engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orreryworks/orrery/internal/config"
	"github.com/orreryworks/orrery/internal/logging"
	"github.com/orreryworks/orrery/internal/telemetry"
	"github.com/orreryworks/orrery/pkg/catalog"
	"github.com/orreryworks/orrery/pkg/embedding"
	"github.com/orreryworks/orrery/pkg/engine"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// catalogPath overrides the configured catalog file
	catalogPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orrery",
	Short: "Catalog relation engine",
	Long: `orrery derives feature profiles for catalog projects, computes
pairwise similarity, builds a capped connection graph, discovers
clusters, learns from feedback, and exports the graph.

Most commands load a catalog file, build the engine, run one query,
and print the result; serve keeps the engine resident behind HTTP.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog JSON file (overrides config)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(similarityCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyticsCmd)
}

// setup loads config, logger, catalog, and constructs the engine.
// Every command shares it.
func setup(ctx context.Context, train bool) (*engine.Engine, *config.Config, *telemetry.Metrics, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if cfg.CatalogPath == "" {
		return nil, nil, nil, nil, fmt.Errorf("no catalog file: pass --catalog or set catalog_path in config")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	projects, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	autoencoder := embedding.DefaultAutoencoderConfig()
	if cfg.Engine.TrainingEpochs > 0 {
		autoencoder.Epochs = cfg.Engine.TrainingEpochs
	}

	metrics := telemetry.NewMetrics()
	eng, err := engine.New(ctx, engine.Config{
		MinSimilarityThreshold: cfg.Engine.MinSimilarityThreshold,
		MaxConnections:         cfg.Engine.MaxConnections,
		HighSimilarity:         cfg.Engine.HighSimilarity,
		MinClusterSize:         cfg.Engine.MinClusterSize,
		JitterSeed:             cfg.Engine.JitterSeed,
		Workers:                cfg.Engine.Workers,
		Autoencoder:            autoencoder,
		Logger:                 logger,
		Metrics:                metrics,
	}, projects)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if train {
		if _, err := eng.TrainEmbeddings(ctx); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("training embeddings: %w", err)
		}
	}
	return eng, cfg, metrics, logger, nil
}
