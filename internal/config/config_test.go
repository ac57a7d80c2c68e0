package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Engine.MinSimilarityThreshold)
	assert.Equal(t, 10, cfg.Engine.MaxConnections)
	assert.Equal(t, 0.6, cfg.Engine.HighSimilarity)
	assert.Equal(t, 3, cfg.Engine.MinClusterSize)
	assert.Equal(t, 50, cfg.Engine.TrainingEpochs)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 9280, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Server.FeedbackRPS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog_path: /data/catalog.json
engine:
  min_similarity_threshold: 0.4
  max_connections: 7
server:
  port: 8080
logging:
  level: debug
  format: console
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/catalog.json", cfg.CatalogPath)
	assert.Equal(t, 0.4, cfg.Engine.MinSimilarityThreshold)
	assert.Equal(t, 7, cfg.Engine.MaxConnections)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	// Untouched fields keep their defaults.
	assert.Equal(t, 0.6, cfg.Engine.HighSimilarity)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9280, cfg.Server.Port)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600))

	t.Setenv("ORRERY_SERVER_PORT", "9999")
	t.Setenv("ORRERY_ENGINE_MIN_SIMILARITY_THRESHOLD", "0.25")
	t.Setenv("ORRERY_CATALOG_PATH", "/env/catalog.json")
	t.Setenv("ORRERY_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 0.25, cfg.Engine.MinSimilarityThreshold)
	assert.Equal(t, "/env/catalog.json", cfg.CatalogPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "threshold above 1",
			mutate:  func(c *Config) { c.Engine.MinSimilarityThreshold = 1.5 },
			wantErr: "min_similarity_threshold",
		},
		{
			name:    "negative high similarity",
			mutate:  func(c *Config) { c.Engine.HighSimilarity = -0.1 },
			wantErr: "high_similarity",
		},
		{
			name:    "negative max connections",
			mutate:  func(c *Config) { c.Engine.MaxConnections = -1 },
			wantErr: "max_connections",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ORRERY_ENGINE_MIN_SIMILARITY_THRESHOLD", "engine.min_similarity_threshold"},
		{"ORRERY_SERVER_FEEDBACK_RPS", "server.feedback_rps"},
		{"ORRERY_LOGGING_LEVEL", "logging.level"},
		{"ORRERY_CATALOG_PATH", "catalog_path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnv(tt.in), tt.in)
	}
}
