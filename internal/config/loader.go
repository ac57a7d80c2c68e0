package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load loads configuration from an optional YAML file, then overrides
// with environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables prefixed ORRERY_ (ORRERY_ENGINE_MAX_CONNECTIONS,
//     ORRERY_SERVER_PORT, ORRERY_LOGGING_LEVEL, ...)
//  2. YAML config file (when configPath is non-empty and exists)
//  3. Hardcoded defaults
//
// Environment variables map section-first: the first underscore after
// the prefix separates the section, the rest is the field name:
//
//	ORRERY_ENGINE_MIN_SIMILARITY_THRESHOLD -> engine.min_similarity_threshold
//	ORRERY_SERVER_FEEDBACK_RPS             -> server.feedback_rps
//	ORRERY_CATALOG_PATH                    -> catalog_path
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			f, err := os.Open(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("failed to stat config file: %w", err)
			}
			if info.Size() > maxConfigFileSize {
				return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
			}

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("ORRERY_", ".", transformEnv), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// transformEnv maps ORRERY_SECTION_FIELD_NAME to section.field_name.
// Top-level fields (catalog_path) have no known section and map flat.
func transformEnv(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, "ORRERY_"))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}

	switch parts[0] {
	case "engine", "server", "logging":
		return parts[0] + "." + parts[1]
	default:
		// catalog_path and any future top-level field
		return lower
	}
}
