package engine

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/ir"
)

// Environment variables that override configuration file values.
const (
	EnvPackageName      = "CONNECTORGEN_PACKAGE_NAME"
	EnvOutputPath       = "CONNECTORGEN_OUTPUT_PATH"
	EnvSchemaExtraction = "CONNECTORGEN_SCHEMA_EXTRACTION"
	EnvTargetVersion    = "CONNECTORGEN_TARGET_VERSION"
)

// LoadConfig reads a YAML or JSON configuration file and applies the
// CONNECTORGEN_* environment overrides. An empty path yields the
// environment overrides alone.
func LoadConfig(path string) (ir.Config, error) {
	var cfg ir.Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return ir.Config{}, fmt.Errorf("engine: failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ir.Config{}, &cgerrors.ConfigError{Option: "config", Value: path, Message: "invalid configuration file", Cause: err}
		}
	}
	return ApplyEnv(cfg), nil
}

// ApplyEnv returns cfg with the CONNECTORGEN_* environment overrides applied.
// Invalid values log a warning and leave the field unchanged.
func ApplyEnv(cfg ir.Config) ir.Config {
	cfg.PackageName = envString(EnvPackageName, cfg.PackageName)
	cfg.OutputPath = envString(EnvOutputPath, cfg.OutputPath)
	cfg.SchemaExtraction = envBool(EnvSchemaExtraction, cfg.SchemaExtraction)
	cfg.TargetVersionTag = envString(EnvTargetVersion, cfg.TargetVersionTag)
	return cfg
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}
