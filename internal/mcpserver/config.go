package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// MaxInlineSize caps inline document content, in bytes.
	MaxInlineSize int64

	// ValidateStrict is the strict validation default for tools that
	// normalize an API description.
	ValidateStrict bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from CONNECTORGEN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
// Generation settings (package name, schema extraction, ...) are read per
// call through engine.ApplyEnv.
func loadConfig() *serverConfig {
	return &serverConfig{
		MaxInlineSize:  envInt64("CONNECTORGEN_MAX_INLINE_SIZE", 10*1024*1024),
		ValidateStrict: envBool("CONNECTORGEN_VALIDATE_STRICT", false),
	}
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

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}
