package normalizer

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/logging"
	"github.com/erraggy/connectorgen/internal/options"
)

// Logger is the structured logger interface accepted by WithLogger.
type Logger = logging.Logger

// NopLogger discards all output.
type NopLogger = logging.NopLogger

// NewSlogAdapter wraps a *slog.Logger as a Logger.
var NewSlogAdapter = logging.NewSlogAdapter

// Option is a function that configures a normalize operation
type Option func(*normalizeConfig) error

type normalizeConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	strict bool
	logger Logger
}

// Normalize parses and normalizes an API description held in data.
func Normalize(data []byte) (*SchemaGraph, error) {
	return NormalizeWithOptions(WithBytes(data))
}

// NormalizeWithOptions normalizes an API description using functional options.
//
// Example:
//
//	graph, err := normalizer.NormalizeWithOptions(
//	    normalizer.WithFilePath("openapi.yaml"),
//	    normalizer.WithStrictValidation(true),
//	)
func NormalizeWithOptions(opts ...Option) (*SchemaGraph, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("normalizer: invalid options: %w", err)
	}

	var data []byte
	switch {
	case cfg.filePath != nil:
		data, err = os.ReadFile(*cfg.filePath)
		if err != nil {
			return nil, fmt.Errorf("normalizer: failed to read file: %w", err)
		}
	case cfg.reader != nil:
		data, err = io.ReadAll(cfg.reader)
		if err != nil {
			return nil, fmt.Errorf("normalizer: failed to read input: %w", err)
		}
	default:
		data = cfg.bytes
	}

	return normalize(data, cfg)
}

func applyOptions(opts ...Option) (*normalizeConfig, error) {
	cfg := &normalizeConfig{logger: NopLogger{}}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"normalizer: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"normalizer: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *normalizeConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *normalizeConfig) error {
		if r == nil {
			return &cgerrors.ConfigError{Option: "WithReader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *normalizeConfig) error {
		if data == nil {
			return &cgerrors.ConfigError{Option: "WithBytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithStrictValidation additionally validates OpenAPI 3.0 documents with
// kin-openapi before normalizing. Default: false
func WithStrictValidation(enabled bool) Option {
	return func(cfg *normalizeConfig) error {
		cfg.strict = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output.
// By default, no logging is performed.
func WithLogger(l Logger) Option {
	return func(cfg *normalizeConfig) error {
		cfg.logger = logging.OrNop(l)
		return nil
	}
}
