package engine

import (
	"context"
	"fmt"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/internal/logging"
	"github.com/erraggy/connectorgen/internal/options"
	"github.com/erraggy/connectorgen/ir"
	"github.com/erraggy/connectorgen/mapping"
	"github.com/erraggy/connectorgen/normalizer"
)

// Logger is the structured logger interface accepted by WithLogger.
type Logger = logging.Logger

// NopLogger discards all output.
type NopLogger = logging.NopLogger

// NewSlogAdapter wraps a *slog.Logger as a Logger.
var NewSlogAdapter = logging.NewSlogAdapter

// Option is a function that configures a run
type Option func(*runConfig) error

type runConfig struct {
	// API description source (exactly one must be set)
	specPath  *string
	specBytes []byte

	// Mapping document source (exactly one must be set)
	mappingPath  *string
	mappingBytes []byte

	strict bool
	logger Logger
}

// Run executes the pipeline once and returns the assembled IR.
//
// Errors from the stages are wrapped and keep their type, so callers can
// match them with errors.Is against the cgerrors sentinels. No partial IR
// is returned on failure.
func Run(ctx context.Context, cfg ir.Config, opts ...Option) (*ir.IR, error) {
	rc, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("engine: invalid options: %w", err)
	}
	log := rc.logger

	graph, bound, err := rc.bind(ctx)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	copts := ir.ClassifierOptions(cfg, bound)
	classified := classifier.New(graph, copts...).ClassifyAll()
	for _, c := range classified {
		log.Debug("classified operation",
			"operation", c.Operation.ID,
			"category", c.Category.String(),
			"scope", c.Scope.String())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := ir.Assemble(ir.Input{
		Graph:             graph,
		Mapping:           bound,
		Classified:        classified,
		ClassifierOptions: copts,
		Config:            cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: assemble: %w", err)
	}
	for _, d := range result.Diagnostics {
		log.Debug("diagnostic", "severity", d.Severity.String(), "code", d.Code, "path", d.Path, "message", d.Message)
	}
	log.Info("assembled ir",
		"objectClasses", len(result.ObjectClasses),
		"operations", len(result.Operations),
		"diagnostics", len(result.Diagnostics),
		"fingerprint", result.Fingerprint.String())
	return result, nil
}

// Bind runs the normalize and mapping stages only, returning the schema
// graph and the bound object classes. It accepts the same options as Run.
func Bind(ctx context.Context, opts ...Option) (*normalizer.SchemaGraph, *mapping.Result, error) {
	rc, err := applyOptions(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: invalid options: %w", err)
	}
	return rc.bind(ctx)
}

func (rc *runConfig) bind(ctx context.Context) (*normalizer.SchemaGraph, *mapping.Result, error) {
	log := rc.logger

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	graph, err := rc.normalize()
	if err != nil {
		return nil, nil, fmt.Errorf("engine: normalize: %w", err)
	}
	log.Info("normalized api description",
		"dialect", graph.Dialect.String(),
		"version", graph.Version,
		"operations", len(graph.Operations),
		"schemas", len(graph.Nodes))

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	doc, err := rc.mapping()
	if err != nil {
		return nil, nil, fmt.Errorf("engine: mapping: %w", err)
	}
	bound, err := mapping.Resolve(doc, graph)
	if err != nil {
		return nil, nil, fmt.Errorf("engine: mapping: %w", err)
	}
	for _, oc := range bound.Classes {
		log.Debug("bound object class",
			"class", oc.Name,
			"schema", oc.SchemaName,
			"attributes", len(oc.Attributes),
			"primaryKey", oc.PrimaryKey)
	}
	return graph, bound, nil
}

func (rc *runConfig) normalize() (*normalizer.SchemaGraph, error) {
	opts := []normalizer.Option{
		normalizer.WithStrictValidation(rc.strict),
		normalizer.WithLogger(rc.logger),
	}
	if rc.specPath != nil {
		opts = append(opts, normalizer.WithFilePath(*rc.specPath))
	} else {
		opts = append(opts, normalizer.WithBytes(rc.specBytes))
	}
	return normalizer.NormalizeWithOptions(opts...)
}

func (rc *runConfig) mapping() (*mapping.Document, error) {
	if rc.mappingPath != nil {
		return mapping.LoadFile(*rc.mappingPath)
	}
	return mapping.Parse(rc.mappingBytes)
}

func applyOptions(opts ...Option) (*runConfig, error) {
	rc := &runConfig{logger: NopLogger{}}

	for _, opt := range opts {
		if err := opt(rc); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"engine: must specify an API description (use WithSpecFile or WithSpecBytes)",
		"engine: must specify exactly one API description",
		rc.specPath != nil, rc.specBytes != nil,
	); err != nil {
		return nil, &cgerrors.ConfigError{Option: "spec", Message: err.Error()}
	}
	if err := options.ValidateSingleInputSource(
		"engine: must specify a mapping document (use WithMappingFile or WithMappingBytes)",
		"engine: must specify exactly one mapping document",
		rc.mappingPath != nil, rc.mappingBytes != nil,
	); err != nil {
		return nil, &cgerrors.ConfigError{Option: "mapping", Message: err.Error()}
	}

	return rc, nil
}

// WithSpecFile reads the API description from path.
func WithSpecFile(path string) Option {
	return func(rc *runConfig) error {
		if path == "" {
			return &cgerrors.ConfigError{Option: "WithSpecFile", Message: "path cannot be empty"}
		}
		rc.specPath = &path
		return nil
	}
}

// WithSpecBytes uses data as the API description.
func WithSpecBytes(data []byte) Option {
	return func(rc *runConfig) error {
		if data == nil {
			return &cgerrors.ConfigError{Option: "WithSpecBytes", Message: "bytes cannot be nil"}
		}
		rc.specBytes = data
		return nil
	}
}

// WithMappingFile reads the mapping document from path.
func WithMappingFile(path string) Option {
	return func(rc *runConfig) error {
		if path == "" {
			return &cgerrors.ConfigError{Option: "WithMappingFile", Message: "path cannot be empty"}
		}
		rc.mappingPath = &path
		return nil
	}
}

// WithMappingBytes uses data as the mapping document.
func WithMappingBytes(data []byte) Option {
	return func(rc *runConfig) error {
		if data == nil {
			return &cgerrors.ConfigError{Option: "WithMappingBytes", Message: "bytes cannot be nil"}
		}
		rc.mappingBytes = data
		return nil
	}
}

// WithStrictValidation validates OpenAPI 3.0 descriptions with kin-openapi
// before normalizing. Default: false
func WithStrictValidation(enabled bool) Option {
	return func(rc *runConfig) error {
		rc.strict = enabled
		return nil
	}
}

// WithLogger sets a structured logger for stage progress.
// By default, no logging is performed.
func WithLogger(l Logger) Option {
	return func(rc *runConfig) error {
		rc.logger = logging.OrNop(l)
		return nil
	}
}
