// Package cgerrors provides structured error types for connectorgen.
//
// Import path: github.com/erraggy/connectorgen/cgerrors
//
// Structural failures halt the generation pipeline. They are reported as one of
// three error types, each matchable through [errors.Is] and [errors.As]:
//
//   - [SpecError]: the API description is malformed or a $ref cannot be located
//   - [MappingError]: the mapping document violates its schema or cannot be bound
//   - [ConfigError]: an option or configuration value is invalid
//
// # Sentinel Errors
//
// Every error type matches its category sentinel, and the specific kind sentinel:
//
//   - [ErrSpec], [ErrMalformedSpec], [ErrUnresolvableReference]
//   - [ErrMapping], [ErrSchemaViolation], [ErrUnboundAttribute], [ErrNoPrimaryKey],
//     [ErrAmbiguousBinding], [ErrNoSearchOperation]
//   - [ErrConfig]
//
// # Usage Examples
//
//	graph, err := normalizer.Normalize(data)
//	if errors.Is(err, cgerrors.ErrUnresolvableReference) {
//	    var specErr *cgerrors.SpecError
//	    errors.As(err, &specErr)
//	    fmt.Printf("missing target for %s at %s\n", specErr.Ref, specErr.Path)
//	}
//
// Non-fatal findings are never errors; they travel as diagnostics on the IR.
package cgerrors
