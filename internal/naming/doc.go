// Package naming provides shared case conversion utilities for connectorgen.
//
// Functions include ToPascalCase, ToCamelCase, ToLabel and Sanitize. They are
// used for:
//   - Normalizer: synthesized operation identifiers
//   - IR: connection property names and labels
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
