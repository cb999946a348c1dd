// Package engine runs the connectorgen pipeline end to end.
//
// A run normalizes the API description, parses and binds the mapping
// document, classifies every operation and assembles the IR:
//
//	result, err := engine.Run(ctx, cfg,
//	    engine.WithSpecFile("openapi.yaml"),
//	    engine.WithMappingFile("mapping.yaml"),
//	)
//
// Each run is independent and shares no state with other runs. The context
// is checked between stages; a stage in progress always completes.
//
// [LoadConfig] reads the generation configuration from a YAML or JSON file,
// with CONNECTORGEN_* environment variables taking precedence.
package engine
