// Package connectorgen plans directory connectors from OpenAPI descriptions.
//
// Given an OpenAPI 2.0 or 3.x description of a REST backend and a mapping
// document that declares LDAP object classes and attributes, connectorgen
// binds the two, classifies every API operation and assembles an
// intermediate representation (IR) that a code generator turns into a
// connector.
//
// # Overview
//
// The work is split across these packages:
//
//   - normalizer: resolve an API description into a reference-free schema graph
//   - mapping: parse and validate the mapping document and bind it to the graph
//   - classifier: assign each operation a category such as Search or Insert
//   - filter: parse RFC 4515 filters and translate them into query parameters
//   - ir: assemble the IR, its diagnostics and its fingerprint
//   - engine: run the whole pipeline with functional options
//
// # Quick Start
//
//	cfg, err := engine.LoadConfig("connectorgen.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := engine.Run(ctx, cfg,
//		engine.WithSpecFile("openapi.yaml"),
//		engine.WithMappingFile("mapping.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(result.Summary())
//
// The same pipeline is available from the connectorgen command line tool
// and as MCP tools through "connectorgen mcp".
//
// # Determinism
//
// Identical inputs produce a byte-identical canonical IR and the same
// fingerprint. Object classes, attributes, lookup entries and diagnostics
// are all emitted in a fixed order.
//
// # Errors
//
// Failures are typed in package cgerrors and can be matched with errors.Is
// against its sentinels, for example cgerrors.ErrNoSearchOperation.
package connectorgen
