// Package normalizer turns an API description into a reference-free schema graph.
//
// Both OpenAPI 2.0 ("Swagger") and OpenAPI 3.x documents are accepted, as JSON
// or YAML. The dialect is detected from structural markers and the result is a
// single [SchemaGraph] shape regardless of the source dialect:
//
//	graph, err := normalizer.Normalize(data)
//	if err != nil {
//	    return err // *cgerrors.SpecError
//	}
//	for _, op := range graph.Operations {
//	    fmt.Println(op.ID, op.Method, op.Path)
//	}
//
// # Schema graph
//
// Schemas live in an arena ([SchemaGraph.Nodes]) and refer to each other by
// [NodeID]. A named component is built once and shared by every parent that
// references it. A reference met while that same reference is still being
// resolved becomes a [KindBackRef] node pointing at the in-progress node, so
// recursive schemas terminate and keep their shape.
//
// # Options
//
// [NormalizeWithOptions] follows the functional options pattern:
//
//	graph, err := normalizer.NormalizeWithOptions(
//	    normalizer.WithFilePath("openapi.yaml"),
//	    normalizer.WithStrictValidation(true),
//	    normalizer.WithLogger(logger),
//	)
package normalizer
