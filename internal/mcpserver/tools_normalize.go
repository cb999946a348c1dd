package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/normalizer"
)

type normalizeInput struct {
	Spec        documentInput `json:"spec"                   jsonschema:"The API description to normalize"`
	Strict      *bool         `json:"strict,omitempty"       jsonschema:"Validate OpenAPI 3.0 descriptions with kin-openapi first"`
	HealthPaths []string      `json:"health_paths,omitempty" jsonschema:"Connectivity probe paths replacing the defaults"`
}

type operationOutput struct {
	OperationID   string `json:"operation_id"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	Category      string `json:"category"`
	Scope         string `json:"scope,omitempty"`
	Reason        string `json:"reason"`
	SynthesizedID bool   `json:"synthesized_id,omitempty"`
}

type normalizeOutput struct {
	Dialect         string             `json:"dialect"`
	Version         string             `json:"version"`
	Title           string             `json:"title,omitempty"`
	NodeCount       int                `json:"node_count"`
	Components      []string           `json:"components,omitempty"`
	Operations      []operationOutput  `json:"operations,omitempty"`
	Servers         []string           `json:"servers,omitempty"`
	SecuritySchemes []string           `json:"security_schemes,omitempty"`
	TestConnect     string             `json:"test_connect,omitempty"`
	Warnings        []diagnosticOutput `json:"warnings,omitempty"`
}

func handleNormalizeSpec(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	if err := input.Spec.validate("spec"); err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	graph, err := normalizer.NormalizeWithOptions(
		input.Spec.normalizerOption(),
		normalizer.WithStrictValidation(strictOrDefault(input.Strict)),
	)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{
		Dialect:   graph.Dialect.String(),
		Version:   graph.Version,
		Title:     graph.Title,
		NodeCount: len(graph.Nodes),
		Warnings:  diagnostics(graph.Warnings),
	}

	output.Components = makeSlice[string](len(graph.Components))
	for name := range graph.Components {
		output.Components = append(output.Components, name)
	}
	sort.Strings(output.Components)

	cl := classifier.New(graph, classifier.WithProbePaths(input.HealthPaths...))
	for _, c := range cl.ClassifyAll() {
		output.Operations = append(output.Operations, operationOutput{
			OperationID:   c.Operation.ID,
			Method:        c.Operation.Method,
			Path:          c.Operation.Path,
			Category:      c.Category.String(),
			Scope:         c.Scope.String(),
			Reason:        c.Reason,
			SynthesizedID: c.Operation.SynthesizedID,
		})
	}
	if op, ok := cl.TestConnect(); ok {
		output.TestConnect = op.ID
	}

	for _, s := range graph.Servers {
		output.Servers = append(output.Servers, s.ResolvedURL())
	}
	for _, s := range graph.SecuritySchemes {
		output.SecuritySchemes = append(output.SecuritySchemes, s.Name)
	}

	return nil, output, nil
}
