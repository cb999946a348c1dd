// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the connectorgen pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/connectorgen"
	"github.com/erraggy/connectorgen/internal/issues"
)

const serverInstructions = `connectorgen MCP server: normalizes API descriptions, binds mapping documents to them and assembles the connector IR.

Every tool call is an independent run; nothing is cached between calls.

Configuration: defaults are configurable via CONNECTORGEN_* environment variables set in your MCP client config.

Key settings:
- CONNECTORGEN_MAX_INLINE_SIZE (default: 10485760) maximum inline document size in bytes
- CONNECTORGEN_VALIDATE_STRICT (default: false) validate OpenAPI 3.0 descriptions with kin-openapi first
- CONNECTORGEN_PACKAGE_NAME, CONNECTORGEN_OUTPUT_PATH, CONNECTORGEN_SCHEMA_EXTRACTION, CONNECTORGEN_TARGET_VERSION generation defaults for generate_ir`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "connectorgen", Version: connectorgen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_ir",
		Description: "Run the full pipeline: normalize an OpenAPI 2.0 or 3.x description, bind the mapping document's object classes and attributes to its schemas, classify operations and assemble the IR. Returns per object class the selected Search/Insert/Modify/Delete operations, the test connection operation, connection properties and diagnostics. Use full=true to also return the canonical IR JSON.",
	}, handleGenerateIR)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_spec",
		Description: "Normalize an OpenAPI 2.0 or 3.x description into a reference-free schema graph and classify every operation. Returns the dialect, component schemas, operations with their category and the reason it was chosen, servers, security schemes and warnings. Use it to check how an API will be read before writing a mapping document.",
	}, handleNormalizeSpec)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_filter",
		Description: "Translate an RFC 4515 directory filter such as (&(cn=Bob*)(age>=30)) into API query parameters using the attribute bindings of one object class. Nodes that have no lossless translation (disjunctions, negations, unmapped attributes, undeclared comparison styles) are reported as unsupported; complete=false means the caller must filter those results itself.",
	}, handleCompileFilter)
}

// diagnosticOutput is the wire form of a diagnostic.
type diagnosticOutput struct {
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
	ObjectClass string `json:"object_class,omitempty"`
	Field       string `json:"field,omitempty"`
	Message     string `json:"message"`
}

func diagnostics(list []issues.Issue) []diagnosticOutput {
	out := makeSlice[diagnosticOutput](len(list))
	for _, d := range list {
		out = append(out, diagnosticOutput{
			Code:        d.Code,
			Severity:    d.Severity.String(),
			Path:        d.Path,
			ObjectClass: d.ObjectClass,
			Field:       d.Field,
			Message:     d.Message,
		})
	}
	return out
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
