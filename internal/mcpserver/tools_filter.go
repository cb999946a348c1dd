package mcpserver

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/filter"
)

type filterInput struct {
	Spec    documentInput `json:"spec"             jsonschema:"The API description (OpenAPI 2.0 or 3.x)"`
	Mapping documentInput `json:"mapping"          jsonschema:"The mapping document declaring the object class"`
	Class   string        `json:"class"            jsonschema:"Object class whose attribute bindings translate the filter"`
	Filter  string        `json:"filter"           jsonschema:"RFC 4515 filter text, e.g. (&(cn=Bob*)(age>=30))"`
	Strict  *bool         `json:"strict,omitempty" jsonschema:"Validate OpenAPI 3.0 descriptions with kin-openapi first"`
}

type queryParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type filterOutput struct {
	Class       string             `json:"class"`
	Complete    bool               `json:"complete"`
	Params      []queryParam       `json:"params,omitempty"`
	Unsupported []string           `json:"unsupported,omitempty"`
	Diagnostics []diagnosticOutput `json:"diagnostics,omitempty"`
}

func handleCompileFilter(ctx context.Context, _ *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, filterOutput, error) {
	if input.Class == "" {
		return errResult(fmt.Errorf("class is required")), filterOutput{}, nil
	}
	node, err := filter.Parse(input.Filter)
	if err != nil {
		return errResult(err), filterOutput{}, nil
	}

	opts, err := bindOptions(input.Spec, input.Mapping, input.Strict)
	if err != nil {
		return errResult(err), filterOutput{}, nil
	}
	_, bound, err := engine.Bind(ctx, opts...)
	if err != nil {
		return errResult(err), filterOutput{}, nil
	}
	oc, ok := bound.Class(input.Class)
	if !ok {
		return errResult(fmt.Errorf("object class %q is not declared in the mapping document", input.Class)), filterOutput{}, nil
	}

	q := filter.Compile(node, oc)
	output := filterOutput{
		Class:       oc.Name,
		Complete:    q.Complete(),
		Params:      makeSlice[queryParam](len(q.Params)),
		Diagnostics: diagnostics(q.Diagnostics),
	}
	for name, value := range q.Params {
		output.Params = append(output.Params, queryParam{Name: name, Value: value})
	}
	sort.Slice(output.Params, func(i, j int) bool { return output.Params[i].Name < output.Params[j].Name })
	for _, n := range q.Unsupported {
		output.Unsupported = append(output.Unsupported, n.String())
	}

	return nil, output, nil
}
