package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/ir"
)

type generateInput struct {
	Spec             documentInput `json:"spec"                        jsonschema:"The API description (OpenAPI 2.0 or 3.x)"`
	Mapping          documentInput `json:"mapping"                     jsonschema:"The mapping document binding object classes to API schemas"`
	PackageName      string        `json:"package_name,omitempty"      jsonschema:"Package name of the generated connector"`
	OutputPath       string        `json:"output_path,omitempty"       jsonschema:"Output path recorded in the IR configuration"`
	SchemaExtraction bool          `json:"schema_extraction,omitempty" jsonschema:"Derive directory attribute syntaxes per object class"`
	TargetVersion    string        `json:"target_version,omitempty"    jsonschema:"Target version tag recorded in the IR configuration"`
	HealthPaths      []string      `json:"health_paths,omitempty"      jsonschema:"Connectivity probe paths replacing the defaults"`
	Strict           *bool         `json:"strict,omitempty"            jsonschema:"Validate OpenAPI 3.0 descriptions with kin-openapi first"`
	Full             bool          `json:"full,omitempty"              jsonschema:"Also return the canonical IR JSON"`
}

type lookupOutput struct {
	Category    string   `json:"category"`
	Scope       string   `json:"scope,omitempty"`
	OperationID string   `json:"operation_id"`
	Alternates  []string `json:"alternates,omitempty"`
}

type classOutput struct {
	Name           string         `json:"name"`
	LDAPName       string         `json:"ldap_name"`
	Schema         string         `json:"schema"`
	Endpoint       string         `json:"endpoint"`
	PrimaryKey     string         `json:"primary_key"`
	DN             string         `json:"dn"`
	AttributeCount int            `json:"attribute_count"`
	ReadOnly       bool           `json:"read_only,omitempty"`
	Operations     []lookupOutput `json:"operations"`
}

type generateOutput struct {
	Title                string             `json:"title,omitempty"`
	Dialect              string             `json:"dialect"`
	APIVersion           string             `json:"api_version"`
	Fingerprint          string             `json:"fingerprint"`
	ObjectClasses        []classOutput      `json:"object_classes"`
	OperationCount       int                `json:"operation_count"`
	TestConnect          string             `json:"test_connect,omitempty"`
	ConnectionProperties []string           `json:"connection_properties,omitempty"`
	DiagnosticCount      int                `json:"diagnostic_count"`
	Diagnostics          []diagnosticOutput `json:"diagnostics,omitempty"`
	Summary              string             `json:"summary"`
	IR                   string             `json:"ir,omitempty"`
}

func handleGenerateIR(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	opts, err := bindOptions(input.Spec, input.Mapping, input.Strict)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	result, err := engine.Run(ctx, input.config(), opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Title:           result.Title,
		Dialect:         result.Dialect.String(),
		APIVersion:      result.APIVersion,
		Fingerprint:     result.Fingerprint.String(),
		OperationCount:  len(result.Operations),
		TestConnect:     result.TestConnect,
		DiagnosticCount: len(result.Diagnostics),
		Diagnostics:     diagnostics(result.Diagnostics),
		Summary:         result.Summary(),
	}
	for _, oc := range result.ObjectClasses {
		co := classOutput{
			Name:           oc.Name,
			LDAPName:       oc.LDAPName,
			Schema:         oc.SchemaName,
			Endpoint:       oc.Endpoint,
			PrimaryKey:     oc.PrimaryKey,
			DN:             oc.DN.String(),
			AttributeCount: len(oc.Attributes),
			ReadOnly:       oc.ReadOnly,
		}
		for _, e := range oc.Table {
			co.Operations = append(co.Operations, lookupOutput{
				Category:    e.Category.String(),
				Scope:       e.Scope.String(),
				OperationID: e.OperationID,
				Alternates:  e.Alternates,
			})
		}
		output.ObjectClasses = append(output.ObjectClasses, co)
	}
	for _, p := range result.ConnectionProperties {
		output.ConnectionProperties = append(output.ConnectionProperties, p.Name)
	}

	if input.Full {
		data, err := ir.MarshalCanonical(result)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		output.IR = string(data)
	}

	return nil, output, nil
}

// config layers the call's settings over the environment defaults.
func (in generateInput) config() ir.Config {
	c := engine.ApplyEnv(ir.Config{})
	if in.PackageName != "" {
		c.PackageName = in.PackageName
	}
	if in.OutputPath != "" {
		c.OutputPath = in.OutputPath
	}
	if in.SchemaExtraction {
		c.SchemaExtraction = true
	}
	if in.TargetVersion != "" {
		c.TargetVersionTag = in.TargetVersion
	}
	c.HealthPaths = in.HealthPaths
	return c
}
