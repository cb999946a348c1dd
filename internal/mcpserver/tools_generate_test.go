package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/connectorgen/internal/testutil"
)

func TestGenerateIRTool(t *testing.T) {
	t.Setenv("CONNECTORGEN_PACKAGE_NAME", "com.example.env")

	input := generateInput{
		Spec:             documentInput{Content: testutil.ItemsOAS3},
		Mapping:          documentInput{Content: testutil.ItemsMapping},
		SchemaExtraction: true,
	}
	result, output, err := handleGenerateIR(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.Equal(t, "Items API", output.Title)
	assert.Equal(t, "oas3", output.Dialect)
	assert.Equal(t, "3.0.3", output.APIVersion)
	assert.Equal(t, 5, output.OperationCount)
	assert.Equal(t, "healthCheck", output.TestConnect)
	assert.Equal(t, []string{"baseUrl", "xAPIKeyApiKey"}, output.ConnectionProperties)
	assert.Zero(t, output.DiagnosticCount)
	assert.NotEmpty(t, output.Fingerprint)
	assert.Empty(t, output.IR)
	assert.Contains(t, output.Summary, "test connect: healthCheck")

	require.Len(t, output.ObjectClasses, 1)
	oc := output.ObjectClasses[0]
	assert.Equal(t, "Items", oc.Name)
	assert.Equal(t, "item", oc.LDAPName)
	assert.Equal(t, "Item", oc.Schema)
	assert.Equal(t, "/items", oc.Endpoint)
	assert.Equal(t, "id", oc.PrimaryKey)
	assert.Equal(t, "id={id},o=example", oc.DN)
	assert.Equal(t, 3, oc.AttributeCount)
	assert.Equal(t, []lookupOutput{
		{Category: "Search", Scope: "list", OperationID: "listItems"},
		{Category: "Search", Scope: "base", OperationID: "getItem"},
		{Category: "Insert", OperationID: "createItem"},
		{Category: "Delete", OperationID: "deleteItem"},
	}, oc.Operations)
}

func TestGenerateIRTool_Full(t *testing.T) {
	input := generateInput{
		Spec:        documentInput{Content: testutil.ItemsOAS2},
		Mapping:     documentInput{Content: testutil.ItemsMapping},
		PackageName: "com.example.items",
		HealthPaths: []string{"/items"},
		Full:        true,
	}
	_, output, err := handleGenerateIR(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, "listItems", output.TestConnect)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.IR), &doc))
	assert.Equal(t, output.Fingerprint, doc["fingerprint"])
	config, ok := doc["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "com.example.items", config["packageName"])
}

func TestGenerateIRTool_Errors(t *testing.T) {
	noSearch := strings.Replace(testutil.ItemsMapping, "apiEndpoint: /items", "apiEndpoint: /health", 1)

	tests := []struct {
		name    string
		input   generateInput
		wantErr string
	}{
		{
			name:    "missing spec",
			input:   generateInput{Mapping: documentInput{Content: testutil.ItemsMapping}},
			wantErr: "spec: exactly one of file or content",
		},
		{
			name:    "missing mapping",
			input:   generateInput{Spec: documentInput{Content: testutil.ItemsOAS3}},
			wantErr: "mapping: exactly one of file or content",
		},
		{
			name: "malformed spec",
			input: generateInput{
				Spec:    documentInput{Content: "title: not an api"},
				Mapping: documentInput{Content: testutil.ItemsMapping},
			},
			wantErr: "MalformedSpec",
		},
		{
			name: "no search operation",
			input: generateInput{
				Spec:    documentInput{Content: testutil.ItemsOAS3},
				Mapping: documentInput{Content: noSearch},
			},
			wantErr: "NoSearchOperation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleGenerateIR(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text, ok := result.Content[0].(*mcp.TextContent)
			require.True(t, ok)
			assert.Contains(t, text.Text, tt.wantErr)
		})
	}
}

func TestGenerateInput_Config(t *testing.T) {
	t.Setenv("CONNECTORGEN_PACKAGE_NAME", "com.example.env")
	t.Setenv("CONNECTORGEN_OUTPUT_PATH", "env/out")
	t.Setenv("CONNECTORGEN_SCHEMA_EXTRACTION", "true")
	t.Setenv("CONNECTORGEN_TARGET_VERSION", "")

	c := generateInput{PackageName: "com.example.call", TargetVersion: "v3"}.config()
	assert.Equal(t, "com.example.call", c.PackageName)
	assert.Equal(t, "env/out", c.OutputPath)
	assert.True(t, c.SchemaExtraction)
	assert.Equal(t, "v3", c.TargetVersionTag)
}
