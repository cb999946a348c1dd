package mapping

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/connectorgen/internal/rawdoc"
)

//go:embed schema/*.json
var schemaFS embed.FS

var (
	documentSchema    = mustResolve("schema/document.json")
	objectClassSchema = mustResolve("schema/objectclass.json")
	attributeSchema   = mustResolve("schema/attribute.json")
)

func mustResolve(name string) *jsonschema.Resolved {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("mapping: reading %s: %v", name, err))
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		panic(fmt.Sprintf("mapping: decoding %s: %v", name, err))
	}
	rs, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("mapping: resolving %s: %v", name, err))
	}
	return rs
}

// validateNode checks n against rs. The node is converted to its JSON data
// model first, so YAML scalars validate exactly like their JSON spelling.
func validateNode(rs *jsonschema.Resolved, n *yaml.Node, at string) error {
	v, err := rawdoc.Value(n)
	if err != nil {
		return violation(at, "cannot decode value", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return violation(at, "value is not representable as JSON", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return violation(at, "value is not representable as JSON", err)
	}
	if err := rs.Validate(instance); err != nil {
		return violation(at, "does not match the mapping schema", err)
	}
	return nil
}
