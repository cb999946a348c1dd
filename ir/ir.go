package ir

import (
	"github.com/google/uuid"

	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/mapping"
	"github.com/erraggy/connectorgen/normalizer"
)

// Diagnostic is a non-fatal finding attached to the IR.
type Diagnostic = issues.Issue

// Config is the generation configuration record. Its values pass through
// into IR.Config untouched.
type Config struct {
	OutputPath       string `json:"outputPath,omitempty" yaml:"outputPath"`
	PackageName      string `json:"packageName,omitempty" yaml:"packageName"`
	SchemaExtraction bool   `json:"schemaExtraction" yaml:"schemaExtraction"`
	TargetVersionTag string `json:"targetVersionTag,omitempty" yaml:"targetVersionTag"`
	// HealthPaths replaces the default connectivity probe paths.
	HealthPaths []string `json:"healthPaths,omitempty" yaml:"healthPaths"`
}

// IR is the assembled intermediate representation.
type IR struct {
	Title      string             `json:"title,omitempty"`
	Dialect    normalizer.Dialect `json:"dialect"`
	APIVersion string             `json:"apiVersion"`

	ObjectClasses   []ObjectClass               `json:"objectClasses"`
	Operations      []Operation                 `json:"operations"`
	Schemas         []normalizer.SchemaNode     `json:"schemas"`
	SecuritySchemes []normalizer.SecurityScheme `json:"securitySchemes,omitempty"`
	Servers         []normalizer.Server         `json:"servers"`
	// TestConnect is the ID of the connectivity probe operation, if any.
	TestConnect          string               `json:"testConnect,omitempty"`
	ConnectionProperties []ConnectionProperty `json:"connectionProperties"`
	// SchemaExtraction is only filled when Config.SchemaExtraction is set.
	SchemaExtraction []ClassSchema `json:"schemaExtraction,omitempty"`

	Config      Config       `json:"config"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// Fingerprint identifies the canonical form of everything above.
	Fingerprint uuid.UUID `json:"fingerprint"`
}

// ObjectClass is a bound object class with its operation lookup table.
type ObjectClass struct {
	mapping.ObjectClass
	// Table is the operation lookup table in classifier.Keys order.
	Table []LookupEntry `json:"lookup"`
	// ReadOnly is set when the class has no Insert, Modify or Delete.
	ReadOnly bool `json:"readOnlyCapabilityOnly,omitempty"`
}

// Operation returns the lookup entry for category and scope.
func (oc *ObjectClass) Operation(category classifier.Category, scope classifier.Scope) (LookupEntry, bool) {
	for _, e := range oc.Table {
		if e.Category == category && e.Scope == scope {
			return e, true
		}
	}
	return LookupEntry{}, false
}

// LookupEntry maps one (category, scope) slot to an operation.
type LookupEntry struct {
	Category    classifier.Category `json:"category"`
	Scope       classifier.Scope    `json:"scope,omitempty"`
	OperationID string              `json:"operationId"`
	Alternates  []string            `json:"alternates,omitempty"`
}

// Operation is an API operation with its category.
type Operation struct {
	ID            string              `json:"operationId"`
	Method        string              `json:"method"`
	Path          string              `json:"path"`
	Summary       string              `json:"summary,omitempty"`
	Category      classifier.Category `json:"category"`
	Scope         classifier.Scope    `json:"scope,omitempty"`
	Reason        string              `json:"reason"`
	PathParams    []string            `json:"pathParams,omitempty"`
	QueryParams   []string            `json:"queryParams,omitempty"`
	RequestBody   normalizer.NodeID   `json:"requestBody,omitempty"`
	Response      normalizer.NodeID   `json:"response,omitempty"`
	Security      []string            `json:"security,omitempty"`
	SynthesizedID bool                `json:"synthesizedId,omitempty"`
}

// Class returns the object class with the given name.
func (r *IR) Class(name string) (*ObjectClass, bool) {
	for i := range r.ObjectClasses {
		if r.ObjectClasses[i].Name == name {
			return &r.ObjectClasses[i], true
		}
	}
	return nil, false
}

// Operation returns the operation with the given ID.
func (r *IR) Operation(id string) (*Operation, bool) {
	for i := range r.Operations {
		if r.Operations[i].ID == id {
			return &r.Operations[i], true
		}
	}
	return nil, false
}
