// Package issues provides the unified diagnostic type attached to the IR.
package issues

import (
	"fmt"

	"github.com/erraggy/connectorgen/internal/severity"
)

// Diagnostic codes. Codes are stable identifiers renderers may switch on.
const (
	// CodeUnsupportedFilterNode marks a filter node with no lossless query translation.
	CodeUnsupportedFilterNode = "UnsupportedFilterNode"
	// CodeFilterParamCollision marks two And children writing the same query parameter.
	CodeFilterParamCollision = "FilterParamCollision"
	// CodeReadOnlyCapabilityOnly marks an object class with no Insert, Modify or Delete.
	CodeReadOnlyCapabilityOnly = "ReadOnlyCapabilityOnly"
	// CodeDuplicateCategoryMatch marks extra operations matching an already bound category.
	CodeDuplicateCategoryMatch = "DuplicateCategoryMatch"
	// CodeNoTestConnect marks an API with no usable connectivity probe.
	CodeNoTestConnect = "NoTestConnect"
	// CodeUnknownMappingKey marks an unrecognized top-level key in the mapping document.
	CodeUnknownMappingKey = "UnknownMappingKey"
	// CodeDuplicateOperationID marks an operation whose ID was suffixed to stay unique.
	CodeDuplicateOperationID = "DuplicateOperationID"
	// CodeIgnoredContent marks request or response content without a usable media type.
	CodeIgnoredContent = "IgnoredContent"
	// CodeImplicitPrimaryKey marks a primary key bound from the schema rather than the mapping.
	CodeImplicitPrimaryKey = "ImplicitPrimaryKey"
)

// Issue represents a single non-fatal finding made while building the IR.
type Issue struct {
	// Code is the stable diagnostic identifier (one of the Code* constants)
	Code string `json:"code"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity"`
	// Path is the JSON pointer of the related node in the API description or
	// mapping document (e.g., "/objectClasses/Items/attributes/1")
	Path string `json:"path,omitempty"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// ObjectClass is the object class the issue relates to, if any
	ObjectClass string `json:"objectClass,omitempty"`
	// Field is the specific attribute or field name that has the issue
	Field string `json:"field,omitempty"`
	// Value is the problematic value (optional)
	Value any `json:"value,omitempty"`
	// Context provides additional information about the issue (optional)
	Context string `json:"context,omitempty"`
	// OperationContext provides API operation context when the issue relates to
	// an operation. Nil when not applicable.
	OperationContext *OperationContext `json:"operation,omitempty"`
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	location := i.Path
	if i.ObjectClass != "" {
		location = "[" + i.ObjectClass + "]"
		if i.Path != "" {
			location += " " + i.Path
		}
	}
	if i.OperationContext != nil && !i.OperationContext.IsEmpty() {
		location = fmt.Sprintf("%s %s", location, i.OperationContext.String())
	}

	result := fmt.Sprintf("%s %s [%s]: %s", symbol, location, i.Code, i.Message)
	if i.Context != "" {
		result += fmt.Sprintf("\n    Context: %s", i.Context)
	}
	return result
}

// Count returns how many issues have the given severity.
func Count(list []Issue, s severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// WithCode returns the issues carrying the given code, in order.
func WithCode(list []Issue, code string) []Issue {
	var out []Issue
	for _, i := range list {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}
