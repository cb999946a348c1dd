package cgerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSpec matches any SpecError.
	ErrSpec = errors.New("spec error")
	// ErrMalformedSpec matches a SpecError of kind MalformedSpec.
	ErrMalformedSpec = errors.New("malformed spec")
	// ErrUnresolvableReference matches a SpecError of kind UnresolvableReference.
	ErrUnresolvableReference = errors.New("unresolvable reference")

	// ErrMapping matches any MappingError.
	ErrMapping = errors.New("mapping error")
	// ErrSchemaViolation matches a MappingError of kind SchemaViolation.
	ErrSchemaViolation = errors.New("mapping schema violation")
	// ErrUnboundAttribute matches a MappingError of kind UnboundAttribute.
	ErrUnboundAttribute = errors.New("unbound attribute")
	// ErrNoPrimaryKey matches a MappingError of kind NoPrimaryKey.
	ErrNoPrimaryKey = errors.New("no primary key")
	// ErrAmbiguousBinding matches a MappingError of kind AmbiguousBinding.
	ErrAmbiguousBinding = errors.New("ambiguous binding")
	// ErrNoSearchOperation matches a MappingError of kind NoSearchOperation.
	ErrNoSearchOperation = errors.New("no search operation")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SpecErrorKind classifies a SpecError.
type SpecErrorKind int

const (
	// MalformedSpec means a required section is missing or has the wrong shape.
	MalformedSpec SpecErrorKind = iota
	// UnresolvableReference means a $ref target could not be located.
	UnresolvableReference
)

// String returns the kind name.
func (k SpecErrorKind) String() string {
	switch k {
	case MalformedSpec:
		return "MalformedSpec"
	case UnresolvableReference:
		return "UnresolvableReference"
	default:
		return "unknown"
	}
}

// SpecError represents a failure to normalize an API description.
type SpecError struct {
	// Kind is the failure category
	Kind SpecErrorKind
	// Path is the JSON pointer of the offending node (e.g., "/paths/~1items/get")
	Path string
	// Ref is the reference string that failed to resolve, if any
	Ref string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecError) Error() string {
	msg := "spec error (" + e.Kind.String() + ")"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" [ref %s]", e.Ref)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type or its kind.
func (e *SpecError) Is(target error) bool {
	switch target {
	case ErrSpec:
		return true
	case ErrMalformedSpec:
		return e.Kind == MalformedSpec
	case ErrUnresolvableReference:
		return e.Kind == UnresolvableReference
	}
	return false
}

// MappingErrorKind classifies a MappingError.
type MappingErrorKind int

const (
	// SchemaViolation means the mapping document does not match its schema,
	// or names a backend entity that does not exist.
	SchemaViolation MappingErrorKind = iota
	// UnboundAttribute means a declared attribute matches no backend field.
	UnboundAttribute
	// NoPrimaryKey means no identity attribute could be determined.
	NoPrimaryKey
	// AmbiguousBinding means a name or identity is claimed more than once.
	AmbiguousBinding
	// NoSearchOperation means an object class has no Search-capable operation.
	NoSearchOperation
)

var mappingKindNames = map[MappingErrorKind]string{
	SchemaViolation:   "SchemaViolation",
	UnboundAttribute:  "UnboundAttribute",
	NoPrimaryKey:      "NoPrimaryKey",
	AmbiguousBinding:  "AmbiguousBinding",
	NoSearchOperation: "NoSearchOperation",
}

// String returns the kind name.
func (k MappingErrorKind) String() string {
	if s, ok := mappingKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MappingError represents a failure to validate or bind the mapping document.
type MappingError struct {
	// Kind is the failure category
	Kind MappingErrorKind
	// ObjectClass is the object class being resolved (empty for document-level errors)
	ObjectClass string
	// Attribute is the attribute being resolved, if any
	Attribute string
	// Path is the location inside the mapping document (e.g., "/objectClasses/Items/attributes/2")
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MappingError) Error() string {
	msg := "mapping error (" + e.Kind.String() + ")"
	if e.ObjectClass != "" {
		msg += " in object class " + e.ObjectClass
		if e.Attribute != "" {
			msg += ", attribute " + e.Attribute
		}
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type or its kind.
func (e *MappingError) Is(target error) bool {
	switch target {
	case ErrMapping:
		return true
	case ErrSchemaViolation:
		return e.Kind == SchemaViolation
	case ErrUnboundAttribute:
		return e.Kind == UnboundAttribute
	case ErrNoPrimaryKey:
		return e.Kind == NoPrimaryKey
	case ErrAmbiguousBinding:
		return e.Kind == AmbiguousBinding
	case ErrNoSearchOperation:
		return e.Kind == NoSearchOperation
	}
	return false
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
