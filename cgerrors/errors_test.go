package cgerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSpecError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &SpecError{
			Kind:    UnresolvableReference,
			Path:    "/paths/~1items/get/responses/200",
			Ref:     "#/components/schemas/Missing",
			Message: "target not found",
			Cause:   errors.New("missing key: Missing"),
		}
		want := "spec error (UnresolvableReference) at /paths/~1items/get/responses/200 [ref #/components/schemas/Missing]: target not found: missing key: Missing"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &SpecError{}
		if err.Error() != "spec error (MalformedSpec)" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches category and kind", func(t *testing.T) {
		err := fmt.Errorf("normalize: %w", &SpecError{Kind: MalformedSpec})
		if !errors.Is(err, ErrSpec) {
			t.Error("expected ErrSpec to match")
		}
		if !errors.Is(err, ErrMalformedSpec) {
			t.Error("expected ErrMalformedSpec to match")
		}
		if errors.Is(err, ErrUnresolvableReference) {
			t.Error("ErrUnresolvableReference should not match a MalformedSpec error")
		}
		if errors.Is(err, ErrMapping) {
			t.Error("ErrMapping should not match a SpecError")
		}
	})

	t.Run("As extracts details", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &SpecError{Kind: UnresolvableReference, Ref: "#/definitions/X"})
		var specErr *SpecError
		if !errors.As(err, &specErr) {
			t.Fatal("errors.As should find SpecError")
		}
		if specErr.Ref != "#/definitions/X" {
			t.Errorf("unexpected ref: %s", specErr.Ref)
		}
	})
}

func TestMappingError(t *testing.T) {
	t.Run("Error message with class and attribute", func(t *testing.T) {
		err := &MappingError{
			Kind:        UnboundAttribute,
			ObjectClass: "Items",
			Attribute:   "colour",
			Path:        "/objectClasses/Items/attributes/3",
			Message:     "no field named colour",
		}
		want := "mapping error (UnboundAttribute) in object class Items, attribute colour at /objectClasses/Items/attributes/3: no field named colour"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	kinds := []struct {
		kind     MappingErrorKind
		sentinel error
	}{
		{SchemaViolation, ErrSchemaViolation},
		{UnboundAttribute, ErrUnboundAttribute},
		{NoPrimaryKey, ErrNoPrimaryKey},
		{AmbiguousBinding, ErrAmbiguousBinding},
		{NoSearchOperation, ErrNoSearchOperation},
	}
	for _, tc := range kinds {
		t.Run("Is "+tc.kind.String(), func(t *testing.T) {
			err := &MappingError{Kind: tc.kind}
			if !errors.Is(err, ErrMapping) {
				t.Error("expected ErrMapping to match")
			}
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("expected %v to match", tc.sentinel)
			}
			for _, other := range kinds {
				if other.kind != tc.kind && errors.Is(err, other.sentinel) {
					t.Errorf("%v should not match kind %s", other.sentinel, tc.kind)
				}
			}
		})
	}

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("jsonschema: missing properties")
		err := &MappingError{Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the cause")
		}
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "packageName", Value: 42, Message: "must be a string"}
	if err.Error() != "configuration error for packageName (value: 42): must be a string" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("expected ErrConfig to match")
	}
	if errors.Is(err, ErrSpec) {
		t.Error("ErrSpec should not match a ConfigError")
	}
}
