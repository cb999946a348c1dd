package mcpserver

import (
	"fmt"

	"github.com/erraggy/connectorgen/engine"
	"github.com/erraggy/connectorgen/normalizer"
)

// documentInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON or YAML file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// validate checks the input shape. what names the document in errors.
func (d documentInput) validate(what string) error {
	count := 0
	if d.File != "" {
		count++
	}
	if d.Content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("%s: exactly one of file or content must be provided (got %d)", what, count)
	}

	// Enforce inline content size limit.
	if int64(len(d.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("%s: inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set CONNECTORGEN_MAX_INLINE_SIZE to increase",
			what, len(d.Content), cfg.MaxInlineSize)
	}
	return nil
}

func (d documentInput) specOption() engine.Option {
	if d.File != "" {
		return engine.WithSpecFile(d.File)
	}
	return engine.WithSpecBytes([]byte(d.Content))
}

func (d documentInput) mappingOption() engine.Option {
	if d.File != "" {
		return engine.WithMappingFile(d.File)
	}
	return engine.WithMappingBytes([]byte(d.Content))
}

func (d documentInput) normalizerOption() normalizer.Option {
	if d.File != "" {
		return normalizer.WithFilePath(d.File)
	}
	return normalizer.WithBytes([]byte(d.Content))
}

// bindOptions validates spec and mapping and returns the engine options
// reading them.
func bindOptions(spec, mapping documentInput, strict *bool) ([]engine.Option, error) {
	if err := spec.validate("spec"); err != nil {
		return nil, err
	}
	if err := mapping.validate("mapping"); err != nil {
		return nil, err
	}
	return []engine.Option{
		spec.specOption(),
		mapping.mappingOption(),
		engine.WithStrictValidation(strictOrDefault(strict)),
	}, nil
}

func strictOrDefault(strict *bool) bool {
	if strict != nil {
		return *strict
	}
	return cfg.ValidateStrict
}
