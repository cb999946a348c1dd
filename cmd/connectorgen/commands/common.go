package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/connectorgen/internal/pathutil"
	"github.com/erraggy/connectorgen/ir"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format against the formats a
// command accepts.
func ValidateOutputFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return fmt.Errorf("invalid format '%s'. Valid formats: %v", format, allowed)
	}
	return nil
}

// MarshalStructured renders v as canonical JSON, or as YAML with the same
// sorted keys.
func MarshalStructured(v any, format string) ([]byte, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var generic any
		if err := dec.Decode(&generic); err != nil {
			return nil, fmt.Errorf("commands: re-decoding output: %w", err)
		}
		return yaml.Marshal(numbers(generic))
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}
}

// numbers replaces json.Number values with int64 or float64 so they
// encode as YAML numbers.
func numbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = numbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = numbers(e)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

// WriteOutput writes data to path, or to the command's stdout when path
// is empty. Output paths are sanitized and never follow symlinks.
func WriteOutput(cmd *cobra.Command, path string, data []byte, inputs ...string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if in == "" {
			continue
		}
		if abs, err := pathutil.SanitizeOutputPath(in); err == nil && abs == clean {
			return fmt.Errorf("output file %s would overwrite input file %s", path, in)
		}
	}
	if err := os.WriteFile(clean, data, 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	Writef(cmd.ErrOrStderr(), "Wrote %s\n", clean)
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
