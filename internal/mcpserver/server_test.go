package mcpserver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/severity"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error returns empty string",
			err:  nil,
			want: "",
		},
		{
			name: "strips absolute path",
			err:  fmt.Errorf("failed to open /home/user/secret/api.yaml: no such file"),
			want: "failed to open <path>: no such file",
		},
		{
			name: "preserves non-path content",
			err:  fmt.Errorf("mapping schema violation at /objectClasses/Items"),
			want: "mapping schema violation at /objectClasses/Items",
		},
		{
			name: "strips multiple paths",
			err:  fmt.Errorf("bind /tmp/a.yaml to /tmp/b.yaml failed"),
			want: "bind <path> to <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeError(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiagnostics(t *testing.T) {
	assert.Nil(t, diagnostics(nil))

	got := diagnostics([]issues.Issue{{
		Code:        issues.CodeReadOnlyCapabilityOnly,
		Severity:    severity.SeverityWarning,
		Path:        "/objectClasses/Items",
		ObjectClass: "Items",
		Message:     "read-only",
	}})
	assert.Equal(t, []diagnosticOutput{{
		Code:        "ReadOnlyCapabilityOnly",
		Severity:    "warning",
		Path:        "/objectClasses/Items",
		ObjectClass: "Items",
		Message:     "read-only",
	}}, got)
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](3)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}
