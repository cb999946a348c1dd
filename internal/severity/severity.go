// Package severity provides severity level constants and utilities
// for diagnostics attached to the generated IR.
//
//   - SeverityInfo: notes about choices made while planning (alternates, defaults)
//   - SeverityWarning: degraded output the caller should know about
//     (unsupported filter nodes, read-only object classes, ignored keys)
//   - SeverityError: findings that make part of the output unusable
//   - SeverityCritical: findings that would lose data if rendered as-is
package severity

import "fmt"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	// SeverityError indicates a finding that makes part of the output unusable.
	SeverityError Severity = iota

	// SeverityWarning indicates degraded but usable output.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates a finding that would lose data if ignored.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name so serialized IR stays readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("severity: unknown level %q", text)
	}
	return nil
}
