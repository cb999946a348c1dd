package issues

import "fmt"

// OperationContext identifies the API operation an issue refers to.
type OperationContext struct {
	// Method is the HTTP method (GET, POST, etc.)
	Method string `json:"method,omitempty"`
	// Path is the API path pattern (e.g., "/users/{id}")
	Path string `json:"path,omitempty"`
	// OperationID is the operation identifier (explicit or synthesized)
	OperationID string `json:"operationId,omitempty"`
}

// String returns a formatted string representation of the operation context.
// Returns empty string if the context is empty.
func (c OperationContext) String() string {
	if c.IsEmpty() {
		return ""
	}

	if c.OperationID != "" {
		if c.Method != "" {
			return fmt.Sprintf("(operationId: %s, %s %s)", c.OperationID, c.Method, c.Path)
		}
		return fmt.Sprintf("(operationId: %s)", c.OperationID)
	}
	if c.Method != "" {
		return fmt.Sprintf("(%s %s)", c.Method, c.Path)
	}
	return fmt.Sprintf("(path: %s)", c.Path)
}

// IsEmpty returns true if the context has no meaningful information.
func (c OperationContext) IsEmpty() bool {
	return c.Method == "" && c.Path == "" && c.OperationID == ""
}
