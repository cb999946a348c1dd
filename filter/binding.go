package filter

import (
	"slices"
	"strings"
)

// Operator is a comparison style a backend query parameter supports.
type Operator string

// Comparison styles.
const (
	OpEq        Operator = "eq"
	OpPresent   Operator = "present"
	OpSubstring Operator = "substring"
	OpGte       Operator = "gte"
	OpLte       Operator = "lte"
	OpApprox    Operator = "approx"
)

// AllOperators lists every comparison style in canonical order.
var AllOperators = []Operator{OpEq, OpPresent, OpSubstring, OpGte, OpLte, OpApprox}

// opSuffix is the parameter suffix of each non-equality comparison style.
var opSuffix = map[Operator]string{
	OpSubstring: "like",
	OpGte:       "gte",
	OpLte:       "lte",
	OpApprox:    "approx",
}

// SuffixStyle controls how comparison suffixes attach to a parameter name.
type SuffixStyle string

const (
	// SuffixUnderscore renders "<param>_gte". It is the default.
	SuffixUnderscore SuffixStyle = "underscore"
	// SuffixBracket renders "<param>[gte]".
	SuffixBracket SuffixStyle = "bracket"
)

// Binding describes how one directory attribute maps to query parameters.
type Binding struct {
	// Param is the base query parameter name. Empty means not filterable.
	Param       string
	Operators   []Operator
	SuffixStyle SuffixStyle
}

// Supports reports whether the binding declares the comparison style.
func (b Binding) Supports(op Operator) bool {
	return b.Param != "" && slices.Contains(b.Operators, op)
}

// ParamFor returns the query parameter name used for op.
func (b Binding) ParamFor(op Operator) string {
	suffix, ok := opSuffix[op]
	if !ok {
		return b.Param
	}
	if b.SuffixStyle == SuffixBracket {
		return b.Param + "[" + suffix + "]"
	}
	return b.Param + "_" + suffix
}

// Bindings resolves directory attribute names to query bindings.
type Bindings interface {
	// Lookup returns the binding of attribute, matched case-insensitively.
	Lookup(attribute string) (Binding, bool)
}

// BindingMap is a Bindings backed by a map keyed by attribute name.
type BindingMap map[string]Binding

// Lookup implements Bindings.
func (m BindingMap) Lookup(attribute string) (Binding, bool) {
	if b, ok := m[attribute]; ok {
		return b, true
	}
	for name, b := range m {
		if strings.EqualFold(name, attribute) {
			return b, true
		}
	}
	return Binding{}, false
}

// ParseOperator converts a mapping document operator name.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(strings.ToLower(s))
	return op, slices.Contains(AllOperators, op)
}
