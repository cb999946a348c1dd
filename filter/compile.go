package filter

import (
	"fmt"
	"strings"

	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/severity"
)

// CompiledQuery is the result of compiling a filter tree.
type CompiledQuery struct {
	// Params are the query parameters to send. Never nil.
	Params map[string]string
	// Unsupported holds nodes excluded from Params, in tree order.
	Unsupported []Node
	// Diagnostics explain every unsupported node and parameter collision.
	Diagnostics []issues.Issue
}

// Complete reports whether the whole filter was translated.
func (q CompiledQuery) Complete() bool {
	return len(q.Unsupported) == 0
}

// Compile translates node into query parameters using bindings. It never
// fails: nodes without a lossless translation end up in Unsupported.
func Compile(node Node, bindings Bindings) CompiledQuery {
	c := compiler{
		bindings: bindings,
		q:        CompiledQuery{Params: make(map[string]string)},
		owner:    make(map[string]Node),
	}
	if node != nil {
		c.compile(node)
	}
	return c.q
}

type compiler struct {
	bindings Bindings
	q        CompiledQuery
	// owner records which node wrote each parameter.
	owner map[string]Node
}

func (c *compiler) compile(n Node) {
	switch v := n.(type) {
	case And:
		for _, child := range v.Children {
			c.compile(child)
		}
	case Or:
		c.reject(n, "", "disjunction has no lossless representation as query parameters")
	case Not:
		c.reject(n, "", "negation has no lossless representation as query parameters")
	case Equality:
		c.leaf(n, v.Attribute, OpEq, v.Value)
	case Presence:
		c.leaf(n, v.Attribute, OpPresent, "")
	case Substring:
		parts := append(append([]string{v.Initial}, v.Any...), v.Final)
		c.leaf(n, v.Attribute, OpSubstring, strings.Join(parts, "*"))
	case GreaterOrEqual:
		c.leaf(n, v.Attribute, OpGte, v.Value)
	case LessOrEqual:
		c.leaf(n, v.Attribute, OpLte, v.Value)
	case ApproximateMatch:
		c.leaf(n, v.Attribute, OpApprox, v.Value)
	default:
		c.reject(n, "", fmt.Sprintf("unknown filter node %T", n))
	}
}

func (c *compiler) leaf(n Node, attr string, op Operator, value string) {
	b, ok := c.bindings.Lookup(attr)
	switch {
	case !ok:
		c.reject(n, attr, fmt.Sprintf("attribute %q is not mapped", attr))
		return
	case b.Param == "":
		c.reject(n, attr, fmt.Sprintf("attribute %q has no query parameter", attr))
		return
	case !b.Supports(op):
		c.reject(n, attr, fmt.Sprintf("attribute %q does not support %s comparisons", attr, op))
		return
	}

	param := b.ParamFor(op)
	if prev, ok := c.owner[param]; ok {
		c.q.Diagnostics = append(c.q.Diagnostics, issues.Issue{
			Code:     issues.CodeFilterParamCollision,
			Severity: severity.SeverityWarning,
			Field:    attr,
			Message:  fmt.Sprintf("query parameter %q set by %s is overwritten by %s", param, prev, n),
			Value:    value,
			Context:  n.String(),
		})
	}
	c.owner[param] = n
	c.q.Params[param] = value
}

func (c *compiler) reject(n Node, attr, reason string) {
	c.q.Unsupported = append(c.q.Unsupported, n)
	c.q.Diagnostics = append(c.q.Diagnostics, issues.Issue{
		Code:     issues.CodeUnsupportedFilterNode,
		Severity: severity.SeverityWarning,
		Field:    attr,
		Message:  reason,
		Context:  n.String(),
	})
}
