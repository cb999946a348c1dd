package classifier

import (
	"slices"
	"strings"

	"github.com/erraggy/connectorgen/internal/pathutil"
	"github.com/erraggy/connectorgen/normalizer"
)

// DefaultProbePaths are the paths treated as connectivity probes.
var DefaultProbePaths = []string{"/", "/health", "/healthz", "/ping", "/status", "/version"}

// Classification is the outcome of classifying one operation.
type Classification struct {
	Category Category `json:"category"`
	Scope    Scope    `json:"scope,omitempty"`
	// Reason names the rule that matched.
	Reason string `json:"reason"`
}

// Classified pairs an operation with its classification.
type Classified struct {
	Operation *normalizer.Operation
	Classification
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithProbePaths replaces the connectivity probe paths.
// An empty list keeps the defaults.
func WithProbePaths(paths ...string) Option {
	return func(c *Classifier) {
		if len(paths) > 0 {
			c.probePaths = paths
		}
	}
}

// WithResolvedParams names path parameters whose values are supplied from
// elsewhere (e.g. DN components), so they never count as unresolved.
func WithResolvedParams(names ...string) Option {
	return func(c *Classifier) {
		for _, n := range names {
			c.resolved[n] = true
		}
	}
}

// Classifier classifies the operations of one schema graph.
type Classifier struct {
	graph      *normalizer.SchemaGraph
	probePaths []string
	resolved   map[string]bool
}

// New returns a Classifier for graph.
func New(graph *normalizer.SchemaGraph, opts ...Option) *Classifier {
	c := &Classifier{
		graph:      graph,
		probePaths: DefaultProbePaths,
		resolved:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify classifies op with the default options.
func Classify(op *normalizer.Operation, graph *normalizer.SchemaGraph) Classification {
	return New(graph).Classify(op)
}

// Classify assigns op to exactly one category.
func (c *Classifier) Classify(op *normalizer.Operation) Classification {
	method := strings.ToUpper(op.Method)

	if method == "GET" {
		unresolved := c.unresolvedPathParams(op)
		resp := op.SuccessResponse()
		if _, ok := c.graph.ArrayElem(resp); ok {
			if len(unresolved) == 0 || (len(unresolved) == 1 && IsIdentifierLike(unresolved[0])) {
				return Classification{Category: Search, Scope: ScopeList, Reason: "GET returning a collection"}
			}
		}
		if _, ok := c.graph.EnvelopeElem(resp); ok && len(unresolved) == 0 && !endsWithParam(op.Path) {
			return Classification{Category: Search, Scope: ScopeList, Reason: "GET returning a list envelope"}
		}
		for _, name := range unresolved {
			if IsIdentifierLike(name) {
				return Classification{Category: Search, Scope: ScopeBase, Reason: "GET by identifier path parameter " + name}
			}
		}
	}

	switch {
	case method == "POST" && op.RequestBody != normalizer.NoNode:
		return Classification{Category: Insert, Reason: "POST with request body"}
	case method == "PUT" || method == "PATCH":
		return Classification{Category: Modify, Reason: method + " request"}
	case method == "DELETE":
		return Classification{Category: Delete, Reason: "DELETE request"}
	case c.IsProbePath(op.Path):
		return Classification{Category: TestConnect, Reason: "probe path " + op.Path}
	case method == "GET" && op.SuccessResponse() == normalizer.NoNode:
		return Classification{Category: TestConnect, Reason: "GET without response schema"}
	}
	return Classification{Category: Unsupported, Reason: "no rule matched"}
}

// ClassifyAll classifies every operation of the graph in graph order.
func (c *Classifier) ClassifyAll() []Classified {
	out := make([]Classified, 0, len(c.graph.Operations))
	for i := range c.graph.Operations {
		op := &c.graph.Operations[i]
		out = append(out, Classified{Operation: op, Classification: c.Classify(op)})
	}
	return out
}

// IsProbePath reports whether path is one of the connectivity probe paths.
func (c *Classifier) IsProbePath(path string) bool {
	return slices.Contains(c.probePaths, normalizePath(path))
}

// TestConnect selects the connectivity test operation: a GET on a probe
// path (in probe path order), then the first GET classified TestConnect
// without required parameters, otherwise the first GET without required
// parameters.
func (c *Classifier) TestConnect() (*normalizer.Operation, bool) {
	for _, probe := range c.probePaths {
		for i := range c.graph.Operations {
			op := &c.graph.Operations[i]
			if strings.EqualFold(op.Method, "GET") && normalizePath(op.Path) == probe {
				return op, true
			}
		}
	}
	for i := range c.graph.Operations {
		op := &c.graph.Operations[i]
		if strings.EqualFold(op.Method, "GET") && !hasRequiredParams(op) && c.Classify(op).Category == TestConnect {
			return op, true
		}
	}
	for i := range c.graph.Operations {
		op := &c.graph.Operations[i]
		if strings.EqualFold(op.Method, "GET") && !hasRequiredParams(op) {
			return op, true
		}
	}
	return nil, false
}

// endsWithParam reports whether the last path segment is a template parameter.
func endsWithParam(path string) bool {
	segs := pathutil.Segments(path)
	return len(segs) > 0 && pathutil.IsParamSegment(segs[len(segs)-1])
}

func (c *Classifier) unresolvedPathParams(op *normalizer.Operation) []string {
	var names []string
	for _, p := range op.PathParams {
		if p.Required && !c.resolved[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names
}

// IsIdentifierLike reports whether a parameter name looks like an
// identifier: "id", any name ending in "id" (case-insensitively), "key" or "uuid".
func IsIdentifierLike(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "id") || lower == "key" || lower == "uuid"
}

func hasRequiredParams(op *normalizer.Operation) bool {
	if len(op.PathParams) > 0 {
		return true
	}
	for _, params := range [][]normalizer.Parameter{op.QueryParams, op.HeaderParams} {
		for _, p := range params {
			if p.Required {
				return true
			}
		}
	}
	return false
}

func normalizePath(p string) string {
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
