package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/pathutil"
	"github.com/erraggy/connectorgen/internal/severity"
	"github.com/erraggy/connectorgen/normalizer"
)

// methodRank orders methods for tie-breaking.
var methodRank = map[string]int{
	"GET": 0, "PUT": 1, "POST": 2, "DELETE": 3, "OPTIONS": 4, "HEAD": 5, "PATCH": 6, "TRACE": 7,
}

// Target describes the object class being planned.
type Target struct {
	// Name is the object class name.
	Name string
	// Endpoint is the declared API endpoint; empty means infer from Schema.
	Endpoint string
	// Schema is the backend schema node of the class.
	Schema normalizer.NodeID
}

// Selection is the operation chosen for one lookup slot.
type Selection struct {
	Key
	OperationID string
	// Alternates matched the same slot but lost the tie-break.
	Alternates []string
}

// ClassPlan is the per-category operation selection of one object class.
type ClassPlan struct {
	Class string
	// Endpoint is the collection path the candidates were matched against.
	Endpoint   string
	Selections []Selection
	// Diagnostics record alternates found for a slot.
	Diagnostics []issues.Issue
}

// Lookup returns the operation selected for key.
func (p ClassPlan) Lookup(key Key) (Selection, bool) {
	for _, s := range p.Selections {
		if s.Key == key {
			return s, true
		}
	}
	return Selection{}, false
}

// Has reports whether any scope of category has a selection.
func (p ClassPlan) Has(category Category) bool {
	for _, s := range p.Selections {
		if s.Category == category {
			return true
		}
	}
	return false
}

// Plan selects at most one operation per (category, scope) for class.
// Candidates are operations on the class endpoint or on the endpoint
// followed by exactly one parameter segment. Without a declared endpoint the
// collection path is inferred from a Search(list) operation returning the
// class schema, else from a POST whose body is the class schema.
func Plan(class Target, ops []Classified, graph *normalizer.SchemaGraph) ClassPlan {
	plan := ClassPlan{Class: class.Name}
	endpoint := pathutil.CollectionPath(class.Endpoint)
	if class.Endpoint == "" {
		endpoint = inferEndpoint(class.Schema, ops, graph)
	}
	plan.Endpoint = endpoint
	if endpoint == "" {
		return plan
	}

	groups := make(map[Key][]Classified)
	for _, c := range ops {
		if c.Category == TestConnect || c.Category == Unsupported {
			continue
		}
		if !pathutil.OnCollection(c.Operation.Path, endpoint) {
			continue
		}
		k := Key{Category: c.Category, Scope: c.Scope}
		groups[k] = append(groups[k], c)
	}

	for _, key := range Keys {
		candidates := groups[key]
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return less(candidates[i].Operation, candidates[j].Operation)
		})
		sel := Selection{Key: key, OperationID: candidates[0].Operation.ID}
		for _, alt := range candidates[1:] {
			sel.Alternates = append(sel.Alternates, alt.Operation.ID)
			plan.Diagnostics = append(plan.Diagnostics, issues.Issue{
				Code:        issues.CodeDuplicateCategoryMatch,
				Severity:    severity.SeverityInfo,
				ObjectClass: class.Name,
				Message: fmt.Sprintf("%s also matches %s; %s is used and %s is kept as an alternate",
					alt.Operation.ID, key, sel.OperationID, alt.Operation.ID),
				OperationContext: &issues.OperationContext{
					Method:      alt.Operation.Method,
					Path:        alt.Operation.Path,
					OperationID: alt.Operation.ID,
				},
			})
		}
		plan.Selections = append(plan.Selections, sel)
	}
	return plan
}

// less orders candidates by path segment count, method, path, then ID.
func less(a, b *normalizer.Operation) bool {
	sa, sb := len(pathutil.Segments(a.Path)), len(pathutil.Segments(b.Path))
	if sa != sb {
		return sa < sb
	}
	ra, rb := rank(a.Method), rank(b.Method)
	if ra != rb {
		return ra < rb
	}
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.ID < b.ID
}

func rank(method string) int {
	if r, ok := methodRank[strings.ToUpper(method)]; ok {
		return r
	}
	return len(methodRank)
}

func inferEndpoint(schema normalizer.NodeID, ops []Classified, graph *normalizer.SchemaGraph) string {
	if schema == normalizer.NoNode {
		return ""
	}
	for _, c := range ops {
		if c.Category != Search || c.Scope != ScopeList {
			continue
		}
		if elem, ok := graph.CollectionElem(c.Operation.SuccessResponse()); ok && graph.SameShape(elem, schema) {
			return pathutil.CollectionPath(c.Operation.Path)
		}
	}
	for _, c := range ops {
		if strings.EqualFold(c.Operation.Method, "POST") && graph.SameShape(c.Operation.RequestBody, schema) {
			return pathutil.CollectionPath(c.Operation.Path)
		}
	}
	return ""
}
