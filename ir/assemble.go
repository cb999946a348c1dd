package ir

import (
	"fmt"
	"sort"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/classifier"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/severity"
	"github.com/erraggy/connectorgen/mapping"
	"github.com/erraggy/connectorgen/normalizer"
)

// Input holds the stage outputs merged by Assemble.
type Input struct {
	Graph   *normalizer.SchemaGraph
	Mapping *mapping.Result
	// Classified is the classification of every graph operation. When nil,
	// Assemble classifies with ClassifierOptions.
	Classified []classifier.Classified
	// ClassifierOptions configure the classifier when Classified is nil.
	ClassifierOptions []classifier.Option
	Config            Config
}

// Assemble builds the IR. It fails with a *cgerrors.MappingError of kind
// NoSearchOperation when an object class has no Search operation; no
// partial IR is returned.
func Assemble(in Input) (*IR, error) {
	if in.Graph == nil || in.Mapping == nil {
		return nil, &cgerrors.ConfigError{Option: "Input", Message: "graph and mapping are required"}
	}
	g := in.Graph

	cl := classifier.New(g, ClassifierOptions(in.Config, in.Mapping, in.ClassifierOptions...)...)
	classified := in.Classified
	if classified == nil {
		classified = cl.ClassifyAll()
	}

	out := &IR{
		Title:           g.Title,
		Dialect:         g.Dialect,
		APIVersion:      g.Version,
		Schemas:         g.Nodes,
		SecuritySchemes: g.SecuritySchemes,
		Servers:         g.Servers,
		Config:          in.Config,
	}
	out.Diagnostics = append(out.Diagnostics, g.Warnings...)
	out.Diagnostics = append(out.Diagnostics, in.Mapping.Diagnostics...)

	out.Operations = operations(classified)

	for _, mc := range in.Mapping.Classes {
		plan := classifier.Plan(classifier.Target{
			Name:     mc.Name,
			Endpoint: mc.Endpoint,
			Schema:   mc.Schema,
		}, classified, g)

		if !plan.Has(classifier.Search) {
			return nil, &cgerrors.MappingError{
				Kind:        cgerrors.NoSearchOperation,
				ObjectClass: mc.Name,
				Path:        mc.Path,
				Message:     fmt.Sprintf("no Search operation found on endpoint %q", endpointLabel(plan.Endpoint)),
			}
		}

		oc := ObjectClass{ObjectClass: mc}
		if oc.Endpoint == "" {
			oc.Endpoint = plan.Endpoint
		}
		for _, sel := range plan.Selections {
			oc.Table = append(oc.Table, LookupEntry{
				Category:    sel.Category,
				Scope:       sel.Scope,
				OperationID: sel.OperationID,
				Alternates:  sel.Alternates,
			})
		}
		out.Diagnostics = append(out.Diagnostics, plan.Diagnostics...)

		if !plan.Has(classifier.Insert) && !plan.Has(classifier.Modify) && !plan.Has(classifier.Delete) {
			oc.ReadOnly = true
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Code:        issues.CodeReadOnlyCapabilityOnly,
				Severity:    severity.SeverityWarning,
				Path:        mc.Path,
				ObjectClass: mc.Name,
				Message:     "no Insert, Modify or Delete operation; the object class is read-only",
			})
		}
		out.ObjectClasses = append(out.ObjectClasses, oc)
	}

	if op, ok := cl.TestConnect(); ok {
		out.TestConnect = op.ID
	} else {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Code:     issues.CodeNoTestConnect,
			Severity: severity.SeverityWarning,
			Message:  "no probe path and no parameterless GET operation to test connectivity with",
		})
	}

	out.ConnectionProperties = ConnectionProperties(g)
	if in.Config.SchemaExtraction {
		out.SchemaExtraction = ExtractSchema(g, out.ObjectClasses)
	}

	fp, err := fingerprint(out)
	if err != nil {
		return nil, err
	}
	out.Fingerprint = fp
	return out, nil
}

// ClassifierOptions returns the classifier options implied by cfg and the
// bound mapping: the configured probe paths, and the path parameters the
// DN components supply. extra options are applied last.
func ClassifierOptions(cfg Config, m *mapping.Result, extra ...classifier.Option) []classifier.Option {
	opts := []classifier.Option{classifier.WithProbePaths(cfg.HealthPaths...)}
	if m != nil {
		var params []string
		for _, oc := range m.Classes {
			params = append(params, oc.DN.Parameters()...)
		}
		opts = append(opts, classifier.WithResolvedParams(params...))
	}
	return append(opts, extra...)
}

// operations converts classified operations, sorted by path then method.
func operations(classified []classifier.Classified) []Operation {
	out := make([]Operation, 0, len(classified))
	for _, c := range classified {
		op := c.Operation
		o := Operation{
			ID:            op.ID,
			Method:        op.Method,
			Path:          op.Path,
			Summary:       op.Summary,
			Category:      c.Category,
			Scope:         c.Scope,
			Reason:        c.Reason,
			RequestBody:   op.RequestBody,
			Response:      op.SuccessResponse(),
			Security:      op.Security,
			SynthesizedID: op.SynthesizedID,
		}
		for _, p := range op.PathParams {
			o.PathParams = append(o.PathParams, p.Name)
		}
		for _, p := range op.QueryParams {
			o.QueryParams = append(o.QueryParams, p.Name)
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return methodRank(out[i].Method) < methodRank(out[j].Method)
	})
	return out
}

var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

func methodRank(method string) int {
	for i, m := range methodOrder {
		if m == method {
			return i
		}
	}
	return len(methodOrder)
}

func endpointLabel(endpoint string) string {
	if endpoint == "" {
		return "(none inferred)"
	}
	return endpoint
}
