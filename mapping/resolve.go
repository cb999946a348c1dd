package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/filter"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/pathutil"
	"github.com/erraggy/connectorgen/internal/severity"
	"github.com/erraggy/connectorgen/normalizer"
)

// Result is the bound form of a mapping document.
type Result struct {
	// Classes are in declaration order.
	Classes []ObjectClass
	// Diagnostics carry the document warnings and binding notes.
	Diagnostics []issues.Issue
}

// Class returns the object class with the given name.
func (r *Result) Class(name string) (*ObjectClass, bool) {
	for i := range r.Classes {
		if strings.EqualFold(r.Classes[i].Name, name) {
			return &r.Classes[i], true
		}
	}
	return nil, false
}

// Resolve binds every object class of doc to graph.
// It fails with a *cgerrors.MappingError on the first class that cannot be
// bound; no partial result is returned.
func Resolve(doc *Document, graph *normalizer.SchemaGraph) (*Result, error) {
	res := &Result{Diagnostics: append([]issues.Issue(nil), doc.Warnings...)}
	for i := range doc.ObjectClasses {
		r := &resolver{doc: doc, graph: graph, spec: &doc.ObjectClasses[i]}
		oc, err := r.resolve()
		if err != nil {
			return nil, err
		}
		res.Classes = append(res.Classes, *oc)
		res.Diagnostics = append(res.Diagnostics, r.diags...)
	}
	return res, nil
}

// counterpart is a request or response schema of an operation on the
// class endpoint.
type counterpart struct {
	node   normalizer.NodeID
	source Source
}

type resolver struct {
	doc    *Document
	graph  *normalizer.SchemaGraph
	spec   *ObjectClassSpec
	schema normalizer.NodeID
	diags  []issues.Issue
}

func (r *resolver) fail(kind cgerrors.MappingErrorKind, attr, path, format string, args ...any) error {
	return &cgerrors.MappingError{
		Kind:        kind,
		ObjectClass: r.spec.Name,
		Attribute:   attr,
		Path:        path,
		Message:     fmt.Sprintf(format, args...),
	}
}

func (r *resolver) resolve() (*ObjectClass, error) {
	spec := r.spec
	oc := &ObjectClass{
		Name:                spec.Name,
		LDAPName:            spec.LDAPName,
		Path:                spec.Path,
		Endpoint:            spec.APIEndpoint,
		PrimaryKeyParameter: spec.PrimaryKeyParameter,
		PrimaryKeyJSONPath:  spec.PrimaryKeyJSONPath,
	}
	if oc.LDAPName == "" {
		oc.LDAPName = strings.ToLower(spec.Name)
	}

	name, at := spec.SchemaName, spec.Path+"/openApiSchemaName"
	if spec.SchemaRef != "" {
		at = spec.Path + "/openApiSchemaRef"
		var ok bool
		if name, ok = pathutil.SchemaName(spec.SchemaRef); !ok {
			return nil, r.fail(cgerrors.SchemaViolation, "", at,
				"%q is not a local schema reference", spec.SchemaRef)
		}
	}
	id, ok := r.graph.Component(name)
	if !ok {
		ref := spec.SchemaRef
		if ref == "" {
			ref = name
		}
		return nil, r.fail(cgerrors.SchemaViolation, "", at, "schema %q does not exist", ref)
	}
	oc.SchemaName, oc.Schema = name, id
	r.schema = id

	counterparts := r.counterparts()
	seen := make(map[string]int)
	for i, as := range spec.Attributes {
		at := spec.Path + pathutil.Join("attributes", strconv.Itoa(i))
		if j, dup := seen[strings.ToLower(as.LDAPName)]; dup {
			return nil, r.fail(cgerrors.AmbiguousBinding, as.LDAPName, at,
				"attribute is already bound at %s", spec.Path+pathutil.Join("attributes", strconv.Itoa(j)))
		}
		seen[strings.ToLower(as.LDAPName)] = i

		a, err := r.attribute(as, at, counterparts)
		if err != nil {
			return nil, err
		}
		oc.Attributes = append(oc.Attributes, a)
	}

	if err := r.primaryKey(oc); err != nil {
		return nil, err
	}
	if err := r.dn(oc); err != nil {
		return nil, err
	}
	return oc, nil
}

// counterparts lists the request bodies and success responses of the
// operations on the class endpoint. Array responses are unwrapped to their
// element; list envelopes only on the collection GET itself.
func (r *resolver) counterparts() []counterpart {
	collection := pathutil.CollectionPath(r.spec.APIEndpoint)
	if collection == "" {
		return nil
	}
	var out []counterpart
	for i := range r.graph.Operations {
		op := &r.graph.Operations[i]
		if !pathutil.OnCollection(op.Path, collection) {
			continue
		}
		if op.RequestBody != normalizer.NoNode {
			out = append(out, counterpart{op.RequestBody, SourceRequestBody})
		}
		if resp := op.SuccessResponse(); resp != normalizer.NoNode {
			if elem, ok := r.graph.ArrayElem(resp); ok {
				resp = elem
			} else if strings.EqualFold(op.Method, "GET") && op.Path == collection {
				if elem, ok := r.graph.EnvelopeElem(resp); ok {
					resp = elem
				}
			}
			out = append(out, counterpart{resp, SourceResponse})
		}
	}
	return out
}

func (r *resolver) attribute(as AttributeSpec, at string, counterparts []counterpart) (Attribute, error) {
	steps := []string{as.PropertyName}
	if as.JSONPath != "" {
		steps = strings.Split(strings.TrimPrefix(as.JSONPath, "$."), ".")
	}

	a := Attribute{
		Name:         as.LDAPName,
		PrimaryKey:   as.PrimaryKey,
		Required:     as.Required,
		ReadOnly:     as.ReadOnly,
		QueryParam:   as.QueryParam,
		SuffixStyle:  filter.SuffixStyle(as.SuffixStyle),
		TypeOverride: as.TypeOverride,
	}

	candidates := append([]counterpart{{r.schema, SourceSchema}}, counterparts...)
	var field normalizer.Field
	found := false
	for _, c := range candidates {
		if path, f, ok := r.walk(c.node, steps); ok {
			a.FieldPath, a.Source, field, found = path, c.source, f, true
			break
		}
	}
	if !found {
		return a, r.fail(cgerrors.UnboundAttribute, as.LDAPName, at,
			"no field %s in schema %s or the operations on %q",
			strings.Join(steps, "."), r.spec.schemaLabel(), r.spec.APIEndpoint)
	}
	a.Field = a.FieldPath[len(a.FieldPath)-1]
	a.Node = field.Node
	a.Required = a.Required || field.Required
	a.ReadOnly = a.ReadOnly || field.ReadOnly

	if as.MultiValued != nil {
		a.MultiValued = *as.MultiValued
	} else if n := r.graph.Deref(field.Node); n != nil && n.Kind == normalizer.KindArray {
		a.MultiValued = true
	}

	if a.QueryParam != "" {
		if len(as.QueryOperators) == 0 {
			a.Operators = []filter.Operator{filter.OpEq}
		}
		for _, s := range as.QueryOperators {
			op, ok := filter.ParseOperator(s)
			if !ok {
				return a, r.fail(cgerrors.SchemaViolation, as.LDAPName, at+"/queryOperators",
					"unknown query operator %q", s)
			}
			a.Operators = append(a.Operators, op)
		}
	}
	return a, nil
}

// walk follows field names from root, descending into array elements.
// It returns the canonical field names walked.
func (r *resolver) walk(root normalizer.NodeID, steps []string) ([]string, normalizer.Field, bool) {
	var (
		path  []string
		field normalizer.Field
	)
	id := root
	for _, step := range steps {
		n := r.graph.Deref(id)
		for n != nil && n.Kind == normalizer.KindArray {
			n = r.graph.Deref(n.Elem)
		}
		if n == nil || n.Kind != normalizer.KindObject {
			return nil, field, false
		}
		f, ok := n.FieldFold(strings.TrimSuffix(step, "[*]"))
		if !ok {
			return nil, field, false
		}
		path = append(path, f.Name)
		field, id = f, f.Node
	}
	return path, field, len(path) > 0
}

// primaryKey settles the single primary key of oc: explicit declarations
// first, then a bound attribute on a field named id, then an implicit
// binding of a schema field named id.
func (r *resolver) primaryKey(oc *ObjectClass) error {
	var explicit []int
	for i, a := range oc.Attributes {
		if a.PrimaryKey {
			explicit = append(explicit, i)
		}
	}
	if name := r.spec.PrimaryKeyAttribute; name != "" {
		at := r.spec.Path + "/primaryKeyLdapAttribute"
		idx := oc.attributeIndex(name)
		if idx < 0 {
			return r.fail(cgerrors.UnboundAttribute, name, at, "primary key attribute %q is not declared", name)
		}
		for _, i := range explicit {
			if i != idx {
				return r.fail(cgerrors.AmbiguousBinding, name, at,
					"primary key %q conflicts with attribute %q flagged primaryKey", name, oc.Attributes[i].Name)
			}
		}
		explicit = []int{idx}
	}

	switch {
	case len(explicit) > 1:
		names := make([]string, len(explicit))
		for i, idx := range explicit {
			names[i] = oc.Attributes[idx].Name
		}
		return r.fail(cgerrors.AmbiguousBinding, "", r.spec.Path,
			"more than one primary key: %s", strings.Join(names, ", "))
	case len(explicit) == 1:
		r.setPrimaryKey(oc, explicit[0])
		return nil
	}

	for i, a := range oc.Attributes {
		if len(a.FieldPath) == 1 && strings.EqualFold(a.Field, "id") {
			r.setPrimaryKey(oc, i)
			return nil
		}
	}

	if n := r.graph.Deref(oc.Schema); n != nil && n.Kind == normalizer.KindObject {
		for _, f := range n.Fields {
			if !strings.EqualFold(f.Name, "id") {
				continue
			}
			if _, taken := oc.Attribute(f.Name); taken {
				return r.fail(cgerrors.AmbiguousBinding, f.Name, r.spec.Path,
					"attribute %q is bound to another field, so field %q cannot become the primary key", f.Name, f.Name)
			}
			oc.Attributes = append(oc.Attributes, Attribute{
				Name:      f.Name,
				Field:     f.Name,
				FieldPath: []string{f.Name},
				Node:      f.Node,
				Source:    SourceSchema,
				Required:  f.Required,
				ReadOnly:  f.ReadOnly,
				Implicit:  true,
			})
			r.setPrimaryKey(oc, len(oc.Attributes)-1)
			r.diags = append(r.diags, issues.Issue{
				Code:        issues.CodeImplicitPrimaryKey,
				Severity:    severity.SeverityInfo,
				Path:        r.spec.Path,
				ObjectClass: oc.Name,
				Field:       f.Name,
				Message:     fmt.Sprintf("no primary key declared; schema field %q is bound as the primary key", f.Name),
			})
			return nil
		}
	}
	return r.fail(cgerrors.NoPrimaryKey, "", r.spec.Path,
		"no attribute is flagged primaryKey and schema %s has no id field", r.spec.schemaLabel())
}

func (r *resolver) setPrimaryKey(oc *ObjectClass, idx int) {
	oc.Attributes[idx].PrimaryKey = true
	oc.PrimaryKey = oc.Attributes[idx].Name
}

// dn builds the DN template. A class-level dn overrides dnStructure and the
// RDN attribute defaults to the primary key.
func (r *resolver) dn(oc *ObjectClass) error {
	var (
		t  DNTemplate
		at string
	)
	if ds := r.doc.DNStructure; ds != nil {
		t.Suffix, t.RDNAttribute = ds.BaseDNSuffix, ds.RDNAttribute
		t.Components = append(t.Components, ds.Components...)
		at = "/dnStructure"
	}
	if d := r.spec.DN; d != nil {
		at = r.spec.Path + "/dn"
		if d.Suffix != "" {
			t.Suffix = d.Suffix
		}
		if d.RDNAttribute != "" {
			t.RDNAttribute = d.RDNAttribute
		}
	}

	if _, err := ldap.ParseDN(t.Suffix); t.Suffix != "" && err != nil {
		return &cgerrors.MappingError{
			Kind:        cgerrors.SchemaViolation,
			ObjectClass: oc.Name,
			Path:        at,
			Message:     fmt.Sprintf("DN suffix %q is not a valid distinguished name", t.Suffix),
			Cause:       err,
		}
	}

	if t.RDNAttribute == "" {
		t.RDNAttribute = oc.PrimaryKey
	}
	a, ok := oc.Attribute(t.RDNAttribute)
	if !ok {
		return r.fail(cgerrors.UnboundAttribute, t.RDNAttribute, at+"/rdnAttribute",
			"RDN attribute %q is not a bound attribute", t.RDNAttribute)
	}
	t.RDNAttribute = a.Name
	oc.DN = t
	return nil
}

func (oc *ObjectClass) attributeIndex(name string) int {
	for i := range oc.Attributes {
		if strings.EqualFold(oc.Attributes[i].Name, name) {
			return i
		}
	}
	return -1
}

func (s *ObjectClassSpec) schemaLabel() string {
	if s.SchemaRef != "" {
		return s.SchemaRef
	}
	return s.SchemaName
}
