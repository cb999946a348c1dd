package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/naming"
	"github.com/erraggy/connectorgen/internal/pathutil"
)

// methodOrder is the fixed iteration order of operations within a path.
var methodOrder = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

var braceStripper = strings.NewReplacer("{", "", "}", "")

// rawParam is a parameter declaration with its reference already followed.
type rawParam struct {
	name string
	in   string
	m    map[string]any
	at   string
}

func (b *builder) buildOperations() error {
	paths := b.root["paths"].(map[string]any)
	used := make(map[string]bool)

	for _, path := range sortedKeys(paths) {
		at := "/paths/" + pathutil.Escape(path)
		item, err := b.object(paths[path], at, "path item")
		if err != nil {
			return err
		}
		if item == nil {
			continue
		}
		shared, err := b.rawParams(item["parameters"], at+"/parameters")
		if err != nil {
			return err
		}

		for _, method := range methodOrder {
			raw, ok := item[method]
			if !ok {
				continue
			}
			opAt := at + "/" + method
			m, ok := raw.(map[string]any)
			if !ok {
				return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: opAt, Message: "operation must be an object"}
			}
			op, err := b.operation(path, method, m, shared, opAt)
			if err != nil {
				return err
			}
			b.assignID(&op, opAt, used)
			b.graph.Operations = append(b.graph.Operations, op)
		}
	}
	return nil
}

// object follows an optional $ref and returns raw as an object.
// A nil raw value yields a nil map without error.
func (b *builder) object(raw any, at, what string) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: at, Message: what + " must be an object"}
	}
	for hops := 0; ; hops++ {
		ref, ok := m["$ref"].(string)
		if !ok {
			return m, nil
		}
		if hops > 8 {
			return nil, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "reference chain too long"}
		}
		target, err := b.lookup(ref, at+"/$ref")
		if err != nil {
			return nil, err
		}
		if m, ok = target.(map[string]any); !ok {
			return nil, &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: at, Ref: ref, Message: what + " must be an object"}
		}
	}
}

func (b *builder) rawParams(raw any, at string) ([]rawParam, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	params := make([]rawParam, 0, len(list))
	for i, p := range list {
		pAt := fmt.Sprintf("%s/%d", at, i)
		m, err := b.object(p, pAt, "parameter")
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		name, _ := m["name"].(string)
		in, _ := m["in"].(string)
		if name == "" || in == "" {
			return nil, &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: pAt, Message: "parameter requires 'name' and 'in'"}
		}
		params = append(params, rawParam{name: name, in: in, m: m, at: pAt})
	}
	return params, nil
}

// mergeParams overlays operation parameters on path-level ones.
// Operation-level declarations win by name and location.
func mergeParams(shared, own []rawParam) []rawParam {
	out := append([]rawParam(nil), shared...)
	for _, p := range own {
		replaced := false
		for i := range out {
			if out[i].name == p.name && out[i].in == p.in {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

func (b *builder) operation(path, method string, m map[string]any, shared []rawParam, at string) (Operation, error) {
	op := Operation{
		Method: strings.ToUpper(method),
		Path:   path,
	}
	op.ID, _ = m["operationId"].(string)
	op.Summary, _ = m["summary"].(string)
	if tags, ok := m["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				op.Tags = append(op.Tags, s)
			}
		}
	}
	ctx := &issues.OperationContext{Method: op.Method, Path: path, OperationID: op.ID}

	own, err := b.rawParams(m["parameters"], at+"/parameters")
	if err != nil {
		return op, err
	}
	var form []Field
	for _, p := range mergeParams(shared, own) {
		switch p.in {
		case "body":
			if op.RequestBody, err = b.schema(p.m["schema"], p.at+"/schema"); err != nil {
				return op, err
			}
		case "formData":
			node, err := b.paramSchema(p)
			if err != nil {
				return op, err
			}
			required, _ := p.m["required"].(bool)
			form = append(form, Field{Name: p.name, Node: node, Required: required})
		case "path", "query", "header":
			node, err := b.paramSchema(p)
			if err != nil {
				return op, err
			}
			required, _ := p.m["required"].(bool)
			param := Parameter{Name: p.name, In: p.in, Required: required || p.in == "path", Node: node}
			switch p.in {
			case "path":
				op.PathParams = append(op.PathParams, param)
			case "query":
				op.QueryParams = append(op.QueryParams, param)
			default:
				op.HeaderParams = append(op.HeaderParams, param)
			}
		default:
			b.logger.Debug("ignoring parameter", "name", p.name, "in", p.in, "path", p.at)
		}
	}
	if len(form) > 0 && op.RequestBody == NoNode {
		sort.Slice(form, func(i, j int) bool { return form[i].Name < form[j].Name })
		op.RequestBody = b.reserve()
		n := b.node(op.RequestBody)
		n.Kind = KindObject
		n.Type = "object"
		n.Fields = form
	}

	if rb, ok := m["requestBody"]; ok {
		body, err := b.object(rb, at+"/requestBody", "request body")
		if err != nil {
			return op, err
		}
		if body != nil {
			if op.RequestBody, err = b.content(body, at+"/requestBody", ctx); err != nil {
				return op, err
			}
		}
	}

	if err := b.responses(&op, m["responses"], at+"/responses", ctx); err != nil {
		return op, err
	}

	if _, ok := m["security"]; ok {
		op.Security = requirementNames(m["security"])
	} else {
		op.Security = append([]string(nil), b.graph.GlobalSecurity...)
	}
	return op, nil
}

// paramSchema returns the schema node of a non-body parameter.
func (b *builder) paramSchema(p rawParam) (NodeID, error) {
	if s, ok := p.m["schema"]; ok {
		return b.schema(s, p.at+"/schema")
	}
	if content, ok := p.m["content"].(map[string]any); ok && len(content) > 0 {
		key := sortedKeys(content)[0]
		media, _ := content[key].(map[string]any)
		return b.schema(media["schema"], p.at+"/content/"+pathutil.Escape(key)+"/schema")
	}
	// OAS 2.0 declares the type inline on the parameter.
	inline := make(map[string]any)
	for _, k := range []string{"type", "format", "items", "x-nullable"} {
		if v, ok := p.m[k]; ok {
			inline[k] = v
		}
	}
	return b.schema(inline, p.at)
}

func (b *builder) responses(op *Operation, raw any, at string, ctx *issues.OperationContext) error {
	resps, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	for _, status := range sortedKeys(resps) {
		rAt := at + "/" + pathutil.Escape(status)
		m, err := b.object(resps[status], rAt, "response")
		if err != nil {
			return err
		}
		r := Response{Status: status}
		if m != nil {
			if b.dialect == DialectOAS2 {
				if s, ok := m["schema"]; ok {
					if r.Node, err = b.schema(s, rAt+"/schema"); err != nil {
						return err
					}
				}
			} else if r.Node, err = b.content(m, rAt, ctx); err != nil {
				return err
			}
		}
		op.Responses = append(op.Responses, r)
	}
	return nil
}

// content selects the schema of an OAS 3 request body or response.
// JSON media types are preferred; otherwise the first media type in sorted
// order is used and a warning is recorded.
func (b *builder) content(m map[string]any, at string, ctx *issues.OperationContext) (NodeID, error) {
	content, ok := m["content"].(map[string]any)
	if !ok || len(content) == 0 {
		return NoNode, nil
	}
	keys := sortedKeys(content)
	chosen := ""
	if _, ok := content["application/json"]; ok {
		chosen = "application/json"
	} else {
		for _, k := range keys {
			if strings.Contains(strings.ToLower(k), "json") {
				chosen = k
				break
			}
		}
	}
	if chosen == "" {
		chosen = keys[0]
		b.warn(issues.CodeIgnoredContent, at+"/content",
			fmt.Sprintf("no JSON media type declared; using %q", chosen), ctx)
	}
	mAt := at + "/content/" + pathutil.Escape(chosen)
	media, _ := content[chosen].(map[string]any)
	return b.schema(media["schema"], mAt+"/schema")
}

// assignID synthesizes a missing operation ID and keeps IDs unique.
func (b *builder) assignID(op *Operation, at string, used map[string]bool) {
	if op.ID == "" {
		op.ID = SynthesizeOperationID(op.Method, op.Path)
		op.SynthesizedID = true
	}
	if used[op.ID] {
		base := op.ID
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s_%d", base, n)
			if !used[candidate] {
				op.ID = candidate
				break
			}
		}
		b.warn(issues.CodeDuplicateOperationID, at,
			fmt.Sprintf("duplicate operation ID %q renamed to %q", base, op.ID),
			&issues.OperationContext{Method: op.Method, Path: op.Path, OperationID: op.ID})
	}
	used[op.ID] = true
}

// SynthesizeOperationID derives an operation ID from method and path as
// <method>_<sanitizedPathSegments>, e.g. "get_items_itemId". The root path
// yields "<method>_root".
func SynthesizeOperationID(method, path string) string {
	var parts []string
	for _, seg := range pathutil.Segments(path) {
		if s := naming.Sanitize(braceStripper.Replace(seg)); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = []string{"root"}
	}
	return strings.ToLower(method) + "_" + strings.Join(parts, "_")
}
