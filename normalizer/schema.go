package normalizer

import (
	"fmt"
	"sort"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/logging"
	"github.com/erraggy/connectorgen/internal/pathutil"
)

// builder carries the state of one normalization run.
type builder struct {
	root    map[string]any
	dialect Dialect
	graph   *SchemaGraph
	logger  logging.Logger

	// resolved caches completed named schemas by reference path.
	resolved map[string]NodeID
	// resolving holds references currently on the resolution stack.
	resolving map[string]NodeID
	// aliasing detects reference chains that loop without a schema in between.
	aliasing map[string]bool
}

func newBuilder(root map[string]any, dialect Dialect, logger logging.Logger) *builder {
	return &builder{
		root:    root,
		dialect: dialect,
		graph: &SchemaGraph{
			Dialect:    dialect,
			Components: make(map[string]NodeID),
		},
		logger:    logger,
		resolved:  make(map[string]NodeID),
		resolving: make(map[string]NodeID),
		aliasing:  make(map[string]bool),
	}
}

func (b *builder) build() error {
	if _, ok := b.root["paths"].(map[string]any); !ok {
		return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: "/paths", Message: "required section 'paths' is missing"}
	}
	if err := b.buildServers(); err != nil {
		return err
	}
	if err := b.buildComponents(); err != nil {
		return err
	}
	if err := b.buildSecurity(); err != nil {
		return err
	}
	return b.buildOperations()
}

// buildComponents builds every named schema in sorted order so node
// handles do not depend on which operation references a schema first.
func (b *builder) buildComponents() error {
	var defs map[string]any
	oas2 := b.dialect == DialectOAS2
	if oas2 {
		defs, _ = b.root["definitions"].(map[string]any)
	} else if comps, ok := b.root["components"].(map[string]any); ok {
		defs, _ = comps["schemas"].(map[string]any)
	}
	for _, name := range sortedKeys(defs) {
		ref := pathutil.ComponentSchemaRef(name, oas2)
		id, err := b.ref(ref, ref[1:])
		if err != nil {
			return err
		}
		b.graph.Components[name] = id
	}
	return nil
}

func (b *builder) reserve() NodeID {
	id := NodeID(len(b.graph.Nodes) + 1)
	b.graph.Nodes = append(b.graph.Nodes, SchemaNode{ID: id})
	return id
}

func (b *builder) node(id NodeID) *SchemaNode {
	return b.graph.Node(id)
}

// lookup resolves a local JSON pointer reference against the document root.
func (b *builder) lookup(ref, at string) (any, error) {
	if !pathutil.IsLocalRef(ref) {
		return nil, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "only local references are supported"}
	}
	var cur any = b.root
	for _, tok := range pathutil.Split(ref) {
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[tok]
			if !ok {
				return nil, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "reference target not found"}
			}
			cur = next
		case []any:
			var i int
			if _, err := fmt.Sscanf(tok, "%d", &i); err != nil || i < 0 || i >= len(c) {
				return nil, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "reference target not found"}
			}
			cur = c[i]
		default:
			return nil, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "reference target not found"}
		}
	}
	return cur, nil
}

// ref resolves a schema reference. at is the JSON pointer of the $ref.
func (b *builder) ref(ref, at string) (NodeID, error) {
	if id, ok := b.resolved[ref]; ok {
		return id, nil
	}
	if target, ok := b.resolving[ref]; ok {
		b.logger.Debug("back-reference", "ref", ref, "at", at)
		id := b.reserve()
		n := b.node(id)
		n.Kind = KindBackRef
		n.Ref = ref
		n.Target = target
		return id, nil
	}

	raw, err := b.lookup(ref, at)
	if err != nil {
		return NoNode, err
	}
	targetPath := pathutil.Join(pathutil.Split(ref)...)

	// A reference to a reference shares the final target.
	if m, ok := raw.(map[string]any); ok {
		if inner, ok := m["$ref"].(string); ok {
			if b.aliasing[ref] {
				return NoNode, &cgerrors.SpecError{Kind: cgerrors.UnresolvableReference, Path: at, Ref: ref, Message: "circular reference chain"}
			}
			b.aliasing[ref] = true
			id, err := b.ref(inner, targetPath+"/$ref")
			delete(b.aliasing, ref)
			if err != nil {
				return NoNode, err
			}
			b.resolved[ref] = id
			return id, nil
		}
	}

	id := b.reserve()
	b.resolving[ref] = id
	err = b.fill(id, raw, targetPath)
	delete(b.resolving, ref)
	if err != nil {
		return NoNode, err
	}
	n := b.node(id)
	n.Ref = ref
	if name, ok := pathutil.SchemaName(ref); ok {
		n.Name = name
	}
	b.resolved[ref] = id
	return id, nil
}

// schema builds an inline schema, or resolves it when it is a reference.
func (b *builder) schema(raw any, at string) (NodeID, error) {
	if m, ok := raw.(map[string]any); ok {
		if ref, ok := m["$ref"].(string); ok {
			return b.ref(ref, at+"/$ref")
		}
	}
	id := b.reserve()
	if err := b.fill(id, raw, at); err != nil {
		return NoNode, err
	}
	return id, nil
}

// fill builds raw into the already reserved node id. The node must be
// written through b.node after every recursive call since the arena may grow.
func (b *builder) fill(id NodeID, raw any, at string) error {
	m, ok := raw.(map[string]any)
	if !ok {
		switch raw.(type) {
		case nil, bool:
			// An empty or boolean schema accepts any value.
			return nil
		}
		return &cgerrors.SpecError{Kind: cgerrors.MalformedSpec, Path: at, Message: "schema must be an object"}
	}

	typ, nullable := schemaType(m)
	if v, ok := m["nullable"].(bool); ok && v {
		nullable = true
	}
	if v, ok := m["x-nullable"].(bool); ok && v {
		nullable = true
	}

	if members, ok := m["allOf"].([]any); ok && len(members) > 0 {
		if err := b.fillAllOf(id, m, members, at); err != nil {
			return err
		}
		b.node(id).Nullable = nullable
		return nil
	}

	if typ == "" {
		switch {
		case m["properties"] != nil:
			typ = "object"
		case m["items"] != nil:
			typ = "array"
		}
	}

	switch typ {
	case "object":
		fields, err := b.fields(m, at)
		if err != nil {
			return err
		}
		n := b.node(id)
		n.Kind = KindObject
		n.Type = "object"
		n.Fields = fields
	case "array":
		elem, err := b.schema(m["items"], at+"/items")
		if err != nil {
			return err
		}
		n := b.node(id)
		n.Kind = KindArray
		n.Type = "array"
		n.Elem = elem
	default:
		n := b.node(id)
		n.Kind = KindPrimitive
		n.Type = typ
		n.Format, _ = m["format"].(string)
	}
	b.node(id).Nullable = nullable
	return nil
}

// fields builds the sorted properties of an object schema.
func (b *builder) fields(m map[string]any, at string) ([]Field, error) {
	props, _ := m["properties"].(map[string]any)
	required := make(map[string]bool)
	if list, ok := m["required"].([]any); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	fields := make([]Field, 0, len(props))
	for _, name := range sortedKeys(props) {
		node, err := b.schema(props[name], at+"/properties/"+pathutil.Escape(name))
		if err != nil {
			return nil, err
		}
		readOnly := false
		if pm, ok := props[name].(map[string]any); ok {
			readOnly, _ = pm["readOnly"].(bool)
		}
		fields = append(fields, Field{Name: name, Node: node, Required: required[name], ReadOnly: readOnly})
	}
	return fields, nil
}

// fillAllOf merges the members of an allOf composition into one object node.
// Later members win on field name collisions.
func (b *builder) fillAllOf(id NodeID, m map[string]any, members []any, at string) error {
	merged := make(map[string]Field)
	var order []string
	add := func(f Field) {
		if _, ok := merged[f.Name]; !ok {
			order = append(order, f.Name)
		}
		merged[f.Name] = f
	}

	for i, member := range members {
		mid, err := b.schema(member, fmt.Sprintf("%s/allOf/%d", at, i))
		if err != nil {
			return err
		}
		if n := b.graph.Deref(mid); n != nil && n.Kind == KindObject {
			for _, f := range n.Fields {
				add(f)
			}
		}
	}
	own, err := b.fields(m, at)
	if err != nil {
		return err
	}
	for _, f := range own {
		add(f)
	}

	sort.Strings(order)
	fields := make([]Field, 0, len(order))
	for _, name := range order {
		fields = append(fields, merged[name])
	}
	n := b.node(id)
	n.Kind = KindObject
	n.Type = "object"
	n.Fields = fields
	return nil
}

// schemaType returns the declared type and whether an OAS 3.1 type list
// includes "null".
func schemaType(m map[string]any) (string, bool) {
	switch t := m["type"].(type) {
	case string:
		return t, false
	case []any:
		typ, nullable := "", false
		for _, v := range t {
			s, _ := v.(string)
			if s == "null" {
				nullable = true
			} else if typ == "" {
				typ = s
			}
		}
		return typ, nullable
	}
	return "", false
}
