package normalizer

import (
	"strings"

	"github.com/erraggy/connectorgen/internal/issues"
)

// Dialect identifies the API description format.
type Dialect int

const (
	// DialectUnknown means no dialect could be detected.
	DialectUnknown Dialect = iota
	// DialectOAS2 is OpenAPI 2.0 (Swagger).
	DialectOAS2
	// DialectOAS3 is OpenAPI 3.0 or 3.1.
	DialectOAS3
)

func (d Dialect) String() string {
	switch d {
	case DialectOAS2:
		return "oas2"
	case DialectOAS3:
		return "oas3"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// NodeID is a handle into SchemaGraph.Nodes. The zero value is NoNode.
type NodeID int

// NoNode marks an absent schema.
const NoNode NodeID = 0

// NodeKind is the shape of a schema node.
type NodeKind int

const (
	// KindPrimitive is a scalar value. An empty Type means any value.
	KindPrimitive NodeKind = iota
	// KindObject has named fields.
	KindObject
	// KindArray has an element node.
	KindArray
	// KindBackRef stands for a reference already being resolved higher up.
	KindBackRef
)

var nodeKindNames = map[NodeKind]string{
	KindPrimitive: "primitive",
	KindObject:    "object",
	KindArray:     "array",
	KindBackRef:   "backref",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field is one named member of an object node.
type Field struct {
	Name     string `json:"name"`
	Node     NodeID `json:"node"`
	Required bool   `json:"required,omitempty"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

// SchemaNode is one resolved data shape.
type SchemaNode struct {
	ID   NodeID   `json:"id"`
	Kind NodeKind `json:"kind"`
	// Type is the JSON type of primitives (string, integer, number, boolean).
	Type     string `json:"type,omitempty"`
	Format   string `json:"format,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
	// Name is the component name for nodes built from a named schema.
	Name string `json:"name,omitempty"`
	// Ref is the reference path of a named node or of a back-reference.
	Ref    string  `json:"ref,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Elem   NodeID  `json:"elem,omitempty"`
	Target NodeID  `json:"target,omitempty"`
}

// Field returns the field with the given name.
func (n *SchemaNode) Field(name string) (Field, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldFold returns the field whose name matches case-insensitively,
// preferring an exact match.
func (n *SchemaNode) FieldFold(name string) (Field, bool) {
	if f, ok := n.Field(name); ok {
		return f, true
	}
	for _, f := range n.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

// Parameter is a path, query or header parameter.
type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required,omitempty"`
	Node     NodeID `json:"node,omitempty"`
}

// Response is the payload schema declared for one status code.
type Response struct {
	Status string `json:"status"`
	Node   NodeID `json:"node,omitempty"`
}

// Operation is one (path, method) pair.
type Operation struct {
	ID           string      `json:"operationId"`
	Method       string      `json:"method"`
	Path         string      `json:"path"`
	Summary      string      `json:"summary,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	PathParams   []Parameter `json:"pathParams,omitempty"`
	QueryParams  []Parameter `json:"queryParams,omitempty"`
	HeaderParams []Parameter `json:"headerParams,omitempty"`
	RequestBody  NodeID      `json:"requestBody,omitempty"`
	Responses    []Response  `json:"responses,omitempty"`
	// Security lists the security scheme names that apply, after applying
	// the document-level default.
	Security []string `json:"security,omitempty"`
	// SynthesizedID is set when ID was derived from method and path.
	SynthesizedID bool `json:"synthesizedId,omitempty"`
}

// SuccessResponse returns the schema of the first 2xx response with a schema,
// falling back to the "default" response.
func (op *Operation) SuccessResponse() NodeID {
	for _, r := range op.Responses {
		if len(r.Status) == 3 && r.Status[0] == '2' && r.Node != NoNode {
			return r.Node
		}
	}
	for _, r := range op.Responses {
		if r.Status == "default" {
			return r.Node
		}
	}
	return NoNode
}

// PathParam returns the named path parameter.
func (op *Operation) PathParam(name string) (Parameter, bool) {
	for _, p := range op.PathParams {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// SecurityKind is the kind of a security scheme.
type SecurityKind string

// Security scheme kinds.
const (
	SecurityAPIKey        SecurityKind = "apiKey"
	SecurityBasic         SecurityKind = "basic"
	SecurityBearer        SecurityKind = "bearer"
	SecurityHTTP          SecurityKind = "http"
	SecurityOAuth2        SecurityKind = "oauth2"
	SecurityOpenIDConnect SecurityKind = "openIdConnect"
)

// SecurityScheme is a declared authentication mechanism.
type SecurityScheme struct {
	Name        string       `json:"name"`
	Kind        SecurityKind `json:"kind"`
	Description string       `json:"description,omitempty"`
	// In and ParamName locate API keys ("header", "query" or "cookie").
	In        string `json:"in,omitempty"`
	ParamName string `json:"paramName,omitempty"`
	// Scheme is the HTTP auth scheme for SecurityHTTP (e.g. "digest").
	Scheme           string   `json:"scheme,omitempty"`
	Flow             string   `json:"flow,omitempty"`
	AuthorizationURL string   `json:"authorizationUrl,omitempty"`
	TokenURL         string   `json:"tokenUrl,omitempty"`
	Scopes           []string `json:"scopes,omitempty"`
	OpenIDConnectURL string   `json:"openIdConnectUrl,omitempty"`
}

// ServerVariable is a substitution variable of a server URL template.
type ServerVariable struct {
	Name    string `json:"name"`
	Default string `json:"default"`
}

// Server is a base URL declaration.
type Server struct {
	URL       string           `json:"url"`
	Variables []ServerVariable `json:"variables,omitempty"`
}

// ResolvedURL returns URL with every variable replaced by its default.
func (s Server) ResolvedURL() string {
	u := s.URL
	for _, v := range s.Variables {
		u = strings.ReplaceAll(u, "{"+v.Name+"}", v.Default)
	}
	return u
}

// SchemaGraph is the normalized, reference-free form of an API description.
// It is immutable once Normalize returns.
type SchemaGraph struct {
	Dialect Dialect `json:"dialect"`
	Version string  `json:"version"`
	Title   string  `json:"title,omitempty"`
	// Nodes is the schema arena. Node n is stored at Nodes[n-1].
	Nodes []SchemaNode `json:"nodes"`
	// Components maps schema component names to their nodes.
	Components      map[string]NodeID `json:"components"`
	Operations      []Operation       `json:"operations"`
	SecuritySchemes []SecurityScheme  `json:"securitySchemes,omitempty"`
	Servers         []Server          `json:"servers"`
	GlobalSecurity  []string          `json:"globalSecurity,omitempty"`
	Warnings        []issues.Issue    `json:"warnings,omitempty"`
}

// Node returns the node for id, or nil when id is out of range.
func (g *SchemaGraph) Node(id NodeID) *SchemaNode {
	if id <= NoNode || int(id) > len(g.Nodes) {
		return nil
	}
	return &g.Nodes[id-1]
}

// Deref follows back-references and returns the node they stand for.
func (g *SchemaGraph) Deref(id NodeID) *SchemaNode {
	n := g.Node(id)
	for n != nil && n.Kind == KindBackRef {
		n = g.Node(n.Target)
	}
	return n
}

// Component returns the node of a named schema component.
func (g *SchemaGraph) Component(name string) (NodeID, bool) {
	id, ok := g.Components[name]
	return id, ok
}

// Operation returns the operation with the given ID.
func (g *SchemaGraph) Operation(id string) *Operation {
	for i := range g.Operations {
		if g.Operations[i].ID == id {
			return &g.Operations[i]
		}
	}
	return nil
}

// SecurityScheme returns the named security scheme.
func (g *SchemaGraph) SecurityScheme(name string) *SecurityScheme {
	for i := range g.SecuritySchemes {
		if g.SecuritySchemes[i].Name == name {
			return &g.SecuritySchemes[i]
		}
	}
	return nil
}

// ArrayElem returns the element node when id is an array.
func (g *SchemaGraph) ArrayElem(id NodeID) (NodeID, bool) {
	if n := g.Deref(id); n != nil && n.Kind == KindArray {
		return n.Elem, true
	}
	return NoNode, false
}

// EnvelopeElem returns the element node when id is a list envelope: an
// object whose only array-typed field holds objects, such as
// {"items": [...]}. An entity with one array of scalars is not an envelope.
func (g *SchemaGraph) EnvelopeElem(id NodeID) (NodeID, bool) {
	n := g.Deref(id)
	if n == nil || n.Kind != KindObject {
		return NoNode, false
	}
	elem, found := NoNode, 0
	for _, f := range n.Fields {
		if e, ok := g.ArrayElem(f.Node); ok {
			elem = e
			found++
		}
	}
	if found != 1 {
		return NoNode, false
	}
	if en := g.Deref(elem); en == nil || en.Kind != KindObject {
		return NoNode, false
	}
	return elem, true
}

// CollectionElem returns the element node of an array or of a list envelope.
func (g *SchemaGraph) CollectionElem(id NodeID) (NodeID, bool) {
	if elem, ok := g.ArrayElem(id); ok {
		return elem, true
	}
	return g.EnvelopeElem(id)
}

// SameShape reports whether a and b denote the same schema node once
// back-references are followed.
func (g *SchemaGraph) SameShape(a, b NodeID) bool {
	na, nb := g.Deref(a), g.Deref(b)
	return na != nil && na == nb
}
