package ir

import "github.com/erraggy/connectorgen/normalizer"

// Directory attribute syntaxes.
const (
	SyntaxString          = "string"
	SyntaxInteger         = "integer"
	SyntaxLong            = "long"
	SyntaxDouble          = "double"
	SyntaxBoolean         = "boolean"
	SyntaxGeneralizedTime = "generalizedTime"
	SyntaxBinary          = "binary"
)

type typeFormat struct{ typ, format string }

// syntaxTable maps (type, format) to a directory syntax. Entries with an
// empty format apply when no (type, format) entry matches.
var syntaxTable = map[typeFormat]string{
	{"string", ""}:          SyntaxString,
	{"integer", ""}:         SyntaxInteger,
	{"number", ""}:          SyntaxDouble,
	{"boolean", ""}:         SyntaxBoolean,
	{"string", "date-time"}: SyntaxGeneralizedTime,
	{"string", "date"}:      SyntaxGeneralizedTime,
	{"string", "byte"}:      SyntaxBinary,
	{"string", "binary"}:    SyntaxBinary,
	{"integer", "int32"}:    SyntaxInteger,
	{"integer", "int64"}:    SyntaxLong,
	{"number", "float"}:     SyntaxDouble,
	{"number", "double"}:    SyntaxDouble,
}

// ClassSchema is the directory schema of one object class.
type ClassSchema struct {
	Class      string            `json:"class"`
	LDAPName   string            `json:"ldapName"`
	Attributes []AttributeSchema `json:"attributes"`
}

// AttributeSchema is the directory schema of one attribute.
type AttributeSchema struct {
	Name        string `json:"name"`
	Syntax      string `json:"syntax"`
	PrimaryKey  bool   `json:"primaryKey,omitempty"`
	MultiValued bool   `json:"multiValued,omitempty"`
	Required    bool   `json:"required,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
}

// ExtractSchema derives the directory schema of every object class.
func ExtractSchema(g *normalizer.SchemaGraph, classes []ObjectClass) []ClassSchema {
	out := make([]ClassSchema, 0, len(classes))
	for _, oc := range classes {
		cs := ClassSchema{Class: oc.Name, LDAPName: oc.LDAPName}
		for _, a := range oc.Attributes {
			syntax := a.TypeOverride
			if syntax == "" {
				syntax = Syntax(g, a.Node)
			}
			cs.Attributes = append(cs.Attributes, AttributeSchema{
				Name:        a.Name,
				Syntax:      syntax,
				PrimaryKey:  a.PrimaryKey,
				MultiValued: a.MultiValued,
				Required:    a.Required,
				ReadOnly:    a.ReadOnly,
			})
		}
		out = append(out, cs)
	}
	return out
}

// Syntax returns the directory syntax of a schema node. Arrays take the
// syntax of their elements; objects and unknown types are strings.
func Syntax(g *normalizer.SchemaGraph, id normalizer.NodeID) string {
	n := g.Deref(id)
	for n != nil && n.Kind == normalizer.KindArray {
		n = g.Deref(n.Elem)
	}
	if n == nil || n.Kind != normalizer.KindPrimitive {
		return SyntaxString
	}
	if s, ok := syntaxTable[typeFormat{n.Type, n.Format}]; ok {
		return s
	}
	if s, ok := syntaxTable[typeFormat{n.Type, ""}]; ok {
		return s
	}
	return SyntaxString
}
