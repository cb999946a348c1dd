package filter

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Node is one element of a filter tree.
type Node interface {
	// String renders the node as RFC 4515 filter text.
	String() string
	node()
}

// Equality matches attribute values equal to Value.
type Equality struct {
	Attribute string
	Value     string
}

// Presence matches entries that have the attribute.
type Presence struct {
	Attribute string
}

// Substring matches values by initial, any and final fragments.
type Substring struct {
	Attribute string
	Initial   string
	Any       []string
	Final     string
}

// GreaterOrEqual matches values ordered at or after Value.
type GreaterOrEqual struct {
	Attribute string
	Value     string
}

// LessOrEqual matches values ordered at or before Value.
type LessOrEqual struct {
	Attribute string
	Value     string
}

// ApproximateMatch matches values approximately equal to Value.
type ApproximateMatch struct {
	Attribute string
	Value     string
}

// And matches when every child matches.
type And struct {
	Children []Node
}

// Or matches when any child matches.
type Or struct {
	Children []Node
}

// Not matches when Child does not.
type Not struct {
	Child Node
}

func (Equality) node()         {}
func (Presence) node()         {}
func (Substring) node()        {}
func (GreaterOrEqual) node()   {}
func (LessOrEqual) node()      {}
func (ApproximateMatch) node() {}
func (And) node()              {}
func (Or) node()               {}
func (Not) node()              {}

func (n Equality) String() string {
	return "(" + n.Attribute + "=" + ldap.EscapeFilter(n.Value) + ")"
}

func (n Presence) String() string {
	return "(" + n.Attribute + "=*)"
}

func (n Substring) String() string {
	parts := make([]string, 0, len(n.Any)+2)
	parts = append(parts, ldap.EscapeFilter(n.Initial))
	for _, a := range n.Any {
		parts = append(parts, ldap.EscapeFilter(a))
	}
	parts = append(parts, ldap.EscapeFilter(n.Final))
	return "(" + n.Attribute + "=" + strings.Join(parts, "*") + ")"
}

func (n GreaterOrEqual) String() string {
	return "(" + n.Attribute + ">=" + ldap.EscapeFilter(n.Value) + ")"
}

func (n LessOrEqual) String() string {
	return "(" + n.Attribute + "<=" + ldap.EscapeFilter(n.Value) + ")"
}

func (n ApproximateMatch) String() string {
	return "(" + n.Attribute + "~=" + ldap.EscapeFilter(n.Value) + ")"
}

func (n And) String() string {
	return composite("&", n.Children)
}

func (n Or) String() string {
	return composite("|", n.Children)
}

func (n Not) String() string {
	if n.Child == nil {
		return "(!)"
	}
	return "(!" + n.Child.String() + ")"
}

func composite(op string, children []Node) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(op)
	for _, c := range children {
		b.WriteString(c.String())
	}
	b.WriteString(")")
	return b.String()
}

// attributeOf returns the attribute a leaf node tests, or "" for composites.
func attributeOf(n Node) string {
	switch v := n.(type) {
	case Equality:
		return v.Attribute
	case Presence:
		return v.Attribute
	case Substring:
		return v.Attribute
	case GreaterOrEqual:
		return v.Attribute
	case LessOrEqual:
		return v.Attribute
	case ApproximateMatch:
		return v.Attribute
	}
	return ""
}
