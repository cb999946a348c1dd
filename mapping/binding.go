package mapping

import (
	"strings"

	"github.com/erraggy/connectorgen/filter"
	"github.com/erraggy/connectorgen/normalizer"
)

// Source tells where an attribute's field was found.
type Source string

// Field sources, in lookup order.
const (
	SourceSchema      Source = "schema"
	SourceRequestBody Source = "requestBody"
	SourceResponse    Source = "response"
)

// Attribute is a directory attribute bound to a schema field.
type Attribute struct {
	// Name is the directory attribute name.
	Name string `json:"name"`
	// Field is the bound schema field name (the last JSON path step).
	Field string `json:"field"`
	// FieldPath lists the field names walked from the class schema.
	FieldPath []string          `json:"fieldPath"`
	Node      normalizer.NodeID `json:"node"`
	Source    Source            `json:"source"`

	PrimaryKey  bool `json:"primaryKey"`
	MultiValued bool `json:"multiValued"`
	Required    bool `json:"required"`
	ReadOnly    bool `json:"readOnly"`
	// Implicit is set for a primary key bound from the schema alone.
	Implicit bool `json:"implicit,omitempty"`

	QueryParam   string             `json:"queryParam,omitempty"`
	Operators    []filter.Operator  `json:"operators,omitempty"`
	SuffixStyle  filter.SuffixStyle `json:"suffixStyle,omitempty"`
	TypeOverride string             `json:"typeOverride,omitempty"`
}

// Binding returns the query binding of the attribute.
func (a Attribute) Binding() filter.Binding {
	return filter.Binding{Param: a.QueryParam, Operators: a.Operators, SuffixStyle: a.SuffixStyle}
}

// DNTemplate is the ordered recipe for an entry's distinguished name:
// the RDN attribute, then the path-bound components, then the fixed suffix.
type DNTemplate struct {
	RDNAttribute string        `json:"rdnAttribute"`
	Components   []DNComponent `json:"components,omitempty"`
	Suffix       string        `json:"suffix,omitempty"`
}

// String renders the template with placeholders, e.g.
// "id={id},ou={tenant},o=example".
func (t DNTemplate) String() string {
	parts := []string{t.RDNAttribute + "={" + t.RDNAttribute + "}"}
	for _, c := range t.Components {
		parts = append(parts, c.LDAPName+"={"+c.Parameter+"}")
	}
	if t.Suffix != "" {
		parts = append(parts, t.Suffix)
	}
	return strings.Join(parts, ",")
}

// Parameters returns the path parameters the DN components consume.
func (t DNTemplate) Parameters() []string {
	var out []string
	for _, c := range t.Components {
		out = append(out, c.Parameter)
	}
	return out
}

// ObjectClass is a directory object class bound to a backend schema.
type ObjectClass struct {
	Name     string `json:"name"`
	LDAPName string `json:"ldapName"`
	// Path is the JSON pointer of the declaration in the mapping document.
	Path       string            `json:"-"`
	SchemaName string            `json:"schema"`
	Schema     normalizer.NodeID `json:"schemaNode"`
	Endpoint   string            `json:"endpoint,omitempty"`
	Attributes []Attribute       `json:"attributes"`
	// PrimaryKey is the directory name of the primary key attribute.
	PrimaryKey          string     `json:"primaryKey"`
	PrimaryKeyParameter string     `json:"primaryKeyParameter,omitempty"`
	PrimaryKeyJSONPath  string     `json:"primaryKeyJsonPath,omitempty"`
	DN                  DNTemplate `json:"dn"`
}

// Attribute returns the attribute with the given directory name,
// matched case-insensitively.
func (oc *ObjectClass) Attribute(name string) (*Attribute, bool) {
	for i := range oc.Attributes {
		if strings.EqualFold(oc.Attributes[i].Name, name) {
			return &oc.Attributes[i], true
		}
	}
	return nil, false
}

// Lookup implements filter.Bindings.
func (oc *ObjectClass) Lookup(attribute string) (filter.Binding, bool) {
	a, ok := oc.Attribute(attribute)
	if !ok {
		return filter.Binding{}, false
	}
	return a.Binding(), true
}

// PrimaryKeyAttribute returns the primary key attribute.
func (oc *ObjectClass) PrimaryKeyAttribute() *Attribute {
	a, _ := oc.Attribute(oc.PrimaryKey)
	return a
}
