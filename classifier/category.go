package classifier

import "fmt"

// Category is an abstract operation category.
type Category int

// Operation categories in canonical order.
const (
	Search Category = iota
	Insert
	Modify
	Delete
	TestConnect
	Unsupported
)

var categoryNames = [...]string{"Search", "Insert", "Modify", "Delete", "TestConnect", "Unsupported"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for i, name := range categoryNames {
		if name == string(text) {
			*c = Category(i)
			return nil
		}
	}
	return fmt.Errorf("classifier: unknown category %q", text)
}

// Scope qualifies a Search.
type Scope int

const (
	// ScopeNone applies to every category but Search.
	ScopeNone Scope = iota
	// ScopeList searches a collection.
	ScopeList
	// ScopeBase reads a single entry by identifier.
	ScopeBase
)

var scopeNames = [...]string{"", "list", "base"}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return fmt.Sprintf("Scope(%d)", int(s))
	}
	return scopeNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	for i, name := range scopeNames {
		if name == string(text) {
			*s = Scope(i)
			return nil
		}
	}
	return fmt.Errorf("classifier: unknown scope %q", text)
}

// Key identifies one slot of an object class's lookup table.
type Key struct {
	Category Category
	Scope    Scope
}

func (k Key) String() string {
	if k.Scope == ScopeNone {
		return k.Category.String()
	}
	return k.Category.String() + "(" + k.Scope.String() + ")"
}

// Keys lists the lookup slots of an object class in canonical order.
var Keys = []Key{
	{Search, ScopeList},
	{Search, ScopeBase},
	{Insert, ScopeNone},
	{Modify, ScopeNone},
	{Delete, ScopeNone},
}
