package pathutil

import "strings"

// Schema reference prefixes of each dialect.
const (
	RefPrefixDefinitions = "#/definitions/"
	RefPrefixSchemas     = "#/components/schemas/"
)

// SchemaRef builds "#/components/schemas/{name}" (OAS 3.x).
func SchemaRef(name string) string {
	return RefPrefixSchemas + Escape(name)
}

// DefinitionRef builds "#/definitions/{name}" (OAS 2.0).
func DefinitionRef(name string) string {
	return RefPrefixDefinitions + Escape(name)
}

// ComponentSchemaRef builds the schema ref for the given dialect.
// If oas2 is true, returns "#/definitions/{name}", otherwise "#/components/schemas/{name}".
func ComponentSchemaRef(name string, oas2 bool) string {
	if oas2 {
		return DefinitionRef(name)
	}
	return SchemaRef(name)
}

// SchemaName returns the component name of a schema reference in either
// dialect and reports whether ref had a schema prefix.
func SchemaName(ref string) (string, bool) {
	for _, prefix := range []string{RefPrefixSchemas, RefPrefixDefinitions} {
		if rest, ok := strings.CutPrefix(ref, prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			return Unescape(rest), true
		}
	}
	return "", false
}

// IsLocalRef reports whether ref points into the same document.
func IsLocalRef(ref string) bool {
	return ref == "#" || strings.HasPrefix(ref, "#/")
}
