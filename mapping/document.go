package mapping

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/pathutil"
	"github.com/erraggy/connectorgen/internal/rawdoc"
	"github.com/erraggy/connectorgen/internal/severity"
)

// knownKeys are the recognized top-level keys of a mapping document.
var knownKeys = map[string]bool{
	"version":       true,
	"dnStructure":   true,
	"objectClasses": true,
}

// Document is a parsed and structurally valid mapping document.
type Document struct {
	Version       string
	DNStructure   *DNStructure
	ObjectClasses []ObjectClassSpec
	// Warnings report unknown top-level keys.
	Warnings []issues.Issue
}

// DNStructure is the document-wide DN layout.
type DNStructure struct {
	BaseDNSuffix string        `yaml:"baseDnSuffix"`
	RDNAttribute string        `yaml:"rdnAttribute"`
	Components   []DNComponent `yaml:"components"`
}

// DNComponent binds a DN component to an API path parameter.
type DNComponent struct {
	LDAPName  string `yaml:"ldapName" json:"ldapName"`
	Parameter string `yaml:"openApiParameterName" json:"parameter"`
}

// DNSpec is a class-level DN override.
type DNSpec struct {
	Suffix       string `yaml:"suffix"`
	RDNAttribute string `yaml:"rdnAttribute"`
}

// ObjectClassSpec is one object class as declared in the document.
type ObjectClassSpec struct {
	// Name is the map key, or the name entry in the array form.
	Name string `yaml:"name"`
	// Path is the JSON pointer of the declaration.
	Path string `yaml:"-"`

	LDAPName            string          `yaml:"ldapName"`
	SchemaRef           string          `yaml:"openApiSchemaRef"`
	SchemaName          string          `yaml:"openApiSchemaName"`
	APIEndpoint         string          `yaml:"apiEndpoint"`
	PrimaryKeyAttribute string          `yaml:"primaryKeyLdapAttribute"`
	PrimaryKeyParameter string          `yaml:"primaryKeyOpenApiParameterName"`
	PrimaryKeyJSONPath  string          `yaml:"primaryKeyJsonPath"`
	DN                  *DNSpec         `yaml:"dn"`
	Attributes          []AttributeSpec `yaml:"attributes"`
}

// AttributeSpec is one attribute as declared in the document.
type AttributeSpec struct {
	LDAPName     string `yaml:"ldapName"`
	PropertyName string `yaml:"openApiPropertyName"`
	JSONPath     string `yaml:"jsonPath"`
	TypeOverride string `yaml:"typeOverride"`
	PrimaryKey   bool   `yaml:"primaryKey"`
	// MultiValued is nil when the document leaves it to inference.
	MultiValued    *bool    `yaml:"multiValued"`
	Required       bool     `yaml:"required"`
	ReadOnly       bool     `yaml:"readOnly"`
	QueryParam     string   `yaml:"apiQueryParam"`
	QueryOperators []string `yaml:"queryOperators"`
	SuffixStyle    string   `yaml:"querySuffixStyle"`
}

// LoadFile reads and parses the mapping document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON or YAML mapping document.
// Structural problems are reported as a *cgerrors.MappingError of kind
// SchemaViolation naming the offending path.
func Parse(data []byte) (*Document, error) {
	root, err := rawdoc.Parse(data)
	if err != nil {
		return nil, violation("/", "cannot decode mapping document", err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, violation("/", "mapping document must be an object", nil)
	}
	if err := validateNode(documentSchema, root, "/"); err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, key := range rawdoc.Keys(root) {
		if !knownKeys[key] {
			doc.Warnings = append(doc.Warnings, issues.Issue{
				Code:     issues.CodeUnknownMappingKey,
				Severity: severity.SeverityWarning,
				Path:     pathutil.Join(key),
				Message:  fmt.Sprintf("unknown top-level key %q is ignored", key),
			})
		}
	}

	if v := rawdoc.Lookup(root, "version"); v != nil {
		doc.Version = v.Value
	}
	if n := rawdoc.Lookup(root, "dnStructure"); n != nil {
		doc.DNStructure = &DNStructure{}
		if err := n.Decode(doc.DNStructure); err != nil {
			return nil, violation("/dnStructure", "invalid dnStructure", err)
		}
	}

	classes := rawdoc.Lookup(root, "objectClasses")
	switch classes.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(classes.Content); i += 2 {
			name := classes.Content[i].Value
			spec, err := parseClass(classes.Content[i+1], pathutil.Join("objectClasses", name))
			if err != nil {
				return nil, err
			}
			spec.Name = name
			doc.ObjectClasses = append(doc.ObjectClasses, *spec)
		}
	case yaml.SequenceNode:
		for i, n := range classes.Content {
			at := pathutil.Join("objectClasses", strconv.Itoa(i))
			spec, err := parseClass(n, at)
			if err != nil {
				return nil, err
			}
			if spec.Name == "" {
				return nil, violation(at, "object class entries of the array form require a name", nil)
			}
			doc.ObjectClasses = append(doc.ObjectClasses, *spec)
		}
	}

	seen := make(map[string]string)
	for _, oc := range doc.ObjectClasses {
		key := strings.ToLower(oc.Name)
		if first, ok := seen[key]; ok {
			return nil, &cgerrors.MappingError{
				Kind:        cgerrors.AmbiguousBinding,
				ObjectClass: oc.Name,
				Path:        oc.Path,
				Message:     "object class is already declared at " + first,
			}
		}
		seen[key] = oc.Path
	}
	return doc, nil
}

func parseClass(n *yaml.Node, at string) (*ObjectClassSpec, error) {
	if err := validateNode(objectClassSchema, n, at); err != nil {
		return nil, err
	}
	attrs := rawdoc.Lookup(n, "attributes")
	for i, a := range attrs.Content {
		if err := validateNode(attributeSchema, a, at+pathutil.Join("attributes", strconv.Itoa(i))); err != nil {
			return nil, err
		}
	}

	spec := &ObjectClassSpec{}
	if err := n.Decode(spec); err != nil {
		return nil, violation(at, "invalid object class", err)
	}
	spec.Path = at
	return spec, nil
}

func violation(path, msg string, cause error) *cgerrors.MappingError {
	return &cgerrors.MappingError{
		Kind:    cgerrors.SchemaViolation,
		Path:    path,
		Message: msg,
		Cause:   cause,
	}
}
