package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/connectorgen/cgerrors"
	"github.com/erraggy/connectorgen/filter"
	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/testutil"
	"github.com/erraggy/connectorgen/normalizer"
)

const peopleDoc = `openapi: 3.0.3
servers: [{url: https://api.example.com}]
paths:
  /people:
    get:
      operationId: listPeople
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: array, items: {$ref: '#/components/schemas/PersonView'}}
    post:
      operationId: createPerson
      requestBody:
        content:
          application/json:
            schema: {$ref: '#/components/schemas/Person'}
      responses: {"201": {description: created}}
  /people/{personId}:
    get:
      operationId: getPerson
      parameters: [{name: personId, in: path, required: true, schema: {type: string}}]
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {$ref: '#/components/schemas/PersonView'}}}
components:
  schemas:
    Person:
      type: object
      required: [Id]
      properties:
        Id: {type: string}
        name: {type: string}
        tags: {type: array, items: {type: string}}
        profile:
          type: object
          properties:
            email: {type: string, format: email}
    PersonView:
      type: object
      properties:
        Id: {type: string}
        createdAt: {type: string, format: date-time, readOnly: true}
    Group:
      type: object
      properties:
        members: {type: array, items: {type: string}}
`

const peopleMapping = `objectClasses:
  People:
    openApiSchemaName: Person
    apiEndpoint: /people
    attributes:
      - ldapName: cn
        openApiPropertyName: name
      - ldapName: mail
        jsonPath: $.profile.email
        apiQueryParam: email
      - ldapName: tags
        openApiPropertyName: tags
      - ldapName: created
        openApiPropertyName: createdAt
`

func mustGraph(t *testing.T, doc string) *normalizer.SchemaGraph {
	t.Helper()
	g, err := normalizer.Normalize([]byte(doc))
	require.NoError(t, err)
	return g
}

func mustResolveMapping(t *testing.T, api, mapping string) *Result {
	t.Helper()
	doc, err := Parse([]byte(mapping))
	require.NoError(t, err)
	res, err := Resolve(doc, mustGraph(t, api))
	require.NoError(t, err)
	return res
}

func TestParseItems(t *testing.T) {
	doc, err := Parse([]byte(testutil.ItemsMapping))
	require.NoError(t, err)

	assert.Equal(t, "1", doc.Version)
	assert.Empty(t, doc.Warnings)
	require.NotNil(t, doc.DNStructure)
	assert.Equal(t, "o=example", doc.DNStructure.BaseDNSuffix)

	require.Len(t, doc.ObjectClasses, 1)
	oc := doc.ObjectClasses[0]
	assert.Equal(t, "Items", oc.Name)
	assert.Equal(t, "/objectClasses/Items", oc.Path)
	assert.Equal(t, "#/components/schemas/Item", oc.SchemaRef)
	assert.Equal(t, "itemId", oc.PrimaryKeyParameter)
	require.Len(t, oc.Attributes, 3)
	assert.Equal(t, []string{"eq", "gte", "lte"}, oc.Attributes[2].QueryOperators)
	assert.Nil(t, oc.Attributes[0].MultiValued)
}

func TestParseDeclarationOrder(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		doc, err := Parse([]byte(`objectClasses:
  Zeta: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
  Alpha: {openApiSchemaName: B, attributes: [{ldapName: b, openApiPropertyName: b}]}
  Mid: {openApiSchemaName: C, attributes: [{ldapName: c, openApiPropertyName: c}]}
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, classNames(doc))
	})

	t.Run("array form", func(t *testing.T) {
		doc, err := Parse([]byte(`{"objectClasses": [
  {"name": "Zeta", "openApiSchemaName": "A", "attributes": [{"ldapName": "a", "openApiPropertyName": "a"}]},
  {"name": "Alpha", "openApiSchemaName": "B", "attributes": [{"ldapName": "b", "openApiPropertyName": "b"}]}
]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta", "Alpha"}, classNames(doc))
		assert.Equal(t, "/objectClasses/1", doc.ObjectClasses[1].Path)
	})
}

func classNames(doc *Document) []string {
	var names []string
	for _, oc := range doc.ObjectClasses {
		names = append(names, oc.Name)
	}
	return names
}

func TestParseUnknownKeys(t *testing.T) {
	doc, err := Parse([]byte(`version: 1
owner: team-a
objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
x-notes: hi
`))
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Version)
	require.Len(t, doc.Warnings, 2)
	assert.Equal(t, "/owner", doc.Warnings[0].Path)
	assert.Equal(t, "/x-notes", doc.Warnings[1].Path)
	assert.Equal(t, issues.CodeUnknownMappingKey, doc.Warnings[0].Code)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind error
		path string
	}{
		{"not yaml", "objectClasses: [", cgerrors.ErrSchemaViolation, "/"},
		{"scalar document", "hello", cgerrors.ErrSchemaViolation, "/"},
		{"self-referential anchor", `objectClasses:
  A: &a {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a, extra: *a}]}
`, cgerrors.ErrSchemaViolation, "/"},
		{"operators without query param", `objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a, queryOperators: [eq, gte]}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A/attributes/0"},
		{"missing objectClasses", "version: 1\n", cgerrors.ErrSchemaViolation, "/"},
		{"empty objectClasses", "objectClasses: {}\n", cgerrors.ErrSchemaViolation, "/"},
		{"dnStructure without suffix", `dnStructure: {rdnAttribute: uid}
objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
`, cgerrors.ErrSchemaViolation, "/"},
		{"class without attributes", `objectClasses:
  A: {openApiSchemaName: A}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A"},
		{"class with empty attributes", `objectClasses:
  A: {openApiSchemaName: A, attributes: []}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A"},
		{"class without schema", `objectClasses:
  A: {attributes: [{ldapName: a, openApiPropertyName: a}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A"},
		{"class with both schema forms", `objectClasses:
  A: {openApiSchemaName: A, openApiSchemaRef: '#/definitions/A', attributes: [{ldapName: a, openApiPropertyName: a}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A"},
		{"attribute without ldapName", `objectClasses:
  A/B: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}, {openApiPropertyName: b}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A~1B/attributes/1"},
		{"attribute without field", `objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A/attributes/0"},
		{"non boolean flag", `objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a, readOnly: "yes"}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A/attributes/0"},
		{"unknown operator", `objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a, queryOperators: [between]}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A/attributes/0"},
		{"bad json path", `objectClasses:
  A: {openApiSchemaName: A, attributes: [{ldapName: a, jsonPath: profile.email}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/A/attributes/0"},
		{"array entry without name", `objectClasses:
  - {openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/0"},
		{"duplicate class", `objectClasses:
  - {name: A, openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
  - {name: a, openApiSchemaName: A, attributes: [{ldapName: a, openApiPropertyName: a}]}
`, cgerrors.ErrAmbiguousBinding, "/objectClasses/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var mErr *cgerrors.MappingError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.path, mErr.Path)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := testutil.WriteTempFile(t, "mapping.yaml", []byte(testutil.ItemsMapping))
	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.ObjectClasses, 1)

	_, err = LoadFile(path + ".missing")
	assert.Error(t, err)
}

func TestResolveItems(t *testing.T) {
	for name, api := range map[string]string{"oas3": testutil.ItemsOAS3, "oas2": testutil.ItemsOAS2} {
		t.Run(name, func(t *testing.T) {
			res := mustResolveMapping(t, api, testutil.ItemsMapping)
			require.Len(t, res.Classes, 1)
			assert.Empty(t, res.Diagnostics)

			oc, ok := res.Class("items")
			require.True(t, ok)
			assert.Equal(t, "item", oc.LDAPName)
			assert.Equal(t, "Item", oc.SchemaName)
			assert.NotEqual(t, normalizer.NoNode, oc.Schema)
			assert.Equal(t, "id", oc.PrimaryKey)
			assert.Equal(t, "itemId", oc.PrimaryKeyParameter)

			var names []string
			for _, a := range oc.Attributes {
				names = append(names, a.Name)
				assert.Equal(t, SourceSchema, a.Source)
				assert.False(t, a.MultiValued)
			}
			assert.Equal(t, []string{"id", "cn", "value"}, names)

			id := oc.PrimaryKeyAttribute()
			require.NotNil(t, id)
			assert.True(t, id.PrimaryKey)
			assert.True(t, id.ReadOnly)
			assert.Equal(t, []filter.Operator{filter.OpEq}, id.Operators)

			cn, ok := oc.Attribute("CN")
			require.True(t, ok)
			assert.Equal(t, "name", cn.Field)
			assert.True(t, cn.Required)

			assert.Equal(t, DNTemplate{RDNAttribute: "id", Suffix: "o=example"}, oc.DN)
			assert.Equal(t, "id={id},o=example", oc.DN.String())
		})
	}
}

func TestObjectClassBindings(t *testing.T) {
	res := mustResolveMapping(t, testutil.ItemsOAS3, testutil.ItemsMapping)
	oc := &res.Classes[0]

	q := filter.Compile(filter.MustParse("(&(CN=Bob*)(value>=3)(value<=9))"), oc)
	assert.Equal(t, map[string]string{"name_like": "Bob*", "value_gte": "3", "value_lte": "9"}, q.Params)
	assert.True(t, q.Complete())

	_, ok := oc.Lookup("missing")
	assert.False(t, ok)
}

func TestResolveImplicitPrimaryKey(t *testing.T) {
	res := mustResolveMapping(t, peopleDoc, peopleMapping)
	oc := res.Classes[0]

	var names []string
	for _, a := range oc.Attributes {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"cn", "mail", "tags", "created", "Id"}, names)

	pk := oc.PrimaryKeyAttribute()
	require.NotNil(t, pk)
	assert.Equal(t, "Id", oc.PrimaryKey)
	assert.True(t, pk.Implicit)
	assert.True(t, pk.Required)
	assert.Equal(t, "Id={Id}", oc.DN.String())

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, issues.CodeImplicitPrimaryKey, res.Diagnostics[0].Code)
	assert.Equal(t, "People", res.Diagnostics[0].ObjectClass)
}

func TestResolveAttributeSources(t *testing.T) {
	oc := mustResolveMapping(t, peopleDoc, peopleMapping).Classes[0]

	mail, _ := oc.Attribute("mail")
	assert.Equal(t, []string{"profile", "email"}, mail.FieldPath)
	assert.Equal(t, "email", mail.Field)
	assert.Equal(t, []filter.Operator{filter.OpEq}, mail.Operators)

	cn, _ := oc.Attribute("cn")
	assert.Nil(t, cn.Operators)
	_, ok := oc.Lookup("cn")
	assert.True(t, ok)

	tags, _ := oc.Attribute("tags")
	assert.True(t, tags.MultiValued)

	created, _ := oc.Attribute("created")
	assert.Equal(t, SourceResponse, created.Source)
	assert.True(t, created.ReadOnly)
}

func TestResolveCounterpartShapes(t *testing.T) {
	api := `openapi: 3.0.3
servers: [{url: https://api.example.com}]
paths:
  /items:
    get:
      operationId: listItems
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  data: {type: array, items: {$ref: '#/components/schemas/ItemView'}}
                  next: {type: string}
  /items/{itemId}:
    get:
      operationId: getItem
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {$ref: '#/components/schemas/ItemDetail'}}}
components:
  schemas:
    Item:
      type: object
      properties:
        id: {type: string}
    ItemView:
      type: object
      properties:
        id: {type: string}
        createdAt: {type: string, format: date-time}
    ItemDetail:
      type: object
      properties:
        id: {type: string}
        name: {type: string}
        labels: {type: array, items: {type: string}}
`
	oc := mustResolveMapping(t, api, `objectClasses:
  Items:
    openApiSchemaName: Item
    apiEndpoint: /items
    attributes:
      - {ldapName: uid, openApiPropertyName: id}
      - {ldapName: cn, openApiPropertyName: name}
      - {ldapName: created, openApiPropertyName: createdAt}
`).Classes[0]

	tests := []struct {
		attribute string
		wantField string
		wantFrom  Source
	}{
		{"uid", "id", SourceSchema},
		{"cn", "name", SourceResponse},
		{"created", "createdAt", SourceResponse},
	}
	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			a, ok := oc.Attribute(tt.attribute)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, a.Field)
			assert.Equal(t, tt.wantFrom, a.Source)
			assert.False(t, a.MultiValued)
		})
	}
}

func TestResolveFlags(t *testing.T) {
	res := mustResolveMapping(t, peopleDoc, `objectClasses:
  People:
    openApiSchemaRef: '#/definitions/Person'
    attributes:
      - {ldapName: uid, openApiPropertyName: id, primaryKey: true}
      - {ldapName: tags, openApiPropertyName: tags, multiValued: false, apiQueryParam: tag, queryOperators: [eq, present], querySuffixStyle: bracket}
`)
	oc := res.Classes[0]
	assert.Equal(t, "uid", oc.PrimaryKey)
	assert.Equal(t, "Id", oc.PrimaryKeyAttribute().Field)
	assert.Empty(t, res.Diagnostics)

	tags, _ := oc.Attribute("tags")
	assert.False(t, tags.MultiValued)
	assert.Equal(t, filter.Binding{
		Param:       "tag",
		Operators:   []filter.Operator{filter.OpEq, filter.OpPresent},
		SuffixStyle: filter.SuffixBracket,
	}, tags.Binding())
}

func TestResolveBoundIDField(t *testing.T) {
	res := mustResolveMapping(t, peopleDoc, `objectClasses:
  People:
    openApiSchemaName: Person
    attributes:
      - {ldapName: cn, openApiPropertyName: name}
      - {ldapName: entryId, openApiPropertyName: ID}
`)
	oc := res.Classes[0]
	assert.Equal(t, "entryId", oc.PrimaryKey)
	assert.Len(t, oc.Attributes, 2)
	assert.Empty(t, res.Diagnostics)
}

func TestResolveDN(t *testing.T) {
	const base = `dnStructure:
  baseDnSuffix: o=example
  rdnAttribute: cn
  components:
    - {ldapName: ou, openApiParameterName: tenant}
objectClasses:
  People:
    openApiSchemaName: Person
`
	t.Run("document structure", func(t *testing.T) {
		oc := mustResolveMapping(t, peopleDoc, base+`    attributes: [{ldapName: cn, openApiPropertyName: name}]
`).Classes[0]
		assert.Equal(t, "cn={cn},ou={tenant},o=example", oc.DN.String())
		assert.Equal(t, []string{"tenant"}, oc.DN.Parameters())
	})

	t.Run("class override", func(t *testing.T) {
		oc := mustResolveMapping(t, peopleDoc, base+`    dn: {suffix: "ou=people,o=example", rdnAttribute: ID}
    attributes: [{ldapName: cn, openApiPropertyName: name}, {ldapName: id, openApiPropertyName: Id}]
`).Classes[0]
		assert.Equal(t, "id={id},ou={tenant},ou=people,o=example", oc.DN.String())
	})

	t.Run("unbound rdn", func(t *testing.T) {
		doc, err := Parse([]byte(base + `    attributes: [{ldapName: mail, jsonPath: $.profile.email}]
`))
		require.NoError(t, err)
		_, err = Resolve(doc, mustGraph(t, peopleDoc))
		assert.ErrorIs(t, err, cgerrors.ErrUnboundAttribute)
		var mErr *cgerrors.MappingError
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, "/dnStructure/rdnAttribute", mErr.Path)
	})

	t.Run("invalid suffix", func(t *testing.T) {
		doc, err := Parse([]byte(`objectClasses:
  People:
    openApiSchemaName: Person
    dn: {suffix: "not a dn"}
    attributes: [{ldapName: cn, openApiPropertyName: name}]
`))
		require.NoError(t, err)
		_, err = Resolve(doc, mustGraph(t, peopleDoc))
		assert.ErrorIs(t, err, cgerrors.ErrSchemaViolation)
	})
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
		kind    error
		path    string
	}{
		{"missing schema", `objectClasses:
  People: {openApiSchemaName: Nobody, attributes: [{ldapName: cn, openApiPropertyName: name}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/People/openApiSchemaName"},
		{"external schema ref", `objectClasses:
  People: {openApiSchemaRef: 'other.yaml#/Person', attributes: [{ldapName: cn, openApiPropertyName: name}]}
`, cgerrors.ErrSchemaViolation, "/objectClasses/People/openApiSchemaRef"},
		{"unbound attribute", `objectClasses:
  People: {openApiSchemaName: Person, attributes: [{ldapName: cn, openApiPropertyName: name}, {ldapName: x, openApiPropertyName: nope}]}
`, cgerrors.ErrUnboundAttribute, "/objectClasses/People/attributes/1"},
		{"unbound json path", `objectClasses:
  People: {openApiSchemaName: Person, attributes: [{ldapName: x, jsonPath: $.profile.phone}]}
`, cgerrors.ErrUnboundAttribute, "/objectClasses/People/attributes/0"},
		{"response field without endpoint", `objectClasses:
  People: {openApiSchemaName: Person, attributes: [{ldapName: created, openApiPropertyName: createdAt}]}
`, cgerrors.ErrUnboundAttribute, "/objectClasses/People/attributes/0"},
		{"duplicate directory name", `objectClasses:
  People: {openApiSchemaName: Person, attributes: [{ldapName: cn, openApiPropertyName: name}, {ldapName: CN, openApiPropertyName: Id}]}
`, cgerrors.ErrAmbiguousBinding, "/objectClasses/People/attributes/1"},
		{"two primary keys", `objectClasses:
  People: {openApiSchemaName: Person, attributes: [{ldapName: cn, openApiPropertyName: name, primaryKey: true}, {ldapName: uid, openApiPropertyName: Id, primaryKey: true}]}
`, cgerrors.ErrAmbiguousBinding, "/objectClasses/People"},
		{"conflicting primary key declarations", `objectClasses:
  People:
    openApiSchemaName: Person
    primaryKeyLdapAttribute: uid
    attributes: [{ldapName: cn, openApiPropertyName: name, primaryKey: true}, {ldapName: uid, openApiPropertyName: Id}]
`, cgerrors.ErrAmbiguousBinding, "/objectClasses/People/primaryKeyLdapAttribute"},
		{"undeclared primary key attribute", `objectClasses:
  People: {openApiSchemaName: Person, primaryKeyLdapAttribute: uid, attributes: [{ldapName: cn, openApiPropertyName: name}]}
`, cgerrors.ErrUnboundAttribute, "/objectClasses/People/primaryKeyLdapAttribute"},
		{"no primary key", `objectClasses:
  Groups: {openApiSchemaName: Group, attributes: [{ldapName: member, openApiPropertyName: members}]}
`, cgerrors.ErrNoPrimaryKey, "/objectClasses/Groups"},
	}

	g := mustGraph(t, peopleDoc)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.mapping))
			require.NoError(t, err)

			res, err := Resolve(doc, g)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.kind)

			var mErr *cgerrors.MappingError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tt.path, mErr.Path)
			assert.NotEmpty(t, mErr.ObjectClass)
		})
	}
}
