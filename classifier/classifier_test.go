package classifier

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/connectorgen/internal/issues"
	"github.com/erraggy/connectorgen/internal/testutil"
	"github.com/erraggy/connectorgen/normalizer"
)

func mustGraph(t *testing.T, doc string) *normalizer.SchemaGraph {
	t.Helper()
	g, err := normalizer.Normalize([]byte(doc))
	require.NoError(t, err)
	return g
}

func TestClassifyItems(t *testing.T) {
	for name, doc := range map[string]string{"oas3": testutil.ItemsOAS3, "oas2": testutil.ItemsOAS2} {
		t.Run(name, func(t *testing.T) {
			g := mustGraph(t, doc)
			want := map[string]Key{
				"healthCheck": {TestConnect, ScopeNone},
				"listItems":   {Search, ScopeList},
				"createItem":  {Insert, ScopeNone},
				"getItem":     {Search, ScopeBase},
				"deleteItem":  {Delete, ScopeNone},
			}
			for _, c := range New(g).ClassifyAll() {
				assert.Equal(t, want[c.Operation.ID], Key{c.Category, c.Scope}, c.Operation.ID)
				assert.NotEmpty(t, c.Reason)
			}
		})
	}
}

const shapesDoc = `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /:
    get:
      operationId: root
      responses:
        "200": {description: ok, content: {application/json: {schema: {type: object, properties: {v: {type: string}}}}}}
  /items:
    get:
      operationId: pagedItems
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  items: {type: array, items: {$ref: '#/components/schemas/Item'}}
                  total: {type: integer}
    put:
      operationId: replaceItems
      responses: {"204": {description: ok}}
    post:
      operationId: searchItems
      responses: {"200": {description: ok}}
  /items/{itemId}:
    patch:
      operationId: patchItem
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses: {"200": {description: ok}}
  /tenants/{tenant}/items:
    get:
      operationId: tenantItems
      parameters: [{name: tenant, in: path, required: true, schema: {type: string}}]
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {type: array, items: {type: string}}}}
  /groups/{groupId}/members/{memberKey}:
    get:
      operationId: getMember
      parameters:
        - {name: groupId, in: path, required: true, schema: {type: string}}
        - {name: memberKey, in: path, required: true, schema: {type: string}}
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {type: array, items: {type: string}}}}
  /reports:
    get:
      operationId: report
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {type: object, properties: {a: {type: string}}}}}
    options:
      operationId: reportOptions
      responses: {"200": {description: ok}}
components:
  schemas:
    Item:
      type: object
      properties:
        id: {type: string}
`

func TestClassifyShapes(t *testing.T) {
	g := mustGraph(t, shapesDoc)
	tests := []struct {
		opID string
		want Key
	}{
		{"root", Key{TestConnect, ScopeNone}},
		{"pagedItems", Key{Search, ScopeList}},
		{"replaceItems", Key{Modify, ScopeNone}},
		{"searchItems", Key{Unsupported, ScopeNone}},
		{"patchItem", Key{Modify, ScopeNone}},
		{"tenantItems", Key{Unsupported, ScopeNone}},
		{"getMember", Key{Search, ScopeBase}},
		{"report", Key{Unsupported, ScopeNone}},
		{"reportOptions", Key{Unsupported, ScopeNone}},
	}
	c := New(g)
	for _, tt := range tests {
		t.Run(tt.opID, func(t *testing.T) {
			op := g.Operation(tt.opID)
			require.NotNil(t, op)
			got := c.Classify(op)
			assert.Equal(t, tt.want, Key{got.Category, got.Scope}, got.Reason)
		})
	}
}

func TestClassifyWithResolvedParams(t *testing.T) {
	g := mustGraph(t, shapesDoc)
	got := New(g, WithResolvedParams("tenant")).Classify(g.Operation("tenantItems"))
	assert.Equal(t, Search, got.Category)
	assert.Equal(t, ScopeList, got.Scope)
}

func TestClassifyWithProbePaths(t *testing.T) {
	g := mustGraph(t, shapesDoc)
	c := New(g, WithProbePaths("/reports"))
	assert.Equal(t, TestConnect, c.Classify(g.Operation("report")).Category)
	assert.Equal(t, Unsupported, c.Classify(g.Operation("root")).Category)
	assert.True(t, New(g, WithProbePaths()).IsProbePath("/healthz/"))
}

const taggedDoc = `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /items:
    get:
      operationId: listItems
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {type: array, items: {$ref: '#/components/schemas/Item'}}}}
  /items/{itemId}:
    get:
      operationId: getItem
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {$ref: '#/components/schemas/Item'}}}
  /me:
    get:
      operationId: currentItem
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {$ref: '#/components/schemas/Item'}}}
  /folders/{folderId}:
    get:
      operationId: getFolder
      parameters: [{name: folderId, in: path, required: true, schema: {type: string}}]
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {$ref: '#/components/schemas/Folder'}}}
components:
  schemas:
    Item:
      type: object
      properties:
        id: {type: string}
        name: {type: string}
        tags: {type: array, items: {type: string}}
    Folder:
      type: object
      properties:
        id: {type: string}
        children: {type: array, items: {$ref: '#/components/schemas/Item'}}
`

func TestClassifyEntityWithArrayField(t *testing.T) {
	g := mustGraph(t, taggedDoc)
	tests := []struct {
		opID string
		want Key
	}{
		{"listItems", Key{Search, ScopeList}},
		{"getItem", Key{Search, ScopeBase}},
		{"currentItem", Key{Unsupported, ScopeNone}},
		{"getFolder", Key{Search, ScopeBase}},
	}
	c := New(g)
	for _, tt := range tests {
		t.Run(tt.opID, func(t *testing.T) {
			got := c.Classify(g.Operation(tt.opID))
			assert.Equal(t, tt.want, Key{got.Category, got.Scope}, got.Reason)
		})
	}

	plan := Plan(Target{Name: "Items", Endpoint: "/items", Schema: g.Components["Item"]}, c.ClassifyAll(), g)
	list, ok := plan.Lookup(Key{Search, ScopeList})
	require.True(t, ok)
	assert.Equal(t, "listItems", list.OperationID)
	assert.Empty(t, list.Alternates)
	base, ok := plan.Lookup(Key{Search, ScopeBase})
	require.True(t, ok)
	assert.Equal(t, "getItem", base.OperationID)
	assert.Empty(t, plan.Diagnostics)
}

// TestClassifyTotality classifies every combination of method, path shape,
// body and response shape and checks each yields exactly one valid category.
func TestClassifyTotality(t *testing.T) {
	g := mustGraph(t, shapesDoc)
	item := g.Components["Item"]
	array := g.Operation("tenantItems").SuccessResponse()
	object := g.Operation("report").SuccessResponse()

	methods := []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE", "get", ""}
	paths := []struct {
		path   string
		params []normalizer.Parameter
	}{
		{"/", nil},
		{"/health", nil},
		{"/items", nil},
		{"/items/{itemId}", []normalizer.Parameter{{Name: "itemId", In: "path", Required: true}}},
		{"/a/{x}", []normalizer.Parameter{{Name: "x", In: "path", Required: true}}},
		{"/a/{id}/b/{key}", []normalizer.Parameter{{Name: "id", In: "path", Required: true}, {Name: "key", In: "path", Required: true}}},
	}
	bodies := []normalizer.NodeID{normalizer.NoNode, item, normalizer.NodeID(9999)}
	responses := [][]normalizer.Response{
		nil,
		{{Status: "200", Node: array}},
		{{Status: "201", Node: object}},
		{{Status: "default", Node: item}},
		{{Status: "404", Node: item}},
	}

	c := New(g)
	count := 0
	for _, m := range methods {
		for _, p := range paths {
			for _, body := range bodies {
				for _, resp := range responses {
					op := &normalizer.Operation{
						ID:          fmt.Sprintf("op%d", count),
						Method:      m,
						Path:        p.path,
						PathParams:  p.params,
						RequestBody: body,
						Responses:   resp,
					}
					got := c.Classify(op)
					assert.GreaterOrEqual(t, int(got.Category), int(Search))
					assert.LessOrEqual(t, int(got.Category), int(Unsupported))
					if got.Category == Search {
						assert.NotEqual(t, ScopeNone, got.Scope)
					} else {
						assert.Equal(t, ScopeNone, got.Scope)
					}
					count++
				}
			}
		}
	}
	assert.Equal(t, len(methods)*len(paths)*len(bodies)*len(responses), count)
}

func TestIsIdentifierLike(t *testing.T) {
	for _, name := range []string{"id", "ID", "itemId", "item_id", "key", "UUID"} {
		assert.True(t, IsIdentifierLike(name), name)
	}
	for _, name := range []string{"name", "tenant", "keys", "identity"} {
		assert.False(t, IsIdentifierLike(name), name)
	}
}

func TestTestConnect(t *testing.T) {
	t.Run("probe path", func(t *testing.T) {
		op, ok := New(mustGraph(t, testutil.ItemsOAS3)).TestConnect()
		require.True(t, ok)
		assert.Equal(t, "healthCheck", op.ID)
	})

	t.Run("probe order", func(t *testing.T) {
		g := mustGraph(t, shapesDoc)
		op, ok := New(g, WithProbePaths("/reports", "/")).TestConnect()
		require.True(t, ok)
		assert.Equal(t, "report", op.ID)
	})

	t.Run("first parameterless get", func(t *testing.T) {
		g := mustGraph(t, `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /a/{x}:
    get:
      parameters: [{name: x, in: path, required: true, schema: {type: string}}]
      responses: {"200": {description: ok}}
  /b:
    get:
      parameters: [{name: q, in: query, required: true, schema: {type: string}}]
      responses: {"200": {description: ok}}
  /c:
    post:
      responses: {"200": {description: ok}}
  /d:
    get:
      parameters: [{name: q, in: query, schema: {type: string}}]
      responses: {"200": {description: ok}}
`)
		op, ok := New(g).TestConnect()
		require.True(t, ok)
		assert.Equal(t, "/d", op.Path)
	})

	t.Run("classified before parameterless get", func(t *testing.T) {
		g := mustGraph(t, `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /items:
    get:
      operationId: listItems
      responses:
        "200":
          description: ok
          content: {application/json: {schema: {type: array, items: {type: string}}}}
  /session:
    get:
      operationId: getSession
      parameters: [{name: token, in: query, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
  /whoami:
    get:
      operationId: whoami
      responses: {"204": {description: ok}}
`)
		c := New(g)
		require.Equal(t, TestConnect, c.Classify(g.Operation("whoami")).Category)
		op, ok := c.TestConnect()
		require.True(t, ok)
		assert.Equal(t, "whoami", op.ID)
	})

	t.Run("none", func(t *testing.T) {
		g := mustGraph(t, `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /c:
    post:
      responses: {"200": {description: ok}}
`)
		_, ok := New(g).TestConnect()
		assert.False(t, ok)
	})
}

func TestPlanItems(t *testing.T) {
	g := mustGraph(t, testutil.ItemsOAS3)
	ops := New(g).ClassifyAll()
	item := g.Components["Item"]

	for _, endpoint := range []string{"/items", "/items/{itemId}", "/items/", ""} {
		t.Run("endpoint "+endpoint, func(t *testing.T) {
			plan := Plan(Target{Name: "Items", Endpoint: endpoint, Schema: item}, ops, g)
			assert.Equal(t, "/items", plan.Endpoint)

			got := make(map[string]string)
			for _, s := range plan.Selections {
				got[s.Key.String()] = s.OperationID
				assert.Empty(t, s.Alternates)
			}
			assert.Equal(t, map[string]string{
				"Search(list)": "listItems",
				"Search(base)": "getItem",
				"Insert":       "createItem",
				"Delete":       "deleteItem",
			}, got)
			assert.False(t, plan.Has(Modify))
			assert.True(t, plan.Has(Search))
			assert.Empty(t, plan.Diagnostics)
		})
	}
}

func TestPlanAlternates(t *testing.T) {
	g := mustGraph(t, `openapi: 3.0.3
servers: [{url: https://a.example.com}]
paths:
  /items:
    put:
      operationId: bulkReplace
      responses: {"204": {description: ok}}
  /items/{itemId}:
    put:
      operationId: replaceItem
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
    patch:
      operationId: patchItem
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
  /items/{itemId}/tags:
    put:
      operationId: replaceTags
      parameters: [{name: itemId, in: path, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
`)
	plan := Plan(Target{Name: "Items", Endpoint: "/items"}, New(g).ClassifyAll(), g)
	sel, ok := plan.Lookup(Key{Modify, ScopeNone})
	require.True(t, ok)
	assert.Equal(t, "bulkReplace", sel.OperationID)
	assert.Equal(t, []string{"replaceItem", "patchItem"}, sel.Alternates)

	require.Len(t, plan.Diagnostics, 2)
	for _, d := range plan.Diagnostics {
		assert.Equal(t, issues.CodeDuplicateCategoryMatch, d.Code)
		assert.Equal(t, "Items", d.ObjectClass)
	}
	_, ok = plan.Lookup(Key{Search, ScopeList})
	assert.False(t, ok)
}

func TestPlanInferredEndpoint(t *testing.T) {
	g := mustGraph(t, shapesDoc)
	ops := New(g).ClassifyAll()

	plan := Plan(Target{Name: "Items", Schema: g.Components["Item"]}, ops, g)
	assert.Equal(t, "/items", plan.Endpoint)
	sel, ok := plan.Lookup(Key{Search, ScopeList})
	require.True(t, ok)
	assert.Equal(t, "pagedItems", sel.OperationID)

	plan = Plan(Target{Name: "Nothing"}, ops, g)
	assert.Empty(t, plan.Endpoint)
	assert.Empty(t, plan.Selections)
}

func TestCategoryText(t *testing.T) {
	data, err := json.Marshal(Classification{Category: Search, Scope: ScopeBase, Reason: "r"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Search","scope":"base","reason":"r"}`, string(data))

	var back Classification
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Search, back.Category)
	assert.Equal(t, ScopeBase, back.Scope)

	var c Category
	assert.Error(t, c.UnmarshalText([]byte("Frobnicate")))
	assert.Equal(t, "Category(42)", Category(42).String())
	assert.Equal(t, "Scope(-1)", Scope(-1).String())
	assert.Equal(t, "Insert", Key{Insert, ScopeNone}.String())
}
