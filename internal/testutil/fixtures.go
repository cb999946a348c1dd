// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// ItemsOAS3 is the minimal items API as an OpenAPI 3.0 document:
// GET/POST /items, GET/DELETE /items/{itemId}, a /health probe and an
// Item{id,name,value} schema.
const ItemsOAS3 = `openapi: 3.0.3
info:
  title: Items API
  version: 1.0.0
servers:
  - url: https://{region}.example.com/v1
    variables:
      region:
        default: eu
security:
  - apiKeyAuth: []
paths:
  /health:
    get:
      operationId: healthCheck
      responses:
        "200":
          description: ok
  /items:
    get:
      operationId: listItems
      parameters:
        - name: name
          in: query
          schema:
            type: string
      responses:
        "200":
          description: all items
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Item'
    post:
      operationId: createItem
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Item'
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Item'
  /items/{itemId}:
    parameters:
      - name: itemId
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: getItem
      responses:
        "200":
          description: one item
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Item'
    delete:
      operationId: deleteItem
      responses:
        "204":
          description: deleted
components:
  schemas:
    Item:
      type: object
      required: [name]
      properties:
        id:
          type: string
          readOnly: true
        name:
          type: string
        value:
          type: integer
          format: int64
  securitySchemes:
    apiKeyAuth:
      type: apiKey
      in: header
      name: X-API-Key
`

// ItemsOAS2 is ItemsOAS3 expressed as an OpenAPI 2.0 document.
const ItemsOAS2 = `swagger: "2.0"
info:
  title: Items API
  version: 1.0.0
host: eu.example.com
basePath: /v1
schemes: [https]
security:
  - apiKeyAuth: []
paths:
  /health:
    get:
      operationId: healthCheck
      responses:
        200:
          description: ok
  /items:
    get:
      operationId: listItems
      parameters:
        - name: name
          in: query
          type: string
      responses:
        200:
          description: all items
          schema:
            type: array
            items:
              $ref: '#/definitions/Item'
    post:
      operationId: createItem
      parameters:
        - name: body
          in: body
          required: true
          schema:
            $ref: '#/definitions/Item'
      responses:
        201:
          description: created
          schema:
            $ref: '#/definitions/Item'
  /items/{itemId}:
    parameters:
      - name: itemId
        in: path
        required: true
        type: string
    get:
      operationId: getItem
      responses:
        200:
          description: one item
          schema:
            $ref: '#/definitions/Item'
    delete:
      operationId: deleteItem
      responses:
        204:
          description: deleted
definitions:
  Item:
    type: object
    required: [name]
    properties:
      id:
        type: string
        readOnly: true
      name:
        type: string
      value:
        type: integer
        format: int64
securityDefinitions:
  apiKeyAuth:
    type: apiKey
    in: header
    name: X-API-Key
`

// ItemsMapping binds object class Items to the Item schema of either
// items document.
const ItemsMapping = `version: "1"
dnStructure:
  baseDnSuffix: o=example
objectClasses:
  Items:
    ldapName: item
    openApiSchemaRef: '#/components/schemas/Item'
    apiEndpoint: /items
    primaryKeyLdapAttribute: id
    primaryKeyOpenApiParameterName: itemId
    attributes:
      - ldapName: id
        openApiPropertyName: id
        readOnly: true
        apiQueryParam: id
      - ldapName: cn
        openApiPropertyName: name
        required: true
        apiQueryParam: name
        queryOperators: [eq, substring]
      - ldapName: value
        openApiPropertyName: value
        apiQueryParam: value
        queryOperators: [eq, gte, lte]
`

// WriteTempFile writes data to a file named name in a temporary directory.
// Returns the path to the file, which is removed when the test completes.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// ReadArchive parses a txtar archive and returns its files by name.
func ReadArchive(t *testing.T, path string) map[string][]byte {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to read archive %s: %v", path, err)
	}
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	return files
}

// Archives returns the txtar archives in dir, sorted by name.
func Archives(t *testing.T, dir string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		t.Fatalf("Failed to list archives: %v", err)
	}
	return matches
}
