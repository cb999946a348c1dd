package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single parameter", input: "/pets/{petId}", want: []string{"petId"}},
		{name: "multiple parameters", input: "/pets/{petId}/owners/{ownerId}", want: []string{"petId", "ownerId"}},
		{name: "no parameters", input: "/pets/all", want: nil},
		{name: "parameter at start", input: "{version}/pets", want: []string{"version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathParams(tt.input))
		})
	}
}

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments("/"))
	assert.Equal(t, []string{"items", "{itemId}"}, Segments("/items/{itemId}/"))
}

func TestIsParamSegment(t *testing.T) {
	assert.True(t, IsParamSegment("{itemId}"))
	assert.False(t, IsParamSegment("items"))
	assert.False(t, IsParamSegment("{}"))
	assert.False(t, IsParamSegment("{a}.{b}"))
	assert.False(t, IsParamSegment("v{n}"))
}

func TestCollectionPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"/", "/"},
		{"/{id}", "/"},
		{"/items", "/items"},
		{"/items/", "/items"},
		{"/items/{itemId}", "/items"},
		{"/a/{b}/c", "/a/{b}/c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CollectionPath(tt.in), tt.in)
	}
}

func TestOnCollection(t *testing.T) {
	tests := []struct {
		path, collection string
		want             bool
	}{
		{"/items", "/items", true},
		{"/items/{itemId}", "/items", true},
		{"/items/{itemId}/tags", "/items", false},
		{"/items/all", "/items", false},
		{"/other", "/items", false},
		{"/", "/", true},
		{"/{id}", "/", true},
		{"/items", "/", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OnCollection(tt.path, tt.collection), tt.path)
	}
}
