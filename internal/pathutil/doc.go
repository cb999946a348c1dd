// Package pathutil provides JSON pointer and reference helpers shared by the
// normalizer and the mapping resolver.
//
// [Join] and [Split] convert between JSON pointers and unescaped tokens:
//
//	pathutil.Join("paths", "/items/{itemId}", "get") // "/paths/~1items~1{itemId}/get"
//
// Reference helpers know the component prefixes of both dialects:
//
//	pathutil.SchemaRef("Item")     // "#/components/schemas/Item"
//	pathutil.DefinitionRef("Item") // "#/definitions/Item"
//
// [SanitizeOutputPath] validates output file paths supplied on the command line.
package pathutil
