package pathutil

import (
	"regexp"
	"slices"
	"strings"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// PathParams returns the template parameter names of an API path in order.
func PathParams(path string) []string {
	var names []string
	for _, m := range PathParamRegex.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

// Segments splits an API path into its non-empty segments.
func Segments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsParamSegment reports whether a path segment is exactly one template parameter.
func IsParamSegment(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' && !strings.ContainsAny(seg[1:len(seg)-1], "{}")
}

// CollectionPath strips a trailing parameter segment from an endpoint, so
// "/items/{itemId}" and "/items" both denote the "/items" collection.
// It returns "" for an empty endpoint.
func CollectionPath(endpoint string) string {
	segs := Segments(endpoint)
	if len(segs) > 0 && IsParamSegment(segs[len(segs)-1]) {
		segs = segs[:len(segs)-1]
	}
	if len(segs) == 0 {
		if endpoint == "" {
			return ""
		}
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// OnCollection reports whether path is the collection itself or a single
// parameter segment below it.
func OnCollection(path, collection string) bool {
	segs := Segments(path)
	base := Segments(collection)
	switch len(segs) - len(base) {
	case 0:
		return slices.Equal(segs, base)
	case 1:
		return slices.Equal(segs[:len(base)], base) && IsParamSegment(segs[len(segs)-1])
	}
	return false
}
