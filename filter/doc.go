// Package filter compiles directory filter trees into backend query parameters.
//
// A filter is a tree of [Node] values (Equality, Presence, Substring,
// GreaterOrEqual, LessOrEqual, ApproximateMatch, And, Or, Not). [Compile]
// translates it against the attribute bindings of one object class:
//
//	node, _ := filter.Parse("(&(cn=Bob)(value>=30))")
//	q := filter.Compile(node, bindings)
//	// q.Params      -> map[name:Bob value_gte:30]
//	// q.Unsupported -> nodes that have no lossless query translation
//
// Compile never fails. Nodes that cannot be expressed exactly are returned in
// CompiledQuery.Unsupported together with a diagnostic. Or and Not subtrees
// are always reported whole: translating part of an Or would silently narrow
// the result set, so callers get an explicit signal to fetch and filter
// client-side instead.
package filter
