// Package classifier assigns API operations to abstract operation categories
// and selects, per object class, the operation to invoke for each category.
//
// Classification is pure and total: every operation maps to exactly one
// [Category], with Unsupported for shapes that are irrelevant to the model.
// Rules are evaluated in order and the first match wins:
//
//  1. GET with an array success response and at most one unresolved
//     required path parameter, which must be identifier-like, or a GET on a
//     parameterless collection path returning a list envelope: Search (list)
//  2. GET with an identifier-like path parameter: Search (base)
//  3. POST with a request body: Insert
//  4. PUT or PATCH: Modify
//  5. DELETE: Delete
//  6. a probe path (/, /health, ...) or a GET without response schema: TestConnect
//  7. anything else: Unsupported
//
// [Plan] then picks one operation per (category, scope) for an object class.
// Competing candidates are ordered by fewest path segments, method, path and
// operation ID; the losers are kept as alternates.
package classifier
