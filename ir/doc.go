// Package ir assembles the intermediate representation handed to connector
// renderers.
//
// [Assemble] merges a normalized schema graph, the bound mapping and the
// operation classification into one immutable [IR]:
//
//	out, err := ir.Assemble(ir.Input{Graph: graph, Mapping: bound, Config: cfg})
//	if errors.Is(err, cgerrors.ErrNoSearchOperation) {
//	    // an object class cannot be read back from the API
//	}
//
// Every object class carries a lookup table from (category, scope) to the
// operation to invoke. A class without a Search operation is rejected;
// a class with neither Insert, Modify nor Delete is kept and flagged with a
// ReadOnlyCapabilityOnly diagnostic.
//
// # Determinism
//
// [MarshalCanonical] renders the IR as JSON with sorted object keys and
// NFC-normalized strings. The IR fingerprint is a name-based (version 5)
// UUID of those bytes, so unchanged inputs always produce the same
// fingerprint.
package ir
