// Package claims provides an ordered, strongly-typed view over the
// dynamically-typed claim set carried in a signed token payload.
//
// The package implements:
//   - Store: an ordered claim-name to JSON value mapping that preserves
//     the exact JSON shape (string, number, array, object) of each
//     claim across read/write round trips
//   - Get/Set: generic type-directed accessors converting between
//     stored JSON values and caller shapes
//   - Project: flattening of a store into a list of claims for a
//     generic claims-based identity model
//   - a catalog of registered JWT and LTI claim names and shapes
package claims
