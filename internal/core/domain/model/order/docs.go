// Package order models the request side of an allocation: an ordered set of
// item identifiers with the quantities a caller wants shipped.
//
// The package includes:
//   - Order: ordered item -> quantity lines with map semantics on re-add
//   - Line: a single item request
//
// Key business rules:
//   - Orders are accepted unvalidated; Validate is the allocation pre-check
//   - A negative quantity anywhere rejects the order
//   - An order without any positive quantity (including an empty one) is rejected
//   - Iteration order is insertion order; FromMap sorts items so map input is deterministic
package order
