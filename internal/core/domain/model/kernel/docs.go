// Package kernel provides the shared value objects of the allocator domain.
//
// The package includes:
//   - UUID: the identifier of a recorded allocation, with validation,
//     comparison and text encoding
//
// Values in this package are immutable and safe for concurrent use.
package kernel
