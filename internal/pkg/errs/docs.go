// Package errs provides standardized error types for the allocator service.
// It implements a consistent pattern for error creation, formatting and
// unwrapping that is shared by the domain model, the adapters and the
// command/query handlers.
//
// The package includes:
//   - ValueIsRequiredError: a required value is missing (empty warehouse name)
//   - ValueIsInvalidError: a value breaks a business rule (order with no positive quantity)
//   - ValueIsOutOfRangeError: a numeric value is outside its bounds (negative quantity)
//   - ObjectNotFoundError: a persisted allocation cannot be found
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify errors with errors.Is against the sentinels and extract
// details with errors.As against the struct types.
package errs
