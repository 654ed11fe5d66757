// Package guard provides ConstructorGuard, which lets value objects, commands
// and queries detect that they were built as zero values instead of through
// their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guarded object
// was not constructed and no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in a struct and set only by its constructor.
// A zero-value guard fails validation.
//
// Example usage:
//
//	var ErrPurgeCommandIsNotConstructed = errors.New("PurgeAllocationsCommand must be created via NewPurgeAllocationsCommand")
//
//	type PurgeAllocationsCommand struct {
//	    cutoff time.Time
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewPurgeAllocationsCommand(cutoff time.Time) PurgeAllocationsCommand {
//	    return PurgeAllocationsCommand{cutoff: cutoff, guard: guard.NewConstructorGuard()}
//	}
//
//	func (c PurgeAllocationsCommand) Validate() error {
//	    return c.guard.Validate(ErrPurgeCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is
// nil) if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
