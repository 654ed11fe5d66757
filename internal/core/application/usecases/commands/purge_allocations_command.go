package commands

import (
	"errors"
	"time"

	"allocator/internal/pkg/errs"
	"allocator/internal/pkg/guard"
)

var ErrPurgeAllocationsCommandIsNotConstructed = errors.New(
	"PurgeAllocationsCommand must be created via NewPurgeAllocationsCommand constructor",
)

// PurgeAllocationsCommand represents a request to delete allocation records
// created before a cutoff. It is issued by the retention job.
//
// Example:
//
//	cmd, err := NewPurgeAllocationsCommand(time.Now().Add(-720 * time.Hour))
//	if err != nil {
//	    return err
//	}
//	removed, err := handler.Handle(ctx, cmd)
type PurgeAllocationsCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewPurgeAllocationsCommand creates a purge command. The cutoff must be set.
func NewPurgeAllocationsCommand(cutoff time.Time) (PurgeAllocationsCommand, error) {
	cmd := PurgeAllocationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCutoff(cutoff); err != nil {
		return PurgeAllocationsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeAllocationsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeAllocationsCommandIsNotConstructed)
}

// Cutoff returns the instant before which records are removed.
func (c PurgeAllocationsCommand) Cutoff() time.Time {
	return c.cutoff
}

func (c *PurgeAllocationsCommand) setCutoff(cutoff time.Time) error {
	if cutoff.IsZero() {
		return errs.NewValueIsRequiredError("cutoff")
	}

	c.cutoff = cutoff
	return nil
}
