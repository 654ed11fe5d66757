// Package ports defines the contracts between the allocator core and its
// infrastructure: persistence of allocation records and event publishing.
package ports

import (
	"context"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
)

// AllocationRepository defines the persistence contract for allocation records.
// Records are written once and never updated.
type AllocationRepository interface {
	// Add persists a new allocation record with its plan.
	Add(ctx context.Context, aggregate *allocation.Allocation) error

	// Get retrieves an allocation record by its identifier.
	// Returns errs.ObjectNotFoundError if there is none.
	Get(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error)

	// GetRecent retrieves up to limit records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*allocation.Allocation, error)

	// DeleteCreatedBefore removes every record created strictly before cutoff
	// and returns how many were removed.
	//
	// Example:
	//   removed, err := repo.DeleteCreatedBefore(ctx, time.Now().Add(-720*time.Hour))
	//   if err != nil {
	//       return fmt.Errorf("failed to purge allocations: %w", err)
	//   }
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
