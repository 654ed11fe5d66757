package ports

import (
	"context"

	"allocator/internal/core/domain/model/allocation"
)

// AllocationEventPublisher announces committed allocation records to other
// systems. Implementations must be safe for concurrent use.
type AllocationEventPublisher interface {
	// PublishAllocationRecorded sends an allocation.recorded event for a
	// record that is already committed.
	PublishAllocationRecorded(ctx context.Context, record *allocation.Allocation) error
}
