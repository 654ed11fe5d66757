package commands

import (
	"context"
	"log/slog"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/services"
	"allocator/internal/core/ports"
)

// AllocateOrderCommandHandler runs an allocation pass and records its result.
//
// Processing sequence:
//   - Allocate with the variant the command asks for (plain, atomic or dry run)
//   - Persist the allocation record in a transaction
//   - Publish an allocation.recorded event for committed non dry-run records
//
// Publishing happens after commit; a failed publish is logged and does not
// fail the command.
//
// Example:
//
//	handler := NewAllocateOrderCommandHandler(uowFactory, allocator, publisher, logger)
//	record, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("allocation failed: %w", err)
//	}
//	fmt.Println(record.Outcome())
type AllocateOrderCommandHandler struct {
	uowFactory AllocationUoWFactory
	allocator  services.InventoryAllocator
	publisher  ports.AllocationEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewAllocateOrderCommandHandler creates a handler for allocation passes.
// publisher may be nil when events are not wanted.
func NewAllocateOrderCommandHandler(
	uowFactory AllocationUoWFactory,
	allocator services.InventoryAllocator,
	publisher ports.AllocationEventPublisher,
	logger *slog.Logger,
) AllocateOrderCommandHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return AllocateOrderCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		publisher:  publisher,
		logger:     logger.With("component", "AllocateOrderCommandHandler"),
		now:        time.Now,
	}
}

// Handle allocates the order and returns the committed record.
// Rejected and insufficient orders are recorded too; only infrastructure
// failures are returned as errors.
func (h *AllocateOrderCommandHandler) Handle(ctx context.Context, cmd AllocateOrderCommand) (*allocation.Allocation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result services.Result
	switch {
	case cmd.DryRun():
		result = h.allocator.DryRun(cmd.Order(), cmd.Warehouses())
	case cmd.Atomic():
		result = h.allocator.AllocateAtomic(cmd.Order(), cmd.Warehouses())
	default:
		result = h.allocator.Allocate(cmd.Order(), cmd.Warehouses())
	}

	var reason string
	if err := result.Reason(); err != nil {
		reason = err.Error()
	}

	record, err := allocation.NewAllocation(cmd.Order(), result.Outcome(), result.Plan(), reason, cmd.DryRun(), h.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.AllocationRepository().Add(ctx, record); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if !record.IsDryRun() && h.publisher != nil {
		if err = h.publisher.PublishAllocationRecorded(ctx, record); err != nil {
			h.logger.ErrorContext(ctx, "failed to publish allocation event",
				"allocationId", record.ID().String(),
				"error", err,
			)
		}
	}

	return record, nil
}
