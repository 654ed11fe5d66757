package commands

import (
	"context"
)

// PurgeAllocationsCommandHandler deletes old allocation records in one transaction.
type PurgeAllocationsCommandHandler struct {
	uowFactory AllocationUoWFactory
}

// NewPurgeAllocationsCommandHandler creates a handler for record purges.
func NewPurgeAllocationsCommandHandler(uowFactory AllocationUoWFactory) PurgeAllocationsCommandHandler {
	return PurgeAllocationsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle removes every record created before the cutoff and returns how
// many were removed.
func (h *PurgeAllocationsCommandHandler) Handle(ctx context.Context, cmd PurgeAllocationsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := uow.AllocationRepository().DeleteCreatedBefore(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return removed, nil
}
