package queries

import (
	"context"

	"allocator/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAllocationQueryHandler reads one allocation record with direct SQL.
type GetAllocationQueryHandler struct {
	db *gorm.DB
}

// NewGetAllocationQueryHandler creates a handler for single allocation lookups.
func NewGetAllocationQueryHandler(db *gorm.DB) GetAllocationQueryHandler {
	return GetAllocationQueryHandler{db: db}
}

// Handle returns the allocation or errs.ObjectNotFoundError.
func (h GetAllocationQueryHandler) Handle(ctx context.Context, query GetAllocationQuery) (AllocationResponse, error) {
	if err := query.Validate(); err != nil {
		return AllocationResponse{}, err
	}

	responses, err := scanAllocations(ctx, h.db, selectAllocations+` WHERE id = ?`, query.ID().Bytes())
	if err != nil {
		return AllocationResponse{}, err
	}

	if len(responses) == 0 {
		return AllocationResponse{}, errs.NewObjectNotFoundError("allocation", query.ID().String())
	}

	return responses[0], nil
}
