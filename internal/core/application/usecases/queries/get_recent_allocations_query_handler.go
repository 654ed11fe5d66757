package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetRecentAllocationsQueryHandler lists allocation records with direct SQL.
//
// Example:
//
//	handler := NewGetRecentAllocationsQueryHandler(db)
//	query, _ := NewGetRecentAllocationsQuery(20)
//
//	responses, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Found %d allocations\n", len(responses))
type GetRecentAllocationsQueryHandler struct {
	db *gorm.DB
}

// NewGetRecentAllocationsQueryHandler creates a handler for allocation listings.
func NewGetRecentAllocationsQueryHandler(db *gorm.DB) GetRecentAllocationsQueryHandler {
	return GetRecentAllocationsQueryHandler{db: db}
}

// Handle returns up to the query limit of records, newest first.
func (h GetRecentAllocationsQueryHandler) Handle(
	ctx context.Context,
	query GetRecentAllocationsQuery,
) ([]AllocationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return scanAllocations(ctx, h.db, selectAllocations+` ORDER BY created_at DESC, id LIMIT ?`, query.Limit())
}
