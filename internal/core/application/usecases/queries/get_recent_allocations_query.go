package queries

import (
	"errors"

	"allocator/internal/pkg/errs"
	"allocator/internal/pkg/guard"
)

const (
	// MinRecentAllocationsLimit and MaxRecentAllocationsLimit bound the page size.
	MinRecentAllocationsLimit = 1
	MaxRecentAllocationsLimit = 100

	// DefaultRecentAllocationsLimit is used when the caller gives no limit.
	DefaultRecentAllocationsLimit = 20
)

var ErrGetRecentAllocationsQueryIsNotConstructed = errors.New(
	"GetRecentAllocationsQuery must be created via NewGetRecentAllocationsQuery constructor",
)

// GetRecentAllocationsQuery lists the latest allocation records, newest first.
//
// Example:
//
//	query, err := NewGetRecentAllocationsQuery(10)
//	if err != nil {
//	    return err
//	}
//	responses, err := handler.Handle(ctx, query)
type GetRecentAllocationsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentAllocationsQuery creates a listing query.
// Returns errs.ValueIsOutOfRangeError if limit is outside 1..100.
func NewGetRecentAllocationsQuery(limit int) (GetRecentAllocationsQuery, error) {
	if limit < MinRecentAllocationsLimit || limit > MaxRecentAllocationsLimit {
		return GetRecentAllocationsQuery{}, errs.NewValueIsOutOfRangeError(
			"limit", limit, MinRecentAllocationsLimit, MaxRecentAllocationsLimit,
		)
	}

	return GetRecentAllocationsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecentAllocationsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentAllocationsQueryIsNotConstructed)
}

// Limit returns the maximum number of records to return.
func (q GetRecentAllocationsQuery) Limit() int {
	return q.limit
}
