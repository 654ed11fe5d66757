package queries

import (
	"errors"

	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/pkg/guard"
)

var ErrGetAllocationQueryIsNotConstructed = errors.New(
	"GetAllocationQuery must be created via NewGetAllocationQuery constructor",
)

// GetAllocationQuery retrieves one recorded allocation by identifier.
//
// Example:
//
//	query, err := NewGetAllocationQuery(id)
//	if err != nil {
//	    return err
//	}
//	response, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown allocation
//	}
type GetAllocationQuery struct {
	id kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAllocationQuery creates a lookup query. The identifier must be valid.
func NewGetAllocationQuery(id kernel.UUID) (GetAllocationQuery, error) {
	if err := id.Validate(); err != nil {
		return GetAllocationQuery{}, err
	}

	return GetAllocationQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllocationQuery) Validate() error {
	return q.guard.Validate(ErrGetAllocationQueryIsNotConstructed)
}

// ID returns the allocation identifier to look up.
func (q GetAllocationQuery) ID() kernel.UUID {
	return q.id
}
