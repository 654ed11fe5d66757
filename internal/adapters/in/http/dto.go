package http

import (
	"time"

	"allocator/internal/core/application/usecases/queries"
	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
)

// AllocationRequest is the body of POST /api/v1/allocations.
// Warehouses are listed in rank order.
type AllocationRequest struct {
	Order      map[string]int     `json:"order" validate:"required,dive,keys,required,endkeys"`
	Warehouses []WarehouseRequest `json:"warehouses" validate:"required,dive"`
	DryRun     bool               `json:"dryRun"`
	Atomic     bool               `json:"atomic" validate:"excluded_if=DryRun true"`
}

// WarehouseRequest describes one candidate warehouse and its stock.
type WarehouseRequest struct {
	Name      string         `json:"name" validate:"required"`
	Inventory map[string]int `json:"inventory" validate:"required,dive,keys,required,endkeys,gte=0"`
}

// Allocation is the response body for a recorded allocation.
type Allocation struct {
	ID        string         `json:"id"`
	Outcome   string         `json:"outcome"`
	Fulfilled bool           `json:"fulfilled"`
	Reason    string         `json:"reason,omitempty"`
	DryRun    bool           `json:"dryRun"`
	Requested map[string]int `json:"requested"`
	Plan      shipment.Plan  `json:"plan"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func requestedMap(lines []order.Line) map[string]int {
	m := make(map[string]int, len(lines))
	for _, line := range lines {
		m[line.Item] = line.Quantity
	}
	return m
}

func allocationFromRecord(record *allocation.Allocation) Allocation {
	return Allocation{
		ID:        record.ID().String(),
		Outcome:   record.Outcome().String(),
		Fulfilled: record.IsFulfilled(),
		Reason:    record.Reason(),
		DryRun:    record.IsDryRun(),
		Requested: requestedMap(record.Requested()),
		Plan:      record.Plan(),
		CreatedAt: record.CreatedAt(),
	}
}

func allocationFromResponse(response queries.AllocationResponse) Allocation {
	return Allocation{
		ID:        response.ID.String(),
		Outcome:   response.Outcome.String(),
		Fulfilled: response.IsFulfilled(),
		Reason:    response.Reason,
		DryRun:    response.DryRun,
		Requested: requestedMap(response.Requested),
		Plan:      response.Plan,
		CreatedAt: response.CreatedAt,
	}
}
