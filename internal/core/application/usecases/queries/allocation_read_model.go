// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models built with direct SQL.
package queries

import (
	"context"
	"fmt"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AllocationResponse is the read model of a recorded allocation.
//
// Example:
//
//	response := AllocationResponse{
//	    ID:        id,
//	    Outcome:   allocation.SingleWarehouse,
//	    Requested: []order.Line{{Item: "apple", Quantity: 2}},
//	    Plan:      plan, // [{"owd":{"apple":2}}]
//	}
type AllocationResponse struct {
	ID        kernel.UUID
	Outcome   allocation.Outcome
	Reason    string
	DryRun    bool
	Requested []order.Line
	Plan      shipment.Plan
	CreatedAt time.Time
}

// IsFulfilled reports whether the allocation produced a plan.
func (r AllocationResponse) IsFulfilled() bool {
	return r.Outcome.IsFulfilled()
}

const selectAllocations = `
	SELECT
		id,
		outcome,
		reason,
		dry_run,
		requested_items,
		requested_quantities,
		created_at
	FROM allocations`

type planLine struct {
	position  int
	warehouse string
	item      string
	quantity  int
}

// scanAllocations reads allocation rows and attaches their plans.
func scanAllocations(ctx context.Context, db *gorm.DB, sql string, args ...any) ([]AllocationResponse, error) {
	rows, err := db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]AllocationResponse, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var (
			response   AllocationResponse
			id         uuid.UUID
			outcome    int
			items      pq.StringArray
			quantities pq.Int64Array
		)

		if err = rows.Scan(&id, &outcome, &response.Reason, &response.DryRun, &items, &quantities, &response.CreatedAt); err != nil {
			return nil, err
		}

		if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		response.Outcome = allocation.Outcome(outcome)
		if err = response.Outcome.Validate(); err != nil {
			return nil, err
		}
		if len(items) != len(quantities) {
			return nil, fmt.Errorf("allocation %s: %d requested items but %d quantities", id, len(items), len(quantities))
		}
		response.Requested = make([]order.Line, len(items))
		for i := range items {
			response.Requested[i] = order.Line{Item: items[i], Quantity: int(quantities[i])}
		}
		response.CreatedAt = response.CreatedAt.UTC()

		responses = append(responses, response)
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return responses, nil
	}

	plans, err := loadPlans(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range responses {
		responses[i].Plan = plans[ids[i]]
	}

	return responses, nil
}

func loadPlans(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]shipment.Plan, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			allocation_id,
			position,
			warehouse,
			item,
			quantity
		FROM allocation_lines
		WHERE allocation_id IN ?
		ORDER BY allocation_id, position, item_position
	`, ids).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[uuid.UUID][]planLine)
	for rows.Next() {
		var (
			id   uuid.UUID
			line planLine
		)
		if err = rows.Scan(&id, &line.position, &line.warehouse, &line.item, &line.quantity); err != nil {
			return nil, err
		}
		grouped[id] = append(grouped[id], line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	plans := make(map[uuid.UUID]shipment.Plan, len(grouped))
	for id, lines := range grouped {
		plan, planErr := buildPlan(lines)
		if planErr != nil {
			return nil, planErr
		}
		plans[id] = plan
	}

	return plans, nil
}

func buildPlan(lines []planLine) (shipment.Plan, error) {
	plan := shipment.EmptyPlan()

	for start := 0; start < len(lines); {
		end := start
		var shipped []shipment.Line
		for end < len(lines) && lines[end].position == lines[start].position {
			shipped = append(shipped, shipment.Line{Item: lines[end].item, Quantity: lines[end].quantity})
			end++
		}

		c, err := shipment.NewContribution(lines[start].warehouse, shipped...)
		if err != nil {
			return shipment.Plan{}, err
		}
		if err = plan.Append(c); err != nil {
			return shipment.Plan{}, err
		}
		start = end
	}

	return plan, nil
}
