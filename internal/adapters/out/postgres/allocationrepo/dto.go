// Package allocationrepo provides data transfer objects and mapping functions for
// allocation record persistence. Requested order lines are stored as two parallel
// postgres arrays on the allocation row; the plan is stored one row per shipped
// item in allocation_lines.
package allocationrepo

import (
	"fmt"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AllocationDTO represents the database structure for persisting allocation records.
type AllocationDTO struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Outcome             int                 `gorm:"type:smallint;not null;index"`
	Reason              string              `gorm:"type:text;not null;default:''"`
	DryRun              bool                `gorm:"not null;default:false"`
	RequestedItems      pq.StringArray      `gorm:"type:text[];not null"`
	RequestedQuantities pq.Int64Array       `gorm:"type:bigint[];not null"`
	CreatedAt           time.Time           `gorm:"type:timestamptz;not null;index"`
	Lines               []AllocationLineDTO `gorm:"foreignKey:AllocationID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention to use "allocations".
func (AllocationDTO) TableName() string {
	return "allocations"
}

// AllocationLineDTO is one shipped item of a plan contribution. Position is the
// rank of the contribution in the plan, ItemPosition the rank of the item
// inside the contribution.
type AllocationLineDTO struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	AllocationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position     int       `gorm:"type:int;not null"`
	Warehouse    string    `gorm:"type:varchar(255);not null"`
	ItemPosition int       `gorm:"type:int;not null"`
	Item         string    `gorm:"type:varchar(255);not null"`
	Quantity     int       `gorm:"type:int;not null"`
}

// TableName overrides GORM's default naming convention to use "allocation_lines".
func (AllocationLineDTO) TableName() string {
	return "allocation_lines"
}

func fromDomain(a *allocation.Allocation) AllocationDTO {
	id := a.ID().Bytes()

	requested := a.Requested()
	items := make(pq.StringArray, 0, len(requested))
	quantities := make(pq.Int64Array, 0, len(requested))
	for _, line := range requested {
		items = append(items, line.Item)
		quantities = append(quantities, int64(line.Quantity))
	}

	lines := make([]AllocationLineDTO, 0)
	for position, c := range a.Plan().Contributions() {
		for itemPosition, line := range c.Lines() {
			lines = append(lines, AllocationLineDTO{
				AllocationID: id,
				Position:     position,
				Warehouse:    c.Warehouse(),
				ItemPosition: itemPosition,
				Item:         line.Item,
				Quantity:     line.Quantity,
			})
		}
	}

	return AllocationDTO{
		ID:                  id,
		Outcome:             int(a.Outcome()),
		Reason:              a.Reason(),
		DryRun:              a.IsDryRun(),
		RequestedItems:      items,
		RequestedQuantities: quantities,
		CreatedAt:           a.CreatedAt(),
		Lines:               lines,
	}
}

// toDomain rebuilds the aggregate. Lines must be sorted by position and item position.
func toDomain(dto AllocationDTO) (*allocation.Allocation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	requested, err := RequestedLines(dto.RequestedItems, dto.RequestedQuantities)
	if err != nil {
		return nil, err
	}

	plan, err := PlanFromLines(dto.Lines)
	if err != nil {
		return nil, err
	}

	return allocation.RestoreAllocation(
		id, requested, allocation.Outcome(dto.Outcome), plan, dto.Reason, dto.DryRun, dto.CreatedAt,
	)
}

// RequestedLines zips the parallel requested arrays back into order lines.
func RequestedLines(items pq.StringArray, quantities pq.Int64Array) ([]order.Line, error) {
	if len(items) != len(quantities) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"requested",
			fmt.Errorf("%d items but %d quantities", len(items), len(quantities)),
		)
	}

	lines := make([]order.Line, len(items))
	for i := range items {
		lines[i] = order.Line{Item: items[i], Quantity: int(quantities[i])}
	}
	return lines, nil
}

// PlanFromLines groups consecutive rows of the same position into contributions.
func PlanFromLines(rows []AllocationLineDTO) (shipment.Plan, error) {
	plan := shipment.EmptyPlan()

	for start := 0; start < len(rows); {
		end := start
		var lines []shipment.Line
		for end < len(rows) && rows[end].Position == rows[start].Position {
			lines = append(lines, shipment.Line{Item: rows[end].Item, Quantity: rows[end].Quantity})
			end++
		}

		c, err := shipment.NewContribution(rows[start].Warehouse, lines...)
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
