package services

import (
	"errors"
	"fmt"
	"log/slog"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/core/domain/model/warehouse"
)

// ErrInsufficientInventory is the reason reported when the combined stock of
// all warehouses cannot cover an item of the order.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// Result is the outcome of one allocation pass together with its plan.
// Rejected and insufficient orders are normal results, never Go errors.
type Result struct {
	outcome allocation.Outcome
	plan    shipment.Plan
	reason  error
}

// Outcome returns how the pass ended.
func (r Result) Outcome() allocation.Outcome {
	return r.outcome
}

// Plan returns the shipment plan. It is empty unless the order was fulfilled.
func (r Result) Plan() shipment.Plan {
	return r.plan
}

// Reason explains an unfulfilled outcome: the validation error for Rejected,
// ErrInsufficientInventory wrapped with the item for Insufficient, nil otherwise.
func (r Result) Reason() error {
	return r.reason
}

// IsFulfilled reports whether the plan covers the whole order.
func (r Result) IsFulfilled() bool {
	return r.outcome.IsFulfilled()
}

// InventoryAllocator is a domain service that allocates an order across a
// ranked list of warehouses.
//
// Key responsibilities:
//   - Rejecting orders with a negative quantity or no positive quantity
//   - Preferring the first warehouse, in rank order, that covers the whole order
//   - Splitting the order greedily per item in rank order otherwise
//   - Assembling the shipment plan from the warehouses that shipped
//
// Business rules:
//   - Rejected orders never touch a warehouse
//   - Shipping decrements warehouse stock in place; Allocate is not idempotent
//   - A split stops at the first item the warehouses cannot cover, and what
//     was shipped before that point stays shipped (see AllocateAtomic)
//   - Only warehouses that shipped something appear in the plan, in rank order
//
// The allocator keeps no state between passes, so concurrent passes over
// distinct warehouses are safe.
//
// Example usage:
//
//	allocator := services.NewInventoryAllocator(logger)
//	o, _ := order.FromMap(map[string]int{"apple": 9, "orange": 4})
//	owd, _ := warehouse.NewWarehouseWithInventory("owd", map[string]int{"apple": 5, "orange": 3})
//	dm, _ := warehouse.NewWarehouseWithInventory("dm", map[string]int{"apple": 4, "orange": 1})
//
//	result := allocator.Allocate(o, []*warehouse.Warehouse{owd, dm})
//	// result.Outcome() == allocation.MultiWarehouse
//	// result.Plan() encodes as [{"owd":{"apple":5,"orange":3}},{"dm":{"apple":4,"orange":1}}]
type InventoryAllocator struct {
	logger *slog.Logger
}

// NewInventoryAllocator creates an allocator that reports its decisions to
// logger. A nil logger discards them.
func NewInventoryAllocator(logger *slog.Logger) InventoryAllocator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return InventoryAllocator{logger: logger.With("component", "InventoryAllocator")}
}

// Allocate runs one allocation pass, mutating the warehouses in place.
//
// Parameters:
//   - o: the order; a nil order is treated as empty
//   - warehouses: candidates in rank order; nil entries are skipped
//
// Returns:
//   - Result: Rejected, SingleWarehouse, MultiWarehouse or Insufficient
//
// Pass sequence:
//   - Validate the order
//   - Begin a new pass on every warehouse
//   - Ship everything from the first covering warehouse, or split per item
//   - Collect the contributions of shipping warehouses
func (a InventoryAllocator) Allocate(o *order.Order, warehouses []*warehouse.Warehouse) Result {
	if err := o.Validate(); err != nil {
		a.logger.Info("order rejected", "order", o.String(), "reason", err.Error())
		return Result{outcome: allocation.Rejected, plan: shipment.EmptyPlan(), reason: err}
	}

	candidates := compact(warehouses)
	for _, w := range candidates {
		w.BeginPass()
	}

	if designated := findCoveringWarehouse(o, candidates); designated != nil {
		a.logger.Info("all of the order will be shipped from a single warehouse", "warehouse", designated.Name())
		shipFromSingleWarehouse(o, designated)
		return Result{outcome: allocation.SingleWarehouse, plan: collectPlan(candidates)}
	}

	if err := shipFromMultipleWarehouses(o, candidates); err != nil {
		a.logger.Info("order cannot be fulfilled", "order", o.String(), "reason", err.Error())
		return Result{outcome: allocation.Insufficient, plan: shipment.EmptyPlan(), reason: err}
	}

	plan := collectPlan(candidates)
	a.logger.Info("order will be split between warehouses", "warehouses", plan.Warehouses())
	return Result{outcome: allocation.MultiWarehouse, plan: plan}
}

// AllocateAtomic behaves like Allocate but restores every warehouse to its
// state before the pass when the outcome is Insufficient.
func (a InventoryAllocator) AllocateAtomic(o *order.Order, warehouses []*warehouse.Warehouse) Result {
	candidates := compact(warehouses)

	snapshots := make([]warehouse.Snapshot, len(candidates))
	for i, w := range candidates {
		snapshots[i] = w.Snapshot()
	}

	result := a.Allocate(o, candidates)
	if result.Outcome() != allocation.Insufficient {
		return result
	}

	for i, w := range candidates {
		// snapshots were taken from the same warehouses, so Restore cannot fail
		_ = w.Restore(snapshots[i])
	}
	a.logger.Debug("partial shipments rolled back", "warehouses", len(candidates))

	return result
}

// DryRun computes the result Allocate would produce without touching the
// caller's warehouses.
func (a InventoryAllocator) DryRun(o *order.Order, warehouses []*warehouse.Warehouse) Result {
	candidates := compact(warehouses)

	clones := make([]*warehouse.Warehouse, len(candidates))
	for i, w := range candidates {
		clones[i] = w.Clone()
	}

	return a.Allocate(o, clones)
}

// compact drops nil entries and repeated listings of the same warehouse,
// keeping the first position of each.
func compact(warehouses []*warehouse.Warehouse) []*warehouse.Warehouse {
	out := make([]*warehouse.Warehouse, 0, len(warehouses))
	seen := make(map[*warehouse.Warehouse]struct{}, len(warehouses))
	for _, w := range warehouses {
		if w == nil {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// findCoveringWarehouse returns the first warehouse in rank order that holds
// the whole order, nil if there is none.
func findCoveringWarehouse(o *order.Order, warehouses []*warehouse.Warehouse) *warehouse.Warehouse {
	for _, w := range warehouses {
		if w.CanCoverEntireOrder(o) {
			return w
		}
	}
	return nil
}

func shipFromSingleWarehouse(o *order.Order, w *warehouse.Warehouse) {
	for _, line := range o.Lines() {
		w.Ship(line.Item, line.Quantity)
	}
}

// shipFromMultipleWarehouses consumes each line from the warehouses in rank
// order until it is covered. It stops at the first line that cannot be covered.
func shipFromMultipleWarehouses(o *order.Order, warehouses []*warehouse.Warehouse) error {
	for _, line := range o.Lines() {
		remaining := line.Quantity
		for _, w := range warehouses {
			if remaining <= 0 {
				break
			}
			remaining -= w.Ship(line.Item, remaining)
		}

		if remaining > 0 {
			return fmt.Errorf("%w: %d of %d %s missing", ErrInsufficientInventory, remaining, line.Quantity, line.Item)
		}
	}
	return nil
}

func collectPlan(warehouses []*warehouse.Warehouse) shipment.Plan {
	plan := shipment.EmptyPlan()
	for _, w := range warehouses {
		contribution, ok := w.ShippingContribution()
		if !ok {
			continue
		}
		// contributions built by the ledger are never empty
		_ = plan.Append(contribution)
	}
	return plan
}
