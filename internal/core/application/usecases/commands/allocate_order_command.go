package commands

import (
	"errors"
	"fmt"

	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/warehouse"
	"allocator/internal/pkg/errs"
	"allocator/internal/pkg/guard"
)

var (
	ErrAllocateOrderCommandIsNotConstructed = errors.New(
		"AllocateOrderCommand must be created via NewAllocateOrderCommand constructor",
	)
	ErrDryRunCannotBeAtomic = errors.New("dry run and atomic cannot be combined")
)

// AllocateOrderCommand represents a request to allocate an order across a
// ranked list of warehouses and record the result.
//
// The order is kept as submitted: negative or all-zero quantities are not a
// construction error, they produce a Rejected allocation.
//
// Example:
//
//	o, _ := order.FromMap(map[string]int{"apple": 9, "orange": 4})
//	owd, _ := warehouse.NewWarehouseWithInventory("owd", map[string]int{"apple": 5, "orange": 3})
//	dm, _ := warehouse.NewWarehouseWithInventory("dm", map[string]int{"apple": 4, "orange": 1})
//
//	cmd, err := NewAllocateOrderCommand(o, []*warehouse.Warehouse{owd, dm}, false, false)
//	if err != nil {
//	    return fmt.Errorf("invalid allocation request: %w", err)
//	}
//
//	record, err := handler.Handle(ctx, cmd)
type AllocateOrderCommand struct { //nolint:recvcheck //using for validation
	order      *order.Order
	warehouses []*warehouse.Warehouse
	dryRun     bool
	atomic     bool

	guard guard.ConstructorGuard
}

// NewAllocateOrderCommand creates a command for one allocation pass.
// Warehouses are listed in rank order and must all be constructed.
// dryRun and atomic are mutually exclusive.
func NewAllocateOrderCommand(
	o *order.Order,
	warehouses []*warehouse.Warehouse,
	dryRun bool,
	atomic bool,
) (AllocateOrderCommand, error) {
	cmd := AllocateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrder(o),
		cmd.setWarehouses(warehouses),
		cmd.setMode(dryRun, atomic),
	); err != nil {
		return AllocateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAllocateOrderCommandIsNotConstructed if validation fails.
func (c AllocateOrderCommand) Validate() error {
	return c.guard.Validate(ErrAllocateOrderCommandIsNotConstructed)
}

// Order returns the order to allocate.
func (c AllocateOrderCommand) Order() *order.Order {
	return c.order
}

// Warehouses returns the candidate warehouses in rank order.
func (c AllocateOrderCommand) Warehouses() []*warehouse.Warehouse {
	return append([]*warehouse.Warehouse(nil), c.warehouses...)
}

// DryRun reports whether the pass must leave the warehouses untouched.
func (c AllocateOrderCommand) DryRun() bool {
	return c.dryRun
}

// Atomic reports whether an insufficient pass must be rolled back.
func (c AllocateOrderCommand) Atomic() bool {
	return c.atomic
}

func (c *AllocateOrderCommand) setOrder(o *order.Order) error {
	if o == nil {
		return errs.NewValueIsRequiredError("order")
	}

	c.order = o
	return nil
}

func (c *AllocateOrderCommand) setWarehouses(warehouses []*warehouse.Warehouse) error {
	for i, w := range warehouses {
		if err := w.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("warehouses[%d]", i), err)
		}
	}

	c.warehouses = append([]*warehouse.Warehouse(nil), warehouses...)
	return nil
}

func (c *AllocateOrderCommand) setMode(dryRun, atomic bool) error {
	if dryRun && atomic {
		return ErrDryRunCannotBeAtomic
	}

	c.dryRun = dryRun
	c.atomic = atomic
	return nil
}
