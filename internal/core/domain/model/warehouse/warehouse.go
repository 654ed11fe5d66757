package warehouse

import (
	"errors"
	"maps"
	"slices"

	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/pkg/errs"
	"allocator/internal/pkg/guard"
)

var (
	// ErrWarehouseIsNotConstructed indicates the Warehouse was not created
	// through NewWarehouse.
	ErrWarehouseIsNotConstructed = errors.New("Warehouse must be created via NewWarehouse constructor")

	// ErrSnapshotBelongsToAnotherWarehouse is returned by Restore when the
	// snapshot was taken from a different warehouse.
	ErrSnapshotBelongsToAnotherWarehouse = errors.New("snapshot belongs to another warehouse")
)

// Warehouse is the inventory ledger of one named warehouse. It knows how many
// units of each item are on hand and records what it ships during the current
// allocation pass.
//
// Key business rules:
//   - Must be constructed through NewWarehouse
//   - On-hand quantities are never negative; they only decrease by shipping
//   - An item that was never stocked has zero units available
//   - Shipping records and the has-shipped flag belong to the current pass and
//     are cleared by BeginPass
//
// A Warehouse is not safe for concurrent use. One allocation pass owns it at a time.
//
// Example usage:
//
//	owd, err := warehouse.NewWarehouse("owd")
//	if err != nil {
//	    return err
//	}
//	_ = owd.AddItem("apple", 5)
//	_ = owd.AddItem("orange", 3)
//
//	shipped := owd.Ship("apple", 9) // 5, owd now holds 0 apples
type Warehouse struct {
	// name identifies the warehouse inside a shipment plan
	name string

	// onHand maps item -> units currently in stock; stockOrder keeps the order
	// items were first stocked in
	onHand     map[string]int
	stockOrder []string

	// shipped maps item -> units shipped in the current pass; shippedOrder keeps
	// the order items were first shipped in
	shipped      map[string]int
	shippedOrder []string

	// isShipping reports whether anything was shipped in the current pass
	isShipping bool

	guard guard.ConstructorGuard
}

// NewWarehouse creates an empty warehouse. Stock it with AddItem.
//
// Parameters:
//   - name: the identifier used in shipment plans (must not be empty)
//
// Returns:
//   - *Warehouse: the empty ledger
//   - error: errs.ValueIsRequiredError if name is empty
func NewWarehouse(name string) (*Warehouse, error) {
	w := &Warehouse{
		onHand:  make(map[string]int),
		shipped: make(map[string]int),
		guard:   guard.NewConstructorGuard(),
	}

	if err := w.setName(name); err != nil {
		return nil, err
	}

	return w, nil
}

// NewWarehouseWithInventory creates a warehouse and stocks it from a map.
// Items are stocked in lexicographic order.
//
// Example:
//
//	dm, err := warehouse.NewWarehouseWithInventory("dm", map[string]int{"apple": 4, "orange": 1})
func NewWarehouseWithInventory(name string, inventory map[string]int) (*Warehouse, error) {
	w, err := NewWarehouse(name)
	if err != nil {
		return nil, err
	}

	items := slices.Sorted(maps.Keys(inventory))
	stockErrs := make([]error, 0, len(items))
	for _, item := range items {
		stockErrs = append(stockErrs, w.AddItem(item, inventory[item]))
	}

	if err = errors.Join(stockErrs...); err != nil {
		return nil, err
	}

	return w, nil
}

// Validate ensures the warehouse was built through NewWarehouse.
func (w *Warehouse) Validate() error {
	if w == nil {
		return ErrWarehouseIsNotConstructed
	}
	return w.guard.Validate(ErrWarehouseIsNotConstructed)
}

// Name returns the warehouse identifier.
func (w *Warehouse) Name() string {
	return w.name
}

// AddItem sets the on-hand quantity of item, replacing any previous value.
//
// Returns:
//   - ErrWarehouseIsNotConstructed if the warehouse was not built through NewWarehouse
//   - errs.ValueIsRequiredError if item is empty
//   - errs.ValueIsOutOfRangeError if quantity is negative
func (w *Warehouse) AddItem(item string, quantity int) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if item == "" {
		return errs.NewValueIsRequiredError("item")
	}
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError(item, quantity, 0, "unbounded")
	}

	if _, ok := w.onHand[item]; !ok {
		w.stockOrder = append(w.stockOrder, item)
	}
	w.onHand[item] = quantity
	return nil
}

// AvailableQuantity returns the on-hand quantity of item, 0 if it is not stocked.
func (w *Warehouse) AvailableQuantity(item string) int {
	return w.onHand[item]
}

// Inventory returns a copy of the on-hand quantities.
func (w *Warehouse) Inventory() map[string]int {
	return maps.Clone(w.onHand)
}

// Items returns the stocked items in the order they were first stocked.
func (w *Warehouse) Items() []string {
	return slices.Clone(w.stockOrder)
}

// CanCoverEntireOrder reports whether this warehouse alone holds at least the
// requested quantity of every order line. Items the order does not mention
// are ignored.
func (w *Warehouse) CanCoverEntireOrder(o *order.Order) bool {
	for _, line := range o.Lines() {
		if w.AvailableQuantity(line.Item) < line.Quantity {
			return false
		}
	}
	return true
}

// Ship takes up to requested units of item out of stock.
//
// Parameters:
//   - item: the item to ship
//   - requested: the units still needed
//
// Returns:
//   - int: min(requested, available); 0 when the item is unstocked, depleted
//     or requested is not positive
//
// State changes when the shipped quantity is positive:
//   - on-hand quantity is decremented by the shipped quantity
//   - the shipped record for item is overwritten with the shipped quantity
//   - the warehouse is marked as shipping in this pass
func (w *Warehouse) Ship(item string, requested int) int {
	if requested <= 0 {
		return 0
	}

	quantity := min(requested, w.AvailableQuantity(item))
	if quantity <= 0 {
		return 0
	}

	w.onHand[item] -= quantity

	if _, ok := w.shipped[item]; !ok {
		w.shippedOrder = append(w.shippedOrder, item)
	}
	w.shipped[item] = quantity
	w.isShipping = true

	return quantity
}

// HasShipped reports whether the warehouse shipped anything in the current pass.
func (w *Warehouse) HasShipped() bool {
	return w.isShipping
}

// Shipped returns a copy of the quantities recorded in the current pass.
func (w *Warehouse) Shipped() map[string]int {
	return maps.Clone(w.shipped)
}

// ShippingContribution returns what this warehouse ships in the current pass.
// The boolean is false when the warehouse shipped nothing.
func (w *Warehouse) ShippingContribution() (shipment.Contribution, bool) {
	if !w.isShipping {
		return shipment.Contribution{}, false
	}

	lines := make([]shipment.Line, 0, len(w.shippedOrder))
	for _, item := range w.shippedOrder {
		lines = append(lines, shipment.Line{Item: item, Quantity: w.shipped[item]})
	}

	contribution, err := shipment.NewContribution(w.name, lines...)
	if err != nil {
		return shipment.Contribution{}, false
	}

	return contribution, true
}

// BeginPass clears the shipped record and the has-shipped flag. On-hand
// quantities keep whatever earlier passes left.
func (w *Warehouse) BeginPass() {
	w.shipped = make(map[string]int)
	w.shippedOrder = nil
	w.isShipping = false
}

// Clone returns an independent deep copy, used for dry runs.
func (w *Warehouse) Clone() *Warehouse {
	return &Warehouse{
		name:         w.name,
		onHand:       maps.Clone(w.onHand),
		stockOrder:   slices.Clone(w.stockOrder),
		shipped:      maps.Clone(w.shipped),
		shippedOrder: slices.Clone(w.shippedOrder),
		isShipping:   w.isShipping,
		guard:        w.guard,
	}
}

// Snapshot captures the full ledger state so it can be restored after a
// failed atomic allocation.
type Snapshot struct {
	state *Warehouse
}

// Snapshot captures the current state of the warehouse.
func (w *Warehouse) Snapshot() Snapshot {
	return Snapshot{state: w.Clone()}
}

// Restore puts the warehouse back into the captured state.
//
// Returns:
//   - ErrSnapshotBelongsToAnotherWarehouse if the snapshot is empty or was
//     taken from a warehouse with another name
func (w *Warehouse) Restore(s Snapshot) error {
	if s.state == nil || s.state.name != w.name {
		return ErrSnapshotBelongsToAnotherWarehouse
	}

	restored := s.state.Clone()
	w.onHand = restored.onHand
	w.stockOrder = restored.stockOrder
	w.shipped = restored.shipped
	w.shippedOrder = restored.shippedOrder
	w.isShipping = restored.isShipping
	return nil
}

func (w *Warehouse) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	w.name = name
	return nil
}
