package order

import (
	"errors"
	"fmt"
	"slices"

	"allocator/internal/pkg/errs"
)

var (
	// ErrOrderHasNegativeQuantity is returned by Validate when at least one
	// line requests a negative quantity.
	ErrOrderHasNegativeQuantity = errors.New("order contains a negative quantity")

	// ErrOrderHasNoPositiveQuantity is returned by Validate when the order is
	// empty or every line requests zero units.
	ErrOrderHasNoPositiveQuantity = errors.New("order contains no positive quantity")

	// ErrItemIsRequired is returned when a line is added with an empty item identifier.
	ErrItemIsRequired = errs.NewValueIsRequiredError("item")
)

// Line is a single request: the item identifier and the quantity asked for.
type Line struct {
	Item     string
	Quantity int
}

// Order is the set of item quantities a caller wants shipped.
//
// An order is deliberately not validated on construction: callers may hand
// over negative or zero quantities and the allocator decides what to do with
// them (see Validate). Lines keep their insertion order, which fixes the
// sequence in which items are split across warehouses.
//
// Re-adding an item replaces its quantity but keeps its original position,
// so an Order behaves like a map with stable iteration.
type Order struct {
	lines []Line
	index map[string]int
}

// NewOrder builds an order from lines in the given sequence.
//
// Returns:
//   - *Order: the order, possibly empty
//   - error: ErrItemIsRequired if a line has an empty item identifier
//
// Example:
//
//	o, err := order.NewOrder(
//	    order.Line{Item: "apple", Quantity: 9},
//	    order.Line{Item: "orange", Quantity: 4},
//	)
func NewOrder(lines ...Line) (*Order, error) {
	o := &Order{
		lines: make([]Line, 0, len(lines)),
		index: make(map[string]int, len(lines)),
	}

	for _, line := range lines {
		if err := o.Add(line.Item, line.Quantity); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// FromMap builds an order from map-shaped input (JSON or YAML documents).
// Items are inserted in lexicographic order so the result does not depend on
// Go's randomized map iteration.
func FromMap(quantities map[string]int) (*Order, error) {
	items := make([]string, 0, len(quantities))
	for item := range quantities {
		items = append(items, item)
	}
	slices.Sort(items)

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{Item: item, Quantity: quantities[item]})
	}

	return NewOrder(lines...)
}

// Add sets the requested quantity for item, appending a new line or
// overwriting the existing one in place.
func (o *Order) Add(item string, quantity int) error {
	if item == "" {
		return ErrItemIsRequired
	}

	if o.index == nil {
		o.index = make(map[string]int)
	}

	if pos, ok := o.index[item]; ok {
		o.lines[pos].Quantity = quantity
		return nil
	}

	o.index[item] = len(o.lines)
	o.lines = append(o.lines, Line{Item: item, Quantity: quantity})
	return nil
}

// Validate is the allocation pre-check. It never touches warehouse state.
//
// Returns:
//   - nil if no quantity is negative and at least one is positive
//   - an error wrapping errs.ErrValueIsOutOfRange and ErrOrderHasNegativeQuantity
//     if some line is negative
//   - an error wrapping errs.ErrValueIsInvalid and ErrOrderHasNoPositiveQuantity
//     if the order is empty or all zero
func (o *Order) Validate() error {
	hasPositive := false

	for _, line := range o.Lines() {
		if line.Quantity < 0 {
			return errs.NewValueIsOutOfRangeErrorWithCause(
				line.Item, line.Quantity, 0, "unbounded", ErrOrderHasNegativeQuantity,
			)
		}
		if line.Quantity > 0 {
			hasPositive = true
		}
	}

	if !hasPositive {
		return errs.NewValueIsInvalidErrorWithCause("order", ErrOrderHasNoPositiveQuantity)
	}

	return nil
}

// Lines returns a copy of the order lines in iteration order.
func (o *Order) Lines() []Line {
	if o == nil {
		return nil
	}
	return slices.Clone(o.lines)
}

// Items returns the item identifiers in iteration order.
func (o *Order) Items() []string {
	if o == nil {
		return nil
	}
	items := make([]string, len(o.lines))
	for i, line := range o.lines {
		items[i] = line.Item
	}
	return items
}

// Quantity returns the requested quantity for item and whether it is part of the order.
func (o *Order) Quantity(item string) (int, bool) {
	if o == nil {
		return 0, false
	}
	pos, ok := o.index[item]
	if !ok {
		return 0, false
	}
	return o.lines[pos].Quantity, true
}

func (o *Order) Len() int {
	if o == nil {
		return 0
	}
	return len(o.lines)
}

func (o *Order) IsEmpty() bool {
	return o.Len() == 0
}

// TotalQuantity sums every line. It is only meaningful for a valid order.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, line := range o.Lines() {
		total += line.Quantity
	}
	return total
}

// ToMap returns the order as item -> quantity.
func (o *Order) ToMap() map[string]int {
	out := make(map[string]int, o.Len())
	for _, line := range o.Lines() {
		out[line.Item] = line.Quantity
	}
	return out
}

func (o *Order) String() string {
	return fmt.Sprintf("%v", o.Lines())
}
