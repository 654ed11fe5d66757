package shipment

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"allocator/internal/pkg/errs"
)

var (
	// ErrContributionIsEmpty is returned when a contribution without any shipped line is added to a plan.
	ErrContributionIsEmpty = errors.New("contribution ships nothing")

	// ErrWarehouseIsRequired is returned when a contribution has no warehouse name.
	ErrWarehouseIsRequired = errs.NewValueIsRequiredError("warehouse")
)

// Line is a quantity of one item shipped by one warehouse.
type Line struct {
	Item     string
	Quantity int
}

// Contribution is the part of a plan shipped by a single warehouse.
// Lines are kept in the order the warehouse shipped them.
type Contribution struct {
	warehouse string
	lines     []Line
}

// NewContribution validates and builds a contribution. Every line must ship
// a positive quantity of a named item.
func NewContribution(warehouse string, lines ...Line) (Contribution, error) {
	if warehouse == "" {
		return Contribution{}, ErrWarehouseIsRequired
	}
	if len(lines) == 0 {
		return Contribution{}, ErrContributionIsEmpty
	}

	for _, line := range lines {
		if line.Item == "" {
			return Contribution{}, errs.NewValueIsRequiredError("item")
		}
		if line.Quantity <= 0 {
			return Contribution{}, errs.NewValueIsOutOfRangeError(line.Item, line.Quantity, 1, "unbounded")
		}
	}

	return Contribution{
		warehouse: warehouse,
		lines:     slices.Clone(lines),
	}, nil
}

func (c Contribution) Warehouse() string {
	return c.warehouse
}

func (c Contribution) Lines() []Line {
	return slices.Clone(c.lines)
}

// Items returns the shipped quantities keyed by item.
func (c Contribution) Items() map[string]int {
	out := make(map[string]int, len(c.lines))
	for _, line := range c.lines {
		out[line.Item] += line.Quantity
	}
	return out
}

// Quantity returns how many units of item this warehouse ships.
func (c Contribution) Quantity(item string) int {
	total := 0
	for _, line := range c.lines {
		if line.Item == item {
			total += line.Quantity
		}
	}
	return total
}

// Plan is the ordered result of an allocation: one contribution per shipping
// warehouse, in warehouse rank order. An empty plan means the order was not
// fulfilled.
//
// A plan is append-only while it is assembled and read-only afterwards;
// every accessor returns copies.
type Plan struct {
	contributions []Contribution
}

// NewPlan builds a plan from already assembled contributions, as done when
// restoring a recorded allocation.
func NewPlan(contributions ...Contribution) (Plan, error) {
	var p Plan
	for _, c := range contributions {
		if err := p.Append(c); err != nil {
			return Plan{}, err
		}
	}
	return p, nil
}

// EmptyPlan is the plan returned for rejected and insufficient orders.
func EmptyPlan() Plan {
	return Plan{}
}

// Append adds the next contribution in rank order.
func (p *Plan) Append(c Contribution) error {
	if c.warehouse == "" {
		return ErrWarehouseIsRequired
	}
	if len(c.lines) == 0 {
		return ErrContributionIsEmpty
	}

	p.contributions = append(p.contributions, c)
	return nil
}

func (p Plan) IsEmpty() bool {
	return len(p.contributions) == 0
}

func (p Plan) Len() int {
	return len(p.contributions)
}

func (p Plan) Contributions() []Contribution {
	return slices.Clone(p.contributions)
}

// Warehouses returns the names of the contributing warehouses in plan order.
func (p Plan) Warehouses() []string {
	names := make([]string, len(p.contributions))
	for i, c := range p.contributions {
		names[i] = c.warehouse
	}
	return names
}

// TotalFor sums the quantity of item across all contributions.
func (p Plan) TotalFor(item string) int {
	total := 0
	for _, c := range p.contributions {
		total += c.Quantity(item)
	}
	return total
}

// Totals sums every item across all contributions.
func (p Plan) Totals() map[string]int {
	out := make(map[string]int)
	for _, c := range p.contributions {
		for _, line := range c.lines {
			out[line.Item] += line.Quantity
		}
	}
	return out
}

// TotalUnits is the number of units shipped by the whole plan.
func (p Plan) TotalUnits() int {
	total := 0
	for _, c := range p.contributions {
		for _, line := range c.lines {
			total += line.Quantity
		}
	}
	return total
}

// MarshalJSON encodes the plan in its external shape:
//
//	[{"owd":{"apple":5,"orange":3}},{"dm":{"apple":4,"orange":1}}]
//
// An empty plan encodes as [].
func (p Plan) MarshalJSON() ([]byte, error) {
	out := make([]map[string]map[string]int, 0, len(p.contributions))
	for _, c := range p.contributions {
		out = append(out, map[string]map[string]int{c.warehouse: c.Items()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the external shape produced by MarshalJSON. Items of a
// contribution are restored in lexicographic order.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw []map[string]map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var plan Plan
	for i, entry := range raw {
		if len(entry) != 1 {
			return errs.NewValueIsInvalidErrorWithCause("plan",
				fmt.Errorf("contribution %d must name exactly one warehouse, got %d", i, len(entry)))
		}

		for warehouse, items := range entry {
			names := make([]string, 0, len(items))
			for item := range items {
				names = append(names, item)
			}
			slices.Sort(names)

			lines := make([]Line, 0, len(names))
			for _, item := range names {
				lines = append(lines, Line{Item: item, Quantity: items[item]})
			}

			c, err := NewContribution(warehouse, lines...)
			if err != nil {
				return err
			}
			if err = plan.Append(c); err != nil {
				return err
			}
		}
	}

	*p = plan
	return nil
}
