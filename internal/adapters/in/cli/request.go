package cli

import (
	"fmt"
	"io"
	"slices"

	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/warehouse"

	"gopkg.in/yaml.v3"
)

// Request is a complete allocation invocation.
type Request struct {
	Order      []order.Line
	Warehouses []WarehouseSpec
	DryRun     bool
	Atomic     bool
}

// WarehouseSpec is one ranked warehouse and its stock, in listing order.
type WarehouseSpec struct {
	Name      string
	Inventory []order.Line
}

// requestFile is the YAML layout accepted by --file:
//
//	order:
//	  apple: 9
//	  orange: 4
//	warehouses:
//	  - name: owd
//	    inventory: {apple: 5, orange: 3}
//	  - name: dm
//	    inventory: {apple: 4, orange: 1}
//	dryRun: false
type requestFile struct {
	Order      yaml.Node           `yaml:"order"`
	Warehouses []warehouseFileSpec `yaml:"warehouses"`
	DryRun     bool                `yaml:"dryRun"`
	Atomic     bool                `yaml:"atomic"`
}

type warehouseFileSpec struct {
	Name      string    `yaml:"name"`
	Inventory yaml.Node `yaml:"inventory"`
}

// LoadRequest decodes a YAML request. Mapping order is kept for the order
// lines and the warehouse inventories; unknown fields are rejected.
func LoadRequest(r io.Reader) (Request, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file requestFile
	if err := decoder.Decode(&file); err != nil {
		return Request{}, fmt.Errorf("failed to decode request: %w", err)
	}

	lines, err := linesFromNode(&file.Order)
	if err != nil {
		return Request{}, fmt.Errorf("order: %w", err)
	}

	request := Request{Order: lines, DryRun: file.DryRun, Atomic: file.Atomic}
	for i, w := range file.Warehouses {
		inventory, invErr := linesFromNode(&w.Inventory)
		if invErr != nil {
			return Request{}, fmt.Errorf("warehouses[%d]: %w", i, invErr)
		}
		request.Warehouses = append(request.Warehouses, WarehouseSpec{Name: w.Name, Inventory: inventory})
	}

	return request, nil
}

func linesFromNode(node *yaml.Node) ([]order.Line, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of item to quantity", node.Line)
	}

	lines := make([]order.Line, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var (
			item     string
			quantity int
		)
		if err := node.Content[i].Decode(&item); err != nil {
			return nil, err
		}
		if err := node.Content[i+1].Decode(&quantity); err != nil {
			return nil, fmt.Errorf("item %s: %w", item, err)
		}
		if slices.ContainsFunc(lines, func(l order.Line) bool { return l.Item == item }) {
			return nil, fmt.Errorf("item %s: %w", item, ErrDuplicateItem)
		}
		lines = append(lines, order.Line{Item: item, Quantity: quantity})
	}

	return lines, nil
}

// Build creates the domain order and ranked warehouses.
func (r Request) Build() (*order.Order, []*warehouse.Warehouse, error) {
	o, err := order.NewOrder(r.Order...)
	if err != nil {
		return nil, nil, err
	}

	warehouses := make([]*warehouse.Warehouse, 0, len(r.Warehouses))
	for _, spec := range r.Warehouses {
		w, wErr := warehouse.NewWarehouse(spec.Name)
		if wErr != nil {
			return nil, nil, wErr
		}
		for _, line := range spec.Inventory {
			if wErr = w.AddItem(line.Item, line.Quantity); wErr != nil {
				return nil, nil, fmt.Errorf("warehouse %s: %w", spec.Name, wErr)
			}
		}
		warehouses = append(warehouses, w)
	}

	return o, warehouses, nil
}
