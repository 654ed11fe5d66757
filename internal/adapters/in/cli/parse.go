package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"allocator/internal/core/domain/model/order"
	"allocator/internal/pkg/errs"
)

var (
	ErrMalformedPair      = errors.New("expected item:quantity")
	ErrMalformedWarehouse = errors.New("expected name=item:quantity,...")
	ErrDuplicateItem      = errors.New("item listed more than once")
)

// ParseLines parses the compact "item:qty,item:qty" syntax, keeping the
// given order. An empty string yields no lines.
func ParseLines(s string) ([]order.Line, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	pairs := strings.Split(s, ",")
	lines := make([]order.Line, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		item, qty, ok := strings.Cut(strings.TrimSpace(pair), ":")
		item = strings.TrimSpace(item)
		if !ok || item == "" {
			return nil, errs.NewValueIsInvalidErrorWithCause(pair, ErrMalformedPair)
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(pair, fmt.Errorf("quantity is not an integer: %w", err))
		}

		if _, dup := seen[item]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause(item, ErrDuplicateItem)
		}
		seen[item] = struct{}{}

		lines = append(lines, order.Line{Item: item, Quantity: quantity})
	}

	return lines, nil
}

// ParseWarehouse parses "name=item:qty,item:qty". The stock part may be
// empty for a warehouse that holds nothing.
func ParseWarehouse(s string) (WarehouseSpec, error) {
	name, stock, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return WarehouseSpec{}, errs.NewValueIsInvalidErrorWithCause(s, ErrMalformedWarehouse)
	}

	lines, err := ParseLines(stock)
	if err != nil {
		return WarehouseSpec{}, fmt.Errorf("warehouse %s: %w", name, err)
	}

	return WarehouseSpec{Name: name, Inventory: lines}, nil
}
