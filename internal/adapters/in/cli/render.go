package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/core/domain/model/warehouse"
	"allocator/internal/core/domain/services"

	"github.com/olekukonko/tablewriter"
)

// Output is the --json rendering of a pass.
type Output struct {
	Outcome   string        `json:"outcome"`
	Fulfilled bool          `json:"fulfilled"`
	Reason    string        `json:"reason,omitempty"`
	DryRun    bool          `json:"dryRun"`
	Plan      shipment.Plan `json:"plan"`
}

func newOutput(result services.Result, dryRun bool) Output {
	out := Output{
		Outcome:   result.Outcome().String(),
		Fulfilled: result.IsFulfilled(),
		DryRun:    dryRun,
		Plan:      result.Plan(),
	}
	if reason := result.Reason(); reason != nil {
		out.Reason = reason.Error()
	}
	return out
}

func renderJSON(w io.Writer, out Output) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// renderTable prints one row per shipped item, grouped by warehouse in
// plan order, followed by the outcome.
func renderTable(w io.Writer, out Output) error {
	if out.Fulfilled {
		table := tablewriter.NewWriter(w)
		table.Header("Warehouse", "Item", "Quantity")
		for _, c := range out.Plan.Contributions() {
			for _, line := range c.Lines() {
				if err := table.Append([]string{c.Warehouse(), line.Item, strconv.Itoa(line.Quantity)}); err != nil {
					return err
				}
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Outcome: %s\n", out.Outcome); err != nil {
		return err
	}
	if out.Reason != "" {
		if _, err := fmt.Fprintf(w, "Reason: %s\n", out.Reason); err != nil {
			return err
		}
	}
	return nil
}

// renderStock prints the remaining on-hand quantities per warehouse.
func renderStock(w io.Writer, warehouses []*warehouse.Warehouse) error {
	table := tablewriter.NewWriter(w)
	table.Header("Warehouse", "Item", "Remaining")
	for _, wh := range warehouses {
		for _, item := range wh.Items() {
			if err := table.Append([]string{wh.Name(), item, strconv.Itoa(wh.AvailableQuantity(item))}); err != nil {
				return err
			}
		}
	}
	return table.Render()
}
