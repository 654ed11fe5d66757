package allocation

import (
	"fmt"

	"allocator/internal/pkg/errs"
)

// Outcome is the tagged result of one allocation pass.
//
// Pass flow:
//
//	Validate ──┬──> Rejected
//	           ├──> SingleWarehouse
//	           └──> MultiWarehouse ──> Insufficient (fail-fast)
//
// Only SingleWarehouse and MultiWarehouse carry a non-empty plan.
type Outcome int

const (
	// Unknown represents an invalid or undefined outcome.
	// This value (0) helps catch uninitialized Outcome values.
	Unknown Outcome = iota

	// Rejected means the order failed validation (a negative quantity or no
	// positive quantity). No warehouse was touched.
	Rejected

	// SingleWarehouse means one warehouse covered the whole order.
	SingleWarehouse

	// MultiWarehouse means the order was split across warehouses in rank order.
	MultiWarehouse

	// Insufficient means the combined stock could not cover some item.
	Insufficient
)

func getOutcomeStrings() map[Outcome]string {
	return map[Outcome]string{
		Unknown:         "Unknown",
		Rejected:        "Rejected",
		SingleWarehouse: "SingleWarehouse",
		MultiWarehouse:  "MultiWarehouse",
		Insufficient:    "Insufficient",
	}
}

// Validate checks that the outcome is one of the defined non-Unknown values.
// It is used when outcomes come back from the database.
func (o Outcome) Validate() error {
	if o == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%d is not a valid outcome", o))
	}
	if _, ok := getOutcomeStrings()[o]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%d is not a valid outcome", o))
	}
	return nil
}

// String returns the name of the outcome, "Unknown" for undefined values.
func (o Outcome) String() string {
	if str, ok := getOutcomeStrings()[o]; ok {
		return str
	}
	return "Unknown"
}

// IsFulfilled reports whether the outcome carries a shipment plan.
func (o Outcome) IsFulfilled() bool {
	return o == SingleWarehouse || o == MultiWarehouse
}

// ParseOutcome converts a name produced by String back into an Outcome.
//
// Returns:
//   - errs.ValueIsInvalidError for unknown names, including "Unknown"
func ParseOutcome(s string) (Outcome, error) {
	for outcome, str := range getOutcomeStrings() {
		if outcome != Unknown && str == s {
			return outcome, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("outcome", fmt.Errorf("%q is not a valid outcome", s))
}
