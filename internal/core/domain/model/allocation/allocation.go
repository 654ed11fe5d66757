package allocation

import (
	"errors"
	"time"

	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/pkg/errs"
	"allocator/internal/pkg/guard"
)

var (
	// ErrAllocationIsNotConstructed is returned when an Allocation was not
	// created through NewAllocation or RestoreAllocation.
	ErrAllocationIsNotConstructed = errors.New("Allocation must be created via NewAllocation constructor")

	// ErrPlanDoesNotMatchOutcome is returned when a fulfilled outcome comes
	// without a plan, or an unfulfilled one comes with a plan.
	ErrPlanDoesNotMatchOutcome = errors.New("plan does not match outcome")
)

// Allocation is the aggregate root recording one allocation pass: what was
// requested, how the pass ended and the resulting shipment plan. Warehouse
// state is not part of it.
//
// Allocation follows these invariants:
//   - Must have a valid unique identifier
//   - Outcome must be one of the defined values
//   - The plan is non-empty exactly when the outcome is fulfilled
//   - Creation time must be set
//
// Allocations are immutable once created.
type Allocation struct {
	id        kernel.UUID
	requested []order.Line
	outcome   Outcome
	plan      shipment.Plan
	reason    string
	dryRun    bool
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewAllocation records a finished pass under a fresh identifier.
//
// Parameters:
//   - requested: the order as submitted, invalid quantities included
//   - outcome: how the pass ended
//   - plan: the resulting plan (empty unless outcome is fulfilled)
//   - reason: human readable explanation for unfulfilled outcomes
//   - dryRun: whether warehouse state was left untouched
//   - createdAt: when the pass ran
//
// Returns:
//   - *Allocation: the record
//   - error: joined validation errors
//
// Example:
//
//	result := allocator.Allocate(o, warehouses)
//	record, err := allocation.NewAllocation(o, result.Outcome(), result.Plan(), "", false, time.Now())
func NewAllocation(
	requested *order.Order,
	outcome Outcome,
	plan shipment.Plan,
	reason string,
	dryRun bool,
	createdAt time.Time,
) (*Allocation, error) {
	return RestoreAllocation(kernel.NewUUID(), requested.Lines(), outcome, plan, reason, dryRun, createdAt)
}

// RestoreAllocation rebuilds an Allocation from persisted state. The same
// invariants as NewAllocation are enforced.
func RestoreAllocation(
	id kernel.UUID,
	requested []order.Line,
	outcome Outcome,
	plan shipment.Plan,
	reason string,
	dryRun bool,
	createdAt time.Time,
) (*Allocation, error) {
	a := &Allocation{
		requested: append([]order.Line(nil), requested...),
		reason:    reason,
		dryRun:    dryRun,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOutcome(outcome, plan),
		a.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Allocation was built through a constructor.
func (a *Allocation) Validate() error {
	if a == nil {
		return ErrAllocationIsNotConstructed
	}
	return a.guard.Validate(ErrAllocationIsNotConstructed)
}

// IsEqual compares allocations by identifier.
func (a *Allocation) IsEqual(other *Allocation) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the allocation identifier.
func (a *Allocation) ID() kernel.UUID {
	return a.id
}

// Requested returns a copy of the requested order lines.
func (a *Allocation) Requested() []order.Line {
	return append([]order.Line(nil), a.requested...)
}

// Outcome returns how the pass ended.
func (a *Allocation) Outcome() Outcome {
	return a.outcome
}

// IsFulfilled reports whether the record carries a plan.
func (a *Allocation) IsFulfilled() bool {
	return a.outcome.IsFulfilled()
}

// Plan returns the shipment plan, empty for unfulfilled outcomes.
func (a *Allocation) Plan() shipment.Plan {
	return a.plan
}

// Reason returns the explanation recorded for unfulfilled outcomes.
func (a *Allocation) Reason() string {
	return a.reason
}

// IsDryRun reports whether the pass ran on copies of the warehouses.
func (a *Allocation) IsDryRun() bool {
	return a.dryRun
}

// CreatedAt returns when the pass ran.
func (a *Allocation) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Allocation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Allocation) setOutcome(outcome Outcome, plan shipment.Plan) error {
	if err := outcome.Validate(); err != nil {
		return err
	}
	if outcome.IsFulfilled() == plan.IsEmpty() {
		return errs.NewValueIsInvalidErrorWithCause("plan", ErrPlanDoesNotMatchOutcome)
	}
	a.outcome = outcome
	a.plan = plan
	return nil
}

func (a *Allocation) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	a.createdAt = createdAt.UTC()
	return nil
}
