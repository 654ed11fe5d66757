package allocation_test

import (
	"fmt"
	"testing"
	"time"

	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPlan(t *testing.T) shipment.Plan {
	t.Helper()
	c, err := shipment.NewContribution("owd", shipment.Line{Item: "apple", Quantity: 1})
	require.NoError(t, err)
	plan, err := shipment.NewPlan(c)
	require.NoError(t, err)
	return plan
}

func createOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Line{Item: "apple", Quantity: 1})
	require.NoError(t, err)
	return o
}

func TestOutcome(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(allocation.Unknown))
		assert.Equal(t, 1, int(allocation.Rejected))
		assert.Equal(t, 2, int(allocation.SingleWarehouse))
		assert.Equal(t, 3, int(allocation.MultiWarehouse))
		assert.Equal(t, 4, int(allocation.Insufficient))
	})

	t.Run("should validate defined outcomes", func(t *testing.T) {
		for _, outcome := range []allocation.Outcome{
			allocation.Rejected,
			allocation.SingleWarehouse,
			allocation.MultiWarehouse,
			allocation.Insufficient,
		} {
			t.Run(outcome.String(), func(t *testing.T) {
				require.NoError(t, outcome.Validate())

				parsed, err := allocation.ParseOutcome(outcome.String())
				require.NoError(t, err)
				assert.Equal(t, outcome, parsed)
			})
		}
	})

	t.Run("should reject Unknown and undefined values", func(t *testing.T) {
		for _, outcome := range []allocation.Outcome{allocation.Unknown, allocation.Outcome(99)} {
			t.Run(fmt.Sprintf("%d", outcome), func(t *testing.T) {
				err := outcome.Validate()
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				assert.Equal(t, "Unknown", outcome.String())
			})
		}

		_, err := allocation.ParseOutcome("Unknown")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("only single and multi warehouse outcomes are fulfilled", func(t *testing.T) {
		assert.False(t, allocation.Rejected.IsFulfilled())
		assert.True(t, allocation.SingleWarehouse.IsFulfilled())
		assert.True(t, allocation.MultiWarehouse.IsFulfilled())
		assert.False(t, allocation.Insufficient.IsFulfilled())
	})
}

func TestNewAllocation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("records a fulfilled pass", func(t *testing.T) {
		plan := createPlan(t)

		a, err := allocation.NewAllocation(createOrder(t), allocation.SingleWarehouse, plan, "", false, now)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.False(t, a.ID().IsZero())
		assert.True(t, a.IsFulfilled())
		assert.Equal(t, plan, a.Plan())
		assert.Equal(t, []order.Line{{Item: "apple", Quantity: 1}}, a.Requested())
		assert.Equal(t, time.UTC, a.CreatedAt().Location())
		assert.True(t, now.Equal(a.CreatedAt()))
	})

	t.Run("records a rejected pass with its reason", func(t *testing.T) {
		o, err := order.NewOrder(order.Line{Item: "apple", Quantity: -1})
		require.NoError(t, err)

		a, err := allocation.NewAllocation(o, allocation.Rejected, shipment.EmptyPlan(), "negative quantity", true, now)

		require.NoError(t, err)
		assert.Equal(t, allocation.Rejected, a.Outcome())
		assert.Equal(t, "negative quantity", a.Reason())
		assert.True(t, a.IsDryRun())
		assert.True(t, a.Plan().IsEmpty())
	})

	t.Run("plan must match outcome", func(t *testing.T) {
		_, err := allocation.NewAllocation(createOrder(t), allocation.MultiWarehouse, shipment.EmptyPlan(), "", false, now)
		require.ErrorIs(t, err, allocation.ErrPlanDoesNotMatchOutcome)

		_, err = allocation.NewAllocation(createOrder(t), allocation.Insufficient, createPlan(t), "", false, now)
		require.ErrorIs(t, err, allocation.ErrPlanDoesNotMatchOutcome)
	})

	t.Run("joins every validation error", func(t *testing.T) {
		_, err := allocation.RestoreAllocation(kernel.UUID{}, nil, allocation.Unknown, shipment.EmptyPlan(), "", false, time.Time{})

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreAllocation(t *testing.T) {
	id := kernel.NewUUID()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []order.Line{{Item: "apple", Quantity: 1}}

	a, err := allocation.RestoreAllocation(id, lines, allocation.MultiWarehouse, createPlan(t), "", false, createdAt)
	require.NoError(t, err)

	lines[0].Quantity = 50

	assert.True(t, a.ID().IsEqual(id))
	assert.Equal(t, 1, a.Requested()[0].Quantity, "requested lines are copied")

	other, err := allocation.RestoreAllocation(id, nil, allocation.Rejected, shipment.EmptyPlan(), "", false, createdAt)
	require.NoError(t, err)
	assert.True(t, a.IsEqual(other))
	assert.False(t, a.IsEqual(nil))
}

func TestAllocation_Validate(t *testing.T) {
	var a *allocation.Allocation
	require.ErrorIs(t, a.Validate(), allocation.ErrAllocationIsNotConstructed)

	literal := &allocation.Allocation{}
	require.ErrorIs(t, literal.Validate(), allocation.ErrAllocationIsNotConstructed)
}
