package fefo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDeductsFromEarliestExpiringFirst(t *testing.T) {
	b1 := uuid.New() // expires sooner, stock 10
	b2 := uuid.New() // expires later, stock 20

	plan, err := Plan(15, []BatchStock{
		{BatchID: b1, Available: 10},
		{BatchID: b2, Available: 20},
	})

	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, Deduction{BatchID: b1, Quantity: 10}, plan[0])
	assert.Equal(t, Deduction{BatchID: b2, Quantity: 5}, plan[1])
}

func TestPlanInsufficientStockReturnsNoPartialPlan(t *testing.T) {
	plan, err := Plan(15, []BatchStock{
		{BatchID: uuid.New(), Available: 10},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, plan)
}

func TestPlanExactExhaustion(t *testing.T) {
	b1 := uuid.New()
	b2 := uuid.New()
	b3 := uuid.New()

	plan, err := Plan(35, []BatchStock{
		{BatchID: b1, Available: 10},
		{BatchID: b2, Available: 20},
		{BatchID: b3, Available: 5},
	})

	require.NoError(t, err)
	require.Len(t, plan, 3)

	total := 0
	for i, step := range plan {
		assert.Equal(t, step.Quantity, []int{10, 20, 5}[i])
		total += step.Quantity
	}
	assert.Equal(t, 35, total)
}

func TestPlanStopsOnceRequirementIsMet(t *testing.T) {
	b1 := uuid.New()
	untouched := uuid.New()

	plan, err := Plan(5, []BatchStock{
		{BatchID: b1, Available: 10},
		{BatchID: untouched, Available: 20},
	})

	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, Deduction{BatchID: b1, Quantity: 5}, plan[0])
}

func TestPlanSkipsEmptyBatches(t *testing.T) {
	empty := uuid.New()
	b2 := uuid.New()

	plan, err := Plan(3, []BatchStock{
		{BatchID: empty, Available: 0},
		{BatchID: b2, Available: 10},
	})

	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, b2, plan[0].BatchID)
}

func TestPlanRejectsNonPositiveQuantity(t *testing.T) {
	for _, required := range []int{0, -1} {
		plan, err := Plan(required, []BatchStock{
			{BatchID: uuid.New(), Available: 10},
		})
		assert.Error(t, err)
		assert.Nil(t, plan)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	batches := []BatchStock{
		{BatchID: uuid.New(), Available: 4},
		{BatchID: uuid.New(), Available: 4},
		{BatchID: uuid.New(), Available: 4},
	}

	first, err := Plan(10, batches)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Plan(10, batches)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
