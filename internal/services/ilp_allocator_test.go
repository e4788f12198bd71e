package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"part-sourcing-service/internal/domain"
)

func TestILPInfeasibleWhenCapacityShort(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "l1", UnitPriceMinor: 100, AvailableQty: 25},
		{Source: domain.SourceBid, ID: "b1", UnitPriceMinor: 90, AvailableQty: 15},
	}

	plan, feasible, err := ILPAllocate(offers, 100, domain.PenaltyConfig{Now: fixedNow()})

	require.NoError(t, err)
	assert.False(t, feasible)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, int64(100), plan.Remaining)
}

func TestILPInfeasibleWithNoOffers(t *testing.T) {
	plan, feasible, err := ILPAllocate(nil, 10, domain.PenaltyConfig{Now: fixedNow()})

	require.NoError(t, err)
	assert.False(t, feasible)
	assert.Empty(t, plan.Assignments)
	assert.Equal(t, int64(10), plan.Remaining)
}

func TestILPPicksCheapestEffectiveMix(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "expensive", UnitPriceMinor: 200, AvailableQty: 50},
		{Source: domain.SourceBid, ID: "cheap", UnitPriceMinor: 90, AvailableQty: 6},
	}

	plan, feasible, err := ILPAllocate(offers, 10, domain.PenaltyConfig{Now: fixedNow()})

	require.NoError(t, err)
	require.True(t, feasible)
	assert.Equal(t, int64(0), plan.Remaining)
	assert.Equal(t, int64(10), plan.AssignedQty())

	byID := map[string]int64{}
	for _, a := range plan.Assignments {
		byID[a.OfferID] = a.Qty
	}
	assert.Equal(t, int64(6), byID["cheap"])
	assert.Equal(t, int64(4), byID["expensive"])

	// 6*90 + 4*200
	assert.Equal(t, int64(1340), plan.Totals.GrandMinor)
}

func TestILPFoldsPenaltiesIntoObjective(t *testing.T) {
	// The alternative is nominally cheaper but the substitution penalty
	// makes the base SKU the better buy, exactly as in the greedy path.
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "base", UnitPriceMinor: 200, AvailableQty: 5},
		{Source: domain.SourceListing, ID: "alt", UnitPriceMinor: 150, AvailableQty: 5, IsAlternative: true},
	}
	cfg := domain.PenaltyConfig{Now: fixedNow(), AlternativePenaltyMinorPerUnit: 60}

	plan, feasible, err := ILPAllocate(offers, 5, cfg)

	require.NoError(t, err)
	require.True(t, feasible)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "base", plan.Assignments[0].OfferID)
}

func TestILPAgreesWithGreedyOnSimpleInstances(t *testing.T) {
	// Without coupling constraints both allocators are optimal, so their
	// grand totals must match even if assignment order differs.
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "a", UnitPriceMinor: 120, AvailableQty: 4, LeadTimeDays: intp(2)},
		{Source: domain.SourceBid, ID: "b", UnitPriceMinor: 110, AvailableQty: 3, LeadTimeDays: intp(20)},
		{Source: domain.SourceListing, ID: "c", UnitPriceMinor: 180, AvailableQty: 9},
	}
	cfg := domain.PenaltyConfig{
		DueDate:                       duePtr(10),
		Now:                           fixedNow(),
		LeadPenaltyMinorPerUnitPerDay: 5,
	}

	for _, required := range []int64{2, 7, 12} {
		greedy := GreedyAllocate(offers, required, cfg)

		ilp, feasible, err := ILPAllocate(offers, required, cfg)
		require.NoError(t, err)
		require.True(t, feasible, "required=%d", required)

		assert.Equal(t, required, ilp.AssignedQty()+ilp.Remaining, "required=%d", required)
		assert.Equal(t, greedy.Totals.GrandMinor, ilp.Totals.GrandMinor, "required=%d", required)
	}
}
