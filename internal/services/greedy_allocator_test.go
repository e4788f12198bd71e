package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"part-sourcing-service/internal/domain"
)

func TestGreedyStockOnly(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "l1", UnitPriceMinor: 100, AvailableQty: 10, LeadTimeDays: intp(2)},
	}

	plan := GreedyAllocate(offers, 6, domain.PenaltyConfig{Now: fixedNow()})

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, int64(6), plan.Assignments[0].Qty)
	assert.Equal(t, int64(100), plan.Assignments[0].UnitPriceMinor)
	assert.Equal(t, int64(0), plan.Remaining)
	assert.Equal(t, int64(600), plan.Totals.GrandMinor)
	assert.Equal(t, domain.RouteStock, domain.ClassifyRoute(plan.Assignments, plan.Remaining))
}

func TestGreedyInsufficientStock(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "l1", UnitPriceMinor: 100, AvailableQty: 3},
	}

	plan := GreedyAllocate(offers, 10, domain.PenaltyConfig{Now: fixedNow()})

	assert.Equal(t, int64(7), plan.Remaining)
	assert.Equal(t, int64(3), plan.AssignedQty())
	assert.Equal(t, domain.RouteMixed, domain.ClassifyRoute(plan.Assignments, plan.Remaining))
}

func TestGreedyPenalizedAlternativeLosesToBase(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "base", UnitPriceMinor: 200, AvailableQty: 5},
		{Source: domain.SourceListing, ID: "alt", UnitPriceMinor: 150, AvailableQty: 5, IsAlternative: true},
	}
	cfg := domain.PenaltyConfig{Now: fixedNow(), AlternativePenaltyMinorPerUnit: 60}

	plan := GreedyAllocate(offers, 5, cfg)

	// Alternative's effective unit is 210 > 200, so the base SKU wins.
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "base", plan.Assignments[0].OfferID)
	assert.Equal(t, int64(0), plan.Remaining)
}

func TestGreedyMixedSourcesConsumesCheaperBidFirst(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "l1", UnitPriceMinor: 100, AvailableQty: 3},
		{Source: domain.SourceBid, ID: "b1", UnitPriceMinor: 90, AvailableQty: 10, LeadTimeDays: intp(1)},
	}
	cfg := domain.PenaltyConfig{
		DueDate:                       duePtr(30),
		Now:                           fixedNow(),
		LeadPenaltyMinorPerUnitPerDay: 10,
	}

	plan := GreedyAllocate(offers, 8, cfg)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "b1", plan.Assignments[0].OfferID)
	assert.Equal(t, int64(8), plan.Assignments[0].Qty)
	assert.Equal(t, int64(0), plan.Remaining)
	assert.Equal(t, domain.RouteAuction, domain.ClassifyRoute(plan.Assignments, plan.Remaining))
}

func TestGreedyConservation(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "a", UnitPriceMinor: 120, AvailableQty: 4},
		{Source: domain.SourceBid, ID: "b", UnitPriceMinor: 110, AvailableQty: 2},
		{Source: domain.SourceListing, ID: "c", UnitPriceMinor: 150, AvailableQty: 9, IsAlternative: true},
		{Source: domain.SourceBid, ID: "d", UnitPriceMinor: 90, AvailableQty: 0},
	}

	for _, required := range []int64{1, 5, 15, 40} {
		plan := GreedyAllocate(offers, required, domain.PenaltyConfig{Now: fixedNow()})
		assert.Equal(t, required, plan.AssignedQty()+plan.Remaining, "required=%d", required)
	}
}

func TestGreedyDeterministicOnTies(t *testing.T) {
	// Same effective unit everywhere: adapter ordering must decide, and the
	// result must not change across runs.
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "first", UnitPriceMinor: 100, AvailableQty: 2},
		{Source: domain.SourceListing, ID: "second", UnitPriceMinor: 100, AvailableQty: 2},
		{Source: domain.SourceBid, ID: "third", UnitPriceMinor: 100, AvailableQty: 2},
	}
	cfg := domain.PenaltyConfig{Now: fixedNow()}

	reference := GreedyAllocate(offers, 3, cfg)
	require.Len(t, reference.Assignments, 2)
	assert.Equal(t, "first", reference.Assignments[0].OfferID)
	assert.Equal(t, "second", reference.Assignments[1].OfferID)

	for i := 0; i < 10; i++ {
		plan := GreedyAllocate(offers, 3, cfg)
		assert.Equal(t, reference, plan)
	}
}

func TestGreedyAlternativePenaltyMonotonicity(t *testing.T) {
	offers := []domain.Offer{
		{Source: domain.SourceListing, ID: "base", UnitPriceMinor: 200, AvailableQty: 6},
		{Source: domain.SourceListing, ID: "alt1", UnitPriceMinor: 150, AvailableQty: 6, IsAlternative: true},
		{Source: domain.SourceBid, ID: "alt2", UnitPriceMinor: 180, AvailableQty: 6, IsAlternative: true},
	}

	altShare := func(penalty int64) int64 {
		cfg := domain.PenaltyConfig{Now: fixedNow(), AlternativePenaltyMinorPerUnit: penalty}
		plan := GreedyAllocate(offers, 10, cfg)

		var share int64
		for _, a := range plan.Assignments {
			if a.IsAlternative {
				share += a.Qty
			}
		}
		return share
	}

	prev := altShare(0)
	for _, penalty := range []int64{10, 40, 60, 120, 500} {
		cur := altShare(penalty)
		assert.LessOrEqual(t, cur, prev, "penalty=%d", penalty)
		prev = cur
	}
}
