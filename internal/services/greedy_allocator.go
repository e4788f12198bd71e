package services

import (
	"sort"

	"part-sourcing-service/internal/domain"
)

// GreedyAllocate consumes offers cheapest-effective-unit-first until demand
// is met or supply runs out.
//
// The stable sort keeps each adapter's price/lead/recency ordering as the
// tie-break, so identical inputs always produce identical plans. The rule is
// cost-minimal for a single demand constraint with independent capacities
// (exchange argument); it is not optimal once coupling constraints such as
// minimum order quantities appear, which is what the LP path is for.
func GreedyAllocate(offers []domain.Offer, requiredQty int64, cfg domain.PenaltyConfig) *domain.AllocationPlan {
	scored := scoreOffers(offers, cfg)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].cost.EffectiveUnitMinor < scored[j].cost.EffectiveUnitMinor
	})

	plan := &domain.AllocationPlan{
		Assignments: []domain.AllocationAssignment{},
		Remaining:   requiredQty,
	}

	for _, s := range scored {
		if plan.Remaining <= 0 {
			break
		}

		take := plan.Remaining
		if s.offer.AvailableQty < take {
			take = s.offer.AvailableQty
		}
		if take <= 0 {
			continue
		}

		plan.Assignments = append(plan.Assignments, assignmentFor(s, take))
		plan.Totals.CostMinor += take * s.offer.UnitPriceMinor
		plan.Totals.PenaltyMinor += take * (s.cost.LeadPenaltyMinor + s.cost.AltPenaltyMinor)
		plan.Remaining -= take
	}

	plan.Totals.GrandMinor = plan.Totals.CostMinor + plan.Totals.PenaltyMinor

	return plan
}
