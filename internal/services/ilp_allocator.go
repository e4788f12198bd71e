package services

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"part-sourcing-service/internal/domain"
)

// ILPAllocate builds and solves a linear program minimizing total effective
// cost: one variable per offer with its effective unit cost as objective
// coefficient (penalties folded in, unlike greedy which reports them
// separately), a demand constraint sum(x) >= requiredQty, and a capacity
// bound per offer.
//
// The program is solved continuously for performance and decoded by rounding
// each quantity to the nearest integer, clamped to the offer's capacity so a
// rounded plan can never oversell an offer. Infeasibility (total capacity
// below demand) is a normal business outcome reported via the feasible flag,
// never an error; errors are reserved for solver faults.
func ILPAllocate(offers []domain.Offer, requiredQty int64, cfg domain.PenaltyConfig) (plan *domain.AllocationPlan, feasible bool, err error) {
	scored := scoreOffers(offers, cfg)

	infeasiblePlan := func() *domain.AllocationPlan {
		return &domain.AllocationPlan{
			Assignments: []domain.AllocationAssignment{},
			Remaining:   requiredQty,
		}
	}

	if len(scored) == 0 {
		return infeasiblePlan(), false, nil
	}

	n := len(scored)

	// Standard form for the simplex solver: minimize c'x subject to Ax = b,
	// x >= 0. Columns are [x_1..x_n, surplus, slack_1..slack_n]:
	//   sum(x_i) - surplus = requiredQty      (demand)
	//   x_i + slack_i      = capacity_i       (per-offer capacity)
	cols := 2*n + 1
	c := make([]float64, cols)
	b := make([]float64, n+1)
	a := mat.NewDense(n+1, cols, nil)

	b[0] = float64(requiredQty)
	for i, s := range scored {
		c[i] = float64(s.cost.EffectiveUnitMinor)

		a.Set(0, i, 1)

		a.Set(i+1, i, 1)
		a.Set(i+1, n+1+i, 1)
		b[i+1] = float64(s.offer.AvailableQty)
	}
	a.Set(0, n, -1)

	_, x, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return infeasiblePlan(), false, nil
		}
		return nil, false, fmt.Errorf("ilp allocate: solve lp over %d offers: %w", n, err)
	}

	plan = &domain.AllocationPlan{
		Assignments: []domain.AllocationAssignment{},
	}

	var assigned int64
	for i, s := range scored {
		qty := int64(math.Round(x[i]))
		if qty > s.offer.AvailableQty {
			qty = s.offer.AvailableQty
		}
		if qty <= 0 {
			continue
		}

		plan.Assignments = append(plan.Assignments, assignmentFor(s, qty))
		plan.Totals.CostMinor += qty * s.offer.UnitPriceMinor
		plan.Totals.PenaltyMinor += qty * (s.cost.LeadPenaltyMinor + s.cost.AltPenaltyMinor)
		assigned += qty
	}

	plan.Totals.GrandMinor = plan.Totals.CostMinor + plan.Totals.PenaltyMinor

	plan.Remaining = requiredQty - assigned
	if plan.Remaining < 0 {
		plan.Remaining = 0
	}

	return plan, true, nil
}
