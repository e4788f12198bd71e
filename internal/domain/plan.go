package domain

// FulfillmentRoute classifies which channels a plan draws on.
type FulfillmentRoute string

const (
	RouteStock   FulfillmentRoute = "stock"
	RouteAuction FulfillmentRoute = "auction"
	RouteMixed   FulfillmentRoute = "mixed"
)

// AllocationAssignment records a quantity taken from one offer.
type AllocationAssignment struct {
	Source             OfferSource
	OfferID            string
	Brand              string
	Code               string
	Qty                int64
	UnitPriceMinor     int64
	EffectiveUnitMinor int64
	LeadTimeDays       *int
	IsAlternative      bool
	Currency           string
	// PenaltiesPerUnit is the lead-time plus substitution penalty per unit,
	// i.e. EffectiveUnitMinor - UnitPriceMinor.
	PenaltiesPerUnit int64
}

// PlanTotals aggregates a plan's raw cost, penalty load, and grand total.
type PlanTotals struct {
	CostMinor    int64
	PenaltyMinor int64
	GrandMinor   int64
}

// AllocationPlan is the transient result of one allocation run.
// Invariant: sum of assignment quantities + Remaining == the required quantity.
type AllocationPlan struct {
	Assignments []AllocationAssignment
	Remaining   int64
	Totals      PlanTotals
}

// AssignedQty returns the total quantity covered by the plan's assignments.
func (p *AllocationPlan) AssignedQty() int64 {
	var total int64
	for _, a := range p.Assignments {
		total += a.Qty
	}
	return total
}

// ClassifyRoute derives the fulfillment route from which sources contributed
// and whether demand was fully met. A short plan that still drew on stock is
// "mixed" (stock plus a follow-up RFQ); a short plan with no listing
// contribution falls through to the auction route entirely.
func ClassifyRoute(assignments []AllocationAssignment, remaining int64) FulfillmentRoute {
	var hasListing, hasBid bool
	for _, a := range assignments {
		switch a.Source {
		case SourceListing:
			hasListing = true
		case SourceBid:
			hasBid = true
		}
	}

	if remaining > 0 {
		if hasListing {
			return RouteMixed
		}
		return RouteAuction
	}

	switch {
	case hasListing && hasBid:
		return RouteMixed
	case hasBid:
		return RouteAuction
	default:
		return RouteStock
	}
}
