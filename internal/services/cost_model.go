package services

import "part-sourcing-service/internal/domain"

// OfferCost breaks down one offer's effective unit cost.
type OfferCost struct {
	EffectiveUnitMinor int64
	LeadPenaltyMinor   int64
	AltPenaltyMinor    int64
}

// EffectiveUnit computes an offer's effective unit cost: unit price plus a
// lead-time penalty for days late past the due date plus a flat substitution
// penalty for alternative parts.
//
// The lead penalty is zero whenever either the offer's lead time or the due
// date is unknown: incomplete timing information never inflates cost. Both
// allocators share this function so their economic assumptions cannot
// diverge.
func EffectiveUnit(offer domain.Offer, cfg domain.PenaltyConfig) OfferCost {
	var leadPenalty int64

	if offer.LeadTimeDays != nil {
		if daysUntilDue, ok := cfg.DaysUntilDue(); ok {
			daysLate := int64(*offer.LeadTimeDays) - int64(daysUntilDue)
			if daysLate > 0 {
				leadPenalty = daysLate * cfg.LeadPenaltyMinorPerUnitPerDay
			}
		}
	}

	var altPenalty int64
	if offer.IsAlternative {
		altPenalty = cfg.AlternativePenaltyMinorPerUnit
	}

	return OfferCost{
		EffectiveUnitMinor: offer.UnitPriceMinor + leadPenalty + altPenalty,
		LeadPenaltyMinor:   leadPenalty,
		AltPenaltyMinor:    altPenalty,
	}
}

// scoredOffer pairs an offer with its cost breakdown for allocation.
type scoredOffer struct {
	offer domain.Offer
	cost  OfferCost
}

// scoreOffers computes the cost breakdown for every offer, preserving the
// adapters' price/lead/recency ordering for stable tie-breaks downstream.
func scoreOffers(offers []domain.Offer, cfg domain.PenaltyConfig) []scoredOffer {
	scored := make([]scoredOffer, 0, len(offers))
	for _, o := range offers {
		scored = append(scored, scoredOffer{offer: o, cost: EffectiveUnit(o, cfg)})
	}
	return scored
}

// assignmentFor emits the allocation record for taking qty units of a scored
// offer.
func assignmentFor(s scoredOffer, qty int64) domain.AllocationAssignment {
	return domain.AllocationAssignment{
		Source:             s.offer.Source,
		OfferID:            s.offer.ID,
		Brand:              s.offer.Brand,
		Code:               s.offer.Code,
		Qty:                qty,
		UnitPriceMinor:     s.offer.UnitPriceMinor,
		EffectiveUnitMinor: s.cost.EffectiveUnitMinor,
		LeadTimeDays:       s.offer.LeadTimeDays,
		IsAlternative:      s.offer.IsAlternative,
		Currency:           s.offer.Currency,
		PenaltiesPerUnit:   s.cost.LeadPenaltyMinor + s.cost.AltPenaltyMinor,
	}
}
