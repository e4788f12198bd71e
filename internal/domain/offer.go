package domain

import "strings"

// OfferSource identifies the supply channel an offer came from.
type OfferSource string

const (
	SourceListing OfferSource = "listing"
	SourceBid     OfferSource = "bid"
)

// Offer is a priced, quantity-bounded supply source for a part.
// Offers are fetched fresh per planning call and never cached across calls:
// a plan is a read-uncommitted preview of current market state.
type Offer struct {
	Source        OfferSource
	ID            string
	Brand         string
	Code          string
	IsAlternative bool
	// UnitPriceMinor is the unit price in minor currency units (e.g. cents).
	UnitPriceMinor int64
	Currency       string
	AvailableQty   int64
	// LeadTimeDays is nil when the seller did not state a lead time.
	LeadTimeDays *int
	Metadata     map[string]any
}

// NormalizeSKU collapses whitespace and lowercases a brand or code so that
// lookups and sorting are insensitive to how the caller spelled the SKU.
func NormalizeSKU(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
