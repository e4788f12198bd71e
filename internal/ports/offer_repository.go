package ports

import (
	"context"
	"part-sourcing-service/internal/domain"
)

// Port: a boundary for gathering supply offers from the persistence layer.
//
// All three methods return offers for one normalized SKU, ordered by price
// ascending, lead time ascending with unknown lead times last, then recency
// descending. "No rows" is an empty slice, never an error; data-access
// failures propagate for the caller to map to a system fault.
type OfferRepository interface {
	// ListingsForSKU returns active seller listings with qty > 0 for the
	// exact SKU.
	ListingsForSKU(ctx context.Context, brand, code string) ([]domain.Offer, error)

	// BidsForSKU returns open buyer bids tied to a purchase request for the
	// exact SKU.
	BidsForSKU(ctx context.Context, brand, code string) ([]domain.Offer, error)

	// AlternativeBidsFor returns bids explicitly flagged as substitute
	// offers whose substitute brand/code match the given SKU.
	AlternativeBidsFor(ctx context.Context, brand, code string) ([]domain.Offer, error)
}
