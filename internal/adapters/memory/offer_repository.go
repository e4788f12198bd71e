package memory

import (
	"context"

	"part-sourcing-service/internal/domain"
)

// OfferRepository is an in-memory OfferRepository implementation for tests
// and local experiments. Offers are returned in insertion order, which
// stands in for the adapter's price/lead/recency ordering.
type OfferRepository struct {
	listings map[string][]domain.Offer
	bids     map[string][]domain.Offer
	altBids  map[string][]domain.Offer

	// Err, when set, is returned by every method to simulate a data-access
	// failure.
	Err error
}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{
		listings: map[string][]domain.Offer{},
		bids:     map[string][]domain.Offer{},
		altBids:  map[string][]domain.Offer{},
	}
}

func skuKey(brand, code string) string {
	return domain.NormalizeSKU(brand) + "|" + domain.NormalizeSKU(code)
}

// AddListing registers a listing offer under its SKU.
func (r *OfferRepository) AddListing(o domain.Offer) {
	o.Source = domain.SourceListing
	k := skuKey(o.Brand, o.Code)
	r.listings[k] = append(r.listings[k], o)
}

// AddBid registers a direct bid offer under its SKU.
func (r *OfferRepository) AddBid(o domain.Offer) {
	o.Source = domain.SourceBid
	k := skuKey(o.Brand, o.Code)
	r.bids[k] = append(r.bids[k], o)
}

// AddAlternativeBid registers a substitute-flagged bid under the substitute
// SKU it offers.
func (r *OfferRepository) AddAlternativeBid(o domain.Offer) {
	o.Source = domain.SourceBid
	o.IsAlternative = true
	k := skuKey(o.Brand, o.Code)
	r.altBids[k] = append(r.altBids[k], o)
}

func (r *OfferRepository) ListingsForSKU(ctx context.Context, brand, code string) ([]domain.Offer, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.Offer{}, r.listings[skuKey(brand, code)]...), nil
}

func (r *OfferRepository) BidsForSKU(ctx context.Context, brand, code string) ([]domain.Offer, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.Offer{}, r.bids[skuKey(brand, code)]...), nil
}

func (r *OfferRepository) AlternativeBidsFor(ctx context.Context, brand, code string) ([]domain.Offer, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.Offer{}, r.altBids[skuKey(brand, code)]...), nil
}
