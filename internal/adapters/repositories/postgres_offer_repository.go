package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
)

// Postgres-backed implementation of the OfferRepository port.
//
// Offers are read fresh on every call; the repository holds no state beyond
// the connection pool, so two successive planning calls may legitimately see
// different market snapshots.
type PostgresOfferRepository struct{ DB *sql.DB }

func NewPostgresOfferRepository(db *sql.DB) *PostgresOfferRepository {
	return &PostgresOfferRepository{DB: db}
}

// ListingsForSKU returns active listings with stock for the exact SKU,
// cheapest first, unknown lead times last, newest first on full ties.
func (r *PostgresOfferRepository) ListingsForSKU(ctx context.Context, brand, code string) (_ []domain.Offer, err error) {
	defer obs.Time(ctx, "offers.ListingsForSKU")(&err)

	if r.DB == nil {
		return nil, errors.New("offer repository: DB is nil")
	}

	query := `
	SELECT
		listing_id,
		brand,
		code,
		unit_price_minor,
		currency,
		qty,
		lead_time_days
	FROM listings
	WHERE brand_norm = $1
		AND code_norm = $2
		AND status = 'active'
		AND qty > 0
	ORDER BY unit_price_minor ASC, lead_time_days ASC NULLS LAST, created_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, brand, code)
	if err != nil {
		return nil, fmt.Errorf("listings for sku: query listings table: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows, domain.SourceListing, false)
}

// BidsForSKU returns open bids attached to a purchase request for the exact
// SKU, same ordering as listings.
func (r *PostgresOfferRepository) BidsForSKU(ctx context.Context, brand, code string) (_ []domain.Offer, err error) {
	defer obs.Time(ctx, "offers.BidsForSKU")(&err)

	if r.DB == nil {
		return nil, errors.New("offer repository: DB is nil")
	}

	query := `
	SELECT
		b.bid_id,
		pr.brand,
		pr.code,
		b.unit_price_minor,
		b.currency,
		b.qty,
		b.lead_time_days
	FROM bids b
	JOIN purchase_requests pr ON pr.pr_id = b.pr_id
	WHERE pr.brand_norm = $1
		AND pr.code_norm = $2
		AND b.status = 'open'
		AND b.qty > 0
		AND NOT b.is_alternative
	ORDER BY b.unit_price_minor ASC, b.lead_time_days ASC NULLS LAST, b.created_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, brand, code)
	if err != nil {
		return nil, fmt.Errorf("bids for sku: query bids table: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows, domain.SourceBid, false)
}

// AlternativeBidsFor returns open bids explicitly flagged as substitute
// offers whose substitute brand/code match the given SKU.
func (r *PostgresOfferRepository) AlternativeBidsFor(ctx context.Context, brand, code string) (_ []domain.Offer, err error) {
	defer obs.Time(ctx, "offers.AlternativeBidsFor")(&err)

	if r.DB == nil {
		return nil, errors.New("offer repository: DB is nil")
	}

	query := `
	SELECT
		b.bid_id,
		b.alt_brand,
		b.alt_code,
		b.unit_price_minor,
		b.currency,
		b.qty,
		b.lead_time_days
	FROM bids b
	WHERE b.is_alternative
		AND b.alt_brand_norm = $1
		AND b.alt_code_norm = $2
		AND b.status = 'open'
		AND b.qty > 0
	ORDER BY b.unit_price_minor ASC, b.lead_time_days ASC NULLS LAST, b.created_at DESC;
	`

	rows, err := r.DB.QueryContext(ctx, query, brand, code)
	if err != nil {
		return nil, fmt.Errorf("alternative bids for: query bids table: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows, domain.SourceBid, true)
}

func scanOffers(rows *sql.Rows, source domain.OfferSource, isAlternative bool) ([]domain.Offer, error) {
	offers := make([]domain.Offer, 0, 16)
	for rows.Next() {
		var (
			o    domain.Offer
			lead sql.NullInt64
		)
		if err := rows.Scan(&o.ID, &o.Brand, &o.Code, &o.UnitPriceMinor, &o.Currency, &o.AvailableQty, &lead); err != nil {
			return nil, fmt.Errorf("scan offer row: %w", err)
		}

		o.Source = source
		o.IsAlternative = isAlternative
		if lead.Valid {
			days := int(lead.Int64)
			o.LeadTimeDays = &days
		}

		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offer row iteration: %w", err)
	}

	return offers, nil
}
