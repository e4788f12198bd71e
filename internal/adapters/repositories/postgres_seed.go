package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"part-sourcing-service/internal/domain"
)

type FamilySeed struct {
	FamilySlug string `json:"family_slug"`
	SpecsTable string `json:"specs_table"`
	Position   int    `json:"position"`
}

type PartSeed struct {
	Table      string    `json:"table"`
	Brand      string    `json:"brand"`
	Code       string    `json:"code"`
	FamilySlug string    `json:"family_slug"`
	AttrValue  *float64  `json:"attr_value"`
	Embedding  []float32 `json:"embedding"`
}

type ListingSeed struct {
	ListingID      string `json:"listing_id"`
	Brand          string `json:"brand"`
	Code           string `json:"code"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	Currency       string `json:"currency"`
	Qty            int64  `json:"qty"`
	LeadTimeDays   *int   `json:"lead_time_days"`
}

type BidSeed struct {
	BidID          string `json:"bid_id"`
	PRID           string `json:"pr_id"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	Currency       string `json:"currency"`
	Qty            int64  `json:"qty"`
	LeadTimeDays   *int   `json:"lead_time_days"`
	IsAlternative  bool   `json:"is_alternative"`
	AltBrand       string `json:"alt_brand"`
	AltCode        string `json:"alt_code"`
}

type PurchaseRequestSeed struct {
	PRID  string `json:"pr_id"`
	Brand string `json:"brand"`
	Code  string `json:"code"`
}

type SeedFile struct {
	Families         []FamilySeed          `json:"families"`
	Parts            []PartSeed            `json:"parts"`
	Listings         []ListingSeed         `json:"listings"`
	PurchaseRequests []PurchaseRequestSeed `json:"purchase_requests"`
	Bids             []BidSeed             `json:"bids"`
}

// SeedFromJSON populates the sourcing tables from a JSON seed file. Existing
// rows with matching keys are replaced, so reseeding is idempotent.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed sourcing data: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed sourcing data: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed sourcing data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedFamilies(tx, data.Families); err != nil {
		return fmt.Errorf("seed sourcing data: %w", err)
	}
	if err := seedParts(tx, data.Parts); err != nil {
		return fmt.Errorf("seed sourcing data: %w", err)
	}
	if err := seedListings(tx, data.Listings); err != nil {
		return fmt.Errorf("seed sourcing data: %w", err)
	}
	if err := seedPurchaseRequests(tx, data.PurchaseRequests); err != nil {
		return fmt.Errorf("seed sourcing data: %w", err)
	}
	if err := seedBids(tx, data.Bids); err != nil {
		return fmt.Errorf("seed sourcing data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed sourcing data: commit tx: %w", err)
	}

	return nil
}

func seedFamilies(tx *sql.Tx, families []FamilySeed) error {
	query := `
	INSERT INTO part_families (family_slug, specs_table, position)
	VALUES ($1, $2, $3)
	ON CONFLICT (family_slug) DO UPDATE
	SET specs_table = EXCLUDED.specs_table, position = EXCLUDED.position;
	`

	for i, f := range families {
		if _, ok := domain.ValidFamilyTable(f.SpecsTable); !ok {
			return fmt.Errorf("family at index %d: specs table %q is not allow-listed", i+1, f.SpecsTable)
		}
		if strings.TrimSpace(f.FamilySlug) == "" {
			return fmt.Errorf("family at index %d: family_slug cannot be empty", i+1)
		}

		if _, err := tx.Exec(query, f.FamilySlug, f.SpecsTable, f.Position); err != nil {
			return fmt.Errorf("insert family %q: %w", f.FamilySlug, err)
		}
	}

	return nil
}

func seedParts(tx *sql.Tx, parts []PartSeed) error {
	for i, p := range parts {
		table, ok := domain.ValidFamilyTable(p.Table)
		if !ok {
			return fmt.Errorf("part at index %d: specs table %q is not allow-listed", i+1, p.Table)
		}

		brand := strings.TrimSpace(p.Brand)
		code := strings.TrimSpace(p.Code)
		if brand == "" || code == "" {
			return fmt.Errorf("part at index %d: brand and code cannot be empty", i+1)
		}

		attr := familyAttrColumns[table]
		query := fmt.Sprintf(`
		INSERT INTO %s (brand, code, brand_norm, code_norm, family_slug, %s, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (brand_norm, code_norm) DO UPDATE
		SET family_slug = EXCLUDED.family_slug,
			%s = EXCLUDED.%s,
			embedding = EXCLUDED.embedding;
		`, table, attr, attr, attr)

		var attrVal any
		if p.AttrValue != nil {
			attrVal = *p.AttrValue
		}

		var embedding any
		if len(p.Embedding) > 0 {
			embedding = pgvector.NewVector(p.Embedding)
		}

		_, err := tx.Exec(query,
			brand, code,
			domain.NormalizeSKU(brand), domain.NormalizeSKU(code),
			p.FamilySlug, attrVal, embedding,
		)
		if err != nil {
			return fmt.Errorf("insert part %s %s: %w", brand, code, err)
		}
	}

	return nil
}

func seedListings(tx *sql.Tx, listings []ListingSeed) error {
	query := `
	INSERT INTO listings (
		listing_id, brand, code, brand_norm, code_norm,
		unit_price_minor, currency, qty, lead_time_days
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (listing_id) DO UPDATE
	SET unit_price_minor = EXCLUDED.unit_price_minor,
		qty = EXCLUDED.qty,
		lead_time_days = EXCLUDED.lead_time_days;
	`

	for i, l := range listings {
		brand := strings.TrimSpace(l.Brand)
		code := strings.TrimSpace(l.Code)
		if brand == "" || code == "" {
			return fmt.Errorf("listing at index %d: brand and code cannot be empty", i+1)
		}
		if l.UnitPriceMinor < 0 || l.Qty < 0 {
			return fmt.Errorf("listing at index %d: price and qty must be non-negative", i+1)
		}

		id := l.ListingID
		if id == "" {
			id = uuid.NewString()
		}

		currency := l.Currency
		if currency == "" {
			currency = "KRW"
		}

		var lead any
		if l.LeadTimeDays != nil {
			lead = *l.LeadTimeDays
		}

		_, err := tx.Exec(query,
			id, brand, code,
			domain.NormalizeSKU(brand), domain.NormalizeSKU(code),
			l.UnitPriceMinor, currency, l.Qty, lead,
		)
		if err != nil {
			return fmt.Errorf("insert listing %q: %w", id, err)
		}
	}

	return nil
}

func seedPurchaseRequests(tx *sql.Tx, prs []PurchaseRequestSeed) error {
	query := `
	INSERT INTO purchase_requests (pr_id, brand, code, brand_norm, code_norm)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (pr_id) DO NOTHING;
	`

	for i, pr := range prs {
		brand := strings.TrimSpace(pr.Brand)
		code := strings.TrimSpace(pr.Code)
		if pr.PRID == "" || brand == "" || code == "" {
			return fmt.Errorf("purchase request at index %d: pr_id, brand, and code cannot be empty", i+1)
		}

		_, err := tx.Exec(query,
			pr.PRID, brand, code,
			domain.NormalizeSKU(brand), domain.NormalizeSKU(code),
		)
		if err != nil {
			return fmt.Errorf("insert purchase request %q: %w", pr.PRID, err)
		}
	}

	return nil
}

func seedBids(tx *sql.Tx, bids []BidSeed) error {
	query := `
	INSERT INTO bids (
		bid_id, pr_id, unit_price_minor, currency, qty, lead_time_days,
		is_alternative, alt_brand, alt_code, alt_brand_norm, alt_code_norm
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (bid_id) DO UPDATE
	SET unit_price_minor = EXCLUDED.unit_price_minor,
		qty = EXCLUDED.qty,
		lead_time_days = EXCLUDED.lead_time_days;
	`

	for i, b := range bids {
		if b.PRID == "" {
			return fmt.Errorf("bid at index %d: pr_id cannot be empty", i+1)
		}
		if b.IsAlternative && (strings.TrimSpace(b.AltBrand) == "" || strings.TrimSpace(b.AltCode) == "") {
			return fmt.Errorf("bid at index %d: alternative bids need alt_brand and alt_code", i+1)
		}

		id := b.BidID
		if id == "" {
			id = uuid.NewString()
		}

		currency := b.Currency
		if currency == "" {
			currency = "KRW"
		}

		var lead any
		if b.LeadTimeDays != nil {
			lead = *b.LeadTimeDays
		}

		var altBrand, altCode, altBrandNorm, altCodeNorm any
		if b.IsAlternative {
			altBrand = strings.TrimSpace(b.AltBrand)
			altCode = strings.TrimSpace(b.AltCode)
			altBrandNorm = domain.NormalizeSKU(b.AltBrand)
			altCodeNorm = domain.NormalizeSKU(b.AltCode)
		}

		_, err := tx.Exec(query,
			id, b.PRID, b.UnitPriceMinor, currency, b.Qty, lead,
			b.IsAlternative, altBrand, altCode, altBrandNorm, altCodeNorm,
		)
		if err != nil {
			return fmt.Errorf("insert bid %q: %w", id, err)
		}
	}

	return nil
}
