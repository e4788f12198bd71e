package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the sourcing tables. Per-family specs tables carry a
// pgvector embedding column so similarity search works as soon as vectors
// are backfilled; until then the rule fallback serves.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExtensionQuery := `CREATE EXTENSION IF NOT EXISTS vector;`

	createListingsQuery := `
	CREATE TABLE IF NOT EXISTS listings (
		listing_id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		code TEXT NOT NULL,
		brand_norm TEXT NOT NULL,
		code_norm TEXT NOT NULL,
		unit_price_minor BIGINT NOT NULL CHECK (unit_price_minor >= 0),
		currency TEXT NOT NULL DEFAULT 'KRW',
		qty BIGINT NOT NULL CHECK (qty >= 0),
		lead_time_days INTEGER,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createPurchaseRequestsQuery := `
	CREATE TABLE IF NOT EXISTS purchase_requests (
		pr_id TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		code TEXT NOT NULL,
		brand_norm TEXT NOT NULL,
		code_norm TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createBidsQuery := `
	CREATE TABLE IF NOT EXISTS bids (
		bid_id TEXT PRIMARY KEY,
		pr_id TEXT NOT NULL REFERENCES purchase_requests(pr_id),
		unit_price_minor BIGINT NOT NULL CHECK (unit_price_minor >= 0),
		currency TEXT NOT NULL DEFAULT 'KRW',
		qty BIGINT NOT NULL CHECK (qty >= 0),
		lead_time_days INTEGER,
		is_alternative BOOLEAN NOT NULL DEFAULT FALSE,
		alt_brand TEXT,
		alt_code TEXT,
		alt_brand_norm TEXT,
		alt_code_norm TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createFamiliesQuery := `
	CREATE TABLE IF NOT EXISTS part_families (
		family_slug TEXT PRIMARY KEY,
		specs_table TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	`

	createSpecsMLCCQuery := `
	CREATE TABLE IF NOT EXISTS specs_mlcc (
		brand TEXT NOT NULL,
		code TEXT NOT NULL,
		brand_norm TEXT NOT NULL,
		code_norm TEXT NOT NULL,
		family_slug TEXT NOT NULL,
		capacitance_pf DOUBLE PRECISION,
		embedding vector(384),
		PRIMARY KEY (brand_norm, code_norm)
	);
	`

	createSpecsChipResistorQuery := `
	CREATE TABLE IF NOT EXISTS specs_chip_resistor (
		brand TEXT NOT NULL,
		code TEXT NOT NULL,
		brand_norm TEXT NOT NULL,
		code_norm TEXT NOT NULL,
		family_slug TEXT NOT NULL,
		resistance_mohm DOUBLE PRECISION,
		embedding vector(384),
		PRIMARY KEY (brand_norm, code_norm)
	);
	`

	createSpecsPowerInductorQuery := `
	CREATE TABLE IF NOT EXISTS specs_power_inductor (
		brand TEXT NOT NULL,
		code TEXT NOT NULL,
		brand_norm TEXT NOT NULL,
		code_norm TEXT NOT NULL,
		family_slug TEXT NOT NULL,
		inductance_nh DOUBLE PRECISION,
		embedding vector(384),
		PRIMARY KEY (brand_norm, code_norm)
	);
	`

	createListingIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_listings_sku
	ON listings(brand_norm, code_norm, status);
	`

	createBidIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_bids_alt_sku
	ON bids(alt_brand_norm, alt_code_norm) WHERE is_alternative;
	`

	statements := []string{
		createExtensionQuery,
		createListingsQuery,
		createPurchaseRequestsQuery,
		createBidsQuery,
		createFamiliesQuery,
		createSpecsMLCCQuery,
		createSpecsChipResistorQuery,
		createSpecsPowerInductorQuery,
		createListingIndexQuery,
		createBidIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
