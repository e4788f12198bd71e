package ports

import (
	"context"
	"part-sourcing-service/internal/domain"
)

// Port: read-only access to the part family registry and per-family specs
// tables.
type PartRegistry interface {
	// Families returns the ordered family -> specs-table mappings.
	Families(ctx context.Context) ([]domain.FamilyMapping, error)

	// FindExactRow scans the ordered registry for the first case-insensitive
	// normalized brand/code match. Returns nil when no family holds the SKU.
	FindExactRow(ctx context.Context, brand, code string) (*domain.PartMatch, error)

	// RowsForFamily returns every spec row of one allow-listed table, used
	// by the rule-based similarity fallback.
	RowsForFamily(ctx context.Context, table domain.FamilyTable) ([]domain.PartRow, error)

	// NearestRows returns up to k indexed rows of one allow-listed table
	// ordered by vector distance to embedding ascending, excluding the row
	// identified by the normalized brand/code.
	NearestRows(ctx context.Context, table domain.FamilyTable, brand, code string, embedding []float32, k int) ([]domain.PartRow, error)
}
