package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
)

// familyAttrColumns maps each allow-listed specs table to its primary
// numeric attribute column. Table and column names reach SQL only through
// this map, never from caller input.
var familyAttrColumns = map[domain.FamilyTable]string{
	domain.TableMLCC:          "capacitance_pf",
	domain.TableChipResistor:  "resistance_mohm",
	domain.TablePowerInductor: "inductance_nh",
}

// Postgres-backed implementation of the PartRegistry port.
type PostgresPartRegistry struct{ DB *sql.DB }

func NewPostgresPartRegistry(db *sql.DB) *PostgresPartRegistry {
	return &PostgresPartRegistry{DB: db}
}

// Families returns the ordered family -> specs-table mappings. Rows whose
// specs table is not allow-listed are rejected rather than queried.
func (r *PostgresPartRegistry) Families(ctx context.Context) (_ []domain.FamilyMapping, err error) {
	defer obs.Time(ctx, "registry.Families")(&err)

	if r.DB == nil {
		return nil, errors.New("part registry: DB is nil")
	}

	query := `
	SELECT family_slug, specs_table, position
	FROM part_families
	ORDER BY position ASC;
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("registry families: query part_families table: %w", err)
	}
	defer rows.Close()

	mappings := make([]domain.FamilyMapping, 0, len(domain.KnownFamilyTables))
	for rows.Next() {
		var (
			m         domain.FamilyMapping
			tableName string
		)
		if err := rows.Scan(&m.FamilySlug, &tableName, &m.Position); err != nil {
			return nil, fmt.Errorf("registry families: scan row: %w", err)
		}

		table, ok := domain.ValidFamilyTable(tableName)
		if !ok {
			return nil, fmt.Errorf("registry families: specs table %q is not allow-listed", tableName)
		}
		m.Table = table

		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry families: row iteration: %w", err)
	}

	return mappings, nil
}

// FindExactRow scans families in registry order and returns the first
// normalized brand/code match, or nil when no family holds the SKU.
func (r *PostgresPartRegistry) FindExactRow(ctx context.Context, brand, code string) (_ *domain.PartMatch, err error) {
	defer obs.Time(ctx, "registry.FindExactRow")(&err)

	families, err := r.Families(ctx)
	if err != nil {
		return nil, fmt.Errorf("find exact row: %w", err)
	}

	brand = domain.NormalizeSKU(brand)
	code = domain.NormalizeSKU(code)

	for _, fam := range families {
		row, err := r.lookupRow(ctx, fam.Table, brand, code)
		if err != nil {
			return nil, fmt.Errorf("find exact row: family %q: %w", fam.FamilySlug, err)
		}
		if row != nil {
			return &domain.PartMatch{
				Table:      fam.Table,
				FamilySlug: fam.FamilySlug,
				Row:        *row,
			}, nil
		}
	}

	return nil, nil
}

// RowsForFamily returns every spec row of one allow-listed table.
func (r *PostgresPartRegistry) RowsForFamily(ctx context.Context, table domain.FamilyTable) (_ []domain.PartRow, err error) {
	defer obs.Time(ctx, "registry.RowsForFamily")(&err)

	if r.DB == nil {
		return nil, errors.New("part registry: DB is nil")
	}

	attr, ok := familyAttrColumns[table]
	if !ok {
		return nil, fmt.Errorf("rows for family: specs table %q is not allow-listed", table)
	}

	query := fmt.Sprintf(`
	SELECT brand, code, family_slug, %s, embedding
	FROM %s
	ORDER BY brand_norm ASC, code_norm ASC;
	`, attr, table)

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rows for family: query %s: %w", table, err)
	}
	defer rows.Close()

	parts := make([]domain.PartRow, 0, 64)
	for rows.Next() {
		part, err := scanPartRow(rows, attr)
		if err != nil {
			return nil, fmt.Errorf("rows for family: %w", err)
		}
		parts = append(parts, *part)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows for family: row iteration: %w", err)
	}

	return parts, nil
}

// NearestRows runs the vector-similarity query: indexed rows of one table
// ordered by distance to embedding ascending, excluding the base row.
func (r *PostgresPartRegistry) NearestRows(ctx context.Context, table domain.FamilyTable, brand, code string, embedding []float32, k int) (_ []domain.PartRow, err error) {
	defer obs.Time(ctx, "registry.NearestRows")(&err)

	if r.DB == nil {
		return nil, errors.New("part registry: DB is nil")
	}

	attr, ok := familyAttrColumns[table]
	if !ok {
		return nil, fmt.Errorf("nearest rows: specs table %q is not allow-listed", table)
	}

	query := fmt.Sprintf(`
	SELECT brand, code, family_slug, %s, embedding
	FROM %s
	WHERE embedding IS NOT NULL
		AND NOT (brand_norm = $1 AND code_norm = $2)
	ORDER BY embedding <-> $3 ASC
	LIMIT $4;
	`, attr, table)

	rows, err := r.DB.QueryContext(ctx, query,
		domain.NormalizeSKU(brand), domain.NormalizeSKU(code),
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, fmt.Errorf("nearest rows: query %s: %w", table, err)
	}
	defer rows.Close()

	parts := make([]domain.PartRow, 0, k)
	for rows.Next() {
		part, err := scanPartRow(rows, attr)
		if err != nil {
			return nil, fmt.Errorf("nearest rows: %w", err)
		}
		parts = append(parts, *part)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nearest rows: row iteration: %w", err)
	}

	return parts, nil
}

func (r *PostgresPartRegistry) lookupRow(ctx context.Context, table domain.FamilyTable, brand, code string) (*domain.PartRow, error) {
	if r.DB == nil {
		return nil, errors.New("part registry: DB is nil")
	}

	attr, ok := familyAttrColumns[table]
	if !ok {
		return nil, fmt.Errorf("specs table %q is not allow-listed", table)
	}

	// Only the allow-listed table and column names are interpolated; all
	// values remain parameterized.
	query := fmt.Sprintf(`
	SELECT brand, code, family_slug, %s, embedding
	FROM %s
	WHERE brand_norm = $1 AND code_norm = $2
	LIMIT 1;
	`, attr, table)

	rows, err := r.DB.QueryContext(ctx, query, brand, code)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("row iteration: %w", err)
		}
		return nil, nil
	}

	return scanPartRow(rows, attr)
}

func scanPartRow(rows *sql.Rows, attrName string) (*domain.PartRow, error) {
	var (
		part      domain.PartRow
		attr      sql.NullFloat64
		embedding sql.Null[pgvector.Vector]
	)
	if err := rows.Scan(&part.Brand, &part.Code, &part.FamilySlug, &attr, &embedding); err != nil {
		return nil, fmt.Errorf("scan spec row: %w", err)
	}

	part.Attrs = map[string]float64{}
	if attr.Valid {
		part.Attrs[attrName] = attr.Float64
	}
	if embedding.Valid {
		part.Embedding = embedding.V.Slice()
	}

	return &part, nil
}
