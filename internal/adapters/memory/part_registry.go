package memory

import (
	"context"
	"math"
	"sort"

	"part-sourcing-service/internal/domain"
)

// PartRegistry is an in-memory PartRegistry implementation for tests and
// local experiments. Nearest-neighbor queries use Euclidean distance, a
// stand-in for the database's vector index.
type PartRegistry struct {
	Mappings []domain.FamilyMapping
	Rows     map[domain.FamilyTable][]domain.PartRow

	// Err, when set, is returned by every method.
	Err error

	// FamiliesCalls counts Families invocations, for cache tests.
	FamiliesCalls int
}

func NewPartRegistry() *PartRegistry {
	return &PartRegistry{Rows: map[domain.FamilyTable][]domain.PartRow{}}
}

// AddFamily appends a family mapping in scan order.
func (r *PartRegistry) AddFamily(slug string, table domain.FamilyTable) {
	r.Mappings = append(r.Mappings, domain.FamilyMapping{
		FamilySlug: slug,
		Table:      table,
		Position:   len(r.Mappings),
	})
}

// AddRow registers a spec row under its family's table.
func (r *PartRegistry) AddRow(table domain.FamilyTable, row domain.PartRow) {
	r.Rows[table] = append(r.Rows[table], row)
}

func (r *PartRegistry) Families(ctx context.Context) ([]domain.FamilyMapping, error) {
	r.FamiliesCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.FamilyMapping{}, r.Mappings...), nil
}

func (r *PartRegistry) FindExactRow(ctx context.Context, brand, code string) (*domain.PartMatch, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	brand = domain.NormalizeSKU(brand)
	code = domain.NormalizeSKU(code)

	for _, fam := range r.Mappings {
		for _, row := range r.Rows[fam.Table] {
			if domain.NormalizeSKU(row.Brand) == brand && domain.NormalizeSKU(row.Code) == code {
				return &domain.PartMatch{
					Table:      fam.Table,
					FamilySlug: fam.FamilySlug,
					Row:        row,
				}, nil
			}
		}
	}

	return nil, nil
}

func (r *PartRegistry) RowsForFamily(ctx context.Context, table domain.FamilyTable) ([]domain.PartRow, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return append([]domain.PartRow{}, r.Rows[table]...), nil
}

func (r *PartRegistry) NearestRows(ctx context.Context, table domain.FamilyTable, brand, code string, embedding []float32, k int) ([]domain.PartRow, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	brand = domain.NormalizeSKU(brand)
	code = domain.NormalizeSKU(code)

	type scored struct {
		row  domain.PartRow
		dist float64
	}

	var candidates []scored
	for _, row := range r.Rows[table] {
		if len(row.Embedding) == 0 {
			continue
		}
		if domain.NormalizeSKU(row.Brand) == brand && domain.NormalizeSKU(row.Code) == code {
			continue
		}
		candidates = append(candidates, scored{row: row, dist: euclidean(embedding, row.Embedding)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	rows := make([]domain.PartRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, c.row)
	}

	return rows, nil
}

func euclidean(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}
