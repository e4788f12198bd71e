package similarity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/ports"
)

// attrDistanceScale divides the absolute attribute delta so a 100-unit gap
// weighs the same as one family mismatch.
const attrDistanceScale = 100.0

// RuleFinder is the attribute-distance fallback used when no embedding is
// available: score = (0 if same family else 1) + |delta attr| / 100,
// ascending. Missing attribute values contribute zero distance, a documented
// approximation that keeps substitution discovery usable before similarity
// indexes are populated.
type RuleFinder struct {
	Registry ports.PartRegistry
}

func NewRuleFinder(registry ports.PartRegistry) *RuleFinder {
	return &RuleFinder{Registry: registry}
}

type scoredRow struct {
	row   domain.PartRow
	score float64
}

func (f *RuleFinder) FindAlternatives(ctx context.Context, base *domain.PartMatch, k int) (ports.FinderMode, []domain.PartRow, error) {
	if base == nil {
		return ports.ModeRuleFallback, nil, errors.New("rule finder: base match is nil")
	}

	families, err := f.Registry.Families(ctx)
	if err != nil {
		return ports.ModeRuleFallback, nil, fmt.Errorf("rule finder: list families: %w", err)
	}

	baseBrand := domain.NormalizeSKU(base.Row.Brand)
	baseCode := domain.NormalizeSKU(base.Row.Code)

	var candidates []scoredRow
	for _, fam := range families {
		rows, err := f.Registry.RowsForFamily(ctx, fam.Table)
		if err != nil {
			return ports.ModeRuleFallback, nil, fmt.Errorf("rule finder: rows for family %q: %w", fam.FamilySlug, err)
		}

		for _, row := range rows {
			if domain.NormalizeSKU(row.Brand) == baseBrand && domain.NormalizeSKU(row.Code) == baseCode {
				continue
			}
			candidates = append(candidates, scoredRow{row: row, score: ruleScore(base.Row, row)})
		}
	}

	// Stable sort keeps registry order on score ties, so results are
	// deterministic across calls.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	rows := make([]domain.PartRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, c.row)
	}

	return ports.ModeRuleFallback, rows, nil
}

func ruleScore(base, candidate domain.PartRow) float64 {
	var score float64
	if base.FamilySlug != candidate.FamilySlug {
		score = 1
	}

	for name, baseVal := range base.Attrs {
		candVal, ok := candidate.Attrs[name]
		if !ok {
			// Unknown attribute: assume comparable rather than penalize.
			continue
		}

		delta := baseVal - candVal
		if delta < 0 {
			delta = -delta
		}
		score += delta / attrDistanceScale
	}

	return score
}
