package similarity

import (
	"context"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/ports"
)

// Selector picks the discovery strategy per call: vector search when the
// base row carries an embedding, the rule-based scorer otherwise. A failed
// embedding query degrades to the rule path instead of failing the planning
// call, since similarity indexes refresh on their own cadence and may lag
// the specs tables.
type Selector struct {
	Embedding ports.AlternativeFinder
	Rule      ports.AlternativeFinder
}

func NewSelector(registry ports.PartRegistry) *Selector {
	return &Selector{
		Embedding: NewEmbeddingFinder(registry),
		Rule:      NewRuleFinder(registry),
	}
}

func (s *Selector) FindAlternatives(ctx context.Context, base *domain.PartMatch, k int) (ports.FinderMode, []domain.PartRow, error) {
	if base != nil && len(base.Row.Embedding) > 0 {
		mode, rows, err := s.Embedding.FindAlternatives(ctx, base, k)
		if err == nil {
			return mode, rows, nil
		}

		obs.L().Warnw("embedding lookup failed, using rule fallback",
			"req_id", obs.RequestID(ctx),
			"brand", base.Row.Brand,
			"code", base.Row.Code,
			"err", err,
		)
	}

	return s.Rule.FindAlternatives(ctx, base, k)
}
