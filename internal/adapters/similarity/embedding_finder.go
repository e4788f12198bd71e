package similarity

import (
	"context"
	"errors"
	"fmt"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/ports"
)

// EmbeddingFinder discovers alternatives by nearest-neighbor search over the
// precomputed embedding column of the base row's specs table.
type EmbeddingFinder struct {
	Registry ports.PartRegistry
}

func NewEmbeddingFinder(registry ports.PartRegistry) *EmbeddingFinder {
	return &EmbeddingFinder{Registry: registry}
}

// FindAlternatives requires the base row to carry an embedding; callers
// select this strategy only after checking for one.
func (f *EmbeddingFinder) FindAlternatives(ctx context.Context, base *domain.PartMatch, k int) (ports.FinderMode, []domain.PartRow, error) {
	if base == nil {
		return ports.ModeEmbedding, nil, errors.New("embedding finder: base match is nil")
	}
	if len(base.Row.Embedding) == 0 {
		return ports.ModeEmbedding, nil, errors.New("embedding finder: base row has no embedding")
	}

	rows, err := f.Registry.NearestRows(ctx, base.Table, base.Row.Brand, base.Row.Code, base.Row.Embedding, k)
	if err != nil {
		return ports.ModeEmbedding, nil, fmt.Errorf("embedding finder: nearest rows in %s: %w", base.Table, err)
	}

	return ports.ModeEmbedding, rows, nil
}
