package ports

import (
	"context"
	"part-sourcing-service/internal/domain"
)

// FinderMode reports which strategy produced a set of alternatives.
type FinderMode string

const (
	ModeEmbedding    FinderMode = "embedding"
	ModeRuleFallback FinderMode = "rule-fallback"
)

// Port: substitute-part discovery for a resolved base row.
//
// Implementations are capability-based strategies (vector similarity when an
// embedding exists, attribute-distance scoring otherwise) behind one
// contract. An empty result is a normal outcome, not an error.
type AlternativeFinder interface {
	// FindAlternatives returns up to k substitutable parts for base, ordered
	// most-similar first, excluding the base row itself.
	FindAlternatives(ctx context.Context, base *domain.PartMatch, k int) (FinderMode, []domain.PartRow, error)
}
