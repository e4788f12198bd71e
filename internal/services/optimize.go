package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/ports"
)

// ErrInvalidLine marks malformed requirement input rejected at the facade
// boundary. Allocators assume validated input.
var ErrInvalidLine = errors.New("invalid requirement line")

// AllocatorKind selects which allocation algorithm a planning call runs.
type AllocatorKind string

const (
	AllocatorGreedy AllocatorKind = "greedy"
	AllocatorILP    AllocatorKind = "ilp"
)

// PlannerOptions tune one planning call.
type PlannerOptions struct {
	AllowAlternatives              bool
	KAlternatives                  int
	UseBids                        bool
	Allocator                      AllocatorKind
	LeadPenaltyMinorPerUnitPerDay  int64
	AlternativePenaltyMinorPerUnit int64
}

// DefaultPlannerOptions returns the documented defaults.
func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{
		AllowAlternatives:              true,
		KAlternatives:                  6,
		UseBids:                        true,
		Allocator:                      AllocatorGreedy,
		LeadPenaltyMinorPerUnitPerDay:  10,
		AlternativePenaltyMinorPerUnit: 0,
	}
}

const (
	minAlternatives = 1
	maxAlternatives = 20

	// altGatherLimit bounds concurrent per-alternative offer gathering.
	altGatherLimit = 4
)

// LineResult is the uniform envelope returned for one requirement line.
type LineResult struct {
	Input            domain.RequirementLine
	Options          PlannerOptions
	OffersCount      int
	Route            domain.FulfillmentRoute
	Feasible         bool
	AlternativesMode ports.FinderMode
	Plan             *domain.AllocationPlan
}

// NeedsRFQ reports whether the line must fall back to a request-for-quote:
// either the market cannot meet demand at all or the plan came up short.
func (r *LineResult) NeedsRFQ() bool {
	return !r.Feasible || (r.Plan != nil && r.Plan.Remaining > 0)
}

// BatchRequest is a set of requirement lines planned under shared options.
type BatchRequest struct {
	Items   []domain.RequirementLine
	Options PlannerOptions
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	TotalLines          int
	TotalRequiredQty    int64
	TotalGrandMinor     int64
	LinesFullySatisfied int
	LinesNeedRFQ        int
}

// BatchResult pairs the summary with per-line results.
type BatchResult struct {
	Summary BatchSummary
	Items   []LineResult
}

// Planner orchestrates offer gathering, alternative discovery, and
// allocation per requirement line. It is a pure planning component: it never
// mutates inventory or commits a plan, and every call re-reads current
// market state.
type Planner struct {
	Offers   ports.OfferRepository
	Registry ports.PartRegistry
	Finder   ports.AlternativeFinder

	// Now overrides the clock for deterministic tests; nil means time.Now.
	Now func() time.Time
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// OptimizeLine plans a single requirement line: gather direct listings and
// bids, optionally discover alternatives and gather their offers, then hand
// the unified offer set to the selected allocator.
func (p *Planner) OptimizeLine(ctx context.Context, line domain.RequirementLine, opts PlannerOptions) (_ *LineResult, err error) {
	defer obs.Time(ctx, "planner.OptimizeLine")(&err)

	brand := domain.NormalizeSKU(line.Brand)
	code := domain.NormalizeSKU(line.Code)

	if brand == "" || code == "" {
		return nil, fmt.Errorf("optimize line: brand and code are required: %w", ErrInvalidLine)
	}
	if line.RequiredQty <= 0 {
		return nil, fmt.Errorf("optimize line: required_qty must be positive, got %d: %w", line.RequiredQty, ErrInvalidLine)
	}

	k := opts.KAlternatives
	if k < minAlternatives {
		k = minAlternatives
	}
	if k > maxAlternatives {
		k = maxAlternatives
	}

	// Direct-SKU gathers are independent of each other and run concurrently.
	var listings, bids []domain.Offer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		listings, e = p.Offers.ListingsForSKU(gctx, brand, code)
		if e != nil {
			return fmt.Errorf("optimize line: gather listings for %s %s: %w", brand, code, e)
		}
		return nil
	})
	if opts.UseBids {
		g.Go(func() error {
			var e error
			bids, e = p.Offers.BidsForSKU(gctx, brand, code)
			if e != nil {
				return fmt.Errorf("optimize line: gather bids for %s %s: %w", brand, code, e)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, 0, len(listings)+len(bids))
	offers = append(offers, listings...)
	offers = append(offers, bids...)

	var mode ports.FinderMode
	if opts.AllowAlternatives {
		altOffers, altMode, err := p.gatherAlternativeOffers(ctx, brand, code, k, opts.UseBids)
		if err != nil {
			return nil, err
		}
		mode = altMode
		offers = append(offers, altOffers...)
	}

	cfg := domain.PenaltyConfig{
		DueDate:                        line.DueDate,
		Now:                            p.now(),
		LeadPenaltyMinorPerUnitPerDay:  opts.LeadPenaltyMinorPerUnitPerDay,
		AlternativePenaltyMinorPerUnit: opts.AlternativePenaltyMinorPerUnit,
	}

	result := &LineResult{
		Input:            line,
		Options:          opts,
		OffersCount:      len(offers),
		Feasible:         true,
		AlternativesMode: mode,
	}

	switch opts.Allocator {
	case AllocatorILP:
		plan, feasible, err := ILPAllocate(offers, line.RequiredQty, cfg)
		if err != nil {
			return nil, err
		}
		result.Plan = plan
		result.Feasible = feasible
	default:
		result.Plan = GreedyAllocate(offers, line.RequiredQty, cfg)
	}

	if result.Feasible {
		result.Route = domain.ClassifyRoute(result.Plan.Assignments, result.Plan.Remaining)
	} else {
		// Nothing can be sourced from the current market; the whole demand
		// goes to auction via RFQ.
		result.Route = domain.RouteAuction
	}

	return result, nil
}

// gatherAlternativeOffers resolves the base row, discovers up to k
// substitutable parts, and gathers each one's listings (tagged alternative)
// plus explicitly flagged substitute bids. An unresolvable base row or an
// empty alternative set simply yields no extra offers.
func (p *Planner) gatherAlternativeOffers(ctx context.Context, brand, code string, k int, useBids bool) ([]domain.Offer, ports.FinderMode, error) {
	match, err := p.Registry.FindExactRow(ctx, brand, code)
	if err != nil {
		return nil, "", fmt.Errorf("optimize line: resolve base row for %s %s: %w", brand, code, err)
	}
	if match == nil {
		return nil, "", nil
	}

	mode, alternatives, err := p.Finder.FindAlternatives(ctx, match, k)
	if err != nil {
		return nil, "", fmt.Errorf("optimize line: find alternatives for %s %s: %w", brand, code, err)
	}
	if len(alternatives) == 0 {
		return nil, mode, nil
	}

	// Per-alternative gathers are independent; fan out bounded, then flatten
	// in finder rank order so downstream tie-breaks stay deterministic.
	perAlt := make([][]domain.Offer, len(alternatives))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(altGatherLimit)

	for i, alt := range alternatives {
		g.Go(func() error {
			altBrand := domain.NormalizeSKU(alt.Brand)
			altCode := domain.NormalizeSKU(alt.Code)

			listings, err := p.Offers.ListingsForSKU(gctx, altBrand, altCode)
			if err != nil {
				return fmt.Errorf("optimize line: gather alternative listings for %s %s: %w", altBrand, altCode, err)
			}

			gathered := make([]domain.Offer, 0, len(listings))
			for _, o := range listings {
				o.IsAlternative = true
				gathered = append(gathered, o)
			}

			if useBids {
				altBids, err := p.Offers.AlternativeBidsFor(gctx, altBrand, altCode)
				if err != nil {
					return fmt.Errorf("optimize line: gather alternative bids for %s %s: %w", altBrand, altCode, err)
				}
				gathered = append(gathered, altBids...)
			}

			perAlt[i] = gathered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	var offers []domain.Offer
	for _, gathered := range perAlt {
		offers = append(offers, gathered...)
	}

	return offers, mode, nil
}

// Optimize plans every line of a batch under shared options, accumulating a
// summary. A per-line system failure aborts the whole batch: data-access
// faults are shared infrastructure problems, not per-line business outcomes.
func (p *Planner) Optimize(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	result := &BatchResult{
		Items: make([]LineResult, 0, len(req.Items)),
	}

	for i, line := range req.Items {
		lineResult, err := p.OptimizeLine(ctx, line, req.Options)
		if err != nil {
			return nil, fmt.Errorf("optimize batch: line %d (%s %s): %w", i+1, line.Brand, line.Code, err)
		}

		result.Items = append(result.Items, *lineResult)

		result.Summary.TotalLines++
		result.Summary.TotalRequiredQty += line.RequiredQty
		result.Summary.TotalGrandMinor += lineResult.Plan.Totals.GrandMinor
		if lineResult.NeedsRFQ() {
			result.Summary.LinesNeedRFQ++
		} else {
			result.Summary.LinesFullySatisfied++
		}
	}

	return result, nil
}
