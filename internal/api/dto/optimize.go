package dto

import "time"

type OptimizeOptions struct {
	AllowAlternatives              *bool  `json:"allow_alternatives"`
	KAlternatives                  *int   `json:"k_alternatives"`
	UseBids                        *bool  `json:"use_bids"`
	Allocator                      string `json:"allocator"`
	LeadPenaltyMinorPerUnitPerDay  *int64 `json:"lead_penalty_minor_per_unit_per_day"`
	AlternativePenaltyMinorPerUnit *int64 `json:"alternative_penalty_minor_per_unit"`
}

type OptimizeLineRequest struct {
	Brand       string           `json:"brand"`
	Code        string           `json:"code"`
	RequiredQty int64            `json:"required_qty"`
	DueDate     *time.Time       `json:"due_date"`
	Options     *OptimizeOptions `json:"options"`
}

type OptimizeItemRequest struct {
	Brand       string     `json:"brand"`
	Code        string     `json:"code"`
	RequiredQty int64      `json:"required_qty"`
	DueDate     *time.Time `json:"due_date"`
}

type OptimizeRequest struct {
	Items   []OptimizeItemRequest `json:"items"`
	Options *OptimizeOptions      `json:"options"`
}

type AssignmentResponse struct {
	Source             string `json:"source"`
	OfferID            string `json:"offer_id"`
	Brand              string `json:"brand"`
	Code               string `json:"code"`
	Qty                int64  `json:"qty"`
	UnitPriceMinor     int64  `json:"unit_price_minor"`
	EffectiveUnitMinor int64  `json:"effective_unit_minor"`
	LeadTimeDays       *int   `json:"lead_time_days"`
	IsAlternative      bool   `json:"is_alternative"`
	Currency           string `json:"currency"`
	PenaltiesPerUnit   int64  `json:"penalties_per_unit"`
}

type PlanTotalsResponse struct {
	CostMinor    int64  `json:"cost_minor"`
	PenaltyMinor int64  `json:"penalty_minor"`
	GrandMinor   int64  `json:"grand_minor"`
	Grand        string `json:"grand"`
}

type PlanResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Remaining   int64                `json:"remaining"`
	Totals      PlanTotalsResponse   `json:"totals"`
}

type LineInputResponse struct {
	Brand       string     `json:"brand"`
	Code        string     `json:"code"`
	RequiredQty int64      `json:"required_qty"`
	DueDate     *time.Time `json:"due_date"`
}

type LineOptionsResponse struct {
	AllowAlternatives              bool   `json:"allow_alternatives"`
	KAlternatives                  int    `json:"k_alternatives"`
	UseBids                        bool   `json:"use_bids"`
	Allocator                      string `json:"allocator"`
	LeadPenaltyMinorPerUnitPerDay  int64  `json:"lead_penalty_minor_per_unit_per_day"`
	AlternativePenaltyMinorPerUnit int64  `json:"alternative_penalty_minor_per_unit"`
}

type OptimizeLineResponse struct {
	Input            LineInputResponse   `json:"input"`
	Options          LineOptionsResponse `json:"options"`
	OffersCount      int                 `json:"offers_count"`
	Route            string              `json:"route"`
	Feasible         bool                `json:"feasible"`
	NeedsRFQ         bool                `json:"needs_rfq"`
	AlternativesMode string              `json:"alternatives_mode,omitempty"`
	Plan             PlanResponse        `json:"plan"`
}

type OptimizeSummaryResponse struct {
	TotalLines          int   `json:"total_lines"`
	TotalRequiredQty    int64 `json:"total_required_qty"`
	TotalGrandMinor     int64 `json:"total_grand_minor"`
	LinesFullySatisfied int   `json:"lines_fully_satisfied"`
	LinesNeedRFQ        int   `json:"lines_need_rfq"`
}

type OptimizeResponse struct {
	Summary OptimizeSummaryResponse `json:"summary"`
	Items   []OptimizeLineResponse  `json:"items"`
}
