package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"part-sourcing-service/internal/api/dto"
	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/services"
)

// OptimizeHandler exposes the sourcing planner over HTTP. It validates and
// decodes requests, maps planner errors onto status codes, and keeps the
// "market cannot meet demand" outcome a 200 with needs_rfq, never an error.
type OptimizeHandler struct {
	Planner *services.Planner
}

// Line plans a single requirement line.
func (h *OptimizeHandler) Line(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeLineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	line := domain.RequirementLine{
		Brand:       req.Brand,
		Code:        req.Code,
		RequiredQty: req.RequiredQty,
		DueDate:     req.DueDate,
	}

	result, err := h.Planner.OptimizeLine(r.Context(), line, plannerOptions(req.Options))
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, lineResponse(result))
}

// Batch plans a set of requirement lines under shared options.
func (h *OptimizeHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if len(req.Items) == 0 {
		writeError(w, r, http.StatusBadRequest, "items must not be empty")
		return
	}

	batch := services.BatchRequest{
		Items:   make([]domain.RequirementLine, 0, len(req.Items)),
		Options: plannerOptions(req.Options),
	}
	for _, item := range req.Items {
		batch.Items = append(batch.Items, domain.RequirementLine{
			Brand:       item.Brand,
			Code:        item.Code,
			RequiredQty: item.RequiredQty,
			DueDate:     item.DueDate,
		})
	}

	result, err := h.Planner.Optimize(r.Context(), batch)
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	res := dto.OptimizeResponse{
		Summary: dto.OptimizeSummaryResponse{
			TotalLines:          result.Summary.TotalLines,
			TotalRequiredQty:    result.Summary.TotalRequiredQty,
			TotalGrandMinor:     result.Summary.TotalGrandMinor,
			LinesFullySatisfied: result.Summary.LinesFullySatisfied,
			LinesNeedRFQ:        result.Summary.LinesNeedRFQ,
		},
		Items: make([]dto.OptimizeLineResponse, 0, len(result.Items)),
	}
	for i := range result.Items {
		res.Items = append(res.Items, lineResponse(&result.Items[i]))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	return true
}

func writePlannerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrInvalidLine) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	obs.L().Errorw("optimize failed",
		"req_id", obs.RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// plannerOptions merges request overrides onto the documented defaults.
func plannerOptions(o *dto.OptimizeOptions) services.PlannerOptions {
	opts := services.DefaultPlannerOptions()
	if o == nil {
		return opts
	}

	if o.AllowAlternatives != nil {
		opts.AllowAlternatives = *o.AllowAlternatives
	}
	if o.KAlternatives != nil {
		opts.KAlternatives = *o.KAlternatives
	}
	if o.UseBids != nil {
		opts.UseBids = *o.UseBids
	}
	if o.Allocator != "" {
		opts.Allocator = services.AllocatorKind(o.Allocator)
	}
	if o.LeadPenaltyMinorPerUnitPerDay != nil {
		opts.LeadPenaltyMinorPerUnitPerDay = *o.LeadPenaltyMinorPerUnitPerDay
	}
	if o.AlternativePenaltyMinorPerUnit != nil {
		opts.AlternativePenaltyMinorPerUnit = *o.AlternativePenaltyMinorPerUnit
	}

	return opts
}

func lineResponse(result *services.LineResult) dto.OptimizeLineResponse {
	plan := dto.PlanResponse{
		Assignments: make([]dto.AssignmentResponse, 0, len(result.Plan.Assignments)),
		Remaining:   result.Plan.Remaining,
	}

	currency := ""
	for _, a := range result.Plan.Assignments {
		if currency == "" {
			currency = a.Currency
		}
		plan.Assignments = append(plan.Assignments, dto.AssignmentResponse{
			Source:             string(a.Source),
			OfferID:            a.OfferID,
			Brand:              a.Brand,
			Code:               a.Code,
			Qty:                a.Qty,
			UnitPriceMinor:     a.UnitPriceMinor,
			EffectiveUnitMinor: a.EffectiveUnitMinor,
			LeadTimeDays:       a.LeadTimeDays,
			IsAlternative:      a.IsAlternative,
			Currency:           a.Currency,
			PenaltiesPerUnit:   a.PenaltiesPerUnit,
		})
	}

	plan.Totals = dto.PlanTotalsResponse{
		CostMinor:    result.Plan.Totals.CostMinor,
		PenaltyMinor: result.Plan.Totals.PenaltyMinor,
		GrandMinor:   result.Plan.Totals.GrandMinor,
		Grand:        dto.MajorUnits(result.Plan.Totals.GrandMinor, currency),
	}

	return dto.OptimizeLineResponse{
		Input: dto.LineInputResponse{
			Brand:       result.Input.Brand,
			Code:        result.Input.Code,
			RequiredQty: result.Input.RequiredQty,
			DueDate:     result.Input.DueDate,
		},
		Options: dto.LineOptionsResponse{
			AllowAlternatives:              result.Options.AllowAlternatives,
			KAlternatives:                  result.Options.KAlternatives,
			UseBids:                        result.Options.UseBids,
			Allocator:                      string(result.Options.Allocator),
			LeadPenaltyMinorPerUnitPerDay:  result.Options.LeadPenaltyMinorPerUnitPerDay,
			AlternativePenaltyMinorPerUnit: result.Options.AlternativePenaltyMinorPerUnit,
		},
		OffersCount:      result.OffersCount,
		Route:            string(result.Route),
		Feasible:         result.Feasible,
		NeedsRFQ:         result.NeedsRFQ(),
		AlternativesMode: string(result.AlternativesMode),
		Plan:             plan,
	}
}
