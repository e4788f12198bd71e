package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"part-sourcing-service/internal/api/dto"
	"part-sourcing-service/internal/domain"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/ports"
)

// OffersHandler exposes read-only diagnostic views of the offer pool and
// alternative discovery for one SKU.
type OffersHandler struct {
	Repo     ports.OfferRepository
	Registry ports.PartRegistry
	Finder   ports.AlternativeFinder
}

// List returns the current listing and bid snapshot for an exact SKU.
func (h *OffersHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	brand, code, ok := skuParams(w, r)
	if !ok {
		return
	}

	listings, err := h.Repo.ListingsForSKU(r.Context(), brand, code)
	if err != nil {
		obs.L().Errorw("list offers failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	bids, err := h.Repo.BidsForSKU(r.Context(), brand, code)
	if err != nil {
		obs.L().Errorw("list offers failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOffersResponse{
		Brand:    brand,
		Code:     code,
		Listings: offerResponses(listings),
		Bids:     offerResponses(bids),
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Alternatives resolves a SKU's base row and returns its discovered
// substitutes. An unknown SKU or empty candidate set is a 200 with an empty
// list, matching the planner's behavior.
func (h *OffersHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	brand, code, ok := skuParams(w, r)
	if !ok {
		return
	}

	k := 6
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			writeError(w, r, http.StatusBadRequest, "k must be an integer between 1 and 20")
			return
		}
		k = parsed
	}

	res := dto.ListAlternativesResponse{
		Brand:        brand,
		Code:         code,
		Alternatives: []dto.AlternativeResponse{},
	}

	match, err := h.Registry.FindExactRow(r.Context(), brand, code)
	if err != nil {
		obs.L().Errorw("alternatives lookup failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if match == nil {
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	mode, rows, err := h.Finder.FindAlternatives(r.Context(), match, k)
	if err != nil {
		obs.L().Errorw("alternatives lookup failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res.Mode = string(mode)
	for _, row := range rows {
		res.Alternatives = append(res.Alternatives, dto.AlternativeResponse{
			Brand:      row.Brand,
			Code:       row.Code,
			FamilySlug: row.FamilySlug,
			Attrs:      row.Attrs,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func skuParams(w http.ResponseWriter, r *http.Request) (brand, code string, ok bool) {
	brand = strings.TrimSpace(r.URL.Query().Get("brand"))
	code = strings.TrimSpace(r.URL.Query().Get("code"))
	if brand == "" || code == "" {
		writeError(w, r, http.StatusBadRequest, "brand and code query parameters are required")
		return "", "", false
	}
	return domain.NormalizeSKU(brand), domain.NormalizeSKU(code), true
}

func offerResponses(offers []domain.Offer) []dto.OfferResponse {
	out := make([]dto.OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, dto.OfferResponse{
			Source:         string(o.Source),
			ID:             o.ID,
			Brand:          o.Brand,
			Code:           o.Code,
			IsAlternative:  o.IsAlternative,
			UnitPriceMinor: o.UnitPriceMinor,
			UnitPrice:      dto.MajorUnits(o.UnitPriceMinor, o.Currency),
			Currency:       o.Currency,
			AvailableQty:   o.AvailableQty,
			LeadTimeDays:   o.LeadTimeDays,
		})
	}
	return out
}
