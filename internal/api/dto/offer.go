package dto

type OfferResponse struct {
	Source         string `json:"source"`
	ID             string `json:"id"`
	Brand          string `json:"brand"`
	Code           string `json:"code"`
	IsAlternative  bool   `json:"is_alternative"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	UnitPrice      string `json:"unit_price"`
	Currency       string `json:"currency"`
	AvailableQty   int64  `json:"available_qty"`
	LeadTimeDays   *int   `json:"lead_time_days"`
}

type ListOffersResponse struct {
	Brand    string          `json:"brand"`
	Code     string          `json:"code"`
	Listings []OfferResponse `json:"listings"`
	Bids     []OfferResponse `json:"bids"`
}

type AlternativeResponse struct {
	Brand      string             `json:"brand"`
	Code       string             `json:"code"`
	FamilySlug string             `json:"family_slug"`
	Attrs      map[string]float64 `json:"attrs,omitempty"`
}

type ListAlternativesResponse struct {
	Brand        string                `json:"brand"`
	Code         string                `json:"code"`
	Mode         string                `json:"mode,omitempty"`
	Alternatives []AlternativeResponse `json:"alternatives"`
}
