package models

// ItemInput is a package line as typed into the form; numeric fields stay
// raw strings until a request is built.
type ItemInput struct {
	CategoryID    string `json:"category_id"`
	Description   string `json:"description"`
	PackageType   string `json:"package_type"`
	Quantity      string `json:"quantity"`
	Weight        string `json:"weight"`
	DeclaredValue string `json:"declared_value"`
	Length        string `json:"length"`
	Width         string `json:"width"`
	Height        string `json:"height"`
}

// PackageItem is the canonical item sent to the backend. Category metadata
// is flattened onto the item because the backend does not re-resolve it.
type PackageItem struct {
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	HSCode        string   `json:"hs_code"`
	GroupTag      string   `json:"group_tag"`
	PackageType   string   `json:"package_type,omitempty"`
	Quantity      int      `json:"quantity"`
	Weight        float64  `json:"weight"`
	DeclaredValue *float64 `json:"declared_value,omitempty"`
	Length        *float64 `json:"length,omitempty"`
	Width         *float64 `json:"width,omitempty"`
	Height        *float64 `json:"height,omitempty"`
}

// RouteForm is the first wizard step: where from, where to, what.
type RouteForm struct {
	Origin      Location    `json:"origin"`
	Destination Location    `json:"destination"`
	Items       []ItemInput `json:"items"`
	IsInsured   bool        `json:"is_insured"`
}

// QuoteRequest 代表一次運費詢價
// QuoteRequest is a canonical rate inquiry.
type QuoteRequest struct {
	Origin      Location      `json:"origin"`
	Destination Location      `json:"destination"`
	Items       []PackageItem `json:"items"`
	Currency    string        `json:"currency"`
	IsInsured   bool          `json:"is_insured"`
	ShipmentID  string        `json:"shipment_id,omitempty"`
}

type PriceLine struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Pricing struct {
	Base        float64     `json:"base"`
	Adjustments []PriceLine `json:"adjustments"`
	Discounts   []PriceLine `json:"discounts"`
	Total       float64     `json:"total"`
}

// Rate is one carrier offer, immutable once returned and identified by QuoteID.
type Rate struct {
	QuoteID     string  `json:"quote_id"`
	Carrier     string  `json:"carrier"`
	Service     string  `json:"service"`
	Pricing     Pricing `json:"pricing"`
	Currency    string  `json:"currency"`
	TransitDays int     `json:"transit_days"`
}

// QuoteResponse 代表後端的詢價結果
// QuoteResponse is the backend reply to a QuoteRequest.
type QuoteResponse struct {
	Origin      Location      `json:"origin"`
	Destination Location      `json:"destination"`
	Items       []PackageItem `json:"items"`
	IsInsured   bool          `json:"is_insured"`
	Rates       []Rate        `json:"rates"`
}

// FindRate returns the rate with the given quote id, or nil.
func (r *QuoteResponse) FindRate(quoteID string) *Rate {
	if r == nil || quoteID == "" {
		return nil
	}
	for i := range r.Rates {
		if r.Rates[i].QuoteID == quoteID {
			return &r.Rates[i]
		}
	}
	return nil
}

// Currency returns the currency of the first rate, or "" when there are none.
func (r *QuoteResponse) Currency() string {
	if r == nil || len(r.Rates) == 0 {
		return ""
	}
	return r.Rates[0].Currency
}
