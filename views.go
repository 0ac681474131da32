package checkout

import (
	"encoding/json"

	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
)

const (
	PathStart   = "/quote"
	PathSelect  = "/quote/select"
	PathDetails = "/quote/details"
	PathReview  = "/quote/review"
	PathSuccess = "/quote/success"
)

func paymentPath(shipmentID string) string {
	return "/quote/payment/" + shipmentID
}

func bankTransferPath(shipmentID string) string {
	return paymentPath(shipmentID) + "/bank-transfer"
}

func reviewDetailsPath() string {
	return PathDetails + "?mode=" + string(enum.DetailsModeReview)
}

// Navigation tells the browser where to go next. Redirect marks a guard
// failure: the flow state is gone and the visitor starts over silently.
type Navigation struct {
	Redirect bool   `json:"redirect"`
	Path     string `json:"path"`
}

func restart() *Navigation {
	return &Navigation{Redirect: true, Path: PathStart}
}

func next(path string) *Navigation {
	return &Navigation{Path: path}
}

type RouteResult struct {
	// NoQuotes is a terminal state for the route, not a failure: the visitor
	// should edit the route rather than retry.
	NoQuotes bool                  `json:"no_quotes"`
	Quotes   *models.QuoteResponse `json:"quotes,omitempty"`
	Next     *Navigation           `json:"next,omitempty"`
}

type SelectQuoteView struct {
	Quotes   *models.QuoteResponse `json:"quotes,omitempty"`
	Redirect *Navigation           `json:"redirect,omitempty"`
}

type DetailsView struct {
	Mode           enum.DetailsMode      `json:"mode"`
	Draft          *models.ShipmentDraft `json:"draft,omitempty"`
	SelectedQuote  *models.Rate          `json:"selected_quote,omitempty"`
	Shipment       *models.Shipment      `json:"shipment,omitempty"`
	Categories     []models.Category     `json:"categories,omitempty"`
	SavedAddresses []models.SavedAddress `json:"saved_addresses,omitempty"`
	Redirect       *Navigation           `json:"redirect,omitempty"`
}

type ReviewView struct {
	Draft         *models.ShipmentDraft `json:"draft,omitempty"`
	Quotes        *models.QuoteResponse `json:"quotes,omitempty"`
	SelectedQuote *models.Rate          `json:"selected_quote,omitempty"`
	Outcome       quote.Outcome         `json:"outcome,omitempty"`
	// Reselected means the previous quote disappeared and the first rate was
	// picked instead; the new choice has to be shown, not the stale one.
	Reselected bool        `json:"reselected"`
	NoQuotes   bool        `json:"no_quotes"`
	Redirect   *Navigation `json:"redirect,omitempty"`
}

// PriceChange is returned when the backend rejected a shipment because the
// quoted price moved. The review view already holds the reconciled choice.
type PriceChange struct {
	OldPrice float64     `json:"old_price"`
	NewPrice float64     `json:"new_price"`
	Review   *ReviewView `json:"review"`
}

type ShipmentResult struct {
	Shipment    *models.Shipment `json:"shipment,omitempty"`
	PriceChange *PriceChange     `json:"price_change,omitempty"`
	Next        *Navigation      `json:"next,omitempty"`
}

type PaymentView struct {
	Shipment *models.Shipment             `json:"shipment,omitempty"`
	Methods  []models.TenantPaymentMethod `json:"methods,omitempty"`
	Redirect *Navigation                  `json:"redirect,omitempty"`
}

// PaymentHandoff is where a payment attempt continues: a bank-transfer
// confirmation view inside the flow, or a full redirect to PaymentURL.
type PaymentHandoff struct {
	Type            enum.PaymentMethodType     `json:"type,omitempty"`
	ShipmentID      string                     `json:"shipment_id,omitempty"`
	PaymentID       string                     `json:"payment_id,omitempty"`
	TransactionID   string                     `json:"transaction_id,omitempty"`
	VirtualAccount  *models.VirtualAccount     `json:"virtual_account,omitempty"`
	TransactionData map[string]json.RawMessage `json:"transaction_data,omitempty"`
	PaymentURL      string                     `json:"payment_url,omitempty"`
	Next            *Navigation                `json:"next,omitempty"`
}

// ExternalRedirect reports whether the browser leaves the site to pay.
func (h *PaymentHandoff) ExternalRedirect() bool {
	return h != nil && h.PaymentURL != ""
}
