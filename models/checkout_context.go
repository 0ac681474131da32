package models

// SelectedQuoteContext carries the chosen quote from quote selection into the details step.
type SelectedQuoteContext struct {
	QuoteData       QuoteResponse `json:"quoteData"`
	SelectedQuoteID string        `json:"selectedQuoteId"`
}

// CheckoutForm is a full snapshot of a details submission.
type CheckoutForm struct {
	Draft           ShipmentDraft  `json:"draft"`
	QuoteData       *QuoteResponse `json:"quoteData,omitempty"`
	SelectedQuoteID string         `json:"selectedQuoteId"`
}

// CreatedShipmentContext lets the payment step return to details in review
// mode and reproduce the exact prior submission.
type CreatedShipmentContext struct {
	Shipment Shipment     `json:"shipment"`
	FormData CheckoutForm `json:"formData"`
}
