package models

import "github.com/Jaysins/ohship-tenant-sub001/models/enum"

// AddressRequest is an address as sent to the shipment API.
type AddressRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	SaveAddress  bool   `json:"save_address"`
}

// ShipmentRequest is used for both create and update; an update carries ID.
type ShipmentRequest struct {
	ID                 string          `json:"id,omitempty"`
	QuoteID            string          `json:"quote_id"`
	Items              []PackageItem   `json:"items"`
	OriginAddress      AddressRequest  `json:"origin_address"`
	DestinationAddress AddressRequest  `json:"destination_address"`
	PickupType         enum.PickupType `json:"pickup_type"`
	PickupScheduledAt  string          `json:"pickup_scheduled_at,omitempty"`
	CustomerNotes      string          `json:"customer_notes,omitempty"`
	IsInsured          bool            `json:"is_insured"`
}

// IsUpdate reports whether the request targets an existing shipment.
func (r *ShipmentRequest) IsUpdate() bool {
	return r.ID != ""
}

// Shipment 代表後端建立的寄件訂單
// Shipment is the server-side order created once per checkout.
type Shipment struct {
	ID                 string         `json:"id"`
	Code               string         `json:"code"`
	Status             string         `json:"status"`
	QuoteID            string         `json:"quote_id"`
	PaymentID          string         `json:"payment_id,omitempty"`
	PaymentMethodID    string         `json:"payment_method_id,omitempty"`
	Carrier            string         `json:"carrier"`
	Service            string         `json:"service"`
	Currency           string         `json:"currency"`
	Pricing            Pricing        `json:"pricing"`
	Items              []PackageItem  `json:"items"`
	OriginAddress      AddressRequest `json:"origin_address"`
	DestinationAddress AddressRequest `json:"destination_address"`
}

type TrackingEvent struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    string `json:"location"`
	OccurredAt  string `json:"occurred_at"`
}

type TrackingInfo struct {
	Code    string          `json:"code"`
	Status  string          `json:"status"`
	Carrier string          `json:"carrier"`
	Events  []TrackingEvent `json:"events"`
}
