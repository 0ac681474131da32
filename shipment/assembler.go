package shipment

import (
	"errors"
	"strings"
	"time"

	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
	"github.com/Jaysins/ohship-tenant-sub001/validation"
)

var ErrMissingQuoteID = errors.New("a selected quote is required to create a shipment")

// Assembler builds the single request shape used for create and update.
type Assembler struct {
	rules validation.ItemRules
	now   func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{rules: validation.ShipmentStage, now: time.Now}
}

type AssembleInput struct {
	Draft   *models.ShipmentDraft
	QuoteID string
	// ShipmentID turns the request into an update.
	ShipmentID string
	Categories []models.Category
}

// Assemble refuses drafts that could not become a shipment: at least one
// valid item, valid sender and receiver, and one quote id.
func (a *Assembler) Assemble(in AssembleInput) (*models.ShipmentRequest, error) {
	if strings.TrimSpace(in.QuoteID) == "" {
		return nil, ErrMissingQuoteID
	}
	if f := validation.ValidateForm(in.Draft, a.rules, a.now()); !f.Valid {
		return nil, f.Err()
	}

	items, err := quote.NormalizeItems(in.Draft.Items, in.Categories)
	if err != nil {
		return nil, err
	}

	req := &models.ShipmentRequest{
		ID:                 in.ShipmentID,
		QuoteID:            in.QuoteID,
		Items:              items,
		OriginAddress:      addressRequest(in.Draft.Sender, in.Draft.SaveSender),
		DestinationAddress: addressRequest(in.Draft.Receiver, in.Draft.SaveReceiver),
		PickupType:         in.Draft.Pickup.Type,
		CustomerNotes:      strings.TrimSpace(in.Draft.CustomerNotes),
		IsInsured:          in.Draft.IsInsured,
	}
	if in.Draft.Pickup.Type == enum.PickupTypeScheduled {
		req.PickupScheduledAt = in.Draft.Pickup.Date
	}

	return req, nil
}

func addressRequest(a models.AddressInput, save bool) models.AddressRequest {
	return models.AddressRequest{
		Name:         strings.TrimSpace(a.Name),
		Email:        strings.TrimSpace(a.Email),
		Phone:        strings.TrimSpace(a.Phone),
		AddressLine1: strings.TrimSpace(a.AddressLine1),
		AddressLine2: strings.TrimSpace(a.AddressLine2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		PostalCode:   strings.TrimSpace(a.PostalCode),
		Country:      strings.TrimSpace(a.Country),
		SaveAddress:  save,
	}
}
