package validation

import (
	"fmt"
	"time"

	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

const (
	minQuantity = 1
	minWeight   = 0.1
	dateLayout  = "2006-01-02"
)

// Section is a part of the checkout forms that can be revealed and focused.
type Section string

const (
	SectionOrigin      Section = "origin"
	SectionDestination Section = "destination"
	SectionItems       Section = "items"
	SectionSender      Section = "sender"
	SectionReceiver    Section = "receiver"
	SectionPickup      Section = "pickup"
)

// ItemRules varies item validation by flow stage.
type ItemRules struct {
	RequireDeclaredValue bool
	// RequireDescription covers description and package type, which the
	// route step does not collect.
	RequireDescription bool
}

var (
	// QuoteStage applies while requesting rates.
	QuoteStage = ItemRules{}
	// ShipmentStage applies before a shipment is created or updated.
	ShipmentStage = ItemRules{RequireDeclaredValue: true, RequireDescription: true}
)

// ValidateShipmentItem validates an item with shipment-stage rules.
func ValidateShipmentItem(item models.ItemInput) Result {
	return ValidateItem(item, ShipmentStage)
}

func ValidateItem(item models.ItemInput, rules ItemRules) Result {
	r := newResult()

	if !IsRequired(item.CategoryID) {
		r.fail("category_id", "Category is required")
	}
	if rules.RequireDescription && !IsRequired(item.Description) {
		r.fail("description", "Description is required")
	}
	if rules.RequireDescription && !IsRequired(item.PackageType) {
		r.fail("package_type", "Package type is required")
	}
	if !isWholeNumber(item.Quantity) || !IsValidNumber(item.Quantity, AtLeast(minQuantity)) {
		r.fail("quantity", "Quantity must be a whole number of at least 1")
	}
	if !IsValidNumber(item.Weight, AtLeast(minWeight)) {
		r.fail("weight", "Weight must be at least 0.1")
	}

	switch {
	case IsRequired(item.DeclaredValue):
		if !IsValidNumber(item.DeclaredValue, AtLeast(0)) {
			r.fail("declared_value", "Declared value must be 0 or more")
		}
	case rules.RequireDeclaredValue:
		r.fail("declared_value", "Declared value is required")
	}

	dimensions := []struct{ field, label, value string }{
		{"length", "Length", item.Length},
		{"width", "Width", item.Width},
		{"height", "Height", item.Height},
	}
	for _, d := range dimensions {
		if IsRequired(d.value) && !IsValidNumber(d.value, AtLeast(0)) {
			r.fail(d.field, fmt.Sprintf("%s must be a number of 0 or more", d.label))
		}
	}

	return r
}

func ValidateAddress(address models.AddressInput) Result {
	r := newResult()

	if !IsRequired(address.Name) {
		r.fail("name", "Name is required")
	}
	switch {
	case !IsRequired(address.Email):
		r.fail("email", "Email is required")
	case !IsValidEmail(address.Email):
		r.fail("email", "Email address is invalid")
	}
	switch {
	case !IsRequired(address.Phone):
		r.fail("phone", "Phone number is required")
	case !IsValidPhoneNumber(address.Phone):
		r.fail("phone", "Phone number must have at least 10 digits")
	}
	if !IsRequired(address.AddressLine1) {
		r.fail("address_line_1", "Address line 1 is required")
	}
	if !IsRequired(address.City) {
		r.fail("city", "City is required")
	}
	if !IsRequired(address.State) {
		r.fail("state", "State is required")
	}
	switch {
	case !IsRequired(address.PostalCode):
		r.fail("postal_code", "Postal code is required")
	case !IsValidPostalCode(address.PostalCode, address.Country):
		r.fail("postal_code", "Postal code is invalid")
	}
	if !IsRequired(address.Country) {
		r.fail("country", "Country is required")
	}

	return r
}

// ValidatePickup requires a pickup type and, for scheduled pickups, a date that is not in the past.
func ValidatePickup(pickup models.PickupInfo, now time.Time) Result {
	r := newResult()

	if !pickup.Type.Valid() {
		r.fail("type", "Pickup type is required")
		return r
	}
	if pickup.Type != enum.PickupTypeScheduled {
		return r
	}

	date, err := time.ParseInLocation(dateLayout, pickup.Date, now.Location())
	switch {
	case !IsRequired(pickup.Date):
		r.fail("date", "Pickup date is required")
	case err != nil:
		r.fail("date", "Pickup date must be YYYY-MM-DD")
	case date.Before(truncateDay(now)):
		r.fail("date", "Pickup date cannot be in the past")
	}

	return r
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ValidateLocation(location models.Location) Result {
	r := newResult()
	if !IsRequired(location.Country) {
		r.fail("country", "Country is required")
	}
	if !IsRequired(location.State) {
		r.fail("state", "State is required")
	}
	if !IsRequired(location.City) {
		r.fail("city", "City is required")
	}
	return r
}

func ValidatePayer(payer models.Payer) Result {
	r := newResult()
	if !IsRequired(payer.Name) {
		r.fail("payer_name", "Payer name is required")
	}
	if !IsValidEmail(payer.Email) {
		r.fail("payer_email", "Payer email is invalid")
	}
	if !IsValidPhoneNumber(payer.Phone) {
		r.fail("payer_phone", "Payer phone must have at least 10 digits")
	}
	return r
}
