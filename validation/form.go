package validation

import (
	"fmt"
	"time"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// FormResult reports the first failing section of a multi-section form.
// Validation stops at that section; later sections are not inspected.
type FormResult struct {
	Valid   bool
	Section Section
	// ItemIndex is the failing item for SectionItems, -1 otherwise.
	ItemIndex int
	Field     string
	Message   string
	Errors    map[string]string
}

func validForm() FormResult {
	return FormResult{Valid: true, ItemIndex: -1}
}

// Err converts a failing result into a validation error, nil when valid.
func (f FormResult) Err() error {
	if f.Valid {
		return nil
	}
	return apperrors.Validation(string(f.Section), f.Message, f.Errors)
}

func sectionFailure(section Section, r Result, prefix string) FormResult {
	field, message := r.First()
	return FormResult{
		Section:   section,
		ItemIndex: -1,
		Field:     field,
		Message:   prefix + message,
		Errors:    r.Errors,
	}
}

func validateItems(items []models.ItemInput, rules ItemRules) FormResult {
	if len(items) == 0 {
		return FormResult{
			Section:   SectionItems,
			ItemIndex: -1,
			Message:   "At least one item is required",
			Errors:    map[string]string{"items": "At least one item is required"},
		}
	}
	for i, item := range items {
		if r := ValidateItem(item, rules); !r.Valid {
			failure := sectionFailure(SectionItems, r, fmt.Sprintf("Item %d: ", i+1))
			failure.ItemIndex = i
			return failure
		}
	}
	return validForm()
}

// ValidateForm checks items in order, then the sender, then the receiver,
// then pickup, and returns at the first failing section.
func ValidateForm(draft *models.ShipmentDraft, rules ItemRules, now time.Time) FormResult {
	if draft == nil {
		return FormResult{Section: SectionItems, ItemIndex: -1, Message: "Shipment details are missing"}
	}
	if f := validateItems(draft.Items, rules); !f.Valid {
		return f
	}
	if r := ValidateAddress(draft.Sender); !r.Valid {
		return sectionFailure(SectionSender, r, "Sender: ")
	}
	if r := ValidateAddress(draft.Receiver); !r.Valid {
		return sectionFailure(SectionReceiver, r, "Receiver: ")
	}
	if r := ValidatePickup(draft.Pickup, now); !r.Valid {
		return sectionFailure(SectionPickup, r, "Pickup: ")
	}
	return validForm()
}

// ValidateRoute guards the first wizard step: origin, destination, then items.
func ValidateRoute(form models.RouteForm, rules ItemRules) FormResult {
	if r := ValidateLocation(form.Origin); !r.Valid {
		return sectionFailure(SectionOrigin, r, "Origin: ")
	}
	if r := ValidateLocation(form.Destination); !r.Valid {
		return sectionFailure(SectionDestination, r, "Destination: ")
	}
	return validateItems(form.Items, rules)
}
