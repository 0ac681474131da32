package models

import (
	"errors"
	"fmt"

	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

var (
	ErrItemIndexOutOfRange = errors.New("item index out of range")
	ErrUnknownField        = errors.New("unknown draft field")
	ErrUnknownParty        = errors.New("unknown address party")
	ErrUnknownChange       = errors.New("unknown draft change")
)

type ItemField string

const (
	ItemFieldCategoryID    ItemField = "category_id"
	ItemFieldDescription   ItemField = "description"
	ItemFieldPackageType   ItemField = "package_type"
	ItemFieldQuantity      ItemField = "quantity"
	ItemFieldWeight        ItemField = "weight"
	ItemFieldDeclaredValue ItemField = "declared_value"
	ItemFieldLength        ItemField = "length"
	ItemFieldWidth         ItemField = "width"
	ItemFieldHeight        ItemField = "height"
)

type AddressField string

const (
	AddressFieldName         AddressField = "name"
	AddressFieldEmail        AddressField = "email"
	AddressFieldPhone        AddressField = "phone"
	AddressFieldAddressLine1 AddressField = "address_line_1"
	AddressFieldAddressLine2 AddressField = "address_line_2"
	AddressFieldCity         AddressField = "city"
	AddressFieldState        AddressField = "state"
	AddressFieldPostalCode   AddressField = "postal_code"
	AddressFieldCountry      AddressField = "country"
)

type PickupInfo struct {
	Type enum.PickupType `json:"type"`
	// Date is YYYY-MM-DD and only meaningful for scheduled pickups.
	Date string `json:"date"`
}

// ShipmentDraft 代表填寫中的完整寄件表單
// ShipmentDraft is the in-progress details form. It is only mutated through
// its methods so whole-draft invariants stay in one place.
type ShipmentDraft struct {
	Items         []ItemInput  `json:"items"`
	Sender        AddressInput `json:"sender"`
	Receiver      AddressInput `json:"receiver"`
	Pickup        PickupInfo   `json:"pickup"`
	CustomerNotes string       `json:"customer_notes"`
	IsInsured     bool         `json:"is_insured"`
	SaveSender    bool         `json:"save_sender"`
	SaveReceiver  bool         `json:"save_receiver"`
}

// NewShipmentDraft returns a blank draft with one empty item row.
func NewShipmentDraft() *ShipmentDraft {
	return &ShipmentDraft{
		Items:  []ItemInput{{}},
		Pickup: PickupInfo{Type: enum.PickupTypeDropOff},
	}
}

func (d *ShipmentDraft) Clone() *ShipmentDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = append([]ItemInput(nil), d.Items...)
	return &c
}

// AddItem appends an empty item row and returns its index.
func (d *ShipmentDraft) AddItem() int {
	d.Items = append(d.Items, ItemInput{})
	return len(d.Items) - 1
}

func (d *ShipmentDraft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndexOutOfRange, index)
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return nil
}

func (d *ShipmentDraft) SetItemField(index int, field ItemField, value string) error {
	if index < 0 || index >= len(d.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndexOutOfRange, index)
	}
	item := &d.Items[index]
	switch field {
	case ItemFieldCategoryID:
		item.CategoryID = value
	case ItemFieldDescription:
		item.Description = value
	case ItemFieldPackageType:
		item.PackageType = value
	case ItemFieldQuantity:
		item.Quantity = value
	case ItemFieldWeight:
		item.Weight = value
	case ItemFieldDeclaredValue:
		item.DeclaredValue = value
	case ItemFieldLength:
		item.Length = value
	case ItemFieldWidth:
		item.Width = value
	case ItemFieldHeight:
		item.Height = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (d *ShipmentDraft) address(party enum.Party) (*AddressInput, error) {
	switch party {
	case enum.PartySender:
		return &d.Sender, nil
	case enum.PartyReceiver:
		return &d.Receiver, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownParty, party)
}

func (d *ShipmentDraft) SetAddress(party enum.Party, address AddressInput) error {
	a, err := d.address(party)
	if err != nil {
		return err
	}
	*a = address
	return nil
}

func (d *ShipmentDraft) SetAddressField(party enum.Party, field AddressField, value string) error {
	a, err := d.address(party)
	if err != nil {
		return err
	}
	switch field {
	case AddressFieldName:
		a.Name = value
	case AddressFieldEmail:
		a.Email = value
	case AddressFieldPhone:
		a.Phone = value
	case AddressFieldAddressLine1:
		a.AddressLine1 = value
	case AddressFieldAddressLine2:
		a.AddressLine2 = value
	case AddressFieldCity:
		a.City = value
	case AddressFieldState:
		a.State = value
	case AddressFieldPostalCode:
		a.PostalCode = value
	case AddressFieldCountry:
		// a new country invalidates the dependent state and city
		if a.Country != value {
			a.State = ""
			a.City = ""
		}
		a.Country = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (d *ShipmentDraft) SetSaveAddress(party enum.Party, save bool) error {
	switch party {
	case enum.PartySender:
		d.SaveSender = save
	case enum.PartyReceiver:
		d.SaveReceiver = save
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}
	return nil
}

func (d *ShipmentDraft) SetPickup(pickupType enum.PickupType, date string) {
	d.Pickup.Type = pickupType
	if pickupType == enum.PickupTypeDropOff {
		date = ""
	}
	d.Pickup.Date = date
}

func (d *ShipmentDraft) SetCustomerNotes(notes string) {
	d.CustomerNotes = notes
}

func (d *ShipmentDraft) SetInsured(insured bool) {
	d.IsInsured = insured
}

// DraftChange is a serializable mutation of a ShipmentDraft, as posted by the browser.
type DraftChange struct {
	Op    string     `json:"op"`
	Index int        `json:"index,omitempty"`
	Party enum.Party `json:"party,omitempty"`
	Field string     `json:"field,omitempty"`
	Value string     `json:"value,omitempty"`
	Flag  bool       `json:"flag,omitempty"`
}

const (
	ChangeAddItem         = "add_item"
	ChangeRemoveItem      = "remove_item"
	ChangeSetItemField    = "set_item_field"
	ChangeSetAddressField = "set_address_field"
	ChangeSetPickup       = "set_pickup"
	ChangeSetNotes        = "set_customer_notes"
	ChangeSetInsured      = "set_insured"
	ChangeSetSaveAddress  = "set_save_address"
)

// Apply is the single mutation entry point used by the wizard.
func (d *ShipmentDraft) Apply(change DraftChange) error {
	switch change.Op {
	case ChangeAddItem:
		d.AddItem()
		return nil
	case ChangeRemoveItem:
		return d.RemoveItem(change.Index)
	case ChangeSetItemField:
		return d.SetItemField(change.Index, ItemField(change.Field), change.Value)
	case ChangeSetAddressField:
		return d.SetAddressField(change.Party, AddressField(change.Field), change.Value)
	case ChangeSetPickup:
		d.SetPickup(enum.PickupType(change.Field), change.Value)
		return nil
	case ChangeSetNotes:
		d.SetCustomerNotes(change.Value)
		return nil
	case ChangeSetInsured:
		d.SetInsured(change.Flag)
		return nil
	case ChangeSetSaveAddress:
		return d.SetSaveAddress(change.Party, change.Flag)
	}
	return fmt.Errorf("%w: %s", ErrUnknownChange, change.Op)
}
