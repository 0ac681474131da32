package models

// AddressInput is a sender or receiver address as typed into the form.
type AddressInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Location returns the route granularity of the address.
func (a AddressInput) Location() Location {
	return Location{Country: a.Country, State: a.State, City: a.City}
}

// SavedAddress is an address book entry of the signed-in customer.
type SavedAddress struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	IsDefault bool   `json:"is_default"`
	AddressInput
}
