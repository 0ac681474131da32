package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

const itemsSection = "items"

// Builder turns form input into a canonical QuoteRequest. The same rules
// apply to the first fetch and to every re-fetch.
type Builder struct {
	defaultCurrency string
}

func NewBuilder(defaultCurrency string) *Builder {
	return &Builder{defaultCurrency: defaultCurrency}
}

type BuildInput struct {
	Origin      models.Location
	Destination models.Location
	Items       []models.ItemInput
	IsInsured   bool
	// ShipmentID is set when re-quoting an existing shipment.
	ShipmentID string
	Categories []models.Category
	// Current is the quote response being re-fetched. It is nil on the first
	// fetch from the route step, where the platform default currency applies.
	Current *models.QuoteResponse
}

func (b *Builder) Build(in BuildInput) (*models.QuoteRequest, error) {
	items, err := NormalizeItems(in.Items, in.Categories)
	if err != nil {
		return nil, err
	}

	currency := in.Current.Currency()
	if currency == "" {
		currency = b.defaultCurrency
	}

	return &models.QuoteRequest{
		Origin:      NormalizeLocation(in.Origin),
		Destination: NormalizeLocation(in.Destination),
		Items:       items,
		Currency:    currency,
		IsInsured:   in.IsInsured,
		ShipmentID:  in.ShipmentID,
	}, nil
}

// NormalizeLocation lower-cases state and city; the backend matches them
// case-insensitively.
func NormalizeLocation(l models.Location) models.Location {
	return models.Location{
		Country: strings.TrimSpace(l.Country),
		State:   strings.ToLower(strings.TrimSpace(l.State)),
		City:    strings.ToLower(strings.TrimSpace(l.City)),
	}
}

// NormalizeItems coerces numeric fields and flattens category metadata onto
// each item. Blank optional numbers are omitted.
func NormalizeItems(items []models.ItemInput, categories []models.Category) ([]models.PackageItem, error) {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]models.PackageItem, 0, len(items))
	for i, item := range items {
		normalized, err := normalizeItem(i, item, byID)
		if err != nil {
			return nil, err
		}
		out = append(out, normalized)
	}
	return out, nil
}

func normalizeItem(index int, item models.ItemInput, categories map[string]models.Category) (models.PackageItem, error) {
	fieldKey := func(name string) string { return fmt.Sprintf("items[%d].%s", index, name) }
	invalid := func(name, message string) error {
		return apperrors.Validation(itemsSection, fmt.Sprintf("Item %d: %s", index+1, message), map[string]string{fieldKey(name): message})
	}

	category, ok := categories[strings.TrimSpace(item.CategoryID)]
	if !ok {
		return models.PackageItem{}, invalid("category_id", "Unknown category")
	}

	quantity, err := parseQuantity(item.Quantity)
	if err != nil {
		return models.PackageItem{}, invalid("quantity", "Quantity must be a whole number")
	}
	weight, err := parseFinite(item.Weight)
	if err != nil {
		return models.PackageItem{}, invalid("weight", "Weight must be a number")
	}

	out := models.PackageItem{
		CategoryID:  category.ID,
		Name:        category.Name,
		Description: category.Description,
		HSCode:      category.HSCode,
		GroupTag:    category.GroupTag,
		PackageType: strings.TrimSpace(item.PackageType),
		Quantity:    quantity,
		Weight:      weight,
	}
	if d := strings.TrimSpace(item.Description); d != "" {
		out.Description = d
	}

	optional := []struct {
		name  string
		raw   string
		value **float64
	}{
		{"declared_value", item.DeclaredValue, &out.DeclaredValue},
		{"length", item.Length, &out.Length},
		{"width", item.Width, &out.Width},
		{"height", item.Height, &out.Height},
	}
	for _, o := range optional {
		v, present, err := parseOptionalFloat(o.raw)
		if err != nil {
			return models.PackageItem{}, invalid(o.name, "Must be a number")
		}
		if present {
			*o.value = &v
		}
	}

	return out, nil
}

// parseFinite parses a number, rejecting NaN and Inf which cannot be sent as JSON.
func parseFinite(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return f, nil
}

func parseQuantity(raw string) (int, error) {
	f, err := parseFinite(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("quantity %q is not whole", raw)
	}
	return int(f), nil
}

func parseOptionalFloat(raw string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	f, err := parseFinite(raw)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}
