package checkout_session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// Handoff is the typed view of a session Store. It owns the rules between
// keys: selecting a quote consumes the pending quote response, and the
// details step consumes whatever context it was handed.
type Handoff struct {
	store  Store
	logger *zap.Logger
}

func NewHandoff(store Store, logger *zap.Logger) *Handoff {
	return &Handoff{store: store, logger: logger}
}

func (h *Handoff) set(ctx context.Context, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return h.store.Set(ctx, key, raw)
}

// load decodes key into out. A missing or undecodable value yields a
// MissingContext error; undecodable values are also dropped.
func (h *Handoff) load(ctx context.Context, key Key, out any) error {
	raw, ok, err := h.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.MissingContext(string(key))
	}
	if err = json.Unmarshal(raw, out); err != nil {
		h.logger.Warn("discarding unreadable checkout state", zap.String("key", string(key)), zap.Error(err))
		if rmErr := h.store.Remove(ctx, key); rmErr != nil {
			return rmErr
		}
		return apperrors.MissingContext(string(key))
	}
	return nil
}

// SetQuoteResponse stores fresh rates for the select step. Any earlier
// selection is dropped.
func (h *Handoff) SetQuoteResponse(ctx context.Context, resp models.QuoteResponse) error {
	if err := h.set(ctx, KeyTempQuoteResponse, resp); err != nil {
		return err
	}
	return h.store.Remove(ctx, KeySelectedQuoteData)
}

func (h *Handoff) QuoteResponse(ctx context.Context) (models.QuoteResponse, error) {
	var resp models.QuoteResponse
	err := h.load(ctx, KeyTempQuoteResponse, &resp)
	return resp, err
}

// SetSelectedQuote records the chosen quote and consumes TEMP_QUOTE_RESPONSE.
func (h *Handoff) SetSelectedQuote(ctx context.Context, selected models.SelectedQuoteContext) error {
	if err := h.set(ctx, KeySelectedQuoteData, selected); err != nil {
		return err
	}
	return h.store.Remove(ctx, KeyTempQuoteResponse)
}

// TakeSelectedQuote reads and removes SELECTED_QUOTE_DATA.
func (h *Handoff) TakeSelectedQuote(ctx context.Context) (models.SelectedQuoteContext, error) {
	var selected models.SelectedQuoteContext
	if err := h.load(ctx, KeySelectedQuoteData, &selected); err != nil {
		return selected, err
	}
	return selected, h.store.Remove(ctx, KeySelectedQuoteData)
}

func (h *Handoff) SetCreatedShipment(ctx context.Context, created models.CreatedShipmentContext) error {
	return h.set(ctx, KeyCreatedShipmentData, created)
}

// CreatedShipment reads CREATED_SHIPMENT_DATA without consuming it; the
// payment step needs it until checkout completes.
func (h *Handoff) CreatedShipment(ctx context.Context) (models.CreatedShipmentContext, error) {
	var created models.CreatedShipmentContext
	err := h.load(ctx, KeyCreatedShipmentData, &created)
	return created, err
}

// TakeCreatedShipment reads and removes CREATED_SHIPMENT_DATA, used when
// returning to details in review mode.
func (h *Handoff) TakeCreatedShipment(ctx context.Context) (models.CreatedShipmentContext, error) {
	created, err := h.CreatedShipment(ctx)
	if err != nil {
		return created, err
	}
	return created, h.store.Remove(ctx, KeyCreatedShipmentData)
}

func (h *Handoff) ClearAll(ctx context.Context) error {
	return h.store.ClearAll(ctx)
}
