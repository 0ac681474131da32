package checkout_session

import (
	"context"
	"errors"
	"fmt"
)

// Key enumerates the transient state handed between wizard steps. No other
// key names are accepted by a Store.
type Key string

const (
	KeyTempQuoteResponse   Key = "TEMP_QUOTE_RESPONSE"
	KeySelectedQuoteData   Key = "SELECTED_QUOTE_DATA"
	KeyCreatedShipmentData Key = "CREATED_SHIPMENT_DATA"
)

var Keys = []Key{KeyTempQuoteResponse, KeySelectedQuoteData, KeyCreatedShipmentData}

var ErrUnknownKey = errors.New("unknown transient state key")

func (k Key) Valid() bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}

func checkKey(key Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, string(key))
	}
	return nil
}

// Store is session-scoped key/value state. Values are JSON documents; keys
// are independent of each other and there is no expiry.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	Remove(ctx context.Context, key Key) error
	ClearAll(ctx context.Context) error
}

// Provider opens the store of one browser session.
type Provider interface {
	Open(sessionID string) Store
}
