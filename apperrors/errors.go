package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// Kind classifies a checkout failure. It is decided once, where the failure
// is first observed, and never re-derived from message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNetwork
	KindBusiness
	KindMissingContext
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindBusiness:
		return "business"
	case KindMissingContext:
		return "missing_context"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

const CodeQuotePriceChanged = "QUOTE_PRICE_CHANGED"

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Section names the form section to reveal for validation failures.
	Section string
	Fields  map[string]string
	Data    json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(section, message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Section: section, Message: message, Fields: fields}
}

func Network(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

func Business(code, message string, data json.RawMessage) *Error {
	return &Error{Kind: KindBusiness, Code: code, Message: message, Data: data}
}

func MissingContext(key string) *Error {
	return &Error{Kind: KindMissingContext, Code: key, Message: "checkout context is no longer available"}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the single most specific human-readable message in err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// PriceChange is the payload of a QUOTE_PRICE_CHANGED business error.
type PriceChange struct {
	OldPrice  float64       `json:"old_price"`
	NewPrice  float64       `json:"new_price,omitempty"`
	NewQuotes []models.Rate `json:"new_quotes"`
}

// AsPriceChange extracts the price change payload when err is a QUOTE_PRICE_CHANGED business error.
func AsPriceChange(err error) (*PriceChange, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindBusiness || e.Code != CodeQuotePriceChanged {
		return nil, false
	}
	change := new(PriceChange)
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, change); err != nil {
			return nil, false
		}
	}
	return change, true
}
