package models

import "encoding/json"

// PaymentTransaction is an in-flight payment attempt returned by initiation.
type PaymentTransaction struct {
	TransactionID   string          `json:"transaction_id"`
	TransactionData json.RawMessage `json:"transaction_data,omitempty"`
	PaymentURL      string          `json:"payment_url,omitempty"`
}

type VirtualAccount struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	Amount        float64 `json:"amount,omitempty"`
	ExpiresAt     string  `json:"expires_at,omitempty"`
}
