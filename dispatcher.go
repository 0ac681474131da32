package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
	"github.com/Jaysins/ohship-tenant-sub001/payment_method"
	"github.com/Jaysins/ohship-tenant-sub001/shipment"
)

var (
	ErrMissingPaymentID = &apperrors.Error{
		Kind:    apperrors.KindBusiness,
		Code:    "MISSING_PAYMENT_ID",
		Message: "The shipment has no payment reference, please try again",
	}
	ErrMissingTransactionID = &apperrors.Error{
		Kind:    apperrors.KindBusiness,
		Code:    "MISSING_TRANSACTION_ID",
		Message: "Bank transfer details are unavailable, please try again",
	}
	ErrMissingPaymentURL = &apperrors.Error{
		Kind:    apperrors.KindBusiness,
		Code:    "MISSING_PAYMENT_URL",
		Message: "Payment page is unavailable, please try again",
	}
	// ErrUnsupportedPaymentMethod is terminal; retrying cannot succeed.
	ErrUnsupportedPaymentMethod = &apperrors.Error{
		Kind:    apperrors.KindBusiness,
		Code:    "UNSUPPORTED_PAYMENT_METHOD",
		Message: "Unsupported payment method",
	}
)

// PaymentDispatcher attaches the chosen method to the shipment, initiates
// the payment and decides where the visitor continues.
type PaymentDispatcher struct {
	shipments shipment.Service
	payments  payment_method.Service
	logger    *zap.Logger
}

func NewPaymentDispatcher(shipments shipment.Service, payments payment_method.Service, logger *zap.Logger) *PaymentDispatcher {
	return &PaymentDispatcher{
		shipments: shipments,
		payments:  payments,
		logger:    logger,
	}
}

func (d *PaymentDispatcher) Dispatch(ctx context.Context, shipmentID string, method models.TenantPaymentMethod, payer models.Payer) (*PaymentHandoff, error) {
	// 1. attach the method; the response carries the payment reference
	updated, err := d.shipments.UpdatePaymentMethod(ctx, shipmentID, method.ID)
	if err != nil {
		return nil, err
	}
	if updated.PaymentID == "" {
		d.logger.Error("shipment update returned no payment id", zap.String("shipment_id", shipmentID))
		return nil, ErrMissingPaymentID
	}

	// 2. initiate
	tx, err := d.payments.Initiate(ctx, payment_method.InitiateRequest{
		Method:       method,
		PaymentID:    updated.PaymentID,
		Payer:        payer,
		Amount:       updated.Pricing.Total,
		Currency:     updated.Currency,
		ShipmentID:   shipmentID,
		ShipmentCode: updated.Code,
	})
	if err != nil {
		return nil, err
	}

	// 3. branch on the method type
	handoff := &PaymentHandoff{
		Type:          method.Method.Type,
		ShipmentID:    shipmentID,
		PaymentID:     updated.PaymentID,
		TransactionID: tx.TransactionID,
	}

	switch t := method.Method.Type; {
	case t == enum.PaymentMethodTypeBankTransfer:
		if tx.TransactionID == "" {
			return nil, ErrMissingTransactionID
		}
		if err = decodeTransactionData(tx.TransactionData, handoff); err != nil {
			return nil, err
		}
		handoff.Next = next(bankTransferPath(shipmentID))

	case t.Redirects():
		if tx.PaymentURL == "" {
			return nil, ErrMissingPaymentURL
		}
		handoff.PaymentURL = tx.PaymentURL
		handoff.Next = &Navigation{Redirect: true, Path: tx.PaymentURL}

	default:
		d.logger.Warn("unsupported payment method type",
			zap.String("method_id", method.ID),
			zap.String("type", string(t)))
		return nil, ErrUnsupportedPaymentMethod
	}

	return handoff, nil
}

func decodeTransactionData(raw json.RawMessage, handoff *PaymentHandoff) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return apperrors.Network("Invalid payment response from server", fmt.Errorf("failed to decode transaction data: %w", err))
	}

	if va, ok := data["virtual_account"]; ok {
		account := new(models.VirtualAccount)
		if err := json.Unmarshal(va, account); err != nil {
			return apperrors.Network("Invalid payment response from server", fmt.Errorf("failed to decode virtual account: %w", err))
		}
		handoff.VirtualAccount = account
		delete(data, "virtual_account")
	}
	if len(data) > 0 {
		handoff.TransactionData = data
	}
	return nil
}
