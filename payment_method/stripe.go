package payment_method

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// CheckoutSessionCreator is satisfied by the CheckoutSessions client of stripe-go.
type CheckoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeOptions struct {
	SuccessURL string
	CancelURL  string
}

type stripeInitiator struct {
	sessions CheckoutSessionCreator
	options  StripeOptions
	logger   *zap.Logger
}

// NewStripeInitiator creates a hosted Stripe Checkout Session per attempt; the
// session URL becomes the payment URL.
func NewStripeInitiator(sessions CheckoutSessionCreator, options StripeOptions, logger *zap.Logger) Initiator {
	return &stripeInitiator{sessions: sessions, options: options, logger: logger}
}

// zeroDecimalCurrencies are charged in whole units by Stripe.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true,
	"jpy": true, "kmf": true, "krw": true, "mga": true,
	"pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// toMinorUnits converts an amount to the smallest unit of currency.
func toMinorUnits(amount float64, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

func (s *stripeInitiator) Initiate(ctx context.Context, req InitiateRequest) (*models.PaymentTransaction, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("payment", "Payment amount must be greater than zero", nil)
	}

	name := "Shipment"
	if req.ShipmentCode != "" {
		name = fmt.Sprintf("Shipment %s", req.ShipmentCode)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.options.SuccessURL),
		CancelURL:         stripe.String(s.options.CancelURL),
		ClientReferenceID: stripe.String(req.PaymentID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount, req.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Payer.Email != "" {
		params.CustomerEmail = stripe.String(req.Payer.Email)
	}
	params.Context = ctx
	params.AddMetadata("payment_id", req.PaymentID)
	params.AddMetadata("shipment_id", req.ShipmentID)

	session, err := s.sessions.New(params)
	if err != nil {
		s.logger.Error("failed to create stripe checkout session", zap.Error(err), zap.String("payment_id", req.PaymentID))
		return nil, apperrors.Network("Unable to start card payment, please try again", err)
	}

	return &models.PaymentTransaction{
		TransactionID: session.ID,
		PaymentURL:    session.URL,
	}, nil
}
