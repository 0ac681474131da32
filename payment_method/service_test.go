package payment_method

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

type fakeClient struct {
	gets     int
	postPath string
	postBody any
	listJSON string
	postJSON string
}

func (c *fakeClient) Get(_ context.Context, _ string, out any) error {
	c.gets++
	return json.Unmarshal([]byte(c.listJSON), out)
}

func (c *fakeClient) Post(_ context.Context, path string, body, out any) error {
	c.postPath, c.postBody = path, body
	return json.Unmarshal([]byte(c.postJSON), out)
}

func (c *fakeClient) Patch(context.Context, string, any, any) error { return nil }

const methodsJSON = `[
	{"id":"tpm-1","is_enabled":true,"provider":"paystack","payment_method":{"id":"pm-bank","name":"Bank transfer","code":"BANK","type":"bank_transfer"}},
	{"id":"tpm-2","is_enabled":false,"provider":"paystack","payment_method":{"id":"pm-ussd","name":"USSD","code":"USSD","type":"gateway"}},
	{"id":"tpm-3","is_enabled":true,"provider":"stripe","payment_method":{"id":"pm-card","name":"Card","code":"CARD","type":"card"}}
]`

type fakeInitiator struct {
	called bool
	tx     *models.PaymentTransaction
}

func (f *fakeInitiator) Initiate(context.Context, InitiateRequest) (*models.PaymentTransaction, error) {
	f.called = true
	return f.tx, nil
}

func newTestService(client *fakeClient, providers map[string]Initiator) Service {
	repo := NewRepository(client, driver.NopCache{}, "tenant-1", zap.NewNop())
	return NewService(repo, NewBackendInitiator(client), providers, zap.NewNop())
}

func TestListEnabledFiltersDisabled(t *testing.T) {
	svc := newTestService(&fakeClient{listJSON: methodsJSON}, nil)

	methods, err := svc.ListEnabled(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "tpm-1", methods[0].ID)
	assert.Equal(t, enum.PaymentMethodTypeCard, methods[1].Method.Type)
}

func TestGet(t *testing.T) {
	svc := newTestService(&fakeClient{listJSON: methodsJSON}, nil)

	m, err := svc.Get(context.Background(), "pm-bank")
	require.NoError(t, err)
	assert.Equal(t, "tpm-1", m.ID)

	_, err = svc.Get(context.Background(), "tpm-2")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestInitiateThroughBackend(t *testing.T) {
	client := &fakeClient{
		listJSON: methodsJSON,
		postJSON: `{"transaction_id":"tx-1","transaction_data":{"virtual_account":{"bank_name":"Wema"}}}`,
	}
	svc := newTestService(client, nil)

	tx, err := svc.Initiate(context.Background(), InitiateRequest{
		Method:    models.TenantPaymentMethod{ID: "tpm-1", Provider: "paystack"},
		PaymentID: "pay-1",
		Payer:     models.Payer{Name: "Ada", Email: "ada@example.com", Phone: "2345678901"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.TransactionID)
	assert.Equal(t, "/payments/pay-1/initiate/", client.postPath)

	raw, err := json.Marshal(client.postBody)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payment_method_id":"tpm-1","payer_name":"Ada","payer_email":"ada@example.com","payer_phone":"2345678901"}`, string(raw))
}

func TestInitiateRoutesByProvider(t *testing.T) {
	stripeFake := &fakeInitiator{tx: &models.PaymentTransaction{TransactionID: "cs_1", PaymentURL: "https://checkout.stripe.com/c/cs_1"}}
	client := &fakeClient{listJSON: methodsJSON}
	svc := newTestService(client, map[string]Initiator{ProviderStripe: stripeFake})

	tx, err := svc.Initiate(context.Background(), InitiateRequest{
		Method:    models.TenantPaymentMethod{ID: "tpm-3", Provider: "Stripe"},
		PaymentID: "pay-2",
	})
	require.NoError(t, err)
	assert.True(t, stripeFake.called)
	assert.Empty(t, client.postPath)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", tx.PaymentURL)
}

type fakeSessions struct {
	params *stripe.CheckoutSessionParams
	err    error
}

func (f *fakeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func TestStripeInitiator(t *testing.T) {
	sessions := &fakeSessions{}
	initiator := NewStripeInitiator(sessions, StripeOptions{SuccessURL: "https://app/quote/success", CancelURL: "https://app/quote"}, zap.NewNop())

	tx, err := initiator.Initiate(context.Background(), InitiateRequest{
		PaymentID:    "pay-3",
		Payer:        models.Payer{Email: "ada@example.com"},
		Amount:       42.2,
		Currency:     "USD",
		ShipmentID:   "s-1",
		ShipmentCode: "OHS-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", tx.TransactionID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", tx.PaymentURL)

	p := sessions.params
	require.NotNil(t, p)
	assert.Equal(t, "payment", *p.Mode)
	assert.Equal(t, "pay-3", *p.ClientReferenceID)
	assert.Equal(t, "ada@example.com", *p.CustomerEmail)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, "usd", *p.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(4220), *p.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "Shipment OHS-1", *p.LineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, "s-1", p.Metadata["shipment_id"])
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     int64
	}{
		{"two decimal", 42.2, "USD", 4220},
		{"rounds to the cent", 10.006, "eur", 1001},
		{"yen is whole units", 1500, "JPY", 1500},
		{"won rounds to unit", 2500.4, "krw", 2500},
		{"cfa franc", 750, "XOF", 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toMinorUnits(tt.amount, tt.currency))
		})
	}
}

func TestStripeInitiatorZeroDecimalCurrency(t *testing.T) {
	sessions := &fakeSessions{}
	initiator := NewStripeInitiator(sessions, StripeOptions{}, zap.NewNop())

	_, err := initiator.Initiate(context.Background(), InitiateRequest{Amount: 1500, Currency: "JPY", ShipmentCode: "OHS-2"})
	require.NoError(t, err)
	require.Len(t, sessions.params.LineItems, 1)
	assert.Equal(t, "jpy", *sessions.params.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(1500), *sessions.params.LineItems[0].PriceData.UnitAmount)
}

func TestStripeInitiatorFailures(t *testing.T) {
	initiator := NewStripeInitiator(&fakeSessions{err: errors.New("boom")}, StripeOptions{}, zap.NewNop())

	_, err := initiator.Initiate(context.Background(), InitiateRequest{Amount: 10, Currency: "usd"})
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))

	_, err = initiator.Initiate(context.Background(), InitiateRequest{Amount: 0})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
