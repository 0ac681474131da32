package checkout

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/checkout_session"
	"github.com/Jaysins/ohship-tenant-sub001/location"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/payment_method"
)

type fakeQuotes struct {
	mu        sync.Mutex
	responses []*models.QuoteResponse
	requests  []*models.QuoteRequest
	err       error

	// entered and release let a test hold a fetch in flight.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeQuotes) Fetch(_ context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var resp *models.QuoteResponse
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	if resp == nil {
		resp = &models.QuoteResponse{}
	}
	return resp, nil
}

func (f *fakeQuotes) lastRequest() *models.QuoteRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeShipments struct {
	created   []*models.ShipmentRequest
	updated   []*models.ShipmentRequest
	createErr error
	shipment  models.Shipment
	paymentID string
}

func (f *fakeShipments) Create(_ context.Context, req *models.ShipmentRequest) (*models.Shipment, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return nil, err
	}
	s := f.shipment
	s.QuoteID = req.QuoteID
	return &s, nil
}

func (f *fakeShipments) Update(_ context.Context, req *models.ShipmentRequest) (*models.Shipment, error) {
	f.updated = append(f.updated, req)
	s := f.shipment
	s.QuoteID = req.QuoteID
	return &s, nil
}

func (f *fakeShipments) Get(_ context.Context, id string) (*models.Shipment, error) {
	if id != f.shipment.ID {
		return nil, apperrors.NotFound("Shipment not found")
	}
	s := f.shipment
	return &s, nil
}

func (f *fakeShipments) Track(_ context.Context, code string) (*models.TrackingInfo, error) {
	return &models.TrackingInfo{Code: code, Status: "in_transit"}, nil
}

func (f *fakeShipments) UpdatePaymentMethod(_ context.Context, id, paymentMethodID string) (*models.Shipment, error) {
	s := f.shipment
	s.PaymentMethodID = paymentMethodID
	s.PaymentID = f.paymentID
	return &s, nil
}

type fakeCategories struct{}

func (fakeCategories) List(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "cat-1", Name: "Documents", Description: "Paper documents", HSCode: "4901", GroupTag: "docs"}}, nil
}

func (fakeCategories) Find(_ context.Context, id string) (*models.Category, error) {
	return &models.Category{ID: id}, nil
}

type fakeAddresses struct {
	saved []models.SavedAddress
}

func (f *fakeAddresses) List(context.Context) ([]models.SavedAddress, error) {
	return f.saved, nil
}

func (f *fakeAddresses) Default(context.Context) (*models.SavedAddress, error) {
	return nil, nil
}

type fakePayments struct {
	methods   []models.TenantPaymentMethod
	tx        *models.PaymentTransaction
	initiated []payment_method.InitiateRequest
}

func (f *fakePayments) ListEnabled(context.Context) ([]models.TenantPaymentMethod, error) {
	return f.methods, nil
}

func (f *fakePayments) Get(_ context.Context, id string) (*models.TenantPaymentMethod, error) {
	for i := range f.methods {
		if f.methods[i].ID == id {
			return &f.methods[i], nil
		}
	}
	return nil, apperrors.NotFound("Payment method is not available")
}

func (f *fakePayments) Initiate(_ context.Context, req payment_method.InitiateRequest) (*models.PaymentTransaction, error) {
	f.initiated = append(f.initiated, req)
	return f.tx, nil
}

// countingStore records ClearAll calls over a memory store.
type countingStore struct {
	checkout_session.Store
	clears int
}

func (s *countingStore) ClearAll(ctx context.Context) error {
	s.clears++
	return s.Store.ClearAll(ctx)
}

type harness struct {
	engine    *Engine
	quotes    *fakeQuotes
	shipments *fakeShipments
	addresses *fakeAddresses
	payments  *fakePayments
	store     *countingStore
	wizard    *Wizard
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		quotes:    &fakeQuotes{},
		shipments: &fakeShipments{shipment: models.Shipment{ID: "s-1", Code: "OHS-0001", Currency: "USD", Pricing: models.Pricing{Total: 31.5}}, paymentID: "pay-1"},
		addresses: &fakeAddresses{},
		payments:  &fakePayments{},
		store:     &countingStore{Store: checkout_session.NewMemoryStore()},
	}
	h.engine = NewEngine(
		Options{DefaultCurrency: "USD"},
		h.quotes,
		h.shipments,
		fakeCategories{},
		h.addresses,
		h.payments,
		location.NewStaticSource(location.DefaultCountries),
		checkout_session.NewMemoryProvider(),
		zap.NewNop(),
	)
	h.wizard = h.engine.NewWizard(h.store)
	return h
}

func (h *harness) stored(t *testing.T, key checkout_session.Key) bool {
	t.Helper()
	_, ok, err := h.store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("store get %s: %v", key, err)
	}
	return ok
}

func rate(id string, total float64) models.Rate {
	return models.Rate{QuoteID: id, Carrier: "carrier-" + id, Currency: "USD", Pricing: models.Pricing{Base: total, Total: total}}
}

func quoteResponse(rates ...models.Rate) *models.QuoteResponse {
	return &models.QuoteResponse{
		Origin:      models.Location{Country: "US", State: "ca", City: "los angeles"},
		Destination: models.Location{Country: "US", State: "ny", City: "new york"},
		Rates:       rates,
	}
}

func routeForm() models.RouteForm {
	return models.RouteForm{
		Origin:      models.Location{Country: "US", State: "CA", City: "Los Angeles"},
		Destination: models.Location{Country: "US", State: "NY", City: "New York"},
		Items:       []models.ItemInput{{CategoryID: "cat-1", Quantity: "1", Weight: "2.5"}},
	}
}

func fillDraft(d *models.ShipmentDraft) error {
	d.Items[0] = models.ItemInput{
		CategoryID:    "cat-1",
		Description:   "Contracts",
		PackageType:   "envelope",
		Quantity:      "1",
		Weight:        "2.5",
		DeclaredValue: "50",
	}
	d.Sender = models.AddressInput{
		Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+1 (234) 567-8901",
		AddressLine1: "1 Sunset Blvd", City: "Los Angeles", State: "CA", PostalCode: "90001", Country: "US",
	}
	d.Receiver = models.AddressInput{
		Name: "Grace Hopper", Email: "grace@example.com", Phone: "212-555-0100",
		AddressLine1: "5 Broadway", City: "New York", State: "NY", PostalCode: "10004", Country: "US",
	}
	return nil
}
