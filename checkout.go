package checkout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/address"
	"github.com/Jaysins/ohship-tenant-sub001/category"
	"github.com/Jaysins/ohship-tenant-sub001/checkout_session"
	"github.com/Jaysins/ohship-tenant-sub001/config"
	"github.com/Jaysins/ohship-tenant-sub001/location"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/payment_method"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
	"github.com/Jaysins/ohship-tenant-sub001/shipment"
	"github.com/Jaysins/ohship-tenant-sub001/validation"
)

// Checkout is what the HTTP surface needs from the engine.
type Checkout interface {
	Wizard(sessionID string) *Wizard
	Forget(sessionID string)
	Sweep(idle time.Duration) int

	Countries() []location.Option
	States(loc models.Location) []location.Option
	Cities(loc models.Location) []string

	Track(ctx context.Context, code string) (*models.TrackingInfo, error)
}

type Options struct {
	DefaultCurrency             string
	RequireDeclaredValueOnQuote bool
}

func ProvideOptions(appConfig *config.Config) Options {
	return Options{
		DefaultCurrency:             appConfig.Checkout.DefaultCurrency,
		RequireDeclaredValueOnQuote: appConfig.Checkout.RequireDeclaredValueOnQuote,
	}
}

// Engine holds the collaborators shared by every wizard.
type Engine struct {
	options Options

	quotes     quote.Service
	shipments  shipment.Service
	categories category.Service
	addresses  address.Service
	payments   payment_method.Service
	locations  location.Source

	builder    *quote.Builder
	assembler  *shipment.Assembler
	dispatcher *PaymentDispatcher

	provider checkout_session.Provider
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	wizards map[string]*sessionEntry
}

func NewEngine(
	options Options,
	quotes quote.Service,
	shipments shipment.Service,
	categories category.Service,
	addresses address.Service,
	payments payment_method.Service,
	locations location.Source,
	provider checkout_session.Provider,
	logger *zap.Logger,
) *Engine {
	if options.DefaultCurrency == "" {
		options.DefaultCurrency = "USD"
	}
	return &Engine{
		options:    options,
		quotes:     quotes,
		shipments:  shipments,
		categories: categories,
		addresses:  addresses,
		payments:   payments,
		locations:  locations,
		builder:    quote.NewBuilder(options.DefaultCurrency),
		assembler:  shipment.NewAssembler(),
		dispatcher: NewPaymentDispatcher(shipments, payments, logger),
		provider:   provider,
		logger:     logger,
		now:        time.Now,
		wizards:    make(map[string]*sessionEntry),
	}
}

// ProvideCheckout exposes the engine through the Checkout interface.
func ProvideCheckout(engine *Engine) Checkout {
	return engine
}

func (e *Engine) quoteRules() validation.ItemRules {
	rules := validation.QuoteStage
	rules.RequireDeclaredValue = e.options.RequireDeclaredValueOnQuote
	return rules
}

// NewWizard starts a wizard over store, independent of the session registry.
func (e *Engine) NewWizard(store checkout_session.Store) *Wizard {
	return newWizard(e, store)
}

func (e *Engine) Countries() []location.Option {
	return location.CountryOptions(e.locations)
}

func (e *Engine) States(loc models.Location) []location.Option {
	return location.StateOptions(e.locations, loc)
}

func (e *Engine) Cities(loc models.Location) []string {
	return location.CityOptions(e.locations, loc)
}

func (e *Engine) Track(ctx context.Context, code string) (*models.TrackingInfo, error) {
	return e.shipments.Track(ctx, code)
}
