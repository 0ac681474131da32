package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/address"
	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/checkout_session"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
	"github.com/Jaysins/ohship-tenant-sub001/shipment"
	"github.com/Jaysins/ohship-tenant-sub001/validation"
)

var (
	ErrOperationInFlight = errors.New("another checkout request is still in progress")
	// ErrStaleResponse is returned when a response arrives after the visitor
	// navigated away; its result is discarded.
	ErrStaleResponse = errors.New("checkout moved on before the response arrived")
)

// Wizard drives one visitor through
// RouteAndPackage → SelectQuote → Details → Review → Payment → Success.
//
// Every navigation bumps the generation; a network result is applied only
// if the generation it started under is still current.
type Wizard struct {
	engine  *Engine
	handoff *checkout_session.Handoff
	guard   inflight
	logger  *zap.Logger

	mu         sync.Mutex
	step       enum.Step
	generation uint64
	mode       enum.DetailsMode
	completed  bool

	// held while the visitor is in details, review and payment
	draft           *models.ShipmentDraft
	quoteData       *models.QuoteResponse
	selectedQuoteID string
	shipment        *models.Shipment
	created         *models.CreatedShipmentContext
	payment         *PaymentHandoff
}

func newWizard(engine *Engine, store checkout_session.Store) *Wizard {
	return &Wizard{
		engine:  engine,
		handoff: checkout_session.NewHandoff(store, engine.logger),
		logger:  engine.logger,
		step:    enum.StepRouteAndPackage,
		mode:    enum.DetailsModeNormal,
	}
}

func (w *Wizard) Step() enum.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Shipment is the shipment created or loaded in this checkout, if any.
func (w *Wizard) Shipment() *models.Shipment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shipment
}

// advance moves to step and invalidates outstanding responses. Callers hold mu.
func (w *Wizard) advance(step enum.Step) {
	w.step = step
	w.generation++
	observe(step, outcomeEntered)
}

func (w *Wizard) currentGeneration() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation
}

// staleLocked reports whether gen is outdated. Callers hold mu.
func (w *Wizard) staleLocked(gen uint64, step enum.Step) bool {
	if gen == w.generation {
		return false
	}
	w.logger.Info("discarding stale checkout response", zap.String("step", string(step)))
	observe(step, outcomeStale)
	return true
}

func (w *Wizard) redirect(step enum.Step, reason string) *Navigation {
	w.logger.Info("checkout guard redirect", zap.String("step", string(step)), zap.String("reason", reason))
	observe(step, outcomeRedirected)
	return restart()
}

// shipmentIDLocked is the id of the shipment being edited, empty before
// one is created. Callers hold mu.
func (w *Wizard) shipmentIDLocked() string {
	if w.shipment != nil {
		return w.shipment.ID
	}
	return ""
}

func (w *Wizard) resetLocked() {
	w.mode = enum.DetailsModeNormal
	w.draft = nil
	w.quoteData = nil
	w.selectedQuoteID = ""
	w.shipment = nil
	w.created = nil
	w.payment = nil
}

// SubmitRoute validates the route form, fetches rates and hands them to the
// select step. An empty rate set does not advance.
func (w *Wizard) SubmitRoute(ctx context.Context, form models.RouteForm) (*RouteResult, error) {
	if !w.guard.begin() {
		return nil, ErrOperationInFlight
	}
	defer w.guard.end()

	if f := validation.ValidateRoute(form, w.engine.quoteRules()); !f.Valid {
		observe(enum.StepRouteAndPackage, outcomeInvalid)
		return nil, f.Err()
	}

	gen := w.currentGeneration()

	categories, err := w.engine.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	req, err := w.engine.builder.Build(quote.BuildInput{
		Origin:      form.Origin,
		Destination: form.Destination,
		Items:       form.Items,
		IsInsured:   form.IsInsured,
		Categories:  categories,
	})
	if err != nil {
		return nil, err
	}

	resp, err := w.engine.quotes.Fetch(ctx, req)
	if err != nil {
		observe(enum.StepRouteAndPackage, outcomeFailed)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staleLocked(gen, enum.StepRouteAndPackage) {
		return nil, ErrStaleResponse
	}
	if len(resp.Rates) == 0 {
		observe(enum.StepRouteAndPackage, outcomeNoQuotes)
		return &RouteResult{NoQuotes: true, Quotes: resp}, nil
	}

	if err = w.handoff.SetQuoteResponse(ctx, *resp); err != nil {
		return nil, err
	}
	w.resetLocked()
	w.completed = false
	w.advance(enum.StepSelectQuote)

	return &RouteResult{Quotes: resp, Next: next(PathSelect)}, nil
}

// EnterSelectQuote requires a stored quote response with at least one rate.
func (w *Wizard) EnterSelectQuote(ctx context.Context) (*SelectQuoteView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	resp, err := w.handoff.QuoteResponse(ctx)
	if apperrors.IsKind(err, apperrors.KindMissingContext) {
		return &SelectQuoteView{Redirect: w.redirect(enum.StepSelectQuote, "no quote response")}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Rates) == 0 {
		return &SelectQuoteView{Redirect: w.redirect(enum.StepSelectQuote, "empty quote response")}, nil
	}

	if w.step != enum.StepSelectQuote {
		w.advance(enum.StepSelectQuote)
	}
	return &SelectQuoteView{Quotes: &resp}, nil
}

// SelectQuote hands the chosen rate to the details step. The quote must be
// one of the stored rates.
func (w *Wizard) SelectQuote(ctx context.Context, quoteID string) (*Navigation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	resp, err := w.handoff.QuoteResponse(ctx)
	if apperrors.IsKind(err, apperrors.KindMissingContext) {
		return w.redirect(enum.StepSelectQuote, "no quote response"), nil
	}
	if err != nil {
		return nil, err
	}
	if resp.FindRate(quoteID) == nil {
		return nil, apperrors.Validation("quotes", "Please choose one of the available quotes", map[string]string{"quote_id": "Quote is not available"})
	}

	selected := models.SelectedQuoteContext{QuoteData: resp, SelectedQuoteID: quoteID}
	if err = w.handoff.SetSelectedQuote(ctx, selected); err != nil {
		return nil, err
	}

	w.resetLocked()
	w.generation++
	return next(PathDetails), nil
}

// EnterDetails consumes the context handed to the details step. Normal mode
// prefills only the route locations; review mode restores the full prior
// submission. Re-entry while the wizard already holds the draft returns it.
func (w *Wizard) EnterDetails(ctx context.Context, mode enum.DetailsMode) (*DetailsView, error) {
	if mode != enum.DetailsModeReview {
		mode = enum.DetailsModeNormal
	}

	categories, err := w.engine.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := w.engine.addresses.List(ctx)
	if err != nil {
		w.logger.Warn("saved addresses unavailable", zap.Error(err))
		saved = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	holding := w.draft != nil && w.mode == mode &&
		(w.step == enum.StepDetails || w.step == enum.StepReview)
	if !holding {
		var nav *Navigation
		if mode == enum.DetailsModeReview {
			nav, err = w.enterReviewLocked(ctx)
		} else {
			nav, err = w.enterNormalLocked(ctx)
		}
		if err != nil {
			return nil, err
		}
		if nav != nil {
			return &DetailsView{Mode: mode, Redirect: nav}, nil
		}
		w.mode = mode
		w.advance(enum.StepDetails)
	}

	return &DetailsView{
		Mode:           w.mode,
		Draft:          w.draft.Clone(),
		SelectedQuote:  w.quoteData.FindRate(w.selectedQuoteID),
		Shipment:       w.shipment,
		Categories:     categories,
		SavedAddresses: saved,
	}, nil
}

func (w *Wizard) enterNormalLocked(ctx context.Context) (*Navigation, error) {
	selected, err := w.handoff.TakeSelectedQuote(ctx)
	if apperrors.IsKind(err, apperrors.KindMissingContext) {
		return w.redirect(enum.StepDetails, "no selected quote"), nil
	}
	if err != nil {
		return nil, err
	}

	draft := models.NewShipmentDraft()
	origin, destination := selected.QuoteData.Origin, selected.QuoteData.Destination
	draft.Sender.Country, draft.Sender.State, draft.Sender.City = origin.Country, origin.State, origin.City
	draft.Receiver.Country, draft.Receiver.State, draft.Receiver.City = destination.Country, destination.State, destination.City
	draft.SetInsured(selected.QuoteData.IsInsured)

	w.resetLocked()
	w.draft = draft
	w.quoteData = &selected.QuoteData
	w.selectedQuoteID = selected.SelectedQuoteID
	return nil, nil
}

func (w *Wizard) enterReviewLocked(ctx context.Context) (*Navigation, error) {
	created, err := w.handoff.TakeCreatedShipment(ctx)
	if apperrors.IsKind(err, apperrors.KindMissingContext) {
		return w.redirect(enum.StepDetails, "no created shipment"), nil
	}
	if err != nil {
		return nil, err
	}

	w.resetLocked()
	w.draft = created.FormData.Draft.Clone()
	w.quoteData = created.FormData.QuoteData
	w.selectedQuoteID = created.FormData.SelectedQuoteID
	if w.selectedQuoteID == "" {
		w.selectedQuoteID = created.Shipment.QuoteID
	}
	w.shipment = &created.Shipment
	w.created = &created
	return nil, nil
}

// UpdateDraft is the single mutation entry point of the details form. The
// change is applied to a copy and kept only if fn succeeds. Editing after
// review sends the visitor back to details, since prices must be re-checked.
func (w *Wizard) UpdateDraft(fn func(*models.ShipmentDraft) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft == nil {
		return apperrors.MissingContext("draft")
	}

	draft := w.draft.Clone()
	if err := fn(draft); err != nil {
		return apperrors.Validation("draft", err.Error(), nil)
	}
	w.draft = draft

	if w.step == enum.StepReview {
		w.advance(enum.StepDetails)
	}
	return nil
}

func (w *Wizard) ApplyChange(change models.DraftChange) error {
	return w.UpdateDraft(func(d *models.ShipmentDraft) error {
		return d.Apply(change)
	})
}

// UseSavedAddress fills one party of the draft from the address book.
func (w *Wizard) UseSavedAddress(ctx context.Context, party enum.Party, addressID string) error {
	saved, err := w.engine.addresses.List(ctx)
	if err != nil {
		return err
	}
	entry, err := address.Find(saved, addressID)
	if err != nil {
		return apperrors.NotFound("Saved address not found")
	}
	return w.UpdateDraft(func(d *models.ShipmentDraft) error {
		return address.Apply(d, party, *entry)
	})
}

// RefreshQuotes is the entry to review: the draft is validated, re-quoted
// with the same normalization as the first request and reconciled with the
// previous selection.
func (w *Wizard) RefreshQuotes(ctx context.Context) (*ReviewView, error) {
	if !w.guard.begin() {
		return nil, ErrOperationInFlight
	}
	defer w.guard.end()

	w.mu.Lock()
	if w.draft == nil || w.quoteData == nil {
		nav := w.redirect(enum.StepReview, "no details context")
		w.mu.Unlock()
		return &ReviewView{Redirect: nav}, nil
	}
	draft := w.draft.Clone()
	current := w.quoteData
	previous := w.selectedQuoteID
	shipmentID := w.shipmentIDLocked()
	gen := w.generation
	w.mu.Unlock()

	if f := validation.ValidateForm(draft, validation.ShipmentStage, w.engine.now()); !f.Valid {
		observe(enum.StepReview, outcomeInvalid)
		return nil, f.Err()
	}

	categories, err := w.engine.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	req, err := w.engine.builder.Build(quote.BuildInput{
		Origin:      draft.Sender.Location(),
		Destination: draft.Receiver.Location(),
		Items:       draft.Items,
		IsInsured:   draft.IsInsured,
		ShipmentID:  shipmentID,
		Categories:  categories,
		Current:     current,
	})
	if err != nil {
		return nil, err
	}

	resp, err := w.engine.quotes.Fetch(ctx, req)
	if err != nil {
		observe(enum.StepReview, outcomeFailed)
		return nil, err
	}
	rec := quote.Reconcile(previous, resp.Rates)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staleLocked(gen, enum.StepReview) {
		return nil, ErrStaleResponse
	}

	view := &ReviewView{Draft: draft, Quotes: resp, Outcome: rec.Outcome}
	w.quoteData = resp
	w.selectedQuoteID = rec.SelectedQuoteID()
	if rec.Outcome == quote.OutcomeNoQuotes {
		// Without a rate there is nothing to submit; back to details.
		observe(enum.StepReview, outcomeNoQuotes)
		w.advance(enum.StepDetails)
		view.NoQuotes = true
		return view, nil
	}

	w.advance(enum.StepReview)
	if rec.Reselected() {
		observe(enum.StepReview, outcomeReselected)
	}

	view.SelectedQuote = rec.Selected
	view.Reselected = rec.Reselected()
	return view, nil
}

// ChangeQuote picks another rate from the reviewed rate set.
func (w *Wizard) ChangeQuote(quoteID string) (*ReviewView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != enum.StepReview || w.quoteData == nil {
		return &ReviewView{Redirect: next(PathDetails)}, nil
	}
	rate := w.quoteData.FindRate(quoteID)
	if rate == nil {
		return nil, apperrors.Validation("quotes", "Please choose one of the available quotes", map[string]string{"quote_id": "Quote is not available"})
	}
	w.selectedQuoteID = quoteID

	return &ReviewView{
		Draft:         w.draft.Clone(),
		Quotes:        w.quoteData,
		SelectedQuote: rate,
		Outcome:       quote.OutcomeMatched,
	}, nil
}

// SubmitShipment creates the shipment, or updates it in review mode, and
// hands off to payment. A QUOTE_PRICE_CHANGED rejection is reconciled
// against the new quotes and returned as a PriceChange, not as an error.
func (w *Wizard) SubmitShipment(ctx context.Context) (*ShipmentResult, error) {
	if !w.guard.begin() {
		return nil, ErrOperationInFlight
	}
	defer w.guard.end()

	w.mu.Lock()
	if w.draft == nil || w.quoteData == nil {
		nav := w.redirect(enum.StepReview, "no details context")
		w.mu.Unlock()
		return &ShipmentResult{Next: nav}, nil
	}
	if w.step != enum.StepReview || w.selectedQuoteID == "" {
		w.mu.Unlock()
		return nil, apperrors.Validation("review", "Please review the latest prices before continuing", nil)
	}
	draft := w.draft.Clone()
	quoteData := w.quoteData
	quoteID := w.selectedQuoteID
	shipmentID := w.shipmentIDLocked()
	gen := w.generation
	w.mu.Unlock()

	categories, err := w.engine.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	req, err := w.engine.assembler.Assemble(shipment.AssembleInput{
		Draft:      draft,
		QuoteID:    quoteID,
		ShipmentID: shipmentID,
		Categories: categories,
	})
	if err != nil {
		observe(enum.StepReview, outcomeInvalid)
		return nil, err
	}

	var created *models.Shipment
	if req.IsUpdate() {
		created, err = w.engine.shipments.Update(ctx, req)
	} else {
		created, err = w.engine.shipments.Create(ctx, req)
	}
	if err != nil {
		if change, ok := apperrors.AsPriceChange(err); ok {
			return w.applyPriceChange(gen, draft, quoteID, change)
		}
		observe(enum.StepReview, outcomeFailed)
		return nil, err
	}
	if created.ID == "" {
		return nil, apperrors.Network("Shipment was not created, please try again", errors.New("shipment response without id"))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staleLocked(gen, enum.StepReview) {
		return nil, ErrStaleResponse
	}

	snapshot := models.CreatedShipmentContext{
		Shipment: *created,
		FormData: models.CheckoutForm{
			Draft:           *draft,
			QuoteData:       quoteData,
			SelectedQuoteID: quoteID,
		},
	}
	if err = w.handoff.SetCreatedShipment(ctx, snapshot); err != nil {
		return nil, err
	}
	w.shipment = created
	w.created = &snapshot
	w.generation++

	return &ShipmentResult{Shipment: created, Next: next(paymentPath(created.ID))}, nil
}

func (w *Wizard) applyPriceChange(gen uint64, draft *models.ShipmentDraft, quoteID string, change *apperrors.PriceChange) (*ShipmentResult, error) {
	rec := quote.ReconcilePriceChange(quoteID, change)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staleLocked(gen, enum.StepReview) {
		return nil, ErrStaleResponse
	}
	observe(enum.StepReview, outcomePriceChanged)

	review := &ReviewView{Draft: draft, Outcome: rec.Outcome}
	result := &ShipmentResult{PriceChange: &PriceChange{OldPrice: change.OldPrice, NewPrice: change.NewPrice, Review: review}}

	updated := *w.quoteData
	updated.Rates = change.NewQuotes
	w.quoteData = &updated
	w.selectedQuoteID = rec.SelectedQuoteID()
	review.Quotes = &updated

	if rec.Outcome == quote.OutcomeNoQuotes {
		w.advance(enum.StepDetails)
		review.NoQuotes = true
		return result, nil
	}

	review.SelectedQuote = rec.Selected
	review.Reselected = rec.Reselected()
	if result.PriceChange.NewPrice == 0 {
		result.PriceChange.NewPrice = rec.Selected.Pricing.Total
	}
	return result, nil
}

// EnterPayment requires a shipment id; the shipment and the tenant's
// enabled payment methods are loaded fresh.
func (w *Wizard) EnterPayment(ctx context.Context, shipmentID string) (*PaymentView, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		w.mu.Lock()
		nav := w.redirect(enum.StepPayment, "no shipment id")
		w.mu.Unlock()
		return &PaymentView{Redirect: nav}, nil
	}

	loaded, err := w.engine.shipments.Get(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	methods, err := w.engine.payments.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.shipment = loaded
	if w.step != enum.StepPayment {
		w.advance(enum.StepPayment)
	}
	return &PaymentView{Shipment: loaded, Methods: methods}, nil
}

// BackToDetails returns from payment to details in review mode, re-arming
// the created-shipment context the review entry consumes.
func (w *Wizard) BackToDetails(ctx context.Context) (*Navigation, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.created != nil {
		if err := w.handoff.SetCreatedShipment(ctx, *w.created); err != nil {
			return nil, err
		}
	} else if _, err := w.handoff.CreatedShipment(ctx); err != nil {
		if apperrors.IsKind(err, apperrors.KindMissingContext) {
			return w.redirect(enum.StepPayment, "no created shipment"), nil
		}
		return nil, err
	}

	w.draft = nil
	w.generation++
	return next(reviewDetailsPath()), nil
}

// Pay attaches methodID to the shipment, initiates the payment and returns
// where the visitor continues.
func (w *Wizard) Pay(ctx context.Context, methodID string, payer models.Payer) (*PaymentHandoff, error) {
	if !w.guard.begin() {
		return nil, ErrOperationInFlight
	}
	defer w.guard.end()

	if r := validation.ValidatePayer(payer); !r.Valid {
		_, message := r.First()
		return nil, apperrors.Validation("payer", message, r.Errors)
	}

	w.mu.Lock()
	current := w.shipment
	inPayment := w.step == enum.StepPayment
	gen := w.generation
	if current == nil || !inPayment {
		nav := w.redirect(enum.StepPayment, "no shipment in payment")
		w.mu.Unlock()
		return &PaymentHandoff{Next: nav}, nil
	}
	w.mu.Unlock()

	method, err := w.engine.payments.Get(ctx, methodID)
	if err != nil {
		return nil, err
	}

	handoff, err := w.engine.dispatcher.Dispatch(ctx, current.ID, *method, payer)
	if err != nil {
		observe(enum.StepPayment, outcomeFailed)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.staleLocked(gen, enum.StepPayment) {
		return nil, ErrStaleResponse
	}
	w.payment = handoff
	return handoff, nil
}

// BankTransfer is the pending bank-transfer handoff of shipmentID.
func (w *Wizard) BankTransfer(shipmentID string) *PaymentHandoff {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.payment == nil || w.payment.ShipmentID != shipmentID || w.payment.Type != enum.PaymentMethodTypeBankTransfer {
		return &PaymentHandoff{Next: w.redirect(enum.StepPayment, "no bank transfer")}
	}
	return w.payment
}

// Complete marks arrival at success and clears all transient state once.
func (w *Wizard) Complete(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.completed {
		return nil
	}
	if err := w.handoff.ClearAll(ctx); err != nil {
		return err
	}

	done := w.shipment
	w.resetLocked()
	w.shipment = done
	w.completed = true
	w.advance(enum.StepSuccess)
	return nil
}

// Restart abandons the checkout: every transient key is cleared.
func (w *Wizard) Restart(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.handoff.ClearAll(ctx); err != nil {
		return err
	}
	w.resetLocked()
	w.completed = false
	w.advance(enum.StepRouteAndPackage)
	return nil
}
