package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/checkout_session"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
)

var bankTransfer = models.TenantPaymentMethod{
	ID:        "tpm-bank",
	IsEnabled: true,
	Provider:  "paystack",
	Method:    models.PaymentMethod{ID: "pm-bank", Name: "Bank transfer", Code: "BANK", Type: enum.PaymentMethodTypeBankTransfer},
}

// toReview drives a wizard from the route form to the review step with Q2 selected.
func toReview(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()

	h.quotes.responses = append(h.quotes.responses,
		quoteResponse(rate("Q1", 20), rate("Q2", 25)),
		quoteResponse(rate("Q0", 18), rate("Q2", 26), rate("Q3", 30)),
	)

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	_, err = h.wizard.SelectQuote(ctx, "Q2")
	require.NoError(t, err)
	_, err = h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.NoError(t, h.wizard.UpdateDraft(fillDraft))
	_, err = h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
}

func TestCheckoutEndToEnd(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.payments.methods = []models.TenantPaymentMethod{bankTransfer}
	h.payments.tx = &models.PaymentTransaction{
		TransactionID:   "tx-1",
		TransactionData: json.RawMessage(`{"virtual_account":{"bank_name":"Wema","account_number":"0123456789","account_name":"OHSHIP"},"reference":"REF-1"}`),
	}
	h.quotes.responses = []*models.QuoteResponse{
		quoteResponse(rate("Q1", 20), rate("Q2", 25)),
		quoteResponse(rate("Q0", 18), rate("Q2", 26), rate("Q3", 30)),
	}

	route, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	assert.False(t, route.NoQuotes)
	assert.Equal(t, PathSelect, route.Next.Path)
	assert.True(t, h.stored(t, checkout_session.KeyTempQuoteResponse))

	first := h.quotes.lastRequest()
	assert.Equal(t, "ca", first.Origin.State)
	assert.Equal(t, "los angeles", first.Origin.City)
	assert.Equal(t, "new york", first.Destination.City)
	assert.Equal(t, "Documents", first.Items[0].Name)
	assert.Equal(t, 2.5, first.Items[0].Weight)
	assert.Equal(t, "USD", first.Currency)

	view, err := h.wizard.EnterSelectQuote(ctx)
	require.NoError(t, err)
	require.Nil(t, view.Redirect)
	require.Len(t, view.Quotes.Rates, 2)

	nav, err := h.wizard.SelectQuote(ctx, view.Quotes.Rates[1].QuoteID)
	require.NoError(t, err)
	assert.Equal(t, PathDetails, nav.Path)

	assert.False(t, h.stored(t, checkout_session.KeyTempQuoteResponse))
	raw, ok, err := h.store.Get(ctx, checkout_session.KeySelectedQuoteData)
	require.NoError(t, err)
	require.True(t, ok)
	var selected models.SelectedQuoteContext
	require.NoError(t, json.Unmarshal(raw, &selected))
	assert.Equal(t, "Q2", selected.SelectedQuoteID)
	assert.Equal(t, *view.Quotes, selected.QuoteData)

	details, err := h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.Nil(t, details.Redirect)
	assert.Equal(t, "Q2", details.SelectedQuote.QuoteID)
	assert.Equal(t, models.AddressInput{Country: "US", State: "ca", City: "los angeles"}, details.Draft.Sender)
	assert.Equal(t, models.AddressInput{Country: "US", State: "ny", City: "new york"}, details.Draft.Receiver)
	assert.Equal(t, []models.ItemInput{{}}, details.Draft.Items)
	assert.False(t, h.stored(t, checkout_session.KeySelectedQuoteData))

	require.NoError(t, h.wizard.UpdateDraft(fillDraft))

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	require.Len(t, review.Quotes.Rates, 3)
	assert.Equal(t, "Q2", review.SelectedQuote.QuoteID, "previous selection wins over index 0")
	assert.False(t, review.Reselected)
	assert.Equal(t, enum.StepReview, h.wizard.Step())
	assert.Empty(t, h.quotes.lastRequest().ShipmentID)

	result, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	require.Nil(t, result.PriceChange)
	assert.Equal(t, "/quote/payment/s-1", result.Next.Path)
	require.Len(t, h.shipments.created, 1)
	assert.Equal(t, "Q2", h.shipments.created[0].QuoteID)
	assert.True(t, h.stored(t, checkout_session.KeyCreatedShipmentData))

	payment, err := h.wizard.EnterPayment(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "OHS-0001", payment.Shipment.Code)
	require.Len(t, payment.Methods, 1)

	handoff, err := h.wizard.Pay(ctx, "tpm-bank", models.Payer{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "2345678901"})
	require.NoError(t, err)
	assert.Equal(t, "/quote/payment/s-1/bank-transfer", handoff.Next.Path)
	assert.False(t, handoff.ExternalRedirect())
	assert.Equal(t, "tx-1", handoff.TransactionID)
	require.NotNil(t, handoff.VirtualAccount)
	assert.Equal(t, "0123456789", handoff.VirtualAccount.AccountNumber)
	assert.JSONEq(t, `"REF-1"`, string(handoff.TransactionData["reference"]))

	require.Len(t, h.payments.initiated, 1)
	assert.Equal(t, "pay-1", h.payments.initiated[0].PaymentID)
	assert.Equal(t, 31.5, h.payments.initiated[0].Amount)

	assert.Same(t, handoff, h.wizard.BankTransfer("s-1"))

	require.NoError(t, h.wizard.Complete(ctx))
	require.NoError(t, h.wizard.Complete(ctx))
	assert.Equal(t, 1, h.store.clears)
	assert.Equal(t, enum.StepSuccess, h.wizard.Step())
	for _, key := range checkout_session.Keys {
		assert.False(t, h.stored(t, key), key)
	}
}

func TestSubmitRouteWithoutRates(t *testing.T) {
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse()}

	result, err := h.wizard.SubmitRoute(context.Background(), routeForm())
	require.NoError(t, err)
	assert.True(t, result.NoQuotes)
	assert.Nil(t, result.Next)
	assert.Equal(t, enum.StepRouteAndPackage, h.wizard.Step())
	assert.False(t, h.stored(t, checkout_session.KeyTempQuoteResponse))
}

func TestSubmitRouteFetchFailureIsNotNoQuotes(t *testing.T) {
	h := newHarness(t)
	h.quotes.err = apperrors.Network("Unable to reach the server, please try again", nil)

	result, err := h.wizard.SubmitRoute(context.Background(), routeForm())
	assert.Nil(t, result)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
}

func TestSubmitRouteValidation(t *testing.T) {
	h := newHarness(t)
	form := routeForm()
	form.Items[0].Weight = "0"

	_, err := h.wizard.SubmitRoute(context.Background(), form)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "items", appErr.Section)
	assert.Empty(t, h.quotes.requests)
}

func TestDeclaredValueRequiredOnQuoteWhenConfigured(t *testing.T) {
	h := newHarness(t)
	h.engine.options.RequireDeclaredValueOnQuote = true

	_, err := h.wizard.SubmitRoute(context.Background(), routeForm())
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGuardsRedirectToStart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	sel, err := h.wizard.EnterSelectQuote(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Navigation{Redirect: true, Path: PathStart}, sel.Redirect)

	nav, err := h.wizard.SelectQuote(ctx, "Q1")
	require.NoError(t, err)
	assert.True(t, nav.Redirect)

	for _, mode := range []enum.DetailsMode{enum.DetailsModeNormal, enum.DetailsModeReview} {
		details, err := h.wizard.EnterDetails(ctx, mode)
		require.NoError(t, err)
		assert.True(t, details.Redirect.Redirect, mode)
	}

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.True(t, review.Redirect.Redirect)

	shipment, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	assert.True(t, shipment.Next.Redirect)

	payment, err := h.wizard.EnterPayment(ctx, "")
	require.NoError(t, err)
	assert.True(t, payment.Redirect.Redirect)

	back, err := h.wizard.BackToDetails(ctx)
	require.NoError(t, err)
	assert.True(t, back.Redirect)

	assert.True(t, apperrors.IsKind(h.wizard.UpdateDraft(fillDraft), apperrors.KindMissingContext))
}

func TestEnterSelectQuoteRejectsEmptyResponse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	raw, _ := json.Marshal(quoteResponse())
	require.NoError(t, h.store.Set(ctx, checkout_session.KeyTempQuoteResponse, raw))

	view, err := h.wizard.EnterSelectQuote(ctx)
	require.NoError(t, err)
	assert.NotNil(t, view.Redirect)
}

func TestSelectQuoteMustBeOffered(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20))}

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)

	_, err = h.wizard.SelectQuote(ctx, "Q7")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.True(t, h.stored(t, checkout_session.KeyTempQuoteResponse))
}

func TestEnterDetailsTwiceKeepsDraft(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20))}

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	_, err = h.wizard.SelectQuote(ctx, "Q1")
	require.NoError(t, err)
	_, err = h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.NoError(t, h.wizard.ApplyChange(models.DraftChange{Op: models.ChangeSetNotes, Value: "fragile"}))

	again, err := h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.Nil(t, again.Redirect)
	assert.Equal(t, "fragile", again.Draft.CustomerNotes)
}

func TestRefreshReselectsFirstRateWhenSelectionDisappears(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{
		quoteResponse(rate("Q1", 20), rate("Q4", 22)),
		quoteResponse(rate("Q2", 21), rate("Q3", 23)),
	}

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	_, err = h.wizard.SelectQuote(ctx, "Q1")
	require.NoError(t, err)
	_, err = h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.NoError(t, h.wizard.UpdateDraft(fillDraft))

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q2", review.SelectedQuote.QuoteID)
	assert.True(t, review.Reselected)
	assert.Equal(t, quote.OutcomeReselected, review.Outcome)
	assert.Equal(t, "USD", h.quotes.lastRequest().Currency)
}

func TestRefreshWithoutRatesStaysOnDetails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20)), quoteResponse()}

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	_, err = h.wizard.SelectQuote(ctx, "Q1")
	require.NoError(t, err)
	_, err = h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)
	require.NoError(t, h.wizard.UpdateDraft(fillDraft))

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.True(t, review.NoQuotes)
	assert.Equal(t, enum.StepDetails, h.wizard.Step())

	_, err = h.wizard.SubmitShipment(ctx)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestEmptyRefreshInReviewDropsSelection(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)
	require.Equal(t, enum.StepReview, h.wizard.Step())
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(), quoteResponse(rate("Q4", 31))}

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.True(t, review.NoQuotes)
	assert.Nil(t, review.SelectedQuote)
	assert.Equal(t, enum.StepDetails, h.wizard.Step())

	_, err = h.wizard.SubmitShipment(ctx)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, h.shipments.created)

	review, err = h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q4", review.SelectedQuote.QuoteID)
	assert.Equal(t, enum.StepReview, h.wizard.Step())
}

func TestPriceChangeWithoutQuotesBlocksSubmit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)

	data, _ := json.Marshal(map[string]any{
		"old_price":  26,
		"new_quotes": []models.Rate{},
	})
	h.shipments.createErr = apperrors.Business(apperrors.CodeQuotePriceChanged, "Quote price changed", data)

	result, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.PriceChange)
	assert.True(t, result.PriceChange.Review.NoQuotes)
	assert.Empty(t, result.PriceChange.Review.Quotes.Rates)
	assert.Equal(t, enum.StepDetails, h.wizard.Step())

	_, err = h.wizard.SubmitShipment(ctx)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Len(t, h.shipments.created, 1)
}

func TestRefreshValidatesDraftFirst(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20))}

	_, err := h.wizard.SubmitRoute(ctx, routeForm())
	require.NoError(t, err)
	_, err = h.wizard.SelectQuote(ctx, "Q1")
	require.NoError(t, err)
	_, err = h.wizard.EnterDetails(ctx, enum.DetailsModeNormal)
	require.NoError(t, err)

	_, err = h.wizard.RefreshQuotes(ctx)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "items", appErr.Section)
	assert.Len(t, h.quotes.requests, 1)
}

func TestEditingAfterReviewRequiresNewReview(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)

	require.NoError(t, h.wizard.ApplyChange(models.DraftChange{Op: models.ChangeSetItemField, Field: "weight", Value: "9"}))
	assert.Equal(t, enum.StepDetails, h.wizard.Step())

	_, err := h.wizard.SubmitShipment(ctx)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, h.shipments.created)
}

func TestChangeQuoteWithinReview(t *testing.T) {
	h := newHarness(t)
	toReview(t, h)

	view, err := h.wizard.ChangeQuote("Q3")
	require.NoError(t, err)
	assert.Equal(t, "Q3", view.SelectedQuote.QuoteID)

	_, err = h.wizard.ChangeQuote("Q1")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	result, err := h.wizard.SubmitShipment(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Shipment)
	assert.Equal(t, "Q3", h.shipments.created[0].QuoteID)
}

func TestSubmitShipmentPriceChanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)

	data, _ := json.Marshal(map[string]any{
		"old_price":  26,
		"new_quotes": []models.Rate{rate("Q9", 40), rate("Q2", 29)},
	})
	h.shipments.createErr = apperrors.Business(apperrors.CodeQuotePriceChanged, "Quote price changed", data)

	result, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.PriceChange)
	assert.Nil(t, result.Next)
	assert.Equal(t, 26.0, result.PriceChange.OldPrice)
	assert.Equal(t, 29.0, result.PriceChange.NewPrice)
	assert.Equal(t, "Q2", result.PriceChange.Review.SelectedQuote.QuoteID)
	assert.False(t, h.stored(t, checkout_session.KeyCreatedShipmentData))

	result, err = h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/quote/payment/s-1", result.Next.Path)
	assert.Equal(t, "Q2", h.shipments.created[1].QuoteID)
}

func TestReviewModeRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q2", 26), rate("Q5", 35))}

	_, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	_, err = h.wizard.EnterPayment(ctx, "s-1")
	require.NoError(t, err)

	nav, err := h.wizard.BackToDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/quote/details?mode=review", nav.Path)

	details, err := h.wizard.EnterDetails(ctx, enum.DetailsModeReview)
	require.NoError(t, err)
	require.Nil(t, details.Redirect)
	assert.Equal(t, enum.DetailsModeReview, details.Mode)
	assert.Equal(t, "Grace Hopper", details.Draft.Receiver.Name)
	assert.Equal(t, "Contracts", details.Draft.Items[0].Description)
	assert.Equal(t, "s-1", details.Shipment.ID)
	assert.False(t, h.stored(t, checkout_session.KeyCreatedShipmentData))

	review, err := h.wizard.RefreshQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q2", review.SelectedQuote.QuoteID)
	assert.Equal(t, "s-1", h.quotes.lastRequest().ShipmentID)

	result, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/quote/payment/s-1", result.Next.Path)
	require.Len(t, h.shipments.updated, 1)
	assert.Equal(t, "s-1", h.shipments.updated[0].ID)
	assert.Len(t, h.shipments.created, 1)
}

func TestEnterPaymentUnknownShipment(t *testing.T) {
	h := newHarness(t)

	_, err := h.wizard.EnterPayment(context.Background(), "s-404")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestPayRequiresPaymentStep(t *testing.T) {
	h := newHarness(t)

	handoff, err := h.wizard.Pay(context.Background(), "tpm-bank", models.Payer{Name: "Ada", Email: "ada@example.com", Phone: "2345678901"})
	require.NoError(t, err)
	assert.True(t, handoff.Next.Redirect)

	_, err = h.wizard.Pay(context.Background(), "tpm-bank", models.Payer{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestOperationInFlightIsRejected(t *testing.T) {
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20))}
	h.quotes.entered = make(chan struct{})
	h.quotes.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.wizard.SubmitRoute(context.Background(), routeForm())
		done <- err
	}()
	<-h.quotes.entered

	_, err := h.wizard.SubmitRoute(context.Background(), routeForm())
	assert.ErrorIs(t, err, ErrOperationInFlight)
	_, err = h.wizard.RefreshQuotes(context.Background())
	assert.ErrorIs(t, err, ErrOperationInFlight)

	close(h.quotes.release)
	require.NoError(t, <-done)
	assert.Len(t, h.quotes.requests, 1)
}

func TestLateResponseIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.quotes.responses = []*models.QuoteResponse{quoteResponse(rate("Q1", 20))}
	h.quotes.entered = make(chan struct{})
	h.quotes.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.wizard.SubmitRoute(context.Background(), routeForm())
		done <- err
	}()
	<-h.quotes.entered

	require.NoError(t, h.wizard.Restart(context.Background()))
	close(h.quotes.release)

	assert.ErrorIs(t, <-done, ErrStaleResponse)
	assert.False(t, h.stored(t, checkout_session.KeyTempQuoteResponse))
	assert.Equal(t, enum.StepRouteAndPackage, h.wizard.Step())
}

func TestRestartClearsEverything(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	toReview(t, h)
	_, err := h.wizard.SubmitShipment(ctx)
	require.NoError(t, err)

	require.NoError(t, h.wizard.Restart(ctx))
	assert.Equal(t, enum.StepRouteAndPackage, h.wizard.Step())
	assert.Nil(t, h.wizard.Shipment())
	for _, key := range checkout_session.Keys {
		assert.False(t, h.stored(t, key), key)
	}

	details, err := h.wizard.EnterDetails(ctx, enum.DetailsModeReview)
	require.NoError(t, err)
	assert.NotNil(t, details.Redirect)
}
