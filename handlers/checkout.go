package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	checkout "github.com/Jaysins/ohship-tenant-sub001"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

type CheckoutHandler interface {
	SubmitRoute(c echo.Context) error
	GetQuotes(c echo.Context) error
	SelectQuote(c echo.Context) error
	GetDetails(c echo.Context) error
	UpdateDraft(c echo.Context) error
	UseSavedAddress(c echo.Context) error
	RefreshQuotes(c echo.Context) error
	ChangeQuote(c echo.Context) error
	SubmitShipment(c echo.Context) error
	GetPayment(c echo.Context) error
	Pay(c echo.Context) error
	GetBankTransfer(c echo.Context) error
	BackToDetails(c echo.Context) error
	Complete(c echo.Context) error
	Restart(c echo.Context) error
}

type checkoutHandler struct {
	Checkout checkout.Checkout
	Logger   *zap.Logger
}

func NewCheckoutHandler(checkout checkout.Checkout, logger *zap.Logger) CheckoutHandler {
	return &checkoutHandler{
		Checkout: checkout,
		Logger:   logger,
	}
}

func (h *checkoutHandler) wizard(c echo.Context) *checkout.Wizard {
	return h.Checkout.Wizard(SessionID(c))
}

type quoteSelection struct {
	QuoteID string `json:"quote_id"`
}

type savedAddressSelection struct {
	Party     enum.Party `json:"party"`
	AddressID string     `json:"address_id"`
}

type paymentRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	models.Payer
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request payload"})
}

// SubmitRoute handles POST /quote
func (h *checkoutHandler) SubmitRoute(c echo.Context) error {
	var form models.RouteForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	result, err := h.wizard(c).SubmitRoute(c.Request().Context(), form)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetQuotes handles GET /quote/select
func (h *checkoutHandler) GetQuotes(c echo.Context) error {
	view, err := h.wizard(c).EnterSelectQuote(c.Request().Context())
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// SelectQuote handles POST /quote/select
func (h *checkoutHandler) SelectQuote(c echo.Context) error {
	var req quoteSelection
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	nav, err := h.wizard(c).SelectQuote(c.Request().Context(), req.QuoteID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, nav)
}

// GetDetails handles GET /quote/details?mode=review
func (h *checkoutHandler) GetDetails(c echo.Context) error {
	mode := enum.DetailsMode(c.QueryParam("mode"))

	view, err := h.wizard(c).EnterDetails(c.Request().Context(), mode)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateDraft handles PATCH /quote/details
func (h *checkoutHandler) UpdateDraft(c echo.Context) error {
	var change models.DraftChange
	if err := c.Bind(&change); err != nil {
		return invalidPayload(c)
	}

	if err := h.wizard(c).ApplyChange(change); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UseSavedAddress handles POST /quote/details/address
func (h *checkoutHandler) UseSavedAddress(c echo.Context) error {
	var req savedAddressSelection
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	if err := h.wizard(c).UseSavedAddress(c.Request().Context(), req.Party, req.AddressID); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RefreshQuotes handles POST /quote/review
func (h *checkoutHandler) RefreshQuotes(c echo.Context) error {
	view, err := h.wizard(c).RefreshQuotes(c.Request().Context())
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ChangeQuote handles POST /quote/review/select
func (h *checkoutHandler) ChangeQuote(c echo.Context) error {
	var req quoteSelection
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	view, err := h.wizard(c).ChangeQuote(req.QuoteID)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// SubmitShipment handles POST /quote/shipment
func (h *checkoutHandler) SubmitShipment(c echo.Context) error {
	result, err := h.wizard(c).SubmitShipment(c.Request().Context())
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	if result.PriceChange != nil {
		return c.JSON(http.StatusConflict, result)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPayment handles GET /quote/payment/:id
func (h *checkoutHandler) GetPayment(c echo.Context) error {
	view, err := h.wizard(c).EnterPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Pay handles POST /quote/payment/:id
func (h *checkoutHandler) Pay(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	w := h.wizard(c)
	if current := w.Shipment(); current != nil && current.ID != c.Param("id") {
		return c.JSON(http.StatusOK, redirectResponse{Redirect: checkout.Navigation{Redirect: true, Path: checkout.PathStart}})
	}

	handoff, err := w.Pay(c.Request().Context(), req.PaymentMethodID, req.Payer)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, handoff)
}

// GetBankTransfer handles GET /quote/payment/:id/bank-transfer
func (h *checkoutHandler) GetBankTransfer(c echo.Context) error {
	return c.JSON(http.StatusOK, h.wizard(c).BankTransfer(c.Param("id")))
}

// BackToDetails handles POST /quote/payment/:id/back
func (h *checkoutHandler) BackToDetails(c echo.Context) error {
	nav, err := h.wizard(c).BackToDetails(c.Request().Context())
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, nav)
}

// Complete handles GET /quote/success
func (h *checkoutHandler) Complete(c echo.Context) error {
	w := h.wizard(c)
	if err := w.Complete(c.Request().Context()); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"shipment": w.Shipment()})
}

// Restart handles POST /quote/restart
func (h *checkoutHandler) Restart(c echo.Context) error {
	if err := h.wizard(c).Restart(c.Request().Context()); err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, checkout.Navigation{Path: checkout.PathStart})
}
