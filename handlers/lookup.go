package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	checkout "github.com/Jaysins/ohship-tenant-sub001"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// LookupHandler serves the option lists of the location selects and
// public shipment tracking. None of it touches wizard state.
type LookupHandler interface {
	Countries(c echo.Context) error
	States(c echo.Context) error
	Cities(c echo.Context) error
	Track(c echo.Context) error
}

type lookupHandler struct {
	Checkout checkout.Checkout
	Logger   *zap.Logger
}

func NewLookupHandler(checkout checkout.Checkout, logger *zap.Logger) LookupHandler {
	return &lookupHandler{
		Checkout: checkout,
		Logger:   logger,
	}
}

func locationQuery(c echo.Context) models.Location {
	return models.Location{
		Country: c.QueryParam("country"),
		State:   c.QueryParam("state"),
	}
}

// Countries handles GET /locations/countries
func (h *lookupHandler) Countries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Checkout.Countries())
}

// States handles GET /locations/states?country=
func (h *lookupHandler) States(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Checkout.States(locationQuery(c)))
}

// Cities handles GET /locations/cities?country=&state=
func (h *lookupHandler) Cities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Checkout.Cities(locationQuery(c)))
}

// Track handles GET /shipments/:code/track
func (h *lookupHandler) Track(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Tracking code is required"})
	}

	info, err := h.Checkout.Track(c.Request().Context(), code)
	if err != nil {
		return writeError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, info)
}
