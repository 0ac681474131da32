package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	checkout "github.com/Jaysins/ohship-tenant-sub001"
	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Kind    string            `json:"kind,omitempty"`
	Code    string            `json:"code,omitempty"`
	Section string            `json:"section,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type redirectResponse struct {
	Redirect checkout.Navigation `json:"redirect"`
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusUnprocessableEntity
	case apperrors.KindBusiness:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeError renders err by its kind. Lost checkout context is not an
// error for the browser: it is told to start over.
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, checkout.ErrOperationInFlight), errors.Is(err, checkout.ErrStaleResponse):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Kind: "conflict"})
	case apperrors.IsKind(err, apperrors.KindMissingContext):
		return c.JSON(http.StatusOK, redirectResponse{Redirect: checkout.Navigation{Redirect: true, Path: checkout.PathStart}})
	}

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		logger.Error("unexpected checkout failure", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong, please try again"})
	}

	if appErr.Kind == apperrors.KindNetwork {
		logger.Error("checkout backend failure", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(statusOf(appErr.Kind), errorResponse{
		Error:   apperrors.Message(err),
		Kind:    appErr.Kind.String(),
		Code:    appErr.Code,
		Section: appErr.Section,
		Fields:  appErr.Fields,
	})
}
