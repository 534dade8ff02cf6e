package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/middleware"
	"github.com/siriwat/tickethub/internal/service"
)

// httpError maps service errors onto HTTP status codes. Unexpected errors
// are logged with context and surface as a generic 500 so no database detail
// reaches the client.
func httpError(err error, context string) *echo.HTTPError {
	var inventory *service.InsufficientInventoryError
	switch {
	case errors.As(err, &inventory):
		return echo.NewHTTPError(http.StatusConflict, inventory.Error())
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrNoLineItems),
		errors.Is(err, service.ErrEventNotOnSale):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrTicketAlreadyUsed),
		errors.Is(err, service.ErrTicketNotValid):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPaymentDeclined):
		return echo.NewHTTPError(http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		log.Printf("[handler] %s: %v", context, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func requireCaller(c echo.Context) (auth.Caller, *echo.HTTPError) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return auth.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return caller, nil
}
