package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/dto"
	"github.com/siriwat/tickethub/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/events/:id/bookings", h.CreateBooking)
	g.GET("/bookings", h.ListMyBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.POST("/bookings/:id/payment", h.ConfirmPayment)
	g.DELETE("/bookings/:id", h.CancelBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Lines) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one line item is required")
	}

	lines := make([]service.BookingLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = service.BookingLine{CategoryID: l.CategoryID, Quantity: l.Quantity}
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), caller, uint(eventID), lines, req.PromoCode)
	if err != nil {
		return httpError(err, "create booking")
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CardNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "card_number is required")
	}

	booking, err := h.svc.ConfirmPayment(c.Request().Context(), caller, uint(bookingID), req.CardNumber)
	if err != nil {
		return httpError(err, "confirm payment")
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), caller, uint(bookingID))
	if err != nil {
		return httpError(err, "cancel booking")
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), caller, uint(id))
	if err != nil {
		return httpError(err, "get booking")
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	bookings, err := h.svc.ListCustomerBookings(c.Request().Context(), caller)
	if err != nil {
		return httpError(err, "list bookings")
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}
	return c.JSON(http.StatusOK, resp)
}
