package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/dto"
	"github.com/siriwat/tickethub/internal/service"
)

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(svc service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func (h *TicketHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/tickets/checkin", h.CheckIn)
}

func (h *TicketHandler) CheckIn(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.TicketNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ticket_number is required")
	}

	ticket, err := h.svc.CheckIn(c.Request().Context(), caller, req.TicketNumber)
	if err != nil {
		return httpError(err, "ticket check-in")
	}

	return c.JSON(http.StatusOK, dto.TicketResponse{
		TicketNumber: ticket.TicketNumber,
		QRPayload:    ticket.QRPayload,
		IsUsed:       ticket.IsUsed,
	})
}
