package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/dto"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/service"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(public, protected *echo.Group) {
	public.GET("/events", h.ListEvents)
	public.GET("/events/:id", h.GetEvent)

	protected.POST("/events", h.CreateEvent)
	protected.POST("/events/:id/publish", h.PublishEvent)
	protected.POST("/events/:id/cancel", h.CancelEvent)
	protected.GET("/events/:id/sales", h.SalesSummary)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Venue == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and venue are required")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "ends_at must be after starts_at")
	}
	if len(req.Categories) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one ticket category is required")
	}
	for _, cat := range req.Categories {
		if cat.Name == "" || cat.TotalQuantity <= 0 || cat.UnitPrice < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "each category needs a name, total_quantity > 0 and a non-negative unit_price")
		}
	}

	event := &models.Event{
		Name:        req.Name,
		Venue:       req.Venue,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	for _, cat := range req.Categories {
		event.Categories = append(event.Categories, models.TicketCategory{
			Name:          cat.Name,
			UnitPrice:     cat.UnitPrice,
			TotalQuantity: cat.TotalQuantity,
		})
	}

	if err := h.svc.CreateEvent(c.Request().Context(), caller, event); err != nil {
		return httpError(err, "create event")
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) PublishEvent(c echo.Context) error {
	return h.transition(c, h.svc.PublishEvent, "publish event")
}

func (h *EventHandler) CancelEvent(c echo.Context) error {
	return h.transition(c, h.svc.CancelEvent, "cancel event")
}

func (h *EventHandler) transition(c echo.Context, fn func(ctx context.Context, caller auth.Caller, id uint) error, action string) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	if err := fn(c.Request().Context(), caller, uint(id)); err != nil {
		return httpError(err, action)
	}

	event, err := h.svc.GetEvent(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err, action)
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.GetEvent(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err, "get event")
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListPublishedEvents(c.Request().Context())
	if err != nil {
		return httpError(err, "list events")
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) SalesSummary(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	summary, err := h.svc.SalesSummary(c.Request().Context(), caller, uint(id))
	if err != nil {
		return httpError(err, "sales summary")
	}

	return c.JSON(http.StatusOK, summary)
}
