package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/dto"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/repository"
)

type CampaignHandler struct {
	repo repository.CampaignRepository
}

func NewCampaignHandler(repo repository.CampaignRepository) *CampaignHandler {
	return &CampaignHandler{repo: repo}
}

func (h *CampaignHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/campaigns", h.CreateCampaign)
}

func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	caller, he := requireCaller(c)
	if he != nil {
		return he
	}
	if !caller.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	var req dto.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" || req.MaxUsage <= 0 || req.DiscountValue <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "code, max_usage (>0) and discount_value (>0) are required")
	}
	discountType := models.DiscountType(req.DiscountType)
	if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
		return echo.NewHTTPError(http.StatusBadRequest, "discount_type must be 'percentage' or 'fixed'")
	}
	if discountType == models.DiscountPercentage && req.DiscountValue > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "percentage discount cannot exceed 100")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return echo.NewHTTPError(http.StatusBadRequest, "ends_at must be after starts_at")
	}

	campaign := &models.PromotionalCampaign{
		Code:          req.Code,
		Name:          req.Name,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		MaxUsage:      req.MaxUsage,
	}
	if err := h.repo.Create(c.Request().Context(), campaign); err != nil {
		return httpError(err, "create campaign")
	}

	return c.JSON(http.StatusCreated, dto.ToCampaignResponse(campaign))
}
