package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/repository"
	"gorm.io/gorm"
)

// DiscountResolver turns a promo code into a discount amount. An unknown,
// expired or exhausted code yields a zero discount, never an error; the
// booking proceeds undiscounted.
type DiscountResolver interface {
	Resolve(ctx context.Context, code string, total float64) (float64, *models.PromotionalCampaign, error)
}

type discountResolver struct {
	campaignRepo repository.CampaignRepository
}

func NewDiscountResolver(campaignRepo repository.CampaignRepository) DiscountResolver {
	return &discountResolver{campaignRepo: campaignRepo}
}

func (r *discountResolver) Resolve(ctx context.Context, code string, total float64) (float64, *models.PromotionalCampaign, error) {
	if code == "" {
		return 0, nil, nil
	}

	campaign, err := r.campaignRepo.FindActiveByCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, nil
		}
		return 0, nil, err
	}

	return ComputeDiscount(campaign, total), campaign, nil
}

// ComputeDiscount applies the campaign to a pre-discount total. The result
// never exceeds the total; a nil campaign yields no discount.
func ComputeDiscount(campaign *models.PromotionalCampaign, total float64) float64 {
	if campaign == nil {
		return 0
	}
	var discount float64
	switch campaign.DiscountType {
	case models.DiscountPercentage:
		discount = math.Round(total * campaign.DiscountValue / 100)
	case models.DiscountFixed:
		discount = campaign.DiscountValue
	default:
		return 0
	}

	return math.Min(discount, total)
}
