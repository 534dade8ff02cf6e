package repository

import (
	"context"
	"time"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.PromotionalCampaign) error
	FindByID(ctx context.Context, id uint) (*models.PromotionalCampaign, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.PromotionalCampaign, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, id uint) error
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.PromotionalCampaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepository) FindByID(ctx context.Context, id uint) (*models.PromotionalCampaign, error) {
	var campaign models.PromotionalCampaign
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindActiveByCode returns the campaign only when the code is inside its
// validity window and under its usage cap.
func (r *campaignRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.PromotionalCampaign, error) {
	var campaign models.PromotionalCampaign
	err := r.db.WithContext(ctx).
		Where("code = ? AND starts_at <= ? AND ends_at >= ? AND current_usage < max_usage", code, now, now).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// IncrementUsage bumps the usage counter conditionally; once the cap is
// reached the write is a no-op rather than an error, since the discount was
// already quoted when the booking was created.
func (r *campaignRepository) IncrementUsage(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.PromotionalCampaign{}).
		Where("id = ? AND current_usage < max_usage", id).
		Update("current_usage", gorm.Expr("current_usage + 1")).Error
}
