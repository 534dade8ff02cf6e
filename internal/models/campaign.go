package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PromotionalCampaign is a time-boxed, usage-capped discount code.
type PromotionalCampaign struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"`
	Name          string       `json:"name,omitempty"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`
	StartsAt      time.Time    `gorm:"not null" json:"starts_at"`
	EndsAt        time.Time    `gorm:"not null" json:"ends_at"`
	MaxUsage      int          `gorm:"not null" json:"max_usage"`
	CurrentUsage  int          `gorm:"not null;default:0" json:"current_usage"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
