package dto

import "time"

type BookingLineRequest struct {
	CategoryID uint `json:"category_id"`
	Quantity   int  `json:"quantity"`
}

type CreateBookingRequest struct {
	Lines     []BookingLineRequest `json:"lines"`
	PromoCode string               `json:"promo_code,omitempty"`
}

type ConfirmPaymentRequest struct {
	CardNumber string `json:"card_number"`
}

type CategoryRequest struct {
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	TotalQuantity int     `json:"total_quantity"`
}

type CreateEventRequest struct {
	Name        string            `json:"name"`
	Venue       string            `json:"venue"`
	Description string            `json:"description,omitempty"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      time.Time         `json:"ends_at"`
	Categories  []CategoryRequest `json:"categories"`
}

type CreateCampaignRequest struct {
	Code          string    `json:"code"`
	Name          string    `json:"name,omitempty"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	MaxUsage      int       `json:"max_usage"`
}

type CheckInRequest struct {
	TicketNumber string `json:"ticket_number"`
}
