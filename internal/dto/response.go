package dto

import (
	"time"

	"github.com/siriwat/tickethub/internal/models"
)

type TicketResponse struct {
	TicketNumber string `json:"ticket_number"`
	QRPayload    string `json:"qr_payload"`
	IsUsed       bool   `json:"is_used"`
}

type BookingDetailResponse struct {
	CategoryID uint             `json:"category_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  float64          `json:"unit_price"`
	TotalPrice float64          `json:"total_price"`
	Tickets    []TicketResponse `json:"tickets,omitempty"`
}

type BookingResponse struct {
	ID             uint                    `json:"id"`
	ReferenceCode  string                  `json:"reference_code"`
	EventID        uint                    `json:"event_id"`
	CustomerID     string                  `json:"customer_id"`
	TotalAmount    float64                 `json:"total_amount"`
	DiscountAmount float64                 `json:"discount_amount"`
	FinalAmount    float64                 `json:"final_amount"`
	PaymentStatus  models.PaymentStatus    `json:"payment_status"`
	PaymentMethod  string                  `json:"payment_method,omitempty"`
	TransactionID  string                  `json:"transaction_id,omitempty"`
	Status         models.BookingStatus    `json:"status"`
	Details        []BookingDetailResponse `json:"details,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

type CategoryResponse struct {
	ID                uint    `json:"id"`
	Name              string  `json:"name"`
	UnitPrice         float64 `json:"unit_price"`
	TotalQuantity     int     `json:"total_quantity"`
	AvailableQuantity int     `json:"available_quantity"`
}

type EventResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Venue       string             `json:"venue"`
	Description string             `json:"description,omitempty"`
	StartsAt    time.Time          `json:"starts_at"`
	EndsAt      time.Time          `json:"ends_at"`
	Status      models.EventStatus `json:"status"`
	Categories  []CategoryResponse `json:"categories,omitempty"`
}

type CampaignResponse struct {
	ID            uint      `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name,omitempty"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	MaxUsage      int       `json:"max_usage"`
	CurrentUsage  int       `json:"current_usage"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:             b.ID,
		ReferenceCode:  b.ReferenceCode,
		EventID:        b.EventID,
		CustomerID:     b.CustomerID,
		TotalAmount:    b.TotalAmount,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.FinalAmount,
		PaymentStatus:  b.PaymentStatus,
		PaymentMethod:  b.PaymentMethod,
		TransactionID:  b.TransactionID,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
	}
	for _, d := range b.Details {
		detail := BookingDetailResponse{
			CategoryID: d.TicketCategoryID,
			Quantity:   d.Quantity,
			UnitPrice:  d.UnitPrice,
			TotalPrice: d.TotalPrice,
		}
		for _, t := range d.Tickets {
			detail.Tickets = append(detail.Tickets, TicketResponse{
				TicketNumber: t.TicketNumber,
				QRPayload:    t.QRPayload,
				IsUsed:       t.IsUsed,
			})
		}
		resp.Details = append(resp.Details, detail)
	}
	return resp
}

func ToCampaignResponse(c *models.PromotionalCampaign) CampaignResponse {
	return CampaignResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
		MaxUsage:      c.MaxUsage,
		CurrentUsage:  c.CurrentUsage,
	}
}

func ToEventResponse(e *models.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Venue:       e.Venue,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Status:      e.Status,
	}
	for _, c := range e.Categories {
		resp.Categories = append(resp.Categories, CategoryResponse{
			ID:                c.ID,
			Name:              c.Name,
			UnitPrice:         c.UnitPrice,
			TotalQuantity:     c.TotalQuantity,
			AvailableQuantity: c.AvailableQuantity,
		})
	}
	return resp
}
