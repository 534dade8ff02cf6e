package repository

import (
	"context"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
)

// CategorySales is one row of an event sales summary.
type CategorySales struct {
	CategoryID        uint    `json:"category_id"`
	CategoryName      string  `json:"category_name"`
	TotalQuantity     int     `json:"total_quantity"`
	AvailableQuantity int     `json:"available_quantity"`
	SoldQuantity      int     `json:"sold_quantity"`
	Revenue           float64 `json:"revenue"`
}

type EventSalesSummary struct {
	EventID      uint            `json:"event_id"`
	EventName    string          `json:"event_name"`
	Categories   []CategorySales `json:"categories"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue float64         `json:"total_revenue"`
}

type ReportRepository interface {
	EventSales(ctx context.Context, eventID uint) (*EventSalesSummary, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// EventSales aggregates sold quantity and revenue per category, counting only
// details of completed, active bookings.
func (r *reportRepository) EventSales(ctx context.Context, eventID uint) (*EventSalesSummary, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, err
	}

	var rows []CategorySales
	err := r.db.WithContext(ctx).
		Model(&models.TicketCategory{}).
		Select(`ticket_categories.id AS category_id,
			ticket_categories.name AS category_name,
			ticket_categories.total_quantity,
			ticket_categories.available_quantity,
			COALESCE(SUM(booking_details.quantity), 0) AS sold_quantity,
			COALESCE(SUM(booking_details.total_price), 0) AS revenue`).
		Joins(`LEFT JOIN booking_details ON booking_details.ticket_category_id = ticket_categories.id
			AND booking_details.booking_id IN (
				SELECT id FROM bookings WHERE payment_status = ? AND status = ?
			)`, models.PaymentCompleted, models.BookingActive).
		Where("ticket_categories.event_id = ?", eventID).
		Group("ticket_categories.id, ticket_categories.name, ticket_categories.total_quantity, ticket_categories.available_quantity").
		Order("ticket_categories.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &EventSalesSummary{
		EventID:    event.ID,
		EventName:  event.Name,
		Categories: rows,
	}
	for _, row := range rows {
		summary.TotalSold += row.SoldQuantity
		summary.TotalRevenue += row.Revenue
	}
	return summary, nil
}
