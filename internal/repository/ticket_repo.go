package repository

import (
	"context"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
)

type TicketRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, tickets []models.Ticket) error
	FindByNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error)
	FindBookingForTicket(ctx context.Context, ticketID uint) (*models.Booking, error)
	MarkUsed(ctx context.Context, ticketID uint) (bool, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) CreateBatch(ctx context.Context, tx *gorm.DB, tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&tickets).Error
}

func (r *ticketRepository) FindByNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Where("ticket_number = ?", ticketNumber).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) FindBookingForTicket(ctx context.Context, ticketID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Joins("JOIN booking_details ON booking_details.booking_id = bookings.id").
		Joins("JOIN tickets ON tickets.booking_detail_id = booking_details.id").
		Where("tickets.id = ?", ticketID).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// MarkUsed flips is_used exactly once; a second scan of the same ticket
// affects zero rows and reports false.
func (r *ticketRepository) MarkUsed(ctx context.Context, ticketID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND is_used = ?", ticketID, false).
		Update("is_used", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
