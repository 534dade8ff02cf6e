package repository

import (
	"context"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByReference(ctx context.Context, reference string) (*models.Booking, error)
	FindByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	FindDetails(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.BookingDetail, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, bookingID uint, method, transactionID string) (bool, error)
	MarkCancelled(ctx context.Context, tx *gorm.DB, bookingID uint, payment models.PaymentStatus) (bool, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

// Create persists the booking together with its details and tickets in one
// insert graph.
func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Details.Tickets").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row; the payment commit re-checks the
// state under this lock so a repeated confirmation cannot double-decrement.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Details.Tickets").
		Where("reference_code = ?", reference).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Details").
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindDetails(ctx context.Context, tx *gorm.DB, bookingID uint) ([]models.BookingDetail, error) {
	var details []models.BookingDetail
	err := tx.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// MarkCompleted flips pending to completed as a conditional write. It returns
// false when the booking is no longer a pending active one, so a lost race
// with another confirmation or a cancel never produces a second completion.
func (r *bookingRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, bookingID uint, method, transactionID string) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND payment_status = ? AND status = ?", bookingID, models.PaymentPending, models.BookingActive).
		Updates(map[string]any{
			"payment_status": models.PaymentCompleted,
			"payment_method": method,
			"transaction_id": transactionID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkCancelled cancels an active booking as a conditional write; false means
// the booking was already cancelled.
func (r *bookingRepository) MarkCancelled(ctx context.Context, tx *gorm.DB, bookingID uint, payment models.PaymentStatus) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingActive).
		Updates(map[string]any{
			"status":         models.BookingCancelled,
			"payment_status": payment,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
