package repository

import (
	"context"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.TicketCategory, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TicketCategory, error)
	DecrementAvailable(ctx context.Context, tx *gorm.DB, id uint, quantity int) (bool, error)
	IncrementAvailable(ctx context.Context, tx *gorm.DB, id uint, quantity int) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*models.TicketCategory, error) {
	var category models.TicketCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByIDForUpdate acquires a row-level lock on the category within the given transaction.
func (r *categoryRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TicketCategory, error) {
	var category models.TicketCategory
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DecrementAvailable performs a single conditional decrement. It returns
// false when availability is short, leaving the row untouched; there is no
// read-then-write window for concurrent confirmations to race through.
func (r *categoryRepository) DecrementAvailable(ctx context.Context, tx *gorm.DB, id uint, quantity int) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.TicketCategory{}).
		Where("id = ? AND available_quantity >= ?", id, quantity).
		Update("available_quantity", gorm.Expr("available_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *categoryRepository) IncrementAvailable(ctx context.Context, tx *gorm.DB, id uint, quantity int) error {
	return tx.WithContext(ctx).
		Model(&models.TicketCategory{}).
		Where("id = ?", id).
		Update("available_quantity", gorm.Expr("available_quantity + ?", quantity)).Error
}
