package repository

import (
	"context"

	"github.com/siriwat/tickethub/internal/models"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDWithCategories(ctx context.Context, id uint) (*models.Event, error)
	FindPublished(ctx context.Context) ([]models.Event, error)
	UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByIDWithCategories(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Preload("Categories").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindPublished(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("status = ?", models.EventPublished).
		Order("starts_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uint, status models.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status).Error
}
