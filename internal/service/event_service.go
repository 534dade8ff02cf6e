package service

import (
	"context"
	"errors"

	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/repository"
	"gorm.io/gorm"
)

type EventService interface {
	CreateEvent(ctx context.Context, caller auth.Caller, event *models.Event) error
	PublishEvent(ctx context.Context, caller auth.Caller, id uint) error
	CancelEvent(ctx context.Context, caller auth.Caller, id uint) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListPublishedEvents(ctx context.Context) ([]models.Event, error)
	SalesSummary(ctx context.Context, caller auth.Caller, eventID uint) (*repository.EventSalesSummary, error)
}

type eventService struct {
	eventRepo  repository.EventRepository
	reportRepo repository.ReportRepository
}

func NewEventService(eventRepo repository.EventRepository, reportRepo repository.ReportRepository) EventService {
	return &eventService{eventRepo: eventRepo, reportRepo: reportRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, caller auth.Caller, event *models.Event) error {
	if !caller.CanManageEvents() {
		return ErrForbidden
	}

	event.Status = models.EventDraft
	event.OrganizerID = caller.CustomerID
	for i := range event.Categories {
		event.Categories[i].AvailableQuantity = event.Categories[i].TotalQuantity
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) PublishEvent(ctx context.Context, caller auth.Caller, id uint) error {
	return s.transition(ctx, caller, id, models.EventPublished)
}

func (s *eventService) CancelEvent(ctx context.Context, caller auth.Caller, id uint) error {
	return s.transition(ctx, caller, id, models.EventCancelled)
}

func (s *eventService) transition(ctx context.Context, caller auth.Caller, id uint, status models.EventStatus) error {
	if !caller.CanManageEvents() {
		return ErrForbidden
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.OrganizerID != caller.CustomerID && !caller.IsAdmin() {
		return ErrForbidden
	}
	return s.eventRepo.UpdateStatus(ctx, id, status)
}

func (s *eventService) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByIDWithCategories(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListPublishedEvents(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.FindPublished(ctx)
}

func (s *eventService) SalesSummary(ctx context.Context, caller auth.Caller, eventID uint) (*repository.EventSalesSummary, error) {
	if !caller.CanManageEvents() {
		return nil, ErrForbidden
	}

	summary, err := s.reportRepo.EventSales(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return summary, nil
}
