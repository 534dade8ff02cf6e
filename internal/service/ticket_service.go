package service

import (
	"context"
	"errors"

	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/repository"
	"gorm.io/gorm"
)

type TicketService interface {
	CheckIn(ctx context.Context, caller auth.Caller, ticketNumber string) (*models.Ticket, error)
}

type ticketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo}
}

// CheckIn marks a ticket used exactly once. The ticket must belong to a
// completed, active booking; gate staff (organizer/admin) perform the scan.
func (s *ticketService) CheckIn(ctx context.Context, caller auth.Caller, ticketNumber string) (*models.Ticket, error) {
	if !caller.CanManageEvents() {
		return nil, ErrForbidden
	}

	ticket, err := s.ticketRepo.FindByNumber(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	booking, err := s.ticketRepo.FindBookingForTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus != models.PaymentCompleted || booking.Status != models.BookingActive {
		return nil, ErrTicketNotValid
	}

	used, err := s.ticketRepo.MarkUsed(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, ErrTicketAlreadyUsed
	}

	ticket.IsUsed = true
	return ticket, nil
}
