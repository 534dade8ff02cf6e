package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/payment"
	"github.com/siriwat/tickethub/internal/repository"
	"gorm.io/gorm"
)

// BookingLine is one requested category+quantity pair.
type BookingLine struct {
	CategoryID uint
	Quantity   int
}

// Publisher decouples the orchestrator from the message broker. Publishing
// is fire-and-forget relative to the payment commit.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, caller auth.Caller, eventID uint, lines []BookingLine, promoCode string) (*models.Booking, error)
	ConfirmPayment(ctx context.Context, caller auth.Caller, bookingID uint, cardNumber string) (*models.Booking, error)
	CancelBooking(ctx context.Context, caller auth.Caller, bookingID uint) (*models.Booking, error)
	GetBooking(ctx context.Context, caller auth.Caller, id uint) (*models.Booking, error)
	ListCustomerBookings(ctx context.Context, caller auth.Caller) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	eventRepo    repository.EventRepository
	categoryRepo repository.CategoryRepository
	campaignRepo repository.CampaignRepository
	ticketRepo   repository.TicketRepository
	discounts    DiscountResolver
	gateway      payment.Gateway
	publisher    Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	eventRepo repository.EventRepository,
	categoryRepo repository.CategoryRepository,
	campaignRepo repository.CampaignRepository,
	ticketRepo repository.TicketRepository,
	discounts DiscountResolver,
	gateway payment.Gateway,
	publisher Publisher,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		campaignRepo: campaignRepo,
		ticketRepo:   ticketRepo,
		discounts:    discounts,
		gateway:      gateway,
		publisher:    publisher,
	}
}

// CreateBooking validates the request, quotes the discount and persists the
// booking with its details and tickets in pending state. Inventory is only
// checked optimistically here; the authoritative check and the decrement
// happen at payment confirmation.
func (s *bookingService) CreateBooking(ctx context.Context, caller auth.Caller, eventID uint, lines []BookingLine, promoCode string) (*models.Booking, error) {
	if len(lines) == 0 {
		return nil, ErrNoLineItems
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Status != models.EventPublished || time.Now().After(event.EndsAt) {
		return nil, ErrEventNotOnSale
	}

	var total float64
	details := make([]models.BookingDetail, 0, len(lines))
	for _, line := range lines {
		category, err := s.categoryRepo.FindByID(ctx, line.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		if category.EventID != eventID {
			return nil, ErrCategoryNotFound
		}
		// Optimistic availability check for early feedback only.
		if category.AvailableQuantity < line.Quantity {
			return nil, &InsufficientInventoryError{
				CategoryID: category.ID,
				Requested:  line.Quantity,
				Available:  category.AvailableQuantity,
			}
		}

		linePrice := category.UnitPrice * float64(line.Quantity)
		total += linePrice
		details = append(details, models.BookingDetail{
			TicketCategoryID: category.ID,
			Quantity:         line.Quantity,
			UnitPrice:        category.UnitPrice,
			TotalPrice:       linePrice,
		})
	}

	discount, campaign, err := s.discounts.Resolve(ctx, promoCode, total)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ReferenceCode:  newReferenceCode(),
		CustomerID:     caller.CustomerID,
		EventID:        eventID,
		TotalAmount:    total,
		DiscountAmount: discount,
		FinalAmount:    total - discount,
		PaymentStatus:  models.PaymentPending,
		Status:         models.BookingActive,
		Details:        details,
	}
	if campaign != nil {
		booking.CampaignID = &campaign.ID
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		// One ticket per unit; numbers derive from the persisted detail ids,
		// the QR payload from the booking reference and a running sequence.
		var tickets []models.Ticket
		seq := 0
		for _, detail := range booking.Details {
			for i := 0; i < detail.Quantity; i++ {
				seq++
				tickets = append(tickets, models.Ticket{
					BookingDetailID: detail.ID,
					TicketNumber:    fmt.Sprintf("%s-%d-%d", booking.ReferenceCode, detail.ID, seq),
					QRPayload:       fmt.Sprintf("%s-%d", booking.ReferenceCode, seq),
				})
			}
		}
		return s.ticketRepo.CreateBatch(ctx, tx, tickets)
	})
	if err != nil {
		return nil, err
	}

	return s.bookingRepo.FindByID(ctx, booking.ID)
}

// ConfirmPayment drives the commit sequence: authoritative inventory check,
// gateway authorization, then one atomic transaction for status change,
// inventory decrement and promo usage. The gateway call deliberately happens
// before the transaction opens so row locks are never held across the
// simulated network delay; the transaction re-verifies the booking is still
// pending under FOR UPDATE, which makes repeated confirmations fail instead
// of double-decrementing.
func (s *bookingService) ConfirmPayment(ctx context.Context, caller auth.Caller, bookingID uint, cardNumber string) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.CustomerID != caller.CustomerID {
		return nil, ErrBookingNotFound
	}
	if booking.Status != models.BookingActive || booking.PaymentStatus != models.PaymentPending {
		return nil, ErrBookingNotPending
	}

	// Authoritative pre-check: fail fast with the current count before
	// charging the card. The decrement below re-verifies atomically.
	for _, detail := range booking.Details {
		category, err := s.categoryRepo.FindByID(ctx, detail.TicketCategoryID)
		if err != nil {
			return nil, err
		}
		if category.AvailableQuantity < detail.Quantity {
			return nil, &InsufficientInventoryError{
				CategoryID: category.ID,
				Requested:  detail.Quantity,
				Available:  category.AvailableQuantity,
			}
		}
	}

	authz, err := s.gateway.Authorize(ctx, cardNumber, booking.FinalAmount)
	if err != nil {
		return nil, fmt.Errorf("payment authorization: %w", err)
	}
	if !authz.Approved {
		return nil, ErrPaymentDeclined
	}

	err = s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if locked.Status != models.BookingActive || locked.PaymentStatus != models.PaymentPending {
			return ErrBookingNotPending
		}

		details, err := s.bookingRepo.FindDetails(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		for _, detail := range details {
			ok, err := s.categoryRepo.DecrementAvailable(ctx, tx, detail.TicketCategoryID, detail.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				category, err := s.categoryRepo.FindByIDForUpdate(ctx, tx, detail.TicketCategoryID)
				if err != nil {
					return err
				}
				return &InsufficientInventoryError{
					CategoryID: detail.TicketCategoryID,
					Requested:  detail.Quantity,
					Available:  category.AvailableQuantity,
				}
			}
		}

		completed, err := s.bookingRepo.MarkCompleted(ctx, tx, bookingID, maskCard(cardNumber), authz.TransactionID)
		if err != nil {
			return err
		}
		if !completed {
			return ErrBookingNotPending
		}

		if locked.CampaignID != nil {
			if err := s.campaignRepo.IncrementUsage(ctx, tx, *locked.CampaignID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	confirmed, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Notification must not roll back a completed payment; a publish failure
	// is logged and the caller still gets a confirmed booking.
	if s.publisher != nil {
		if err := s.publisher.Publish("booking.confirmed", confirmed); err != nil {
			log.Printf("[booking] failed to publish confirmation for booking %d: %v", bookingID, err)
		}
	}

	return confirmed, nil
}

// CancelBooking releases inventory for completed bookings and marks the
// booking cancelled. Pending bookings never touched inventory, so there is
// nothing to restore.
func (s *bookingService) CancelBooking(ctx context.Context, caller auth.Caller, bookingID uint) (*models.Booking, error) {
	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.CustomerID != caller.CustomerID && !caller.IsAdmin() {
			return ErrBookingNotFound
		}
		if booking.Status != models.BookingActive {
			return ErrBookingNotCancellable
		}

		paymentStatus := booking.PaymentStatus
		if booking.PaymentStatus == models.PaymentCompleted {
			details, err := s.bookingRepo.FindDetails(ctx, tx, bookingID)
			if err != nil {
				return err
			}
			for _, detail := range details {
				if err := s.categoryRepo.IncrementAvailable(ctx, tx, detail.TicketCategoryID, detail.Quantity); err != nil {
					return err
				}
			}
			paymentStatus = models.PaymentRefunded
		}

		cancelled, err := s.bookingRepo.MarkCancelled(ctx, tx, bookingID, paymentStatus)
		if err != nil {
			return err
		}
		if !cancelled {
			return ErrBookingNotCancellable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish("booking.cancelled", cancelled); err != nil {
			log.Printf("[booking] failed to publish cancellation for booking %d: %v", bookingID, err)
		}
	}

	return cancelled, nil
}

func (s *bookingService) GetBooking(ctx context.Context, caller auth.Caller, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.CustomerID != caller.CustomerID && !caller.IsAdmin() {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, caller auth.Caller) ([]models.Booking, error) {
	return s.bookingRepo.FindByCustomer(ctx, caller.CustomerID)
}

func newReferenceCode() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func maskCard(cardNumber string) string {
	if len(cardNumber) < 4 {
		return "card"
	}
	return "card ****" + cardNumber[len(cardNumber)-4:]
}
