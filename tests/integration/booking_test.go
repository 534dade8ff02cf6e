//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/models"
	"github.com/siriwat/tickethub/internal/payment"
	"github.com/siriwat/tickethub/internal/repository"
	"github.com/siriwat/tickethub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customer = auth.Caller{CustomerID: "cust-1", Role: auth.RoleCustomer}

func createTestEvent(t *testing.T, name string, total int, price float64) (*models.Event, *models.TicketCategory) {
	t.Helper()
	event := &models.Event{
		Name:     name,
		Venue:    "Impact Arena",
		StartsAt: time.Now().Add(24 * time.Hour),
		EndsAt:   time.Now().Add(28 * time.Hour),
		Status:   models.EventPublished,
	}
	require.NoError(t, testDB.Create(event).Error)

	category := &models.TicketCategory{
		EventID:           event.ID,
		Name:              "GA",
		UnitPrice:         price,
		TotalQuantity:     total,
		AvailableQuantity: total,
	}
	require.NoError(t, testDB.Create(category).Error)
	return event, category
}

func createTestCampaign(t *testing.T, code string, dtype models.DiscountType, value float64, maxUsage int) *models.PromotionalCampaign {
	t.Helper()
	campaign := &models.PromotionalCampaign{
		Code:          code,
		DiscountType:  dtype,
		DiscountValue: value,
		StartsAt:      time.Now().Add(-time.Hour),
		EndsAt:        time.Now().Add(time.Hour),
		MaxUsage:      maxUsage,
	}
	require.NoError(t, testDB.Create(campaign).Error)
	return campaign
}

func newBookingService() service.BookingService {
	eventRepo := repository.NewEventRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)
	campaignRepo := repository.NewCampaignRepository(testDB)
	ticketRepo := repository.NewTicketRepository(testDB)
	discounts := service.NewDiscountResolver(campaignRepo)
	gateway := payment.NewSimulatedGateway(1.0, time.Millisecond, 2*time.Millisecond)
	return service.NewBookingService(bookingRepo, eventRepo, categoryRepo, campaignRepo, ticketRepo, discounts, gateway, nil)
}

func availableQuantity(t *testing.T, categoryID uint) int {
	t.Helper()
	var category models.TicketCategory
	require.NoError(t, testDB.First(&category, categoryID).Error)
	return category.AvailableQuantity
}

// Concert A scenario: 3 GA tickets at 50, no promo, confirm with an
// always-approve card.
func TestBookingFlow_NoPromo(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)

	assert.Equal(t, float64(150), booking.TotalAmount)
	assert.Equal(t, float64(0), booking.DiscountAmount)
	assert.Equal(t, float64(150), booking.FinalAmount)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)

	// Pending booking must not touch inventory.
	assert.Equal(t, 100, availableQuantity(t, category.ID))

	// One ticket per unit with derived numbers.
	require.Len(t, booking.Details, 1)
	require.Len(t, booking.Details[0].Tickets, 3)
	for _, ticket := range booking.Details[0].Tickets {
		assert.Contains(t, ticket.TicketNumber, booking.ReferenceCode)
		assert.Contains(t, ticket.QRPayload, booking.ReferenceCode)
		assert.False(t, ticket.IsUsed)
	}

	confirmed, err := svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, confirmed.PaymentStatus)
	assert.NotEmpty(t, confirmed.TransactionID)
	assert.Equal(t, 97, availableQuantity(t, category.ID))
}

func TestBookingFlow_PercentagePromo(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	campaign := createTestCampaign(t, "SAVE10", models.DiscountPercentage, 10, 100)
	svc := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "SAVE10")
	require.NoError(t, err)

	assert.Equal(t, float64(150), booking.TotalAmount)
	assert.Equal(t, float64(15), booking.DiscountAmount)
	assert.Equal(t, float64(135), booking.FinalAmount)

	confirmed, err := svc.ConfirmPayment(context.Background(), customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, confirmed.PaymentStatus)

	// Usage counter bumps exactly once per paid booking.
	var reloaded models.PromotionalCampaign
	require.NoError(t, testDB.First(&reloaded, campaign.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentUsage)
}

func TestBookingFlow_UnknownPromoProceedsUndiscounted(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "NOPE")
	require.NoError(t, err)

	assert.Equal(t, float64(0), booking.DiscountAmount)
	assert.Equal(t, float64(100), booking.FinalAmount)
}

func TestCreateBooking_InsufficientInventory(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Small Show", 2, 50)
	svc := newBookingService()

	_, err := svc.CreateBooking(context.Background(), customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 5}}, "")

	var inventoryErr *service.InsufficientInventoryError
	require.ErrorAs(t, err, &inventoryErr)
	assert.Equal(t, 2, inventoryErr.Available)
	assert.Contains(t, err.Error(), "2")
	assert.Equal(t, 2, availableQuantity(t, category.ID))
}

func TestConfirmPayment_Declined(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardDecline)
	require.ErrorIs(t, err, service.ErrPaymentDeclined)

	// Declined payment leaves the booking pending and inventory untouched.
	reloaded, err := svc.GetBooking(ctx, customer, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
	assert.Equal(t, 100, availableQuantity(t, category.ID))
}

func TestConfirmPayment_RepeatedConfirmFails(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.ErrorIs(t, err, service.ErrBookingNotPending)

	// Decremented exactly once.
	assert.Equal(t, 97, availableQuantity(t, category.ID))
}

func TestConfirmPayment_OtherCustomersBookingHidden(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 1}}, "")
	require.NoError(t, err)

	other := auth.Caller{CustomerID: "cust-2", Role: auth.RoleCustomer}
	_, err = svc.ConfirmPayment(ctx, other, booking.ID, payment.TestCardVisaApprove)
	require.ErrorIs(t, err, service.ErrBookingNotFound)
}

func TestCancelBooking_CompletedRestoresInventory(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)
	require.Equal(t, 97, availableQuantity(t, category.ID))

	cancelled, err := svc.CancelBooking(ctx, customer, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
	assert.Equal(t, 100, availableQuantity(t, category.ID))

	// Cancelling twice is rejected.
	_, err = svc.CancelBooking(ctx, customer, booking.ID)
	require.ErrorIs(t, err, service.ErrBookingNotCancellable)
	assert.Equal(t, 100, availableQuantity(t, category.ID))
}

func TestCancelBooking_PendingLeavesInventory(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, customer, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentPending, cancelled.PaymentStatus)
	assert.Equal(t, 100, availableQuantity(t, category.ID))
}

// Two pending bookings race to confirm the last tickets; the conditional
// decrement must let exactly one through.
func TestConcurrentConfirm_NoOversell(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Scarce Show", 3, 50)
	svc := newBookingService()
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	other := auth.Caller{CustomerID: "cust-2", Role: auth.RoleCustomer}
	second, err := svc.CreateBooking(ctx, other, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.ConfirmPayment(ctx, customer, first.ID, payment.TestCardVisaApprove)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.ConfirmPayment(ctx, other, second.ID, payment.TestCardVisaApprove)
	}()
	wg.Wait()

	var succeeded, short int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var inventoryErr *service.InsufficientInventoryError
		if errors.As(err, &inventoryErr) {
			short++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, short)
	assert.Equal(t, 1, availableQuantity(t, category.ID))
}

// Two simultaneous confirmations of the same booking: the row lock serializes
// them, the loser sees a booking that is no longer pending, and inventory is
// decremented exactly once.
func TestConcurrentConfirm_SameBookingDecrementsOnce(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrBookingNotPending):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 98, availableQuantity(t, category.ID))

	reloaded, err := svc.GetBooking(ctx, customer, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, reloaded.PaymentStatus)
}

// A cancel racing a confirmation must not leave a cancelled booking holding
// decremented inventory or a completed booking marked cancelled as pending.
func TestConcurrentCancelAndConfirm_Consistent(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	svc := newBookingService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var confirmErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, confirmErr = svc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = svc.CancelBooking(ctx, customer, booking.ID)
	}()
	wg.Wait()

	reloaded, err := svc.GetBooking(ctx, customer, booking.ID)
	require.NoError(t, err)
	available := availableQuantity(t, category.ID)

	switch {
	case confirmErr == nil && cancelErr == nil:
		// Confirm committed first, then the cancel refunded it.
		assert.Equal(t, models.BookingCancelled, reloaded.Status)
		assert.Equal(t, models.PaymentRefunded, reloaded.PaymentStatus)
		assert.Equal(t, 100, available)
	case confirmErr == nil:
		// Cancelling a completed booking succeeds, so the cancel cannot
		// fail once the confirm has committed.
		t.Fatalf("cancel failed while confirm succeeded: %v", cancelErr)
	case cancelErr == nil:
		// Cancel committed first; the confirm found it no longer pending
		// and inventory was never decremented.
		require.ErrorIs(t, confirmErr, service.ErrBookingNotPending)
		assert.Equal(t, models.BookingCancelled, reloaded.Status)
		assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
		assert.Equal(t, 100, available)
	default:
		t.Fatalf("both operations failed: confirm=%v cancel=%v", confirmErr, cancelErr)
	}
}
