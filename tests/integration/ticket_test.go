//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/siriwat/tickethub/internal/auth"
	"github.com/siriwat/tickethub/internal/payment"
	"github.com/siriwat/tickethub/internal/repository"
	"github.com/siriwat/tickethub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var organizer = auth.Caller{CustomerID: "org-1", Role: auth.RoleOrganizer}

func TestTicketCheckIn(t *testing.T) {
	cleanTables()
	_, category := createTestEvent(t, "Concert A", 100, 50)
	bookingSvc := newBookingService()
	ticketSvc := service.NewTicketService(repository.NewTicketRepository(testDB))
	ctx := context.Background()

	booking, err := bookingSvc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	ticketNumber := booking.Details[0].Tickets[0].TicketNumber

	// Pending booking: tickets are not yet valid for entry.
	_, err = ticketSvc.CheckIn(ctx, organizer, ticketNumber)
	require.ErrorIs(t, err, service.ErrTicketNotValid)

	_, err = bookingSvc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)

	ticket, err := ticketSvc.CheckIn(ctx, organizer, ticketNumber)
	require.NoError(t, err)
	assert.True(t, ticket.IsUsed)

	// Second scan of the same ticket is rejected.
	_, err = ticketSvc.CheckIn(ctx, organizer, ticketNumber)
	require.ErrorIs(t, err, service.ErrTicketAlreadyUsed)

	// Customers cannot run the gate scan.
	_, err = ticketSvc.CheckIn(ctx, customer, booking.Details[0].Tickets[1].TicketNumber)
	require.ErrorIs(t, err, service.ErrForbidden)
}

func TestEventSalesSummary(t *testing.T) {
	cleanTables()
	event, category := createTestEvent(t, "Concert A", 100, 50)
	bookingSvc := newBookingService()
	reportRepo := repository.NewReportRepository(testDB)
	ctx := context.Background()

	booking, err := bookingSvc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 3}}, "")
	require.NoError(t, err)
	_, err = bookingSvc.ConfirmPayment(ctx, customer, booking.ID, payment.TestCardVisaApprove)
	require.NoError(t, err)

	// A second booking left pending must not count as sold.
	_, err = bookingSvc.CreateBooking(ctx, customer, category.EventID,
		[]service.BookingLine{{CategoryID: category.ID, Quantity: 2}}, "")
	require.NoError(t, err)

	summary, err := reportRepo.EventSales(ctx, event.ID)
	require.NoError(t, err)

	assert.Equal(t, event.ID, summary.EventID)
	require.Len(t, summary.Categories, 1)
	assert.Equal(t, 3, summary.Categories[0].SoldQuantity)
	assert.Equal(t, float64(150), summary.Categories[0].Revenue)
	assert.Equal(t, 97, summary.Categories[0].AvailableQuantity)
	assert.Equal(t, 3, summary.TotalSold)
	assert.Equal(t, float64(150), summary.TotalRevenue)
}
