package service

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventNotOnSale        = errors.New("event is not open for booking")
	ErrCategoryNotFound      = errors.New("ticket category not found")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrNoLineItems           = errors.New("booking must contain at least one line item")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingNotPending     = errors.New("booking has already been processed")
	ErrBookingNotCancellable = errors.New("booking is already cancelled")
	ErrPaymentDeclined       = errors.New("payment was declined")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketAlreadyUsed     = errors.New("ticket has already been used")
	ErrTicketNotValid        = errors.New("ticket does not belong to a completed booking")
	ErrForbidden             = errors.New("caller is not allowed to perform this action")
)

// InsufficientInventoryError reports how many tickets were actually left so
// the message shown to the customer can include the count.
type InsufficientInventoryError struct {
	CategoryID uint
	Requested  int
	Available  int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for category %d: requested %d, only %d available",
		e.CategoryID, e.Requested, e.Available)
}
