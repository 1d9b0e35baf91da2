package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrLineNotFound    = errors.New("order line not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNothingToCancel = errors.New("no lines selected for cancellation")
)

// IllegalTransitionError reports a rejected payment status transition.
// The order state is left untouched when this is returned.
type IllegalTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}
