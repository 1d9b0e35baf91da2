package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoCostBasis     = errors.New("product has no cost basis")
)

// UnavailableError reports a product that is archived or soft-deleted and
// therefore may not appear on new orders.
type UnavailableError struct {
	ProductID int64
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("product %d is unavailable", e.ProductID)
}
