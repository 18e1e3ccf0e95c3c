package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation")             // 400
	ErrDuplicateOrderNumber = errors.New("duplicate order number") // 503, retryable
	ErrPersistence          = errors.New("persistence failure")    // 500
)

// ProductUnavailableError reports a line item whose product is missing,
// inactive or deleted. The whole checkout aborts on the first one found.
type ProductUnavailableError struct {
	ProductID uint
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d not found or inactive", e.ProductID)
}

// InsufficientStockError carries the availability the caller needs to let the
// customer adjust the cart.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}
