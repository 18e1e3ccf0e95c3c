package checkout

import (
	"fmt"

	"github.com/claycraft/shop/internal/models"
)

// All amounts are integer paise. Conversion to rupees happens only at the
// transport boundary.
const (
	MaxQuantityPerLine = 10

	FreeShippingThresholdInPaise int64 = 200000
	FlatShippingFeeInPaise       int64 = 10000
)

type LineItem struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0,lte=10"`
}

type PricedLine struct {
	Product          models.Product
	Quantity         int
	UnitPriceInPaise int64
	LineTotalInPaise int64
}

type Quote struct {
	Lines           []PricedLine
	SubtotalInPaise int64
	ShippingInPaise int64
	TotalInPaise    int64
}

// ShippingFor returns the flat shipping fee, waived once the subtotal reaches
// the free-shipping threshold.
func ShippingFor(subtotalInPaise int64) int64 {
	if subtotalInPaise >= FreeShippingThresholdInPaise {
		return 0
	}
	return FlatShippingFeeInPaise
}

// PriceCart maps line items plus a snapshot of the referenced products to a
// priced quote. It is pure: callers pass in product state and no store access
// happens here, so the cart-validation preview and the checkout transaction
// share one implementation.
func PriceCart(items []LineItem, products map[uint]models.Product) (*Quote, error) {
	quote := &Quote{Lines: make([]PricedLine, 0, len(items))}

	for _, item := range items {
		if item.Quantity <= 0 || item.Quantity > MaxQuantityPerLine {
			return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, MaxQuantityPerLine)
		}

		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			return nil, &ProductUnavailableError{ProductID: item.ProductID}
		}

		if item.Quantity > product.Stock {
			return nil, &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.Stock,
			}
		}

		lineTotal := product.PriceInPaise * int64(item.Quantity)
		quote.Lines = append(quote.Lines, PricedLine{
			Product:          product,
			Quantity:         item.Quantity,
			UnitPriceInPaise: product.PriceInPaise,
			LineTotalInPaise: lineTotal,
		})
		quote.SubtotalInPaise += lineTotal
	}

	quote.ShippingInPaise = ShippingFor(quote.SubtotalInPaise)
	quote.TotalInPaise = quote.SubtotalInPaise + quote.ShippingInPaise

	return quote, nil
}
