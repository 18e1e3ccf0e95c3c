package checkout

import (
	"context"
	"fmt"
)

type ValidatedItem struct {
	ProductID         uint   `json:"product_id"`
	ProductName       string `json:"product_name"`
	ProductSlug       string `json:"product_slug"`
	RequestedQuantity int    `json:"requested_quantity"`
	AvailableStock    int    `json:"available_stock"`
	PriceInPaise      int64  `json:"price_in_paise"`
	IsAvailable       bool   `json:"is_available"`
	MaxQuantity       int    `json:"max_quantity"`
}

type CartIssue struct {
	ProductID      uint   `json:"product_id"`
	Issue          string `json:"issue"`
	AvailableStock *int   `json:"available_stock,omitempty"`
}

type CartValidation struct {
	Items  []ValidatedItem `json:"items"`
	Valid  bool            `json:"valid"`
	Issues []CartIssue     `json:"issues"`
}

// ValidateCart previews the checkout outcome without mutating anything. Lines
// referencing missing or inactive products are reported as issues rather than
// failing the call, so the client can keep editing the cart.
func (s *Service) ValidateCart(ctx context.Context, items []LineItem) (*CartValidation, error) {
	result := &CartValidation{
		Items:  []ValidatedItem{},
		Issues: []CartIssue{},
	}
	if len(items) == 0 {
		result.Valid = true
		return result, nil
	}

	products, err := productsByID(s.DB.WithContext(ctx), items)
	if err != nil {
		return nil, fmt.Errorf("%w: load products: %v", ErrPersistence, err)
	}

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			result.Issues = append(result.Issues, CartIssue{
				ProductID: item.ProductID,
				Issue:     "Product not found or inactive",
			})
			continue
		}

		maxQuantity := product.Stock
		if maxQuantity > MaxQuantityPerLine {
			maxQuantity = MaxQuantityPerLine
		}

		result.Items = append(result.Items, ValidatedItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			ProductSlug:       product.Slug,
			RequestedQuantity: item.Quantity,
			AvailableStock:    product.Stock,
			PriceInPaise:      product.PriceInPaise,
			IsAvailable:       product.Stock >= item.Quantity,
			MaxQuantity:       maxQuantity,
		})

		if product.Stock < item.Quantity {
			available := product.Stock
			result.Issues = append(result.Issues, CartIssue{
				ProductID:      item.ProductID,
				Issue:          fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", product.Stock, item.Quantity),
				AvailableStock: &available,
			})
		}
	}

	result.Valid = len(result.Issues) == 0
	return result, nil
}
