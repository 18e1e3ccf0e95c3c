package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/claycraft/shop/internal/models"
)

type CustomerInfo struct {
	Name  string `json:"name"  validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10"`
}

type ShippingAddress struct {
	Address string `json:"address" validate:"required,min=5"`
	City    string `json:"city"    validate:"required,min=2"`
	State   string `json:"state"`
	Pincode string `json:"pincode" validate:"required,min=5"`
}

type CheckoutRequest struct {
	CustomerInfo    CustomerInfo    `json:"customer_info"    validate:"required"`
	ShippingAddress ShippingAddress `json:"shipping_address" validate:"required"`
	Items           []LineItem      `json:"items"            validate:"required,min=1,dive"`
	PaymentMethod   string          `json:"payment_method"   validate:"required,oneof=COD MOCK_UPI MOCK_CARD"`
}

type Service struct {
	DB *gorm.DB

	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, now: time.Now}
}

// No real payment capture happens here: cash on delivery stays pending, the
// mock methods are treated as settled.
func paymentStatusFor(method string) string {
	if method == models.PaymentMethodCOD {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusPaid
}

// PlaceOrder converts a validated cart into a persisted order inside a single
// transaction: re-read product state, price it, conditionally decrement stock
// per line, insert the order with its items. Any failure rolls the whole
// attempt back. A unique-index collision on the generated order number retries
// once with a fresh number before surfacing ErrDuplicateOrderNumber.
func (s *Service) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	const maxAttempts = 2

	var order *models.Order
	for attempt := 1; ; attempt++ {
		var err error
		order, err = s.placeOrderOnce(ctx, req, OrderNumber(s.now()))
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if attempt < maxAttempts {
				continue
			}
			return nil, fmt.Errorf("%w: collided twice", ErrDuplicateOrderNumber)
		}
		return nil, err
	}

	hydrated, err := s.orderByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload order: %v", ErrPersistence, err)
	}
	return hydrated, nil
}

func (s *Service) placeOrderOnce(ctx context.Context, req CheckoutRequest, orderNumber string) (*models.Order, error) {
	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := productsByID(tx, req.Items)
		if err != nil {
			return fmt.Errorf("%w: load products: %v", ErrPersistence, err)
		}

		quote, err := PriceCart(req.Items, products)
		if err != nil {
			return err
		}

		for _, line := range quote.Lines {
			if err := decrementStock(tx, line.Product.ID, line.Quantity); err != nil {
				return err
			}
		}

		items := make([]models.OrderItem, 0, len(quote.Lines))
		for _, line := range quote.Lines {
			items = append(items, models.OrderItem{
				ProductID:    line.Product.ID,
				Quantity:     line.Quantity,
				PriceInPaise: line.UnitPriceInPaise,
			})
		}

		order = models.Order{
			OrderNumber:     orderNumber,
			CustomerName:    req.CustomerInfo.Name,
			CustomerEmail:   req.CustomerInfo.Email,
			CustomerPhone:   req.CustomerInfo.Phone,
			ShippingAddress: req.ShippingAddress.Address,
			ShippingCity:    req.ShippingAddress.City,
			ShippingState:   req.ShippingAddress.State,
			ShippingPincode: req.ShippingAddress.Pincode,
			SubtotalInPaise: quote.SubtotalInPaise,
			ShippingInPaise: quote.ShippingInPaise,
			TotalInPaise:    quote.TotalInPaise,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   paymentStatusFor(req.PaymentMethod),
			Status:          models.OrderStatusPending,
			Items:           items,
		}
		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return fmt.Errorf("%w: create order: %v", ErrPersistence, err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &order, nil
}

// decrementStock is the oversell guard: a conditional update that only
// succeeds while enough stock remains, so two concurrent checkouts can never
// drive stock below zero regardless of interleaving.
func decrementStock(tx *gorm.DB, productID uint, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("%w: decrement stock: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		var current models.Product
		if err := tx.First(&current, productID).Error; err != nil {
			return &ProductUnavailableError{ProductID: productID}
		}
		return &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: current.Stock,
		}
	}
	return nil
}

func productsByID(tx *gorm.DB, items []LineItem) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *Service) orderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items.Product.Images").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
