package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/claycraft/shop/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: is its own database, so the pool
	// must be pinned to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB) models.Category {
	t.Helper()

	category := models.Category{
		Name:     "Mugs & Cups",
		Slug:     fmt.Sprintf("mugs-cups-%d", time.Now().UnixNano()),
		IsActive: true,
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceInPaise int64, stock int) models.Product {
	t.Helper()

	category := seedCategory(t, db)
	product := models.Product{
		Name:         name,
		Slug:         fmt.Sprintf("%s-%d", name, time.Now().UnixNano()),
		Description:  "hand-thrown stoneware",
		PriceInPaise: priceInPaise,
		Stock:        stock,
		IsActive:     true,
		CategoryID:   category.ID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func deactivate(t *testing.T, db *gorm.DB, productID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("is_active", false).Error)
}

func currentStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.Stock
}

func checkoutRequest(items []LineItem, paymentMethod string) CheckoutRequest {
	return CheckoutRequest{
		CustomerInfo: CustomerInfo{
			Name:  "Asha Verma",
			Email: "asha.verma@example.com",
			Phone: "9876543210",
		},
		ShippingAddress: ShippingAddress{
			Address: "14 Pottery Lane",
			City:    "Jaipur",
			State:   "Rajasthan",
			Pincode: "302001",
		},
		Items:         items,
		PaymentMethod: paymentMethod,
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "glazed-mug", 10000, 5)

	order, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 3}}, models.PaymentMethodCOD))
	require.NoError(t, err)

	assert.Regexp(t, `^CC-\d{8}-\d{6}$`, order.OrderNumber)
	assert.Equal(t, int64(30000), order.SubtotalInPaise)
	assert.Equal(t, FlatShippingFeeInPaise, order.ShippingInPaise)
	assert.Equal(t, int64(40000), order.TotalInPaise)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(10000), order.Items[0].PriceInPaise)
	assert.Equal(t, product.Name, order.Items[0].Product.Name)

	assert.Equal(t, 2, currentStock(t, db, product.ID))
}

func TestPlaceOrder_MockPaymentSettlesImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "tea-set", 50000, 4)

	order, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodMockUPI))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestPlaceOrder_FreeShippingAtThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "large-planter", FreeShippingThresholdInPaise, 2)

	order, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.ShippingInPaise)
	assert.Equal(t, order.SubtotalInPaise, order.TotalInPaise)
}

func TestPlaceOrder_InsufficientStockAfterEarlierOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "bud-vase", 10000, 5)

	_, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 3}}, models.PaymentMethodCOD))
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 3}}, models.PaymentMethodCOD))
	var outOfStock *InsufficientStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, product.ID, outOfStock.ProductID)
	assert.Equal(t, 3, outOfStock.Requested)
	assert.Equal(t, 2, outOfStock.Available)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
	assert.Equal(t, 2, currentStock(t, db, product.ID))
}

func TestPlaceOrder_InactiveProductRollsBackWholeCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	available := seedProduct(t, db, "dinner-plate", 15000, 10)
	retired := seedProduct(t, db, "discontinued-bowl", 12000, 10)
	deactivate(t, db, retired.ID)

	_, err := svc.PlaceOrder(context.Background(), checkoutRequest([]LineItem{
		{ProductID: available.ID, Quantity: 2},
		{ProductID: retired.ID, Quantity: 1},
	}, models.PaymentMethodCOD))

	var unavailable *ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, retired.ID, unavailable.ProductID)

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Equal(t, 10, currentStock(t, db, available.ID))
}

func TestPlaceOrder_PriceCapturedAtCheckout(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "serving-bowl", 20000, 5)

	order, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price_in_paise", 99999).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Equal(t, int64(20000), item.PriceInPaise)
}

func TestPlaceOrder_DuplicateOrderNumberRetriesOnce(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "spice-jar", 8000, 20)

	frozen := time.Date(2026, 5, 10, 12, 0, 0, 123_456_789, time.UTC)
	svc := &Service{DB: db, now: func() time.Time { return frozen }}

	_, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.NoError(t, err)

	// The frozen clock regenerates the same number, so the retry collides too.
	_, err = svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.ErrorIs(t, err, ErrDuplicateOrderNumber)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
	assert.Equal(t, 19, currentStock(t, db, product.ID))
}

func TestPlaceOrder_RetrySucceedsWithFreshNumber(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "butter-dish", 9000, 20)

	base := time.Date(2026, 5, 10, 12, 0, 0, 123_456_789, time.UTC)
	calls := 0
	svc := &Service{DB: db, now: func() time.Time {
		calls++
		if calls <= 2 {
			return base
		}
		return base.Add(time.Microsecond)
	}}

	first, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.NoError(t, err)

	second, err := svc.PlaceOrder(context.Background(), checkoutRequest(
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, 18, currentStock(t, db, product.ID))
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "limited-run-mug", 10000, 5)

	const buyers = 8
	results := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), checkoutRequest(
				[]LineItem{{ProductID: product.ID, Quantity: 1}}, models.PaymentMethodCOD))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var outOfStock *InsufficientStockError
		require.ErrorAs(t, err, &outOfStock)
		rejected++
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 3, rejected)
	assert.Equal(t, 0, currentStock(t, db, product.ID))

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 5, orderCount)
}

func TestValidateCart_EmptyCartIsValid(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	result, err := svc.ValidateCart(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.Issues)
}

func TestValidateCart_ReportsIssuesWithoutFailing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	popular := seedProduct(t, db, "everyday-cup", 10000, 3)
	scarce := seedProduct(t, db, "anniversary-vase", 40000, 1)

	items := []LineItem{
		{ProductID: popular.ID, Quantity: 2},
		{ProductID: scarce.ID, Quantity: 4},
		{ProductID: 9999, Quantity: 1},
	}

	result, err := svc.ValidateCart(context.Background(), items)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 2)
	require.Len(t, result.Items, 2)

	assert.True(t, result.Items[0].IsAvailable)
	assert.Equal(t, 3, result.Items[0].MaxQuantity)

	assert.False(t, result.Items[1].IsAvailable)
	assert.Equal(t, 1, result.Items[1].MaxQuantity)
	require.NotNil(t, result.Issues[0].AvailableStock)
	assert.Equal(t, 1, *result.Issues[0].AvailableStock)

	assert.Equal(t, uint(9999), result.Issues[1].ProductID)
	assert.Nil(t, result.Issues[1].AvailableStock)
}

func TestValidateCart_CapsMaxQuantityAtPerLineLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "bulk-tumbler", 5000, 50)

	result, err := svc.ValidateCart(context.Background(),
		[]LineItem{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, MaxQuantityPerLine, result.Items[0].MaxQuantity)
	assert.Equal(t, 50, result.Items[0].AvailableStock)
}

func TestValidateCart_DoesNotMutateStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db, "preview-bowl", 12000, 7)

	for i := 0; i < 3; i++ {
		result, err := svc.ValidateCart(context.Background(),
			[]LineItem{{ProductID: product.ID, Quantity: 2}})
		require.NoError(t, err)
		assert.True(t, result.Valid)
	}
	assert.Equal(t, 7, currentStock(t, db, product.ID))
}
