package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/claycraft/shop/internal/models"
	"github.com/claycraft/shop/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// GetOrder handles GET /api/orders/:orderNumber. The customer email is masked
// because the lookup is unauthenticated.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderNumber := c.Param("orderNumber")

	var order models.Order
	err := h.DB.WithContext(c.Request().Context()).
		Preload("Items.Product.Images").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Order not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to fetch order")
	}

	return respondOK(c, http.StatusOK, orderToView(&order, true))
}

type adminOrderView struct {
	ID            uint       `json:"id"`
	OrderNumber   string     `json:"order_number"`
	Status        string     `json:"status"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	TotalAmount   float64    `json:"total_amount"`
	ItemCount     int        `json:"item_count"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	OrderDate     time.Time  `json:"order_date"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	var orders []models.Order
	err := h.DB.WithContext(c.Request().Context()).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
	}

	views := make([]adminOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, adminOrderView{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			Status:        order.Status,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			CustomerPhone: order.CustomerPhone,
			TotalAmount:   paiseToRupees(order.TotalInPaise),
			ItemCount:     len(order.Items),
			PaymentMethod: order.PaymentMethod,
			PaymentStatus: order.PaymentStatus,
			OrderDate:     order.CreatedAt,
			DeliveryDate:  order.DeliveryDate,
		})
	}

	return respondOK(c, http.StatusOK, views)
}

// UpdateOrder handles PUT /api/admin/orders/:id. Creation is the engine's job;
// every later lifecycle transition goes through here.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status        *string    `json:"status"         validate:"omitempty,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED REFUNDED"`
		PaymentStatus *string    `json:"payment_status" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
		DeliveryDate  *time.Time `json:"delivery_date"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, http.StatusNotFound, "Order not found")
		}
		return respondError(c, http.StatusInternalServerError, "Failed to fetch order")
	}

	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		order.PaymentStatus = *req.PaymentStatus
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
	}

	if err := h.DB.Save(&order).Error; err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to update order")
	}

	h.publish(c, map[string]any{
		"type":           "order_updated",
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Order updated successfully",
		Data: map[string]any{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
		},
	})
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx := c.Request().Context()
	if err := h.Producer.PublishEvent(ctx, "order_events", c.Param("id"), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
