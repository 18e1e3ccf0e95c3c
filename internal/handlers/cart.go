package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/claycraft/shop/internal/logging"
	"github.com/claycraft/shop/internal/mykafka"
	"github.com/claycraft/shop/internal/service/checkout"
)

type CartHandler struct {
	CheckoutService *checkout.Service
	Producer *mykafka.Producer
}

type insufficientStockData struct {
	ProductID      uint `json:"product_id"`
	RequestedStock int  `json:"requested_quantity"`
	AvailableStock int  `json:"available_stock"`
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["order_number"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Checkout handles POST /api/cart/checkout. Business-rule failures map to the
// checkout error taxonomy; infrastructure detail is logged, never returned.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	var req checkout.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.CheckoutService.PlaceOrder(ctx, req)
	if err != nil {
		var unavailable *checkout.ProductUnavailableError
		var outOfStock *checkout.InsufficientStockError
		switch {
		case errors.As(err, &unavailable):
			l.Warn("checkout_rejected", "reason", "product_unavailable", "product_id", unavailable.ProductID)
			return c.JSON(http.StatusConflict, Response{
				Success: false,
				Message: err.Error(),
				Data:    map[string]any{"product_id": unavailable.ProductID},
			})
		case errors.As(err, &outOfStock):
			l.Warn("checkout_rejected", "reason", "insufficient_stock",
				"product_id", outOfStock.ProductID, "available", outOfStock.Available)
			return c.JSON(http.StatusConflict, Response{
				Success: false,
				Message: err.Error(),
				Data: insufficientStockData{
					ProductID:      outOfStock.ProductID,
					RequestedStock: outOfStock.Requested,
					AvailableStock: outOfStock.Available,
				},
			})
		case errors.Is(err, checkout.ErrValidation):
			return respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrDuplicateOrderNumber):
			l.Error("checkout_failed", "reason", "order_number_collision")
			return respondError(c, http.StatusServiceUnavailable, "Checkout failed, please retry")
		default:
			l.Error("checkout_failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Checkout failed")
		}
	}

	l.Info("checkout_success", "order_number", order.OrderNumber, "total_in_paise", order.TotalInPaise)
	h.publish(c, map[string]any{
		"type":         "order_created",
		"order_number": order.OrderNumber,
		"total":        order.TotalInPaise,
		"items":        len(order.Items),
	})

	return respondCreated(c, http.StatusCreated, "Order placed successfully", orderToView(order, false))
}

// ValidateCart handles POST /api/cart/validate. Business issues come back in
// the payload with an overall validity flag; only malformed input fails.
func (h *CartHandler) ValidateCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Items []checkout.LineItem `json:"items" validate:"dive"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.CheckoutService.ValidateCart(ctx, req.Items)
	if err != nil {
		logging.FromContext(ctx).Error("cart_validate_failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Cart validation failed")
	}

	var totalValue int64
	for _, item := range result.Items {
		if item.IsAvailable {
			totalValue += item.PriceInPaise * int64(item.RequestedQuantity)
		}
	}

	return respondOK(c, http.StatusOK, map[string]any{
		"items":  result.Items,
		"valid":  result.Valid,
		"issues": result.Issues,
		"summary": map[string]any{
			"total_items":  len(result.Items),
			"total_issues": len(result.Issues),
			"total_value":  paiseToRupees(totalValue),
		},
	})
}
