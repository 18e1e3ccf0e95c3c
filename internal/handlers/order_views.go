package handlers

import (
	"time"

	"github.com/claycraft/shop/internal/models"
)

type orderProductView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

type orderItemView struct {
	ID           uint             `json:"id"`
	Quantity     int              `json:"quantity"`
	Price        float64          `json:"price"`
	PriceInPaise int64            `json:"price_in_paise"`
	Total        float64          `json:"total"`
	TotalInPaise int64            `json:"total_in_paise"`
	Product      orderProductView `json:"product"`
}

type orderPricingView struct {
	Subtotal        float64 `json:"subtotal"`
	SubtotalInPaise int64   `json:"subtotal_in_paise"`
	Shipping        float64 `json:"shipping"`
	ShippingInPaise int64   `json:"shipping_in_paise"`
	Total           float64 `json:"total"`
	TotalInPaise    int64   `json:"total_in_paise"`
}

type customerInfoView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type shippingAddressView struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode"`
}

type orderView struct {
	ID              uint                `json:"id,omitempty"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	CustomerInfo    customerInfoView    `json:"customer_info"`
	ShippingAddress shippingAddressView `json:"shipping_address"`
	Items           []orderItemView     `json:"items"`
	Pricing         orderPricingView    `json:"pricing"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	OrderDate       time.Time           `json:"order_date"`
	DeliveryDate    *time.Time          `json:"estimated_delivery_date,omitempty"`
}

func orderToView(order *models.Order, maskCustomerEmail bool) orderView {
	email := order.CustomerEmail
	if maskCustomerEmail {
		email = maskEmail(email)
	}

	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		lineTotal := item.PriceInPaise * int64(item.Quantity)
		items = append(items, orderItemView{
			ID:           item.ID,
			Quantity:     item.Quantity,
			Price:        paiseToRupees(item.PriceInPaise),
			PriceInPaise: item.PriceInPaise,
			Total:        paiseToRupees(lineTotal),
			TotalInPaise: lineTotal,
			Product: orderProductView{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Slug:  item.Product.Slug,
				Image: primaryImageURL(item.Product.Images),
			},
		})
	}

	return orderView{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		CustomerInfo: customerInfoView{
			Name:  order.CustomerName,
			Email: email,
			Phone: order.CustomerPhone,
		},
		ShippingAddress: shippingAddressView{
			Address: order.ShippingAddress,
			City:    order.ShippingCity,
			State:   order.ShippingState,
			Pincode: order.ShippingPincode,
		},
		Items: items,
		Pricing: orderPricingView{
			Subtotal:        paiseToRupees(order.SubtotalInPaise),
			SubtotalInPaise: order.SubtotalInPaise,
			Shipping:        paiseToRupees(order.ShippingInPaise),
			ShippingInPaise: order.ShippingInPaise,
			Total:           paiseToRupees(order.TotalInPaise),
			TotalInPaise:    order.TotalInPaise,
		},
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		OrderDate:     order.CreatedAt,
		DeliveryDate:  order.DeliveryDate,
	}
}
