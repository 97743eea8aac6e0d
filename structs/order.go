package structs

import "github.com/google/uuid"

// OrderItemRequest is one proposed (variant, quantity) pair from the cart.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// ShippingInfo is the contact/address snapshot supplied at checkout.
type ShippingInfo struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=8,max=20"`
	Street     string `json:"street" validate:"required,min=2,max=200"`
	HouseNo    string `json:"house_no" validate:"required,max=20"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	City       string `json:"city" validate:"required,min=2,max=100"`
	Country    string `json:"country" validate:"omitempty,len=2"`
}

// ClientTotals are the totals the storefront computed client-side. They are
// cross-checked against the server-side recomputation for logging only and
// are never trusted for persistence.
type ClientTotals struct {
	Subtotal     uint64 `json:"subtotal"`
	ShippingCost uint64 `json:"shipping_cost"`
	Discount     uint64 `json:"discount"`
	Total        uint64 `json:"total"`
}

type OrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfo       `json:"shipping_info" validate:"required"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=cod bank_transfer card"`
	CouponCode    string             `json:"coupon_code" validate:"omitempty,max=50"`
	Note          string             `json:"note" validate:"omitempty,max=500"`
	ClientTotals  *ClientTotals      `json:"totals" validate:"omitempty"`
}

// TrackOrderRequest identifies an order for the public tracking endpoint.
// Both fields must match; the handler deliberately returns one generic
// not-found error so callers cannot tell which field was wrong.
type TrackOrderRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OrderNumber string `json:"order_number" validate:"required,min=8,max=50"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Note           string `json:"note" validate:"omitempty,max=500"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
}
