package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	Id          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id" validate:"omitempty,uuid4"`
	OrderNumber string    `bun:"order_number,notnull,unique" json:"order_number" validate:"omitempty,min=8,max=50"`

	// Optional link to a customer account; nil for guest orders
	UserId *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"`

	// Customer contact snapshot (AES-GCM encrypted at rest)
	Name  string `bun:"name,notnull" json:"name" validate:"required,min=2,max=100"`
	Email string `bun:"email,notnull" json:"email" validate:"required"`
	Phone string `bun:"phone,notnull" json:"phone" validate:"required"`
	Note  string `bun:"note" json:"note,omitempty" validate:"omitempty,max=500"` // Customer note

	// Address snapshot, denormalized onto the order so later edits to a
	// customer's saved addresses never alter purchase history
	Street     string `bun:"street,notnull" json:"street"`
	HouseNo    string `bun:"house_no,notnull" json:"house_no"`
	PostalCode string `bun:"postal_code,notnull" json:"postal_code"`
	City       string `bun:"city,notnull" json:"city"`
	Country    string `bun:"country,notnull" json:"country"` // Country code stays unencrypted for regional statistics

	// Payment
	PaymentMethod PaymentMethod `bun:"payment_method,notnull" json:"payment_method" validate:"required,oneof=cod bank_transfer card"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'unpaid'" json:"payment_status" validate:"required,oneof=unpaid paid"`

	// Totals in cents; invariant: TotalCents = sum(item line totals) + ShippingCents - DiscountCents
	SubtotalCents uint64 `bun:"subtotal_cents,notnull" json:"subtotal_cents"`
	ShippingCents uint64 `bun:"shipping_cents,notnull" json:"shipping_cents"`
	DiscountCents uint64 `bun:"discount_cents,notnull" json:"discount_cents"`
	TaxCents      uint64 `bun:"tax_cents,notnull" json:"tax_cents"`
	TotalCents    uint64 `bun:"total_cents,notnull" json:"total_cents"`

	// Coupon snapshot; CouponId nil when no coupon was applied
	CouponId   *uuid.UUID `bun:"coupon_id,type:uuid" json:"coupon_id,omitempty"`
	CouponCode string     `bun:"coupon_code" json:"coupon_code,omitempty"`

	// Fulfilment
	TrackingNumber string `bun:"tracking_number" json:"tracking_number,omitempty"`

	Status    OrderStatus `bun:"status,notnull,default:'pending'" json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time  `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`

	Items   []OrderItem          `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
	History []OrderStatusHistory `bun:"rel:has-many,join:id=order_id" json:"history,omitempty"`
}

// OrderItem is a line snapshot captured at order time. Immutable after
// insert; catalog edits never reach back into it.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	Id        uuid.UUID `bun:"id,pk,notnull" json:"id" validate:"omitempty,uuid4"`
	OrderId   uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id" validate:"required,uuid4"`
	ProductId uuid.UUID `bun:"product_id,notnull,type:uuid" json:"product_id" validate:"required,uuid4"`
	VariantId uuid.UUID `bun:"variant_id,notnull,type:uuid" json:"variant_id" validate:"required,uuid4"`
	Quantity  int       `bun:"quantity,notnull" json:"quantity" validate:"required,min=1"`

	// Snapshot of pricing at time of order
	UnitPrice uint64 `bun:"unit_price,notnull" json:"unit_price" validate:"required,gte=0"` // Price when ordered
	UnitTax   uint64 `bun:"unit_tax,notnull" json:"unit_tax" validate:"gte=0"`              // Tax portion when ordered
	LineTotal uint64 `bun:"line_total,notnull" json:"line_total" validate:"required,gte=0"` // quantity * unit_price

	// Display fields snapshotted for name/SKU changes after the fact
	ProductName string `bun:"product_name,notnull" json:"product_name" validate:"required,min=2,max=200"`
	Size        string `bun:"size,notnull" json:"size"`
	Color       string `bun:"color,notnull" json:"color"`
	SKU         string `bun:"sku,notnull" json:"sku" validate:"required,min=3,max=50"`
}

// OrderStatusHistory is the append-only audit trail of lifecycle
// transitions. Rows are inserted once and never mutated.
type OrderStatusHistory struct {
	bun.BaseModel `bun:"table:order_status_history,alias:osh"`

	Id        uuid.UUID   `bun:"id,pk,notnull" json:"id"`
	OrderId   uuid.UUID   `bun:"order_id,notnull,type:uuid" json:"order_id"`
	Status    OrderStatus `bun:"status,notnull" json:"status"`
	Note      string      `bun:"note" json:"note,omitempty"`
	CreatedAt time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
)
