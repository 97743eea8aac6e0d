package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Brand       string    `bun:"brand,notnull" json:"brand"`
	Description string    `bun:"description,notnull" json:"description"`
	PriceCents  uint64    `bun:"price_cents,notnull" json:"price_cents"` // base price, stored in cents
	TaxCents    uint64    `bun:"tax_cents,notnull" json:"tax_cents"`     // tax portion of the base price
	IsActive    bool      `bun:"is_active,notnull" json:"is_active"`
	SoldCount   uint64    `bun:"sold_count,notnull,default:0" json:"sold_count"` // cumulative units sold across all variants
	CreatedAt   time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`

	Variants []ProductVariant `bun:"rel:has-many,join:id=product_id" json:"variants,omitempty"` // slice is nil if not preloaded
}

// ProductVariant is one purchasable size/color combination with its own SKU
// and stock count. Stock is only ever decremented inside the order placement
// transaction and never below zero.
type ProductVariant struct {
	bun.BaseModel `bun:"table:product_variants,alias:pv"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID  uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	Size       string    `bun:"size,notnull" json:"size"`
	Color      string    `bun:"color,notnull" json:"color"`
	SKU        string    `bun:"sku,notnull,unique" json:"sku"`
	PriceCents uint64    `bun:"price_cents,notnull" json:"price_cents"` // per-variant price; falls back to product base on zero
	Stock      int       `bun:"stock,notnull" json:"stock"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// UnitPrice resolves the effective unit price for the variant, deferring to
// the parent product's base price when the variant carries no override.
func (v *ProductVariant) UnitPrice(product *Product) uint64 {
	if v.PriceCents > 0 {
		return v.PriceCents
	}
	return product.PriceCents
}
