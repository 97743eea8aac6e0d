package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

type OrderService struct {
	logger        *gecho.Logger
	cfg           *structs.Config
	db            *database.DB
	couponService *CouponService
	emailService  *EmailService
	cacheService  *CacheService
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	couponService *CouponService,
	emailService *EmailService,
	cacheService *CacheService,
) *OrderService {
	return &OrderService{
		logger:        logger,
		cfg:           cfg,
		db:            db,
		couponService: couponService,
		emailService:  emailService,
		cacheService:  cacheService,
	}
}

// ShippingCost computes the shipping charge for an order subtotal: free at
// or above the configured threshold, flat rate below it.
func ShippingCost(subtotalCents uint64, cfg *structs.ShippingConfig) uint64 {
	if subtotalCents >= cfg.FreeAboveCents {
		return 0
	}
	return cfg.FlatRateCents
}

// CreateOrderFromRequest validates the proposed line items against live
// stock and either durably creates a consistent order or fails without
// partial effect. All writes run in one transaction; the confirmation email
// goes out best-effort after commit.
func (os *OrderService) CreateOrderFromRequest(ctx context.Context, req *structs.OrderRequest, userId *uuid.UUID) (order *tables.Order, err error) {
	if len(req.Items) == 0 {
		return nil, lib.ErrEmptyOrder
	}

	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		os.logger.Error("Failed to begin transaction", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			os.logger.Error(fmt.Sprintf("panic recovered in CreateOrderFromRequest: %v", p),
				gecho.Field("stack_trace", string(debug.Stack())))
			tx.Rollback()
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	order, items, coupon, err := os.placeOrder(ctx, tx, req, userId)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, lib.MapPgError(err)
	}

	os.logger.Info("Order created successfully",
		gecho.Field("order_id", order.Id),
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("coupon_outcome", coupon.Outcome))

	// Stock and sold counts changed; drop stale catalog caches.
	if os.cacheService != nil {
		seen := make(map[uuid.UUID]bool, len(items))
		for _, item := range items {
			if !seen[item.ProductId] {
				seen[item.ProductId] = true
				if cacheErr := os.cacheService.InvalidateProductCaches(item.ProductId); cacheErr != nil {
					os.logger.Warn("Failed to invalidate product caches",
						gecho.Field("product_id", item.ProductId),
						gecho.Field("error", cacheErr))
				}
			}
		}
	}

	// Best-effort confirmation, using the original unencrypted data. Send
	// failures are logged and never affect the committed order.
	if os.emailService == nil {
		return order, nil
	}
	go func() {
		emailErr := os.emailService.SendOrderConfirmationEmail(
			req.ShippingInfo.Email, req.ShippingInfo.Name, order.OrderNumber, items, order.TotalCents, &req.ShippingInfo)
		if emailErr != nil {
			os.logger.Error("Failed to send order confirmation email",
				gecho.Field("error", emailErr),
				gecho.Field("order_id", order.Id))
		} else {
			os.logger.Info("Order confirmation email sent",
				gecho.Field("order_number", order.OrderNumber))
		}
	}()

	return order, nil
}

// placeOrder does all transactional work for order creation: stock
// re-validation, totals, coupon redemption, inserts, stock decrement and the
// initial history row. Any returned error leaves the transaction for the
// caller to roll back.
func (os *OrderService) placeOrder(ctx context.Context, tx bun.Tx, req *structs.OrderRequest, userId *uuid.UUID) (*tables.Order, []*tables.OrderItem, structs.CouponResult, error) {
	var none structs.CouponResult
	now := time.Now()

	// Requested quantity per variant; duplicate cart lines for the same
	// variant count against stock together.
	requested := make(map[uuid.UUID]int, len(req.Items))
	variantIds := make([]uuid.UUID, 0, len(req.Items))
	productIds := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if _, seen := requested[item.VariantID]; !seen {
			variantIds = append(variantIds, item.VariantID)
		}
		requested[item.VariantID] += item.Quantity
		productIds = append(productIds, item.ProductID)
	}

	// Re-read stock inside the transaction that will decrement it. FOR
	// UPDATE serializes concurrent checkouts contending for the same rows.
	var variants []tables.ProductVariant
	err := tx.NewSelect().
		Model(&variants).
		Where("pv.id IN (?)", bun.In(variantIds)).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, nil, none, lib.MapPgError(err)
	}

	variantMap := make(map[uuid.UUID]*tables.ProductVariant, len(variants))
	for i := range variants {
		variantMap[variants[i].ID] = &variants[i]
	}

	var products []tables.Product
	err = tx.NewSelect().
		Model(&products).
		Where("p.id IN (?)", bun.In(productIds)).
		Scan(ctx)
	if err != nil {
		return nil, nil, none, lib.MapPgError(err)
	}

	productMap := make(map[uuid.UUID]*tables.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Validate every line before any mutation; the whole order is rejected
	// naming the first offending item.
	for _, item := range req.Items {
		variant, ok := variantMap[item.VariantID]
		if !ok {
			return nil, nil, none, &lib.VariantUnavailableError{VariantID: item.VariantID.String(), Reason: "variant not found"}
		}
		if variant.ProductID != item.ProductID {
			return nil, nil, none, &lib.VariantUnavailableError{VariantID: item.VariantID.String(), Reason: "variant does not belong to product"}
		}
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, nil, none, &lib.VariantUnavailableError{VariantID: item.VariantID.String(), Reason: "product not found"}
		}
		if !product.IsActive {
			return nil, nil, none, &lib.VariantUnavailableError{VariantID: item.VariantID.String(), Reason: fmt.Sprintf("product %s is no longer available", product.Name)}
		}
		if variant.Stock < requested[item.VariantID] {
			return nil, nil, none, &lib.InsufficientStockError{
				ProductName: product.Name,
				SKU:         variant.SKU,
				Requested:   requested[item.VariantID],
				Available:   variant.Stock,
			}
		}
	}

	// Server-side totals from the variant price snapshots. Client totals
	// are display-only and merely cross-checked below.
	var subtotal, tax uint64
	for _, item := range req.Items {
		variant := variantMap[item.VariantID]
		product := productMap[item.ProductID]
		subtotal += variant.UnitPrice(product) * uint64(item.Quantity)
		tax += product.TaxCents * uint64(item.Quantity)
	}

	shipping := ShippingCost(subtotal, os.cfg.Shipping)
	coupon := os.couponService.Resolve(ctx, tx, req.CouponCode, subtotal)
	total := subtotal + shipping - coupon.DiscountCents

	if ct := req.ClientTotals; ct != nil && ct.Total != total {
		os.logger.Warn("Client-computed totals differ from server recomputation",
			gecho.Field("client_total", ct.Total),
			gecho.Field("server_total", total),
			gecho.Field("client_discount", ct.Discount),
			gecho.Field("server_discount", coupon.DiscountCents))
	}

	// Encrypt the contact/address snapshot before persisting.
	enc := func(s string) (string, error) { return lib.Encrypt(s, os.cfg.Encryption.Key) }

	info := req.ShippingInfo
	country := info.Country
	if country == "" {
		country = "TR"
	}

	encrypted := make([]string, 0, 8)
	for _, field := range []string{info.Name, info.Email, info.Phone, req.Note, info.Street, info.HouseNo, info.PostalCode, info.City} {
		value, encErr := enc(field)
		if encErr != nil {
			os.logger.Error("Failed to encrypt order field", gecho.Field("error", encErr))
			return nil, nil, none, encErr
		}
		encrypted = append(encrypted, value)
	}

	order := &tables.Order{
		Id:          uuid.New(),
		OrderNumber: lib.GenerateOrderNumber(),
		UserId:      userId,

		Name:  encrypted[0],
		Email: encrypted[1],
		Phone: encrypted[2],
		Note:  encrypted[3],

		Street:     encrypted[4],
		HouseNo:    encrypted[5],
		PostalCode: encrypted[6],
		City:       encrypted[7],
		Country:    country,

		PaymentMethod: tables.PaymentMethod(req.PaymentMethod),
		PaymentStatus: tables.PaymentStatusUnpaid,

		SubtotalCents: subtotal,
		ShippingCents: shipping,
		DiscountCents: coupon.DiscountCents,
		TaxCents:      tax,
		TotalCents:    total,

		CouponId:   coupon.CouponID,
		CouponCode: coupon.Code,

		Status:    tables.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !coupon.Applied() {
		order.CouponCode = ""
	}

	if _, err = tx.NewInsert().Model(order).Exec(ctx); err != nil {
		return nil, nil, none, lib.MapPgError(err)
	}

	// Line snapshots: display fields and unit prices captured now so later
	// catalog edits never alter this order.
	items := make([]*tables.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		variant := variantMap[item.VariantID]
		product := productMap[item.ProductID]
		unitPrice := variant.UnitPrice(product)

		items = append(items, &tables.OrderItem{
			Id:        uuid.New(),
			OrderId:   order.Id,
			ProductId: product.ID,
			VariantId: variant.ID,
			Quantity:  item.Quantity,

			UnitPrice: unitPrice,
			UnitTax:   product.TaxCents,
			LineTotal: unitPrice * uint64(item.Quantity),

			ProductName: product.Name,
			Size:        variant.Size,
			Color:       variant.Color,
			SKU:         variant.SKU,
		})
	}

	if _, err = tx.NewInsert().Model(&items).Exec(ctx); err != nil {
		return nil, nil, none, lib.MapPgError(err)
	}

	// Decrement stock with a second stock >= ? guard; a zero row count here
	// means someone raced us despite the row lock, so the order aborts.
	for _, variantId := range variantIds {
		variant := variantMap[variantId]
		qty := requested[variantId]

		res, decErr := tx.NewUpdate().
			Model((*tables.ProductVariant)(nil)).
			Set("stock = stock - ?", qty).
			Set("updated_at = ?", now).
			Where("id = ?", variantId).
			Where("stock >= ?", qty).
			Exec(ctx)
		if decErr != nil {
			return nil, nil, none, lib.MapPgError(decErr)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return nil, nil, none, &lib.InsufficientStockError{
				ProductName: productMap[variant.ProductID].Name,
				SKU:         variant.SKU,
				Requested:   qty,
				Available:   variant.Stock,
			}
		}

		if _, err = tx.NewUpdate().
			Model((*tables.Product)(nil)).
			Set("sold_count = sold_count + ?", qty).
			Set("updated_at = ?", now).
			Where("id = ?", variant.ProductID).
			Exec(ctx); err != nil {
			return nil, nil, none, lib.MapPgError(err)
		}
	}

	history := &tables.OrderStatusHistory{
		Id:        uuid.New(),
		OrderId:   order.Id,
		Status:    tables.OrderStatusPending,
		Note:      "order created",
		CreatedAt: now,
	}
	if _, err = tx.NewInsert().Model(history).Exec(ctx); err != nil {
		return nil, nil, none, lib.MapPgError(err)
	}

	return order, items, coupon, nil
}

// TrackOrder looks an order up by its public number and verifies the
// customer email against the decrypted snapshot. Both mismatches map to the
// same generic not-found error so callers cannot probe which field was
// wrong.
func (os *OrderService) TrackOrder(ctx context.Context, email, orderNumber string) (*tables.Order, error) {
	order, err := database.Query[tables.Order](os.db).
		Where("order_number", orderNumber).
		WhereNull("deleted_at").
		Relation("Items").
		Relation("History").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrOrderNotFound
	}

	storedEmail, err := lib.Decrypt(order.Email, os.cfg.Encryption.Key)
	if err != nil {
		os.logger.Error("Failed to decrypt order email", gecho.Field("error", err), gecho.Field("order_id", order.Id))
		return nil, lib.ErrOrderNotFound
	}

	if !strings.EqualFold(strings.TrimSpace(email), storedEmail) {
		return nil, lib.ErrOrderNotFound
	}

	return os.decryptOrder(order), nil
}

// GetOrderById retrieves an order by internal id with decrypted PII.
func (os *OrderService) GetOrderById(ctx context.Context, orderId uuid.UUID) (*tables.Order, error) {
	order, err := database.Query[tables.Order](os.db).
		Where("id", orderId).
		WhereNull("deleted_at").
		Relation("Items").
		Relation("History").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrOrderNotFound
	}

	return os.decryptOrder(order), nil
}

// GetOrdersByUserId retrieves all orders linked to a customer account.
func (os *OrderService) GetOrdersByUserId(ctx context.Context, userId uuid.UUID) ([]*tables.Order, error) {
	orders, err := database.Query[tables.Order](os.db).
		Where("user_id", userId).
		WhereNull("deleted_at").
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	result := make([]*tables.Order, len(orders))
	for i := range orders {
		result[i] = os.decryptOrder(&orders[i])
	}
	return result, nil
}

// UpdateOrderStatus performs a lifecycle transition, appends the history row
// and, when a tracked order ships, notifies the customer.
func (os *OrderService) UpdateOrderStatus(ctx context.Context, orderId uuid.UUID, newStatus tables.OrderStatus, note, trackingNumber string) (err error) {
	order, err := os.GetOrderById(ctx, orderId)
	if err != nil {
		return err
	}

	if !IsValidStatusTransition(order.Status, newStatus) {
		return fmt.Errorf("%w: invalid status transition from %s to %s", lib.ErrConflict, order.Status, newStatus)
	}

	now := time.Now()

	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		return lib.MapPgError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			os.logger.Error(fmt.Sprintf("panic in UpdateOrderStatus: %v", p))
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	update := tx.NewUpdate().
		Model((*tables.Order)(nil)).
		Set("status = ?", newStatus).
		Set("updated_at = ?", now).
		Where("id = ?", orderId)
	if trackingNumber != "" {
		update = update.Set("tracking_number = ?", trackingNumber)
	}
	if _, err = update.Exec(ctx); err != nil {
		return lib.MapPgError(err)
	}

	history := &tables.OrderStatusHistory{
		Id:        uuid.New(),
		OrderId:   orderId,
		Status:    newStatus,
		Note:      note,
		CreatedAt: now,
	}
	if _, err = tx.NewInsert().Model(history).Exec(ctx); err != nil {
		return lib.MapPgError(err)
	}

	if err = tx.Commit(); err != nil {
		return lib.MapPgError(err)
	}

	os.logger.Info("Order status updated",
		gecho.Field("order_id", orderId),
		gecho.Field("old_status", order.Status),
		gecho.Field("new_status", newStatus))

	// Shipping notification only goes out when there is tracking info to
	// share; an untracked shipment stays silent.
	if newStatus == tables.OrderStatusShipped && os.emailService != nil {
		tracking := trackingNumber
		if tracking == "" {
			tracking = order.TrackingNumber
		}
		if tracking != "" {
			go func() {
				emailErr := os.emailService.SendShippingNotificationEmail(order.Email, order.Name, order.OrderNumber, tracking)
				if emailErr != nil {
					os.logger.Error("Failed to send shipping notification email",
						gecho.Field("error", emailErr),
						gecho.Field("order_id", orderId))
				}
			}()
		}
	}

	return nil
}

// SoftDeleteOrder soft deletes an order
func (os *OrderService) SoftDeleteOrder(ctx context.Context, orderId uuid.UUID) error {
	rows, err := database.Query[tables.Order](os.db).
		Where("id", orderId).
		WhereNull("deleted_at").
		Update(ctx, map[string]any{"deleted_at": time.Now()})
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrOrderNotFound
	}

	os.logger.Info("Order soft deleted", gecho.Field("order_id", orderId))
	return nil
}

// IsValidStatusTransition reports whether an order may move from current to
// next. The lifecycle is pending → confirmed → processing → shipped →
// delivered, with cancellation possible until shipping and refunds from
// processing onwards. Terminal states accept nothing.
func IsValidStatusTransition(current, next tables.OrderStatus) bool {
	transitions := map[tables.OrderStatus][]tables.OrderStatus{
		tables.OrderStatusPending: {
			tables.OrderStatusConfirmed,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusConfirmed: {
			tables.OrderStatusProcessing,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusProcessing: {
			tables.OrderStatusShipped,
			tables.OrderStatusCancelled,
			tables.OrderStatusRefunded,
		},
		tables.OrderStatusShipped: {
			tables.OrderStatusDelivered,
			tables.OrderStatusRefunded,
		},
		tables.OrderStatusDelivered: {
			tables.OrderStatusRefunded,
		},
		tables.OrderStatusCancelled: {},
		tables.OrderStatusRefunded:  {},
	}

	allowed, exists := transitions[current]
	if !exists {
		return false
	}

	return slices.Contains(allowed, next)
}

// decryptOrder decrypts PII fields in place, keeping encrypted values on
// decrypt failure rather than failing the read.
func (os *OrderService) decryptOrder(order *tables.Order) *tables.Order {
	key := os.cfg.Encryption.Key

	fields := []*string{&order.Name, &order.Email, &order.Phone, &order.Note,
		&order.Street, &order.HouseNo, &order.PostalCode, &order.City}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		plain, err := lib.Decrypt(*field, key)
		if err != nil {
			os.logger.Warn("Failed to decrypt order field",
				gecho.Field("error", err),
				gecho.Field("order_id", order.Id))
			continue
		}
		*field = plain
	}

	return order
}
