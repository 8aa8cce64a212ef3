package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bsm/redislock"
	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

// Order is immutable once committed: no update path exists anywhere in the
// codebase. CustomerName is captured at creation and never re-linked.
type Order struct {
	ID            int             `gorm:"primary_key" json:"id"`
	UserId        string          `gorm:"index;size:36;not null" json:"user_id"`
	CustomerId    *int            `gorm:"index" json:"customer_id"`
	CustomerName  *string         `gorm:"size:100" json:"customer_name"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_amount"`
	PaymentMethod PaymentMethod   `gorm:"type:enum('cash','card','transfer');not null;default:'cash'" json:"payment_method"`
	Items         []OrderItem     `gorm:"foreignKey:OrderId" json:"items,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// OrderItem carries the sell/cost prices as read at the transaction moment.
// Later edits to the product never touch these rows, which is what keeps
// historical revenue and profit stable.
type OrderItem struct {
	ID          int              `gorm:"primary_key" json:"id"`
	OrderId     int              `gorm:"index;not null" json:"order_id"`
	ProductId   int              `gorm:"index;not null" json:"product_id"`
	ProductName string           `gorm:"size:100;not null" json:"product_name"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	SellPrice   decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"sell_price"`
	CostPrice   *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost_price"`
}

type NewOrderItem struct {
	ProductId int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type NewOrder struct {
	Items         []NewOrderItem `json:"items" binding:"required,min=1,dive"`
	CustomerId    *int           `json:"customer_id"`
	PaymentMethod *PaymentMethod `json:"payment_method"`
}

// validate rejects malformed carts before anything touches the database.
func (input *NewOrder) validate() error {
	if len(input.Items) == 0 {
		return utils.NewInvalidInput("cart must not be empty")
	}
	seen := make(map[int]bool, len(input.Items))
	for _, item := range input.Items {
		if item.ProductId <= 0 {
			return utils.NewInvalidInput("product id must be a positive integer")
		}
		if item.Quantity <= 0 {
			return utils.NewInvalidInput(fmt.Sprintf("quantity for product %d must be a positive integer", item.ProductId))
		}
		if seen[item.ProductId] {
			return utils.NewInvalidInput(fmt.Sprintf("product %d appears more than once in the cart", item.ProductId))
		}
		seen[item.ProductId] = true
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.Valid() {
		return utils.NewInvalidInput("invalid payment method")
	}
	return nil
}

// buildOrderLines prices a cart against the product rows read inside the
// submitting transaction and checks every line's stock sufficiency before
// any decrement happens. A shortfall on any line fails the whole cart.
func buildOrderLines(products map[int]*Product, items []NewOrderItem) ([]OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]OrderItem, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductId]
		if !ok {
			return nil, decimal.Zero, utils.NewNotFound(fmt.Sprintf("product %d not found", item.ProductId))
		}
		if item.Quantity > product.Quantity {
			return nil, decimal.Zero, utils.NewInsufficientStock(
				fmt.Sprintf("insufficient stock for %q: requested %d, on hand %d", product.Name, item.Quantity, product.Quantity))
		}

		var costPrice *decimal.Decimal
		if product.CostPrice != nil {
			c := *product.CostPrice
			costPrice = &c
		}
		lines = append(lines, OrderItem{
			ProductId:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			SellPrice:   product.SellPrice,
			CostPrice:   costPrice,
		})
		total = total.Add(product.SellPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return lines, total, nil
}

// CreateOrder commits a cart as one all-or-nothing transaction: every
// involved product row is locked in ascending id order, the whole cart is
// validated against the locked rows, then stock is decremented and the
// order plus its snapshot lines are inserted. Any failure rolls the whole
// thing back.
func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	// Resolve the customer once, before the transaction. Absence of a
	// customer is a valid anonymous sale.
	var customerName *string
	if input.CustomerId != nil {
		customer, err := utils.FetchModel[Customer](ctx, userId, *input.CustomerId)
		if err != nil {
			return nil, utils.NewNotFound("customer not found")
		}
		name := customer.Name
		customerName = &name
	}

	// Best-effort checkout serialization per owner. Redis shortens
	// in-request blocking under contention; correctness never depends on
	// it, the row locks below serialize safely on their own.
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "checkout:"+userId, 10*time.Second, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
		})
		if err == redislock.ErrNotObtained {
			return nil, utils.NewConflict("another checkout for this account is in progress, retry the order")
		}
		if err == nil {
			defer lock.Release(ctx)
		}
	}

	// Fixed lock order across concurrent orders: ascending product id.
	sorted := make([]NewOrderItem, len(input.Items))
	copy(sorted, input.Items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductId < sorted[j].ProductId })

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	products := make(map[int]*Product, len(sorted))
	for _, item := range sorted {
		product, err := fetchProductForUpdate(tx, userId, item.ProductId)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		products[product.ID] = product
	}

	items, total, err := buildOrderLines(products, sorted)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range items {
		if err := decrementStock(tx, userId, item.ProductId, item.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	paymentMethod := PaymentMethodCash
	if input.PaymentMethod != nil {
		paymentMethod = *input.PaymentMethod
	}

	order := Order{
		UserId:        userId,
		CustomerId:    input.CustomerId,
		CustomerName:  customerName,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		Items:         items,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrders lists the owner's committed orders newest first. since, when
// set, restricts to orders created at or after that moment.
func GetOrders(ctx context.Context, since *time.Time) ([]*Order, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userId)
	if since != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *since)
	}

	var orders []*Order
	if err := dbCtx.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderItems returns the snapshot lines of one order. The parent order
// is owner-checked first; someone else's order id reads as not found.
func GetOrderItems(ctx context.Context, orderId int) ([]*OrderItem, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := utils.ValidateResourceId[Order](ctx, userId, orderId); err != nil {
		return nil, utils.NewNotFound("order not found")
	}

	var items []*OrderItem
	if err := db.WithContext(ctx).Where("order_id = ?", orderId).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
