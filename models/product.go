package models

import (
	"context"
	"fmt"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Product is the stock ledger row for one SKU. Quantity is only ever
// changed through catalog updates or the guarded decrement below; order
// lines keep their own price snapshots, so deleting a product never
// rewrites history (and never resurrects stock).
type Product struct {
	ID           int              `gorm:"primary_key" json:"id"`
	UserId       string           `gorm:"index;size:36;not null" json:"user_id"`
	Name         string           `gorm:"size:100;not null" json:"name"`
	Sku          string           `gorm:"size:100;not null" json:"sku"`
	CategoryId   *int             `gorm:"index" json:"category_id"`
	SupplierId   *int             `gorm:"index" json:"supplier_id"`
	Quantity     int              `gorm:"not null;default:0" json:"quantity"`
	CostPrice    *decimal.Decimal `gorm:"type:decimal(20,4)" json:"cost_price"`
	SellPrice    decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"sell_price"`
	ReorderLevel int              `gorm:"not null;default:0" json:"reorder_level"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name         string           `json:"name" binding:"required"`
	Sku          string           `json:"sku" binding:"required"`
	CategoryId   *int             `json:"category_id"`
	SupplierId   *int             `json:"supplier_id"`
	Quantity     int              `json:"quantity" binding:"gte=0"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellPrice    decimal.Decimal  `json:"sell_price"`
	ReorderLevel int              `json:"reorder_level" binding:"gte=0"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, userId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Product](ctx, userId, id); err != nil {
			return utils.NewNotFound("product not found")
		}
	}
	if err := utils.ValidateUnique[Product](ctx, userId, "sku", input.Sku, id); err != nil {
		return err
	}
	if input.SellPrice.IsNegative() {
		return utils.NewInvalidInput("sell price must not be negative")
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return utils.NewInvalidInput("cost price must not be negative")
	}
	if input.CategoryId != nil {
		if err := utils.ValidateResourceId[Category](ctx, userId, *input.CategoryId); err != nil {
			return utils.NewNotFound("category not found")
		}
	}
	if input.SupplierId != nil {
		if err := utils.ValidateResourceId[Supplier](ctx, userId, *input.SupplierId); err != nil {
			return utils.NewNotFound("supplier not found")
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := input.validate(ctx, userId, 0); err != nil {
		return nil, err
	}

	product := Product{
		UserId:       userId,
		Name:         input.Name,
		Sku:          input.Sku,
		CategoryId:   input.CategoryId,
		SupplierId:   input.SupplierId,
		Quantity:     input.Quantity,
		CostPrice:    input.CostPrice,
		SellPrice:    input.SellPrice,
		ReorderLevel: input.ReorderLevel,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetAllProducts(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	var products []*Product
	err := db.WithContext(ctx).Where("user_id = ?", userId).Order("id").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}
	product, err := utils.FetchModel[Product](ctx, userId, id)
	if err != nil {
		return nil, utils.NewNotFound("product not found")
	}
	return product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	if err := input.validate(ctx, userId, id); err != nil {
		return nil, err
	}

	product, err := utils.FetchModel[Product](ctx, userId, id)
	if err != nil {
		return nil, utils.NewNotFound("product not found")
	}

	product.Name = input.Name
	product.Sku = input.Sku
	product.CategoryId = input.CategoryId
	product.SupplierId = input.SupplierId
	product.Quantity = input.Quantity
	product.CostPrice = input.CostPrice
	product.SellPrice = input.SellPrice
	product.ReorderLevel = input.ReorderLevel

	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) error {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return utils.NewUnauthorized("user id is required")
	}

	result := db.WithContext(ctx).Where("user_id = ?", userId).Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFound("product not found")
	}
	return nil
}

// fetchProductForUpdate reads an owner-scoped product row under a row lock.
// Must run inside the order transaction; callers lock products in ascending
// id order so concurrent orders cannot deadlock.
func fetchProductForUpdate(tx *gorm.DB, userId string, id int) (*Product, error) {
	var product Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).
		First(&product, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewNotFound(fmt.Sprintf("product %d not found", id))
		}
		return nil, err
	}
	return &product, nil
}

// decrementStock applies the guarded compare-and-decrement. The quantity
// guard repeats the sufficiency check inside the UPDATE itself, so the
// non-negative invariant holds even without the row lock above.
func decrementStock(tx *gorm.DB, userId string, productId int, qty int) error {
	result := tx.Model(&Product{}).
		Where("id = ? AND user_id = ? AND quantity >= ?", productId, userId, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewInsufficientStock(fmt.Sprintf("insufficient stock for product %d", productId))
	}
	return nil
}
