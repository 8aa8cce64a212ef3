package reports

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	TotalItems          int64           `json:"total_items"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	LowStockCount       int64           `json:"low_stock_count"`
}

type inventoryPositionRow struct {
	TotalItems          int64           `json:"total_items"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	LowStockCount       int64           `json:"low_stock_count"`
}

type salesPositionRow struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// GetDashboardSummary aggregates the owner's inventory and sales position.
// Inventory value is priced from the live catalog (current-state valuation);
// profit is summed from order-line snapshots, so it stays correct after
// later price edits. Pure read.
func GetDashboardSummary(ctx context.Context) (*DashboardResponse, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	started := time.Now()
	defer logSlowReport(ctx, "dashboard", started)

	cacheKey := "report:dashboard:" + userId
	var cached DashboardResponse
	if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	inventoryQuery := `
SELECT
    COUNT(*) AS total_items,
    COALESCE(SUM(quantity * COALESCE(cost_price, 0)), 0) AS total_inventory_value,
    COALESCE(SUM(CASE WHEN quantity <= reorder_level THEN 1 ELSE 0 END), 0) AS low_stock_count
FROM
    products
WHERE
    user_id = ?`

	var inventory inventoryPositionRow
	if err := db.WithContext(ctx).Raw(inventoryQuery, userId).Scan(&inventory).Error; err != nil {
		return nil, err
	}

	salesQuery := `
SELECT
    COALESCE((SELECT SUM(total_amount) FROM orders WHERE user_id = ?), 0) AS total_sales,
    COALESCE((SELECT SUM((oi.sell_price - COALESCE(oi.cost_price, 0)) * oi.quantity)
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.user_id = ?), 0) AS total_profit`

	var sales salesPositionRow
	if err := db.WithContext(ctx).Raw(salesQuery, userId, userId).Scan(&sales).Error; err != nil {
		return nil, err
	}

	response := DashboardResponse{
		TotalItems:          inventory.TotalItems,
		TotalInventoryValue: inventory.TotalInventoryValue,
		TotalSales:          sales.TotalSales,
		TotalProfit:         sales.TotalProfit,
		LowStockCount:       inventory.LowStockCount,
	}

	cacheSet(cacheKey, &response)

	return &response, nil
}
