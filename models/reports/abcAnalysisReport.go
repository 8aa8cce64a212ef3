package reports

import (
	"context"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

type AbcProductResponse struct {
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Grade       string          `json:"grade"`
}

type productRevenueRow struct {
	ProductId   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
}

var (
	abcGradeACut = decimal.RequireFromString("0.80")
	abcGradeBCut = decimal.RequireFromString("0.95")
)

// assignAbcGrades walks rows already sorted by revenue descending (ties by
// product id ascending) and grades each by its cumulative share of total
// revenue: A while the running share stays within 0.80, B within 0.95,
// C for the tail. Zero total revenue grades nothing.
func assignAbcGrades(rows []productRevenueRow) []*AbcProductResponse {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Revenue)
	}

	results := []*AbcProductResponse{}
	if total.IsZero() {
		return results
	}

	running := decimal.Zero
	for _, row := range rows {
		running = running.Add(row.Revenue)
		share := running.Div(total)

		grade := "C"
		if share.Cmp(abcGradeACut) <= 0 {
			grade = "A"
		} else if share.Cmp(abcGradeBCut) <= 0 {
			grade = "B"
		}

		results = append(results, &AbcProductResponse{
			ProductName: row.ProductName,
			Revenue:     row.Revenue,
			Grade:       grade,
		})
	}
	return results
}

// GetAbcAnalysis computes the Pareto revenue classification over the
// owner's entire sales history. Revenue comes from order-line snapshots
// (quantity * locked sell price), so deleted or re-priced products keep
// their historical contribution. Pure read; an owner with no orders gets
// an empty list.
func GetAbcAnalysis(ctx context.Context) ([]*AbcProductResponse, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	started := time.Now()
	defer logSlowReport(ctx, "abc_analysis", started)

	cacheKey := "report:abc:" + userId
	var cached []*AbcProductResponse
	if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	revenueQuery := `
SELECT
    oi.product_id,
    MAX(oi.product_name) AS product_name,
    SUM(oi.quantity * oi.sell_price) AS revenue
FROM
    order_items oi
        JOIN
    orders o ON o.id = oi.order_id
WHERE
    o.user_id = ?
GROUP BY oi.product_id
ORDER BY revenue DESC , oi.product_id ASC`

	var rows []productRevenueRow
	if err := db.WithContext(ctx).Raw(revenueQuery, userId).Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := assignAbcGrades(rows)

	cacheSet(cacheKey, results)

	return results, nil
}
