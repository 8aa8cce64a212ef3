package reports

import (
	"context"
	"sort"
	"time"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/utils"
)

type StockForecastResponse struct {
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	DaysLeft    int    `json:"days_left"`
}

type productBurnRow struct {
	ProductId   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	SoldQty     int64  `json:"sold_qty"`
}

// computeStockForecast projects days of stock left from trailing-window
// sales. days_left = floor(stock / (sold/window)); integer arithmetic keeps
// the floor exact. Products with zero burn carry no signal and are
// excluded, as is anything projected beyond the urgency horizon. The
// result is sorted most urgent first and capped at topN.
func computeStockForecast(rows []productBurnRow, windowDays int, horizonDays int, topN int) []*StockForecastResponse {
	type forecastEntry struct {
		productId int
		response  *StockForecastResponse
	}

	entries := []forecastEntry{}
	for _, row := range rows {
		if row.SoldQty <= 0 {
			continue
		}
		daysLeft := int(int64(row.Stock) * int64(windowDays) / row.SoldQty)
		if daysLeft >= horizonDays {
			continue
		}
		entries = append(entries, forecastEntry{
			productId: row.ProductId,
			response: &StockForecastResponse{
				ProductName: row.ProductName,
				Stock:       row.Stock,
				DaysLeft:    daysLeft,
			},
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].response.DaysLeft != entries[j].response.DaysLeft {
			return entries[i].response.DaysLeft < entries[j].response.DaysLeft
		}
		return entries[i].productId < entries[j].productId
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}

	results := make([]*StockForecastResponse, 0, len(entries))
	for _, e := range entries {
		results = append(results, e.response)
	}
	return results
}

// GetStockForecast surfaces actionable restock risk: current catalog stock
// divided by the trailing-window burn rate, filtered to the urgency
// horizon. Window, horizon and display cap come from config. Pure read; an
// owner with no recent sales gets an empty list.
func GetStockForecast(ctx context.Context) ([]*StockForecastResponse, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return nil, utils.NewUnauthorized("user id is required")
	}

	started := time.Now()
	defer logSlowReport(ctx, "stock_forecast", started)

	windowDays := config.ForecastWindowDays()
	horizonDays := config.ForecastHorizonDays()
	topN := config.ForecastTopN()

	cacheKey := "report:forecast:" + userId
	var cached []*StockForecastResponse
	if hit, err := cacheGet(cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	windowStart := time.Now().AddDate(0, 0, -windowDays)

	burnQuery := `
SELECT
    p.id AS product_id,
    p.name AS product_name,
    p.quantity AS stock,
    COALESCE(SUM(oi.quantity), 0) AS sold_qty
FROM
    products p
        JOIN
    order_items oi ON oi.product_id = p.id
        JOIN
    orders o ON o.id = oi.order_id
WHERE
    p.user_id = ?
        AND o.user_id = ?
        AND o.created_at >= ?
GROUP BY p.id , p.name , p.quantity`

	var rows []productBurnRow
	if err := db.WithContext(ctx).Raw(burnQuery, userId, userId, windowStart).Scan(&rows).Error; err != nil {
		return nil, err
	}

	results := computeStockForecast(rows, windowDays, horizonDays, topN)

	cacheSet(cacheKey, results)

	return results, nil
}
