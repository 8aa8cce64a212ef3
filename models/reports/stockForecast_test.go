package reports

import (
	"testing"
)

func TestComputeStockForecastDaysLeftIsFloored(t *testing.T) {
	rows := []productBurnRow{
		{ProductId: 1, ProductName: "Cola 330ml", Stock: 10, SoldQty: 30},
	}
	// 10 units at 1/day burn = 10 days; 10*30/30 floors exactly.
	results := computeStockForecast(rows, 30, 30, 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(results))
	}
	if results[0].DaysLeft != 10 {
		t.Fatalf("expected 10 days left, got %d", results[0].DaysLeft)
	}

	// 7 units at 3-per-30-days burn: 7*30/3 = 70 days, outside the horizon.
	// 7 units at 45-per-30-days: 7*30/45 = 4.66..., floored to 4.
	rows = []productBurnRow{
		{ProductId: 2, ProductName: "Slow Mover", Stock: 7, SoldQty: 3},
		{ProductId: 3, ProductName: "Fast Mover", Stock: 7, SoldQty: 45},
	}
	results = computeStockForecast(rows, 30, 30, 5)
	if len(results) != 1 {
		t.Fatalf("expected only the fast mover, got %d results", len(results))
	}
	if results[0].ProductName != "Fast Mover" || results[0].DaysLeft != 4 {
		t.Fatalf("expected Fast Mover at 4 days, got %+v", results[0])
	}
}

func TestComputeStockForecastBurnRateProjection(t *testing.T) {
	// 100 on hand, 30 sold over a 30-day window = 1/day burn, 100 days
	// of cover. Visible only under a horizon wider than the projection.
	rows := []productBurnRow{
		{ProductId: 1, ProductName: "Steady Seller", Stock: 100, SoldQty: 30},
	}
	results := computeStockForecast(rows, 30, 365, 5)
	if len(results) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(results))
	}
	if results[0].DaysLeft != 100 {
		t.Fatalf("expected 100 days left, got %d", results[0].DaysLeft)
	}
	// The default 30-day horizon filters the same product out entirely.
	if filtered := computeStockForecast(rows, 30, 30, 5); len(filtered) != 0 {
		t.Fatalf("100-day cover must not appear inside a 30-day horizon: %+v", filtered)
	}
}

func TestComputeStockForecastExcludesZeroBurn(t *testing.T) {
	rows := []productBurnRow{
		{ProductId: 1, ProductName: "Dust Collector", Stock: 2, SoldQty: 0},
		{ProductId: 2, ProductName: "Seller", Stock: 2, SoldQty: 10},
	}
	results := computeStockForecast(rows, 30, 30, 5)
	if len(results) != 1 || results[0].ProductName != "Seller" {
		t.Fatalf("zero-burn product must be excluded even at low stock: %+v", results)
	}
}

func TestComputeStockForecastHorizonFilter(t *testing.T) {
	rows := []productBurnRow{
		{ProductId: 1, ProductName: "At Horizon", Stock: 30, SoldQty: 30},
		{ProductId: 2, ProductName: "Inside Horizon", Stock: 29, SoldQty: 30},
	}
	// days_left == horizon is not urgent; strictly-less only.
	results := computeStockForecast(rows, 30, 30, 5)
	if len(results) != 1 || results[0].ProductName != "Inside Horizon" {
		t.Fatalf("expected only the product strictly inside the horizon: %+v", results)
	}
}

func TestComputeStockForecastSortAndCap(t *testing.T) {
	rows := []productBurnRow{
		{ProductId: 1, ProductName: "P1", Stock: 9, SoldQty: 30},
		{ProductId: 2, ProductName: "P2", Stock: 3, SoldQty: 30},
		{ProductId: 3, ProductName: "P3", Stock: 6, SoldQty: 30},
		{ProductId: 4, ProductName: "P4", Stock: 1, SoldQty: 30},
		{ProductId: 5, ProductName: "P5", Stock: 12, SoldQty: 30},
		{ProductId: 6, ProductName: "P6", Stock: 20, SoldQty: 30},
	}
	results := computeStockForecast(rows, 30, 30, 5)
	if len(results) != 5 {
		t.Fatalf("expected top-5 cap, got %d", len(results))
	}
	wantOrder := []string{"P4", "P2", "P3", "P1", "P5"}
	for i, want := range wantOrder {
		if results[i].ProductName != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, results[i].ProductName)
		}
	}
}

func TestComputeStockForecastTiesBreakByProductId(t *testing.T) {
	rows := []productBurnRow{
		{ProductId: 7, ProductName: "Later", Stock: 5, SoldQty: 30},
		{ProductId: 2, ProductName: "Earlier", Stock: 5, SoldQty: 30},
	}
	results := computeStockForecast(rows, 30, 30, 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(results))
	}
	if results[0].ProductName != "Earlier" || results[1].ProductName != "Later" {
		t.Fatalf("equal urgency must order by product id: %+v, %+v", results[0], results[1])
	}
}

func TestComputeStockForecastEmpty(t *testing.T) {
	results := computeStockForecast(nil, 30, 30, 5)
	if results == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(results) != 0 {
		t.Fatalf("expected no forecasts, got %d", len(results))
	}
}
