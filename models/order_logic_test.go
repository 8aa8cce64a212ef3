package models

import (
	"strings"
	"testing"

	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testProducts() map[int]*Product {
	return map[int]*Product{
		1: {ID: 1, Name: "Cola 330ml", Quantity: 10, SellPrice: decimal.RequireFromString("50"), CostPrice: decPtr("30")},
		2: {ID: 2, Name: "Orange Juice 1L", Quantity: 5, SellPrice: decimal.RequireFromString("20"), CostPrice: decPtr("10")},
		3: {ID: 3, Name: "Mystery Box", Quantity: 7, SellPrice: decimal.RequireFromString("12.50")},
	}
}

func TestBuildOrderLinesTotalsAndSnapshots(t *testing.T) {
	products := testProducts()

	lines, total, err := buildOrderLines(products, []NewOrderItem{
		{ProductId: 1, Quantity: 2},
		{ProductId: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("buildOrderLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !total.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected total 120, got %s", total)
	}

	if lines[0].ProductName != "Cola 330ml" || !lines[0].SellPrice.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("line 0 did not snapshot product name/price: %+v", lines[0])
	}
	if lines[0].CostPrice == nil || !lines[0].CostPrice.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("line 0 did not snapshot cost price: %+v", lines[0].CostPrice)
	}

	// The snapshot must be a copy. Re-pricing the product afterwards must
	// not reach back into the committed line.
	*products[1].CostPrice = decimal.RequireFromString("999")
	if !lines[0].CostPrice.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("line 0 cost price aliases the product row: %s", lines[0].CostPrice)
	}
}

func TestBuildOrderLinesNilCostPrice(t *testing.T) {
	lines, total, err := buildOrderLines(testProducts(), []NewOrderItem{
		{ProductId: 3, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("buildOrderLines: %v", err)
	}
	if lines[0].CostPrice != nil {
		t.Fatalf("expected nil cost price snapshot, got %s", lines[0].CostPrice)
	}
	if !total.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected total 25, got %s", total)
	}
}

func TestBuildOrderLinesInsufficientStock(t *testing.T) {
	_, _, err := buildOrderLines(testProducts(), []NewOrderItem{
		{ProductId: 2, Quantity: 1},
		{ProductId: 1, Quantity: 11},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if kind := utils.KindOf(err); kind != utils.ErrorKindInsufficientStock {
		t.Fatalf("expected InsufficientStock, got %s (%v)", kind, err)
	}
	// The message has to name the product and both quantities; it is what
	// the cashier sees.
	msg := err.Error()
	for _, want := range []string{"Cola 330ml", "11", "10"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message %q missing %q", msg, want)
		}
	}
}

func TestBuildOrderLinesUnknownProduct(t *testing.T) {
	_, _, err := buildOrderLines(testProducts(), []NewOrderItem{
		{ProductId: 42, Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if kind := utils.KindOf(err); kind != utils.ErrorKindNotFound {
		t.Fatalf("expected NotFound, got %s (%v)", kind, err)
	}
}

func TestBuildOrderLinesExactStockAllowed(t *testing.T) {
	lines, _, err := buildOrderLines(testProducts(), []NewOrderItem{
		{ProductId: 2, Quantity: 5},
	})
	if err != nil {
		t.Fatalf("draining stock to exactly zero must be allowed: %v", err)
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
}

func TestNewOrderValidate(t *testing.T) {
	badMethod := PaymentMethod("bitcoin")
	card := PaymentMethodCard

	cases := []struct {
		name    string
		input   NewOrder
		wantErr bool
	}{
		{
			name:    "empty cart",
			input:   NewOrder{Items: []NewOrderItem{}},
			wantErr: true,
		},
		{
			name:    "non-positive quantity",
			input:   NewOrder{Items: []NewOrderItem{{ProductId: 1, Quantity: 0}}},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			input:   NewOrder{Items: []NewOrderItem{{ProductId: 1, Quantity: -3}}},
			wantErr: true,
		},
		{
			name:    "non-positive product id",
			input:   NewOrder{Items: []NewOrderItem{{ProductId: 0, Quantity: 1}}},
			wantErr: true,
		},
		{
			name: "duplicate product lines",
			input: NewOrder{Items: []NewOrderItem{
				{ProductId: 1, Quantity: 1},
				{ProductId: 1, Quantity: 2},
			}},
			wantErr: true,
		},
		{
			name: "unknown payment method",
			input: NewOrder{
				Items:         []NewOrderItem{{ProductId: 1, Quantity: 1}},
				PaymentMethod: &badMethod,
			},
			wantErr: true,
		},
		{
			name: "valid cart",
			input: NewOrder{
				Items: []NewOrderItem{
					{ProductId: 1, Quantity: 1},
					{ProductId: 2, Quantity: 4},
				},
				PaymentMethod: &card,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if kind := utils.KindOf(err); kind != utils.ErrorKindInvalidInput {
					t.Fatalf("expected InvalidInput, got %s (%v)", kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
