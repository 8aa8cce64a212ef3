package models_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/models"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
)

// Exercises the whole checkout path against a real MySQL: row locks,
// guarded decrements and snapshot lines. Run with:
//
//	INTEGRATION_TESTS=1 DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go test ./models -run Integration
func TestCheckoutIntegration(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 and DB_* env vars to run integration tests")
	}

	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	models.MigrateTable()

	user, err := models.RegisterUser(ctx, &models.NewUser{
		Email:        fmt.Sprintf("checkout-it-%d@test.local", os.Getpid()),
		Password:     "secret-test",
		BusinessName: "Checkout IT",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUsernameInContext(ctx, user.Username)

	cost := decimal.RequireFromString("30")
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:      "IT Cola",
		Sku:       fmt.Sprintf("IT-COLA-%d", os.Getpid()),
		Quantity:  10,
		CostPrice: &cost,
		SellPrice: decimal.RequireFromString("50"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		Items: []models.NewOrderItem{{ProductId: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected total 100, got %s", order.TotalAmount)
	}
	if order.PaymentMethod != models.PaymentMethodCash {
		t.Fatalf("expected default payment method cash, got %s", order.PaymentMethod)
	}

	after, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if after.Quantity != 8 {
		t.Fatalf("expected stock 8 after checkout, got %d", after.Quantity)
	}

	items, err := models.GetOrderItems(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrderItems: %v", err)
	}
	if len(items) != 1 || !items[0].SellPrice.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected one snapshot line at 50, got %+v", items)
	}

	// Concurrent drain of the remaining 8 units, one at a time. Exactly 8
	// carts can succeed; the rest must fail as InsufficientStock and the
	// shelf must end at zero, never below.
	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := models.CreateOrder(ctx, &models.NewOrder{
				Items: []models.NewOrderItem{{ProductId: product.ID, Quantity: 1}},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if kind := utils.KindOf(err); kind != utils.ErrorKindInsufficientStock && kind != utils.ErrorKindConflict {
			t.Fatalf("unexpected concurrent checkout failure: %s (%v)", kind, err)
		}
	}
	if succeeded > 8 {
		t.Fatalf("oversold: %d carts succeeded for 8 units", succeeded)
	}

	final, err := models.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if final.Quantity < 0 {
		t.Fatalf("stock went negative: %d", final.Quantity)
	}
	if final.Quantity != 8-succeeded {
		t.Fatalf("stock leak: %d remaining after %d sales of 8", final.Quantity, succeeded)
	}
}
