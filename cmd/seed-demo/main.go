// seed-demo provisions a demo account (demo@smartstock.dev) with a small
// catalog so a fresh database has something to sell against.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
//
// Rerunning against a seeded database exits cleanly without duplicating data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/liorkima5-coder/SmartStock/config"
	"github.com/liorkima5-coder/SmartStock/models"
	"github.com/liorkima5-coder/SmartStock/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@smartstock.dev"
	demoPassword = "demo-password"
	demoBusiness = "SmartStock Demo Shop"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var existing models.User
	err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		fmt.Printf("demo account already seeded: email=%q\n", demoEmail)
		return
	}
	if err != gorm.ErrRecordNotFound {
		fmt.Fprintf(os.Stderr, "failed to lookup demo user: %v\n", err)
		os.Exit(1)
	}

	user, err := models.RegisterUser(ctx, &models.NewUser{
		Email:        demoEmail,
		Password:     demoPassword,
		BusinessName: demoBusiness,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to register demo user: %v\n", err)
		os.Exit(1)
	}

	// Catalog writes go through the same owner-scoped model functions the
	// API uses, so the seeded user id has to be in context.
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUsernameInContext(ctx, user.Username)

	beverages := mustCategory(ctx, "Beverages")
	snacks := mustCategory(ctx, "Snacks")

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name:  "Acme Wholesale",
		Phone: "+97235551234",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create supplier: %v\n", err)
		os.Exit(1)
	}

	if _, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:  "Walk-in Regular",
		Phone: "+972501234567",
		Email: "regular@example.com",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create customer: %v\n", err)
		os.Exit(1)
	}

	products := []models.NewProduct{
		{
			Name:         "Cola 330ml",
			Sku:          "BEV-COLA-330",
			CategoryId:   &beverages.ID,
			SupplierId:   &supplier.ID,
			Quantity:     120,
			CostPrice:    decimalPtr("2.10"),
			SellPrice:    decimal.RequireFromString("4.50"),
			ReorderLevel: 24,
		},
		{
			Name:         "Orange Juice 1L",
			Sku:          "BEV-OJ-1L",
			CategoryId:   &beverages.ID,
			SupplierId:   &supplier.ID,
			Quantity:     40,
			CostPrice:    decimalPtr("5.80"),
			SellPrice:    decimal.RequireFromString("9.90"),
			ReorderLevel: 10,
		},
		{
			Name:         "Salted Pretzels",
			Sku:          "SNK-PRETZEL",
			CategoryId:   &snacks.ID,
			SupplierId:   &supplier.ID,
			Quantity:     60,
			CostPrice:    decimalPtr("3.00"),
			SellPrice:    decimal.RequireFromString("6.00"),
			ReorderLevel: 12,
		},
	}
	for i := range products {
		if _, err := models.CreateProduct(ctx, &products[i]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create product %q: %v\n", products[i].Name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded demo account: email=%q password=%q (%d products)\n", demoEmail, demoPassword, len(products))
}

func mustCategory(ctx context.Context, name string) *models.Category {
	category, err := models.CreateCategory(ctx, &models.NewCategory{Name: name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create category %q: %v\n", name, err)
		os.Exit(1)
	}
	return category
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
