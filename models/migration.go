package models

import (
	"log"

	"github.com/liorkima5-coder/SmartStock/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Category{}, &Supplier{}, &Customer{},
		&Product{},
		&Order{}, &OrderItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
