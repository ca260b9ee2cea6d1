package database

import (
	"errors"

	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.Shipment{},
	)
}

// Seed stocks the demo catalogue. Adidas SKUs are deliberately out of stock so
// that orders containing them need a customer decision.
func Seed(db *gorm.DB) error {
	products := []models.Product{
		{SKU: "Nike-1", Name: "Nike Air Zoom", Description: "Running shoe", Stock: 100},
		{SKU: "Nike-2", Name: "Nike Pegasus", Description: "Trainer", Stock: 50},
		{SKU: "Puma-1", Name: "Puma Suede", Description: "Classic sneaker", Stock: 25},
		{SKU: "Adidas-1", Name: "Adidas Samba", Description: "Sold out", Stock: 0},
		{SKU: "Adidas-2", Name: "Adidas Gazelle", Description: "Sold out", Stock: 0},
	}

	for _, p := range products {
		var existing models.Product
		if err := db.Where("sku = ?", p.SKU).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
