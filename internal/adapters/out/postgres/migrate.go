package postgres

import (
	"fmt"

	"fulfillment/internal/adapters/out/postgres/fulfillmentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the orders, order_details and fulfillment_intents tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderDetailDTO{},
		&fulfillmentrepo.IntentDTO{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
