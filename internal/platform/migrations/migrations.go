package migrations

import (
	"fmt"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	checkoutpostgres "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/persistence/postgres"
)

// Models lists every persisted record in dependency order: categories before
// products, orders before their line items.
func Models() []any {
	models := append([]any{}, catalogpostgres.Models()...)
	return append(models, checkoutpostgres.Models()...)
}

// Run applies the schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
