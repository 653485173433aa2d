package persistence

import (
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted aggregate
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalog.Store{},
		&catalog.Product{},
		&billing.StagingCart{},
		&billing.StagingCartLine{},
		&billing.Bill{},
		&billing.BillLine{},
	); err != nil {
		return err
	}

	// Composite uniqueness spans the embedded store scope, so it is created
	// here rather than through field tags.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_product_store_barcode ON products(store_id, barcode)",
	).Error
}
