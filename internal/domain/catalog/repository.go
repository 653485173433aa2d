package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StoreRepository provides persistence for stores
type StoreRepository interface {
	shared.Repository[Store]
}

// ProductRepository provides persistence for the stock ledger
type ProductRepository interface {
	shared.StoreScopedRepository[Product]
	// FindByBarcode resolves a barcode within a store's ledger
	FindByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*Product, error)
	// FindByIDsForStore loads multiple products in one round trip
	FindByIDsForStore(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)
}
