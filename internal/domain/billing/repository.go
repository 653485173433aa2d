package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StagingCartRepository provides persistence for staging carts
type StagingCartRepository interface {
	shared.StoreScopedRepository[StagingCart]
}

// BillRepository provides persistence for finalized bills
type BillRepository interface {
	// Save persists a new bill with its lines
	Save(ctx context.Context, bill *Bill) error
	// FindByIDForStore loads a bill with its lines
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Bill, error)
	// FindAllForStore lists bills for a store, newest first
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Bill, error)
	// CountForStore counts bills for a store
	CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error)
}
