package persistence

import (
	"context"

	appbilling "github.com/retailpos/backend/internal/application/billing"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements the checkout TransactionScope using GORM
// transactions. The stock decrement, bill insert and staging cart update
// issued inside one Execute call commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StagingCarts returns the staging cart repository scoped to the current transaction
func (r *gormTransactionalRepositories) StagingCarts() billing.StagingCartRepository {
	return NewGormStagingCartRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Bills returns the bill repository scoped to the current transaction
func (r *gormTransactionalRepositories) Bills() billing.BillRepository {
	return NewGormBillRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
