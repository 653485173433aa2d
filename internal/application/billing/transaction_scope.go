package billing

import (
	"context"

	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the repositories the
// checkout confirmation touches. Everything executed inside one scope
// commits or rolls back atomically: the stock decrement, the bill insert
// and the staging cart status flip stand or fall together.
type TransactionScope interface {
	// Execute runs fn inside a database transaction. An error from fn
	// rolls the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the
// current transaction
type TransactionalRepositories interface {
	StagingCarts() billing.StagingCartRepository
	Products() catalog.ProductRepository
	Bills() billing.BillRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests with in-memory repositories.
type NoOpTransactionScope struct {
	stagingRepo billing.StagingCartRepository
	productRepo catalog.ProductRepository
	billRepo    billing.BillRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories
func NewNoOpTransactionScope(
	stagingRepo billing.StagingCartRepository,
	productRepo catalog.ProductRepository,
	billRepo billing.BillRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stagingRepo: stagingRepo,
		productRepo: productRepo,
		billRepo:    billRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StagingCarts returns the staging cart repository
func (s *NoOpTransactionScope) StagingCarts() billing.StagingCartRepository {
	return s.stagingRepo
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.productRepo
}

// Bills returns the bill repository
func (s *NoOpTransactionScope) Bills() billing.BillRepository {
	return s.billRepo
}
