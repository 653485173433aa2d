package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionScopeCommitsAtomically(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "Soap", "111", "50.00", 5)

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		p, err := repos.Products().FindByIDForStore(ctx, storeID, product.ID)
		if err != nil {
			return err
		}
		if err := p.Decrement(2); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return err
		}

		bill, err := billing.NewBill(storeID, []billing.BillLineInput{{
			ProductID: p.ID,
			Name:      p.Name,
			Barcode:   p.Barcode,
			Quantity:  2,
			UnitPrice: p.UnitPrice,
		}}, billing.PaymentCash, billing.NewPaymentReference())
		if err != nil {
			return err
		}
		return repos.Bills().Save(ctx, bill)
	})
	require.NoError(t, err)

	found, err := NewGormProductRepository(db).FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.AvailableQuantity)

	count, err := NewGormBillRepository(db).CountForStore(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTransactionScopeRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "Soap", "111", "50.00", 5)

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		p, err := repos.Products().FindByIDForStore(ctx, storeID, product.ID)
		if err != nil {
			return err
		}
		if err := p.Decrement(5); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, p); err != nil {
			return err
		}

		bill, err := billing.NewBill(storeID, []billing.BillLineInput{{
			ProductID: p.ID,
			Name:      p.Name,
			Barcode:   p.Barcode,
			Quantity:  5,
			UnitPrice: decimal.NewFromInt(50),
		}}, billing.PaymentCash, billing.NewPaymentReference())
		if err != nil {
			return err
		}
		if err := repos.Bills().Save(ctx, bill); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// The decrement and the bill both rolled back.
	found, findErr := NewGormProductRepository(db).FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, findErr)
	assert.Equal(t, int64(5), found.AvailableQuantity)

	count, countErr := NewGormBillRepository(db).CountForStore(ctx, storeID)
	require.NoError(t, countErr)
	assert.Zero(t, count)
}
