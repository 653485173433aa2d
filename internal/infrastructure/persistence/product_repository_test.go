package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepositoryBarcodeScopedToStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeA := uuid.New()
	storeB := uuid.New()
	product := seedProduct(t, db, storeA, "Parle-G", "8901719100017", "10.00", 100)
	seedProduct(t, db, storeB, "Parle-G", "8901719100017", "12.00", 50)

	found, err := repo.FindByBarcode(ctx, storeA, "8901719100017")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
	assert.Equal(t, int64(100), found.AvailableQuantity)

	_, err = repo.FindByBarcode(ctx, uuid.New(), "8901719100017")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByBarcode(ctx, storeA, "")
	require.Error(t, err)
}

func TestProductRepositoryFindByIDForStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "Amul Butter", "8901262010015", "56.00", 20)

	found, err := repo.FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amul Butter", found.Name)

	_, err = repo.FindByIDForStore(ctx, uuid.New(), product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductRepositoryUpdatePersistsDecrement(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	product := seedProduct(t, db, storeID, "Maggi", "8901058000290", "14.00", 10)

	require.NoError(t, product.Decrement(4))
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), found.AvailableQuantity)
	assert.Equal(t, 2, found.Version)
}

func TestProductRepositoryFindByIDsForStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	first := seedProduct(t, db, storeID, "Item A", "111", "10.00", 5)
	second := seedProduct(t, db, storeID, "Item B", "222", "20.00", 5)
	foreign := seedProduct(t, db, uuid.New(), "Item C", "333", "30.00", 5)

	products, err := repo.FindByIDsForStore(ctx, storeID, []uuid.UUID{first.ID, second.ID, foreign.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	empty, err := repo.FindByIDsForStore(ctx, storeID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProductRepositoryPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	for _, barcode := range []string{"111", "222", "333", "444", "555"} {
		seedProduct(t, db, storeID, "Item "+barcode, barcode, "25.00", 10)
	}

	page, err := repo.FindAllForStore(ctx, storeID, shared.Filter{
		Page: 1, PageSize: 2, OrderBy: "barcode", OrderDir: "asc",
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "111", page[0].Barcode)

	count, err := repo.CountForStore(ctx, storeID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestProductRepositoryDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, uuid.New(), "Soap", "666", "50.00", 5)

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), shared.ErrNotFound)
}
