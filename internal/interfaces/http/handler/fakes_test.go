package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/require"
)

// The fakes below store value copies so aggregate mutations are only
// visible after Save, matching real repository behavior.

type memStoreRepo struct {
	mu     sync.Mutex
	stores map[uuid.UUID]catalog.Store
}

func newMemStoreRepo() *memStoreRepo {
	return &memStoreRepo{stores: make(map[uuid.UUID]catalog.Store)}
}

func (r *memStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &store, nil
}

func (r *memStoreRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Store, 0, len(r.stores))
	for _, store := range r.stores {
		result = append(result, store)
	}
	return result, nil
}

func (r *memStoreRepo) Save(_ context.Context, store *catalog.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[store.ID] = *store
	return nil
}

func (r *memStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.stores, id)
	return nil
}

func (r *memStoreRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stores)), nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok || product.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, product)
	}
	return result, nil
}

func (r *memProductRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Product, 0)
	for _, product := range r.products {
		if product.StoreID == storeID {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *memProductRepo) FindByBarcode(_ context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.StoreID == storeID && product.Barcode == barcode {
			return &product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDsForStore(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok && product.StoreID == storeID {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepo) CountForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, product := range r.products {
		if product.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

type memStagingRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]billing.StagingCart
}

func newMemStagingRepo() *memStagingRepo {
	return &memStagingRepo{carts: make(map[uuid.UUID]billing.StagingCart)}
}

func (r *memStagingRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &cart, nil
}

func (r *memStagingRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok || cart.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &cart, nil
}

func (r *memStagingRepo) FindAll(_ context.Context, _ shared.Filter) ([]billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]billing.StagingCart, 0, len(r.carts))
	for _, cart := range r.carts {
		result = append(result, cart)
	}
	return result, nil
}

func (r *memStagingRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]billing.StagingCart, 0)
	for _, cart := range r.carts {
		if cart.StoreID == storeID {
			result = append(result, cart)
		}
	}
	return result, nil
}

func (r *memStagingRepo) Save(_ context.Context, cart *billing.StagingCart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.ID] = *cart
	return nil
}

func (r *memStagingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.carts, id)
	return nil
}

func (r *memStagingRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.carts)), nil
}

func (r *memStagingRepo) CountForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, cart := range r.carts {
		if cart.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

type memBillRepo struct {
	mu    sync.Mutex
	bills map[uuid.UUID]billing.Bill
}

func newMemBillRepo() *memBillRepo {
	return &memBillRepo{bills: make(map[uuid.UUID]billing.Bill)}
}

func (r *memBillRepo) Save(_ context.Context, bill *billing.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills[bill.ID] = *bill
	return nil
}

func (r *memBillRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*billing.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bill, ok := r.bills[id]
	if !ok || bill.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &bill, nil
}

func (r *memBillRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]billing.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]billing.Bill, 0)
	for _, bill := range r.bills {
		if bill.StoreID == storeID {
			result = append(result, bill)
		}
	}
	return result, nil
}

func (r *memBillRepo) CountForStore(_ context.Context, storeID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, bill := range r.bills {
		if bill.StoreID == storeID {
			count++
		}
	}
	return count, nil
}

func newTestProduct(t *testing.T, storeID uuid.UUID, name, barcode, price string, qty int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyINRFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(storeID, name, barcode, money, qty)
	require.NoError(t, err)
	return product
}
