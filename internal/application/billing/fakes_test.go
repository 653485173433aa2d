package billing

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

func newTestProduct(t *testing.T, storeID uuid.UUID, name, barcode, price string, qty int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyINRFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(storeID, name, barcode, money, qty)
	require.NoError(t, err)
	return product
}

// memStagingRepo is an in-memory StagingCartRepository. It stores value
// copies so aggregates mutated by a caller are not visible until saved.
type memStagingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]billing.StagingCart
}

func newMemStagingRepo() *memStagingRepo {
	return &memStagingRepo{items: make(map[uuid.UUID]billing.StagingCart)}
}

func (r *memStagingRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &cart, nil
}

func (r *memStagingRepo) FindAll(_ context.Context, _ shared.Filter) ([]billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	carts := make([]billing.StagingCart, 0, len(r.items))
	for _, cart := range r.items {
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *memStagingRepo) Save(_ context.Context, cart *billing.StagingCart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[cart.ID] = *cart
	return nil
}

func (r *memStagingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memStagingRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *memStagingRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.items[id]
	if !ok || cart.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &cart, nil
}

func (r *memStagingRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]billing.StagingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	carts := make([]billing.StagingCart, 0)
	for _, cart := range r.items {
		if cart.StoreID == storeID {
			carts = append(carts, cart)
		}
	}
	return carts, nil
}

func (r *memStagingRepo) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	carts, err := r.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(carts)), nil
}

// memProductRepo is an in-memory ProductRepository. It also satisfies
// ProductResolver so session controller tests can resolve barcodes from it.
type memProductRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[uuid.UUID]catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := make([]catalog.Product, 0, len(r.items))
	for _, product := range r.items {
		products = append(products, product)
	}
	return products, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *memProductRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.items[id]
	if !ok || product.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

func (r *memProductRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := make([]catalog.Product, 0)
	for _, product := range r.items {
		if product.StoreID == storeID {
			products = append(products, product)
		}
	}
	return products, nil
}

func (r *memProductRepo) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	products, err := r.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(products)), nil
}

func (r *memProductRepo) FindByBarcode(_ context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.items {
		if product.StoreID == storeID && product.Barcode == barcode {
			p := product
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDsForStore(_ context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.items[id]; ok && product.StoreID == storeID {
			products = append(products, product)
		}
	}
	return products, nil
}

func (r *memProductRepo) ResolveByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error) {
	return r.FindByBarcode(ctx, storeID, barcode)
}

// memBillRepo is an in-memory BillRepository
type memBillRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]billing.Bill
}

func newMemBillRepo() *memBillRepo {
	return &memBillRepo{items: make(map[uuid.UUID]billing.Bill)}
}

func (r *memBillRepo) Save(_ context.Context, bill *billing.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[bill.ID] = *bill
	return nil
}

func (r *memBillRepo) FindByIDForStore(_ context.Context, storeID, id uuid.UUID) (*billing.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bill, ok := r.items[id]
	if !ok || bill.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	return &bill, nil
}

func (r *memBillRepo) FindAllForStore(_ context.Context, storeID uuid.UUID, _ shared.Filter) ([]billing.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bills := make([]billing.Bill, 0)
	for _, bill := range r.items {
		if bill.StoreID == storeID {
			bills = append(bills, bill)
		}
	}
	return bills, nil
}

func (r *memBillRepo) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	bills, err := r.FindAllForStore(ctx, storeID, shared.DefaultFilter())
	if err != nil {
		return 0, err
	}
	return int64(len(bills)), nil
}

// capturingPublisher records published domain events
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}
