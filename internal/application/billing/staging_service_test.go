package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stagingFixture struct {
	service     *StagingCartService
	stagingRepo *memStagingRepo
	productRepo *memProductRepo
	billRepo    *memBillRepo
	publisher   *capturingPublisher
}

func newStagingFixture() *stagingFixture {
	stagingRepo := newMemStagingRepo()
	productRepo := newMemProductRepo()
	billRepo := newMemBillRepo()
	scope := NewNoOpTransactionScope(stagingRepo, productRepo, billRepo)
	service := NewStagingCartService(stagingRepo, productRepo, scope, zap.NewNop())
	publisher := &capturingPublisher{}
	service.SetEventPublisher(publisher)
	return &stagingFixture{
		service:     service,
		stagingRepo: stagingRepo,
		productRepo: productRepo,
		billRepo:    billRepo,
		publisher:   publisher,
	}
}

func TestStagingServiceFullProtocol(t *testing.T) {
	f := newStagingFixture()
	ctx := context.Background()
	storeID := uuid.New()

	product := newTestProduct(t, storeID, "Toothpaste", "8901030865278", "95.00", 5)
	require.NoError(t, f.productRepo.Save(ctx, product))

	cartID, err := f.service.CreateCart(ctx, storeID)
	require.NoError(t, err)
	require.NoError(t, f.service.MarkScanning(ctx, storeID, cartID))
	require.NoError(t, f.service.AddItem(ctx, storeID, cartID, product.ID, 2))
	require.NoError(t, f.service.ProcessPayment(ctx, storeID, cartID, billing.PaymentUPI, "PAY-test"))

	bill, err := f.service.ConfirmPayment(ctx, storeID, cartID)
	require.NoError(t, err)
	require.Len(t, bill.Lines, 1)
	assert.True(t, bill.TotalAmount.Equal(decimal.NewFromInt(190)), "total %s", bill.TotalAmount)
	assert.Equal(t, billing.PaymentUPI, bill.PaymentMethod)
	assert.Equal(t, "PAY-test", bill.PaymentReference)

	// Stock is decremented and the bill persisted.
	updated, err := f.productRepo.FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.AvailableQuantity)

	saved, err := f.billRepo.FindByIDForStore(ctx, storeID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, saved.ID)

	cart, err := f.service.GetCart(ctx, storeID, cartID)
	require.NoError(t, err)
	assert.Equal(t, billing.StagingStatusConfirmed, cart.Status)

	events := f.publisher.published()
	require.NotEmpty(t, events)
	types := make([]string, 0, len(events))
	for _, event := range events {
		types = append(types, event.EventType())
	}
	assert.Contains(t, types, billing.EventBillCreated)
	assert.Contains(t, types, billing.EventStagingCartConfirmed)
}

func TestStagingServiceAddItemChecksAccumulatedStock(t *testing.T) {
	f := newStagingFixture()
	ctx := context.Background()
	storeID := uuid.New()

	product := newTestProduct(t, storeID, "Biscuits", "222", "30.00", 3)
	require.NoError(t, f.productRepo.Save(ctx, product))

	cartID, err := f.service.CreateCart(ctx, storeID)
	require.NoError(t, err)
	require.NoError(t, f.service.MarkScanning(ctx, storeID, cartID))

	require.NoError(t, f.service.AddItem(ctx, storeID, cartID, product.ID, 2))
	// 2 already staged, 2 more would exceed the 3 in stock.
	err = f.service.AddItem(ctx, storeID, cartID, product.ID, 2)
	assert.ErrorIs(t, err, shared.ErrStockExceeded)

	cart, err := f.service.GetCart(ctx, storeID, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(2), cart.Lines[0].Quantity)
}

func TestStagingServiceRejectsOutOfOrderSteps(t *testing.T) {
	f := newStagingFixture()
	ctx := context.Background()
	storeID := uuid.New()

	product := newTestProduct(t, storeID, "Salt", "333", "20.00", 10)
	require.NoError(t, f.productRepo.Save(ctx, product))

	cartID, err := f.service.CreateCart(ctx, storeID)
	require.NoError(t, err)

	// Adding before the scanning step opens the cart.
	err = f.service.AddItem(ctx, storeID, cartID, product.ID, 1)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	// Paying with nothing staged.
	require.NoError(t, f.service.MarkScanning(ctx, storeID, cartID))
	err = f.service.ProcessPayment(ctx, storeID, cartID, billing.PaymentCash, "PAY-x")
	assert.ErrorIs(t, err, shared.ErrEmptyCart)

	// Confirming before payment.
	_, err = f.service.ConfirmPayment(ctx, storeID, cartID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestStagingServiceConfirmFailsWhenStockRacedAway(t *testing.T) {
	f := newStagingFixture()
	ctx := context.Background()
	storeID := uuid.New()

	product := newTestProduct(t, storeID, "Milk", "444", "60.00", 2)
	require.NoError(t, f.productRepo.Save(ctx, product))

	cartID, err := f.service.CreateCart(ctx, storeID)
	require.NoError(t, err)
	require.NoError(t, f.service.MarkScanning(ctx, storeID, cartID))
	require.NoError(t, f.service.AddItem(ctx, storeID, cartID, product.ID, 2))
	require.NoError(t, f.service.ProcessPayment(ctx, storeID, cartID, billing.PaymentCard, "PAY-y"))

	// Another terminal sold the stock between payment and confirmation.
	drained, err := f.productRepo.FindByIDForStore(ctx, storeID, product.ID)
	require.NoError(t, err)
	require.NoError(t, drained.Decrement(2))
	require.NoError(t, f.productRepo.Save(ctx, drained))

	_, err = f.service.ConfirmPayment(ctx, storeID, cartID)
	assert.ErrorIs(t, err, shared.ErrStockExceeded)

	// No bill was written.
	count, err := f.billRepo.CountForStore(ctx, storeID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStagingServiceScopesCartsToStore(t *testing.T) {
	f := newStagingFixture()
	ctx := context.Background()

	cartID, err := f.service.CreateCart(ctx, uuid.New())
	require.NoError(t, err)

	err = f.service.MarkScanning(ctx, uuid.New(), cartID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
