package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Bill", uuid.New(), uuid.New())
	return &e
}

func TestBusDeliversToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{billing.EventBillCreated}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		testEvent(billing.EventBillCreated),
		testEvent(billing.EventStagingCartConfirmed),
	)
	require.NoError(t, err)

	events := handler.received()
	require.Len(t, events, 1)
	assert.Equal(t, billing.EventBillCreated, events[0].EventType())
}

func TestBusWildcardHandlerReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		testEvent(billing.EventBillCreated),
		testEvent(billing.EventStagingCartConfirmed),
	)
	require.NoError(t, err)
	assert.Len(t, handler.received(), 2)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{billing.EventBillCreated}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), testEvent(billing.EventBillCreated)))
	assert.Empty(t, handler.received())
}

func TestBusFailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{billing.EventBillCreated}, err: assert.AnError}
	healthy := &recordingHandler{types: []string{billing.EventBillCreated}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), testEvent(billing.EventBillCreated)))
	assert.Len(t, healthy.received(), 1)
}

func TestBusRecoversFromPanickingHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{billing.EventBillCreated}, panics: true}
	healthy := &recordingHandler{types: []string{billing.EventBillCreated}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), testEvent(billing.EventBillCreated))
	})
	assert.Len(t, healthy.received(), 1)
}

func TestBusRejectsDoubleStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	require.NoError(t, bus.Start(context.Background()))
	assert.Error(t, bus.Start(context.Background()))

	require.NoError(t, bus.Stop(context.Background()))
	assert.NoError(t, bus.Start(context.Background()))
}

func TestBillingAuditHandlerAcceptsBillingEvents(t *testing.T) {
	handler := NewBillingAuditHandler(zap.NewNop())
	assert.ElementsMatch(t,
		[]string{billing.EventBillCreated, billing.EventStagingCartConfirmed},
		handler.EventTypes(),
	)
	assert.NoError(t, handler.Handle(context.Background(), testEvent(billing.EventBillCreated)))
}
