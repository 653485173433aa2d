package billing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductResolver resolves barcodes against a store's stock ledger
type ProductResolver interface {
	ResolveByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error)
}

// SessionController is the composition root for one billing-screen
// visit. It owns the cart and the sync session exclusively for its
// lifetime and is constructed per visit - never shared - so independent
// sessions cannot contaminate each other.
//
// The role decision lives here: a fresh visit makes this device the
// Receiver (it creates the session other devices join); entering through
// an existing session id makes it the Sender.
type SessionController struct {
	storeID      uuid.UUID
	resolver     ProductResolver
	relay        *SyncRelay
	orchestrator *CheckoutOrchestrator
	logger       *zap.Logger

	mu        sync.Mutex
	cart      *billing.Cart
	stopRelay func()
	lastErr   error
	disposed  bool

	checkoutBusy atomic.Bool
}

// NewSessionController creates a controller for a store's billing screen
func NewSessionController(
	storeID uuid.UUID,
	resolver ProductResolver,
	relay *SyncRelay,
	orchestrator *CheckoutOrchestrator,
	logger *zap.Logger,
) *SessionController {
	return &SessionController{
		storeID:      storeID,
		resolver:     resolver,
		relay:        relay,
		orchestrator: orchestrator,
		logger:       logger.Named("billing_session"),
		cart:         billing.NewCart(storeID),
	}
}

// ScanBarcode handles a barcode read on this device. As Sender the code
// is relayed for the paired terminal to resolve; otherwise it is
// resolved locally and added to the cart.
func (c *SessionController) ScanBarcode(ctx context.Context, code string) error {
	if err := c.ensureLive(); err != nil {
		return err
	}

	if c.currentRole() == billing.RoleSender && c.relay.State() != billing.StateDisconnected {
		event, err := billing.NewBarcodeScan(code)
		if err != nil {
			return err
		}
		if err := c.relay.Publish(ctx, event); err != nil {
			c.recordError(err)
			return err
		}
		return nil
	}

	product, err := c.resolver.ResolveByBarcode(ctx, c.storeID, code)
	if err != nil {
		// Unresolvable barcode is non-fatal; the cart is untouched.
		c.recordError(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cart.AddOrIncrement(product, 1); err != nil {
		c.lastErr = err
		return err
	}
	return nil
}

// AddManually adds a product chosen from a list. As Sender the resolved
// product is relayed whole (the legacy full-product path); otherwise it
// goes straight into the cart.
func (c *SessionController) AddManually(ctx context.Context, product *catalog.Product, qty int64) error {
	if err := c.ensureLive(); err != nil {
		return err
	}
	if product == nil {
		return shared.ErrInvalidInput
	}

	if c.currentRole() == billing.RoleSender && c.relay.State() != billing.StateDisconnected {
		event, err := billing.NewProductScan(billing.SnapshotFromProduct(product, qty))
		if err != nil {
			return err
		}
		if err := c.relay.Publish(ctx, event); err != nil {
			c.recordError(err)
			return err
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cart.AddOrIncrement(product, qty); err != nil {
		c.lastErr = err
		return err
	}
	return nil
}

// UpdateQuantity sets a line's absolute quantity
func (c *SessionController) UpdateQuantity(productID uuid.UUID, qty int64) error {
	if err := c.ensureLive(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cart.SetQuantity(productID, qty); err != nil {
		c.lastErr = err
		return err
	}
	return nil
}

// RemoveLine removes a line; absent lines are a no-op
func (c *SessionController) RemoveLine(productID uuid.UUID) error {
	if err := c.ensureLive(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Remove(productID)
	return nil
}

// Clear empties the cart
func (c *SessionController) Clear() error {
	if err := c.ensureLive(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Clear()
	return nil
}

// StartSync enables multi-device scanning. An empty sessionID creates a
// fresh session with this device as Receiver; a provided id joins that
// session as Sender.
func (c *SessionController) StartSync(ctx context.Context, sessionID string) (*billing.BillingSession, error) {
	if err := c.ensureLive(); err != nil {
		return nil, err
	}

	role := billing.RoleReceiver
	if sessionID != "" {
		role = billing.RoleSender
	}

	session, err := c.relay.OpenSession(ctx, c.storeID, role, sessionID)
	if err != nil {
		c.recordError(err)
		return nil, err
	}

	if role == billing.RoleReceiver {
		stop, err := c.relay.Subscribe(ctx, c.onRemoteBarcode, c.onRemoteProduct)
		if err != nil {
			c.relay.Close()
			c.recordError(err)
			return nil, err
		}
		c.mu.Lock()
		c.stopRelay = stop
		c.mu.Unlock()
	}

	return session, nil
}

// StopSync disables multi-device scanning. Local billing continues.
func (c *SessionController) StopSync() {
	c.mu.Lock()
	stop := c.stopRelay
	c.stopRelay = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	c.relay.Close()
}

// Checkout runs the five-step protocol on a snapshot of the cart. A
// second call while one is in flight fails with CHECKOUT_IN_PROGRESS.
// On success the cart is cleared; on failure it is left intact so the
// operator can retry the whole checkout.
func (c *SessionController) Checkout(ctx context.Context, method billing.PaymentMethod) (*billing.Bill, error) {
	if err := c.ensureLive(); err != nil {
		return nil, err
	}

	if !c.checkoutBusy.CompareAndSwap(false, true) {
		return nil, shared.ErrCheckoutInProgress
	}
	defer c.checkoutBusy.Store(false)

	c.mu.Lock()
	snapshot := c.cart.Clone()
	c.mu.Unlock()

	bill, err := c.orchestrator.Checkout(ctx, snapshot, method)
	if err != nil {
		c.recordError(err)
		return nil, err
	}

	c.mu.Lock()
	c.cart.Clear()
	c.mu.Unlock()

	return bill, nil
}

// State returns a render-ready snapshot of the session
func (c *SessionController) State() SessionState {
	c.mu.Lock()
	lines := c.cart.Lines()
	total := c.cart.Total()
	lastErr := c.lastErr
	c.mu.Unlock()

	state := SessionState{
		StoreID:            c.storeID,
		CartLines:          lines,
		Total:              total,
		ConnectionState:    c.relay.State(),
		CheckoutInProgress: c.checkoutBusy.Load(),
	}
	if session := c.relay.Session(); session != nil {
		state.SessionID = session.SessionID
		state.Role = session.Role
	}
	if lastErr != nil {
		state.LastError = lastErr.Error()
	}
	return state
}

// Dispose tears the controller down. Further operations fail with
// INVALID_STATE.
func (c *SessionController) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.StopSync()
	c.logger.Debug("session controller disposed")
}

// SessionState is the controller's presentation snapshot
type SessionState struct {
	StoreID            uuid.UUID               `json:"store_id"`
	SessionID          string                  `json:"session_id,omitempty"`
	Role               billing.SessionRole     `json:"role,omitempty"`
	CartLines          []billing.CartLine      `json:"cart_lines"`
	Total              billing.CartTotal       `json:"total"`
	ConnectionState    billing.ConnectionState `json:"connection_state"`
	CheckoutInProgress bool                    `json:"checkout_in_progress"`
	LastError          string                  `json:"last_error,omitempty"`
}

// onRemoteBarcode applies a relayed barcode scan to the local cart.
// Runs on the relay's notification goroutine.
func (c *SessionController) onRemoteBarcode(code string) {
	ctx := context.Background()
	product, err := c.resolver.ResolveByBarcode(ctx, c.storeID, code)
	if err != nil {
		c.recordError(err)
		c.logger.Warn("relayed barcode did not resolve",
			zap.String("barcode", code),
			zap.Error(err),
		)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cart.AddOrIncrement(product, 1); err != nil {
		c.lastErr = err
		c.logger.Warn("relayed scan rejected", zap.Error(err))
	}
}

// onRemoteProduct applies a relayed full-product scan to the local
// cart, honoring the sender's picked quantity
func (c *SessionController) onRemoteProduct(snapshot billing.ProductSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.cart.AddSnapshot(snapshot, snapshot.Quantity); err != nil {
		c.lastErr = err
		c.logger.Warn("relayed product rejected", zap.Error(err))
	}
}

func (c *SessionController) currentRole() billing.SessionRole {
	if session := c.relay.Session(); session != nil {
		return session.Role
	}
	return billing.RoleReceiver
}

func (c *SessionController) ensureLive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return shared.ErrInvalidState
	}
	return nil
}

func (c *SessionController) recordError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
