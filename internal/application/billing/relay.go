package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/syncdoc"
	"go.uber.org/zap"
)

// DefaultSyncGraceWindow is how long the session stays in the syncing
// state after an event arrives before settling back to connected. Purely
// a presentation affordance, not a correctness mechanism.
const DefaultSyncGraceWindow = time.Second

// SessionDocument is the JSON shape of the shared remote document. The
// event slot holds at most the latest published scan; writes overwrite.
type SessionDocument struct {
	SessionID string             `json:"session_id"`
	StoreID   uuid.UUID          `json:"store_id"`
	Event     *billing.ScanEvent `json:"event,omitempty"`
}

func sessionPath(sessionID string) string {
	return "sessions/" + sessionID
}

// SyncRelay transports scan events between the two devices of a billing
// session through a shared remote document. It owns the session's
// connection state machine and deduplicates deliveries by the event's
// EmittedAt stamp, per event kind.
type SyncRelay struct {
	store       syncdoc.Store
	logger      *zap.Logger
	graceWindow time.Duration

	mu            sync.Mutex
	session       *billing.BillingSession
	unsubscribe   syncdoc.Unsubscribe
	graceTimer    *time.Timer
	lastBarcodeAt int64
	lastProductAt int64
	lastErr       error
}

// RelayOption configures a SyncRelay
type RelayOption func(*SyncRelay)

// WithGraceWindow overrides the syncing-state grace window
func WithGraceWindow(d time.Duration) RelayOption {
	return func(r *SyncRelay) {
		if d > 0 {
			r.graceWindow = d
		}
	}
}

// NewSyncRelay creates a relay over the given document store
func NewSyncRelay(store syncdoc.Store, logger *zap.Logger, opts ...RelayOption) *SyncRelay {
	r := &SyncRelay{
		store:       store,
		logger:      logger.Named("sync_relay"),
		graceWindow: DefaultSyncGraceWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenSession opens or joins a billing session. An empty sessionID
// generates a fresh one. Calling again with the current session's id is
// a no-op returning the existing session.
func (r *SyncRelay) OpenSession(ctx context.Context, storeID uuid.UUID, role billing.SessionRole, sessionID string) (*billing.BillingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil && r.session.IsActive() {
		if sessionID == "" || r.session.SessionID == sessionID {
			return r.session, nil
		}
		return nil, shared.NewDomainError("SESSION_ACTIVE", "Close the current session before opening another")
	}

	session, err := billing.NewBillingSession(storeID, role, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.BeginConnect(); err != nil {
		return nil, err
	}

	// Seed the document only when the session is brand new; a joining
	// device must not clobber an event already in flight.
	path := sessionPath(session.SessionID)
	if _, err := r.store.Read(ctx, path); errors.Is(err, shared.ErrNotFound) {
		doc, marshalErr := json.Marshal(SessionDocument{
			SessionID: session.SessionID,
			StoreID:   storeID,
		})
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode session document: %w", marshalErr)
		}
		if writeErr := r.store.Write(ctx, path, doc); writeErr != nil {
			session.Disconnect()
			r.lastErr = writeErr
			return nil, fmt.Errorf("failed to initialize session document: %w", writeErr)
		}
	} else if err != nil {
		session.Disconnect()
		r.lastErr = err
		return nil, fmt.Errorf("failed to probe session document: %w", err)
	}

	if err := session.MarkConnected(); err != nil {
		return nil, err
	}

	r.session = session
	r.lastBarcodeAt = 0
	r.lastProductAt = 0
	r.lastErr = nil

	r.logger.Info("session opened",
		zap.String("session_id", session.SessionID),
		zap.String("role", string(role)),
	)

	return session, nil
}

// Publish overwrites the shared slot with the event. A transport failure
// degrades the connection state and surfaces locally; it never affects
// the caller's cart.
func (r *SyncRelay) Publish(ctx context.Context, event billing.ScanEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session == nil || !session.IsActive() {
		return shared.ErrSyncUnavailable
	}

	doc, err := json.Marshal(SessionDocument{
		SessionID: session.SessionID,
		StoreID:   session.StoreID,
		Event:     &event,
	})
	if err != nil {
		return fmt.Errorf("failed to encode scan event: %w", err)
	}

	if err := r.store.Write(ctx, sessionPath(session.SessionID), doc); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.session.Disconnect()
		r.mu.Unlock()
		r.logger.Error("publish failed, session degraded",
			zap.String("session_id", session.SessionID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish scan event: %w", err)
	}

	return nil
}

// Subscribe registers the receiver-side callbacks. The slot's current
// content is delivered immediately, so the latest event published before
// the subscriber attached is not lost. An event is delivered to its
// kind's callback only when its EmittedAt differs from the last
// delivered stamp for that kind; acknowledgment echoes and re-delivery
// on reconnect are dropped silently. The returned function stops
// delivery synchronously.
func (r *SyncRelay) Subscribe(ctx context.Context, onBarcode func(barcode string), onFullProduct func(snapshot billing.ProductSnapshot)) (func(), error) {
	r.mu.Lock()
	session := r.session
	if session == nil || !session.IsActive() {
		r.mu.Unlock()
		return nil, shared.ErrSyncUnavailable
	}
	if r.unsubscribe != nil {
		r.mu.Unlock()
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Session already has a subscriber")
	}
	r.mu.Unlock()

	path := sessionPath(session.SessionID)
	unsubscribe, err := r.store.Subscribe(ctx, path, func(doc []byte) {
		r.handleChange(doc, onBarcode, onFullProduct)
	})
	if err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.session.Disconnect()
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to subscribe to session document: %w", err)
	}

	// Drain the slot: an event published before this subscriber attached
	// is still the document's current content and must be delivered. The
	// per-kind dedupe drops it again if the same write also notifies.
	if doc, readErr := r.store.Read(ctx, path); readErr == nil {
		r.handleChange(doc, onBarcode, onFullProduct)
	} else if !errors.Is(readErr, shared.ErrNotFound) {
		r.mu.Lock()
		r.lastErr = readErr
		r.mu.Unlock()
		r.logger.Warn("failed to read session document on subscribe",
			zap.String("session_id", session.SessionID),
			zap.Error(readErr),
		)
	}

	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		unsub := r.unsubscribe
		r.unsubscribe = nil
		r.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	}, nil
}

// handleChange runs on the store's notification goroutine
func (r *SyncRelay) handleChange(raw []byte, onBarcode func(string), onFullProduct func(billing.ProductSnapshot)) {
	var doc SessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		r.logger.Error("malformed session document", zap.Error(err))
		return
	}
	if doc.Event == nil {
		return
	}
	event := *doc.Event
	if err := event.Validate(); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		r.logger.Warn("invalid scan event dropped", zap.Error(err))
		return
	}

	r.mu.Lock()
	var duplicate bool
	switch event.Kind {
	case billing.ScanEventBarcode:
		duplicate = event.EmittedAt == r.lastBarcodeAt
		if !duplicate {
			r.lastBarcodeAt = event.EmittedAt
		}
	case billing.ScanEventProduct:
		duplicate = event.EmittedAt == r.lastProductAt
		if !duplicate {
			r.lastProductAt = event.EmittedAt
		}
	}
	if duplicate {
		r.mu.Unlock()
		return
	}
	r.enterSyncingLocked()
	r.mu.Unlock()

	switch event.Kind {
	case billing.ScanEventBarcode:
		if onBarcode != nil {
			onBarcode(event.Barcode)
		}
	case billing.ScanEventProduct:
		if onFullProduct != nil {
			onFullProduct(*event.Product)
		}
	}
}

// enterSyncingLocked flips the session to syncing and arms the grace
// timer that settles it back to connected. Caller holds r.mu.
func (r *SyncRelay) enterSyncingLocked() {
	if r.session == nil {
		return
	}
	if err := r.session.MarkSyncing(); err != nil {
		// Already syncing; just extend the grace window.
		if r.session.State() != billing.StateSyncing {
			return
		}
	}
	if r.graceTimer != nil {
		r.graceTimer.Stop()
	}
	r.graceTimer = time.AfterFunc(r.graceWindow, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.session != nil && r.session.State() == billing.StateSyncing {
			_ = r.session.MarkConnected()
		}
	})
}

// Close tears the session down: delivery stops, the state returns to
// disconnected, and the remote document is left in place so a ghost
// session can be revisited.
func (r *SyncRelay) Close() {
	r.mu.Lock()
	unsub := r.unsubscribe
	r.unsubscribe = nil
	timer := r.graceTimer
	r.graceTimer = nil
	session := r.session
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if timer != nil {
		timer.Stop()
	}

	r.mu.Lock()
	if session != nil {
		session.Disconnect()
		r.logger.Info("session closed", zap.String("session_id", session.SessionID))
	}
	r.mu.Unlock()
}

// State returns the current connection state
func (r *SyncRelay) State() billing.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return billing.StateDisconnected
	}
	return r.session.State()
}

// Session returns the active session, or nil
func (r *SyncRelay) Session() *billing.BillingSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// LastError returns the most recent transport or decode error
func (r *SyncRelay) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
