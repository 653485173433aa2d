package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SessionRole is a device's role within a billing session
type SessionRole string

const (
	// RoleSender emits scan events (the handheld scanner)
	RoleSender SessionRole = "sender"
	// RoleReceiver consumes scan events and mutates its cart (the terminal)
	RoleReceiver SessionRole = "receiver"
)

// ConnectionState is the sync transport state of a billing session
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateSyncing      ConnectionState = "syncing"
)

// BillingSession pairs a scanning device with a billing device. It lives
// in memory for the duration of one billing-screen visit; the shared
// remote document it maps to is keyed by SessionID.
//
// State machine:
//
//	Disconnected --open--> Connecting --ack--> Connected
//	Connected --event--> Syncing --grace--> Connected
//	any --close--> Disconnected
type BillingSession struct {
	SessionID string
	StoreID   uuid.UUID
	Role      SessionRole
	state     ConnectionState
}

// NewBillingSession creates a session. An empty sessionID generates a
// fresh one; supplying an existing id joins that session.
func NewBillingSession(storeID uuid.UUID, role SessionRole, sessionID string) (*BillingSession, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if role != RoleSender && role != RoleReceiver {
		return nil, shared.NewDomainError("INVALID_ROLE", "Session role must be sender or receiver")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return &BillingSession{
		SessionID: sessionID,
		StoreID:   storeID,
		Role:      role,
		state:     StateDisconnected,
	}, nil
}

// State returns the current connection state
func (s *BillingSession) State() ConnectionState {
	return s.state
}

// BeginConnect transitions Disconnected -> Connecting
func (s *BillingSession) BeginConnect() error {
	if s.state != StateDisconnected {
		return shared.ErrInvalidState
	}
	s.state = StateConnecting
	return nil
}

// MarkConnected transitions Connecting or Syncing -> Connected
func (s *BillingSession) MarkConnected() error {
	if s.state != StateConnecting && s.state != StateSyncing {
		return shared.ErrInvalidState
	}
	s.state = StateConnected
	return nil
}

// MarkSyncing transitions Connected -> Syncing, entered while an incoming
// event is being applied
func (s *BillingSession) MarkSyncing() error {
	if s.state != StateConnected {
		return shared.ErrInvalidState
	}
	s.state = StateSyncing
	return nil
}

// Disconnect returns to Disconnected from any state
func (s *BillingSession) Disconnect() {
	s.state = StateDisconnected
}

// IsActive returns true when the session has an open transport
func (s *BillingSession) IsActive() bool {
	return s.state == StateConnected || s.state == StateSyncing
}
