package billing

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Event types emitted by the billing domain
const (
	EventBillCreated          = "billing.bill_created"
	EventStagingCartConfirmed = "billing.staging_cart_confirmed"
)

// BillCreatedEvent is emitted when a checkout produces a bill
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID        string `json:"bill_id"`
	TotalAmount   string `json:"total_amount"`
	LineCount     int    `json:"line_count"`
	PaymentMethod string `json:"payment_method"`
}

// NewBillCreatedEvent creates a BillCreatedEvent from a bill
func NewBillCreatedEvent(bill *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventBillCreated, "Bill", bill.ID, bill.StoreID),
		BillID:          bill.ID.String(),
		TotalAmount:     bill.TotalAmount.String(),
		LineCount:       len(bill.Lines),
		PaymentMethod:   string(bill.PaymentMethod),
	}
}

// StagingCartConfirmedEvent is emitted when a staging cart finalizes
type StagingCartConfirmedEvent struct {
	shared.BaseDomainEvent
	StagingCartID string `json:"staging_cart_id"`
	LineCount     int    `json:"line_count"`
}

// NewStagingCartConfirmedEvent creates a StagingCartConfirmedEvent
func NewStagingCartConfirmedEvent(cart *StagingCart) *StagingCartConfirmedEvent {
	return &StagingCartConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStagingCartConfirmed, "StagingCart", cart.ID, cart.StoreID),
		StagingCartID:   cart.ID.String(),
		LineCount:       len(cart.Lines),
	}
}
