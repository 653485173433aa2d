package event

import (
	"context"

	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillingAuditHandler writes a structured audit line for every billing
// lifecycle event. Bills are immutable, so the log is the cheap audit trail
// for disputes at the counter.
type BillingAuditHandler struct {
	logger *zap.Logger
}

// NewBillingAuditHandler creates a BillingAuditHandler
func NewBillingAuditHandler(logger *zap.Logger) *BillingAuditHandler {
	return &BillingAuditHandler{logger: logger.Named("billing_audit")}
}

// EventTypes returns the event types this handler subscribes to
func (h *BillingAuditHandler) EventTypes() []string {
	return []string{billing.EventBillCreated, billing.EventStagingCartConfirmed}
}

// Handle logs the event
func (h *BillingAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *billing.BillCreatedEvent:
		h.logger.Info("bill created",
			zap.String("bill_id", e.BillID),
			zap.String("store_id", e.StoreID().String()),
			zap.String("total_amount", e.TotalAmount),
			zap.Int("line_count", e.LineCount),
			zap.String("payment_method", e.PaymentMethod),
		)
	case *billing.StagingCartConfirmedEvent:
		h.logger.Info("staging cart confirmed",
			zap.String("staging_cart_id", e.StagingCartID),
			zap.String("store_id", e.StoreID().String()),
			zap.Int("line_count", e.LineCount),
		)
	default:
		h.logger.Debug("unhandled billing event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*BillingAuditHandler)(nil)
