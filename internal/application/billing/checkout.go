package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutStep identifies one call of the checkout protocol
type CheckoutStep string

const (
	StepCreateCart     CheckoutStep = "create_cart"
	StepMarkScanning   CheckoutStep = "mark_scanning"
	StepAddItem        CheckoutStep = "add_item"
	StepProcessPayment CheckoutStep = "process_payment"
	StepConfirmPayment CheckoutStep = "confirm_payment"
)

// CheckoutError reports which step of the protocol failed. Earlier steps
// are not rolled back; their only residue is an orphaned staging cart on
// the server.
type CheckoutError struct {
	Step CheckoutStep
	Err  error
}

// Error implements the error interface
func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed at step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// StagingGateway is the backend surface the orchestrator drives. The
// in-process implementation is StagingCartService; a remote deployment
// uses the HTTP gateway in infrastructure/ledger.
type StagingGateway interface {
	// CreateCart allocates a server-side staging cart for a store
	CreateCart(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error)
	// MarkScanning opens the staging cart for item additions
	MarkScanning(ctx context.Context, storeID, cartID uuid.UUID) error
	// AddItem appends one cart line to the staging cart
	AddItem(ctx context.Context, storeID, cartID, productID uuid.UUID, quantity int64) error
	// ProcessPayment records the payment method and reference
	ProcessPayment(ctx context.Context, storeID, cartID uuid.UUID, method billing.PaymentMethod, reference string) error
	// ConfirmPayment finalizes the staging cart, decrements stock and
	// returns the authoritative bill
	ConfirmPayment(ctx context.Context, storeID, cartID uuid.UUID) (*billing.Bill, error)
}

// CheckoutOrchestrator turns a non-empty cart into a persisted bill via
// the sequential five-step protocol. Steps never overlap: each server-side
// handler depends on the staging cart state left by the previous step.
// There is no rollback; the contract is only that no bill exists and no
// stock is decremented unless the final step fully succeeds.
type CheckoutOrchestrator struct {
	gateway StagingGateway
	logger  *zap.Logger
}

// NewCheckoutOrchestrator creates a CheckoutOrchestrator
func NewCheckoutOrchestrator(gateway StagingGateway, logger *zap.Logger) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		gateway: gateway,
		logger:  logger.Named("checkout"),
	}
}

// Checkout runs the protocol for the cart's lines in their cart order.
// The cart itself is never mutated here; on success the caller clears it,
// on failure the caller retries the whole checkout with the cart intact.
func (o *CheckoutOrchestrator) Checkout(ctx context.Context, cart *billing.Cart, method billing.PaymentMethod) (*billing.Bill, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}
	if !method.Valid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	storeID := cart.StoreID()

	cartID, err := o.gateway.CreateCart(ctx, storeID)
	if err != nil {
		return nil, o.stepFailed(StepCreateCart, cartID, err)
	}

	if err := o.gateway.MarkScanning(ctx, storeID, cartID); err != nil {
		return nil, o.stepFailed(StepMarkScanning, cartID, err)
	}

	for _, line := range cart.Lines() {
		if err := o.gateway.AddItem(ctx, storeID, cartID, line.ProductID, line.BilledQuantity); err != nil {
			return nil, o.stepFailed(StepAddItem, cartID, err)
		}
	}

	reference := billing.NewPaymentReference()
	if err := o.gateway.ProcessPayment(ctx, storeID, cartID, method, reference); err != nil {
		return nil, o.stepFailed(StepProcessPayment, cartID, err)
	}

	bill, err := o.gateway.ConfirmPayment(ctx, storeID, cartID)
	if err != nil {
		return nil, o.stepFailed(StepConfirmPayment, cartID, err)
	}

	o.logger.Info("checkout committed",
		zap.String("staging_cart_id", cartID.String()),
		zap.String("bill_id", bill.ID.String()),
		zap.String("total", bill.TotalAmount.String()),
	)

	return bill, nil
}

func (o *CheckoutOrchestrator) stepFailed(step CheckoutStep, cartID uuid.UUID, err error) error {
	o.logger.Warn("checkout step failed",
		zap.String("step", string(step)),
		zap.String("staging_cart_id", cartID.String()),
		zap.Error(err),
	)
	return &CheckoutError{Step: step, Err: err}
}
