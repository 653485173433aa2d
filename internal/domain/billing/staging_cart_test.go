package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagingCart_Lifecycle(t *testing.T) {
	cart, err := NewStagingCart(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StagingStatusCreated, cart.Status)

	require.NoError(t, cart.MarkScanning())
	assert.Equal(t, StagingStatusScanning, cart.Status)

	productID := uuid.New()
	require.NoError(t, cart.AddLine(productID, 2))
	require.NoError(t, cart.AddLine(productID, 1))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, int64(3), cart.Lines[0].Quantity)

	require.NoError(t, cart.RecordPayment(PaymentUPI, NewPaymentReference()))
	assert.Equal(t, StagingStatusPaymentPending, cart.Status)

	require.NoError(t, cart.Confirm())
	assert.Equal(t, StagingStatusConfirmed, cart.Status)

	events := cart.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventStagingCartConfirmed, events[0].EventType())
}

func TestStagingCart_StatusGating(t *testing.T) {
	cart, err := NewStagingCart(uuid.New())
	require.NoError(t, err)

	// AddLine before MarkScanning
	assert.ErrorIs(t, cart.AddLine(uuid.New(), 1), shared.ErrInvalidState)
	// Payment before scanning
	assert.ErrorIs(t, cart.RecordPayment(PaymentCash, "ref"), shared.ErrInvalidState)
	// Confirm before payment
	assert.ErrorIs(t, cart.Confirm(), shared.ErrInvalidState)

	require.NoError(t, cart.MarkScanning())
	// Double MarkScanning
	assert.ErrorIs(t, cart.MarkScanning(), shared.ErrInvalidState)

	// Payment on empty cart
	assert.ErrorIs(t, cart.RecordPayment(PaymentCash, "ref"), shared.ErrEmptyCart)

	require.NoError(t, cart.AddLine(uuid.New(), 1))
	require.NoError(t, cart.RecordPayment(PaymentCash, "ref"))

	// AddLine after payment
	assert.ErrorIs(t, cart.AddLine(uuid.New(), 1), shared.ErrInvalidState)

	require.NoError(t, cart.Confirm())
	// Double confirm
	assert.ErrorIs(t, cart.Confirm(), shared.ErrInvalidState)
}

func TestStagingCart_AddLine_Validation(t *testing.T) {
	cart, err := NewStagingCart(uuid.New())
	require.NoError(t, err)
	require.NoError(t, cart.MarkScanning())

	assert.Error(t, cart.AddLine(uuid.Nil, 1))
	assert.Error(t, cart.AddLine(uuid.New(), 0))
	assert.Error(t, cart.AddLine(uuid.New(), -2))
}

func TestStagingCart_RecordPayment_UnknownMethod(t *testing.T) {
	cart, err := NewStagingCart(uuid.New())
	require.NoError(t, err)
	require.NoError(t, cart.MarkScanning())
	require.NoError(t, cart.AddLine(uuid.New(), 1))

	assert.Error(t, cart.RecordPayment("cheque", "ref"))
}
