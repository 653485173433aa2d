package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBill(t *testing.T) {
	storeID := uuid.New()
	inputs := []BillLineInput{
		{ProductID: uuid.New(), Name: "Soap", Barcode: "123", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		{ProductID: uuid.New(), Name: "Biscuit", Barcode: "456", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
	}

	bill, err := NewBill(storeID, inputs, PaymentCash, "PAY-1")
	require.NoError(t, err)

	assert.Equal(t, storeID, bill.StoreID)
	require.Len(t, bill.Lines, 2)
	assert.Equal(t, "100", bill.Lines[0].LineTotal.String())
	assert.Equal(t, "30", bill.Lines[1].LineTotal.String())
	assert.Equal(t, "130.00", bill.TotalMoney().StringFixed(2))
	assert.False(t, bill.BilledAt.IsZero())

	events := bill.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventBillCreated, events[0].EventType())
}

func TestNewBill_Validation(t *testing.T) {
	storeID := uuid.New()
	line := BillLineInput{ProductID: uuid.New(), Name: "Soap", Barcode: "1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

	_, err := NewBill(uuid.Nil, []BillLineInput{line}, PaymentCash, "r")
	assert.Error(t, err)

	_, err = NewBill(storeID, nil, PaymentCash, "r")
	assert.Error(t, err)

	_, err = NewBill(storeID, []BillLineInput{line}, "barter", "r")
	assert.Error(t, err)

	bad := line
	bad.Quantity = 0
	_, err = NewBill(storeID, []BillLineInput{bad}, PaymentCash, "r")
	assert.Error(t, err)
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentUPI.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
}

func TestNewPaymentReference(t *testing.T) {
	ref := NewPaymentReference()
	assert.Contains(t, ref, "PAY-")
	assert.NotEqual(t, ref, NewPaymentReference())
}
