package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a bill was settled
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// Valid returns true for a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// NewPaymentReference generates an opaque reference recorded with the
// payment step
func NewPaymentReference() string {
	return fmt.Sprintf("PAY-%s", uuid.NewString())
}

// BillLine is one line of a finalized bill
type BillLine struct {
	shared.BaseEntity
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Barcode   string          `gorm:"type:varchar(50);not null"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (BillLine) TableName() string {
	return "bill_lines"
}

// BillLineInput is the data needed to build one bill line
type BillLineInput struct {
	ProductID uuid.UUID
	Name      string
	Barcode   string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Bill is the immutable record of a completed checkout. It is created
// once by a confirmed staging cart and never mutated afterwards; the
// total is computed from the lines at creation, not stored independently
// by callers.
type Bill struct {
	shared.StoreAggregateRoot
	Lines            []BillLine      `gorm:"foreignKey:BillID;references:ID"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod    PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentReference string          `gorm:"type:varchar(64);not null"`
	BilledAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill builds a bill from line inputs. Line totals and the bill total
// are derived here so they cannot drift from the lines.
func NewBill(storeID uuid.UUID, inputs []BillLineInput, method PaymentMethod, reference string) (*Bill, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if len(inputs) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if !method.Valid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	bill := &Bill{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Lines:              make([]BillLine, 0, len(inputs)),
		TotalAmount:        decimal.Zero,
		PaymentMethod:      method,
		PaymentReference:   reference,
		BilledAt:           time.Now(),
	}

	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Bill line quantity must be positive")
		}
		lineTotal := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
		bill.Lines = append(bill.Lines, BillLine{
			BaseEntity: shared.NewBaseEntity(),
			BillID:     bill.ID,
			ProductID:  in.ProductID,
			Name:       in.Name,
			Barcode:    in.Barcode,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			LineTotal:  lineTotal,
		})
		bill.TotalAmount = bill.TotalAmount.Add(lineTotal)
	}

	bill.AddDomainEvent(NewBillCreatedEvent(bill))

	return bill, nil
}

// TotalMoney returns the bill total as a Money value object
func (b *Bill) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyINR(b.TotalAmount)
}
