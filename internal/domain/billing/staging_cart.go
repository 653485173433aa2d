package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// StagingCartStatus tracks a staging cart through the checkout protocol.
// Each status gates which operation is legal next, so out-of-order calls
// from a client fail with INVALID_STATE instead of corrupting the cart.
type StagingCartStatus string

const (
	StagingStatusCreated        StagingCartStatus = "created"
	StagingStatusScanning       StagingCartStatus = "scanning"
	StagingStatusPaymentPending StagingCartStatus = "payment_pending"
	StagingStatusConfirmed      StagingCartStatus = "confirmed"
)

// StagingCartLine is one product entry in a staging cart
type StagingCartLine struct {
	shared.BaseEntity
	StagingCartID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity      int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StagingCartLine) TableName() string {
	return "staging_cart_lines"
}

// StagingCart is the server-side transient record created when a checkout
// starts. It is distinct from the client-side Cart: it exists so the
// backend can validate and decrement stock atomically at confirmation.
// A staging cart that never reaches confirmation is simply abandoned.
type StagingCart struct {
	shared.StoreAggregateRoot
	Status           StagingCartStatus `gorm:"type:varchar(20);not null;default:'created'"`
	PaymentMethod    PaymentMethod     `gorm:"type:varchar(20)"`
	PaymentReference string            `gorm:"type:varchar(64)"`
	Lines            []StagingCartLine `gorm:"foreignKey:StagingCartID;references:ID"`
}

// TableName returns the table name for GORM
func (StagingCart) TableName() string {
	return "staging_carts"
}

// NewStagingCart allocates a staging cart for a store
func NewStagingCart(storeID uuid.UUID) (*StagingCart, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	return &StagingCart{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Status:             StagingStatusCreated,
		Lines:              make([]StagingCartLine, 0),
	}, nil
}

// MarkScanning enables item additions. Legal only once, from created.
func (s *StagingCart) MarkScanning() error {
	if s.Status != StagingStatusCreated {
		return shared.ErrInvalidState
	}
	s.Status = StagingStatusScanning
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// AddLine appends a product to the staging cart, merging with an existing
// line for the same product. Legal only while scanning.
func (s *StagingCart) AddLine(productID uuid.UUID, quantity int64) error {
	if s.Status != StagingStatusScanning {
		return shared.ErrInvalidState
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}

	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines[i].Quantity += quantity
			s.Lines[i].UpdatedAt = time.Now()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	s.Lines = append(s.Lines, StagingCartLine{
		BaseEntity:    shared.NewBaseEntity(),
		StagingCartID: s.ID,
		ProductID:     productID,
		Quantity:      quantity,
	})
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// RecordPayment stores the chosen payment method and reference and closes
// the cart to further additions. Requires at least one line.
func (s *StagingCart) RecordPayment(method PaymentMethod, reference string) error {
	if s.Status != StagingStatusScanning {
		return shared.ErrInvalidState
	}
	if !method.Valid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(s.Lines) == 0 {
		return shared.ErrEmptyCart
	}

	s.PaymentMethod = method
	s.PaymentReference = reference
	s.Status = StagingStatusPaymentPending
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Confirm finalizes the staging cart. The caller is responsible for
// performing the stock decrement and bill creation in the same
// transaction.
func (s *StagingCart) Confirm() error {
	if s.Status != StagingStatusPaymentPending {
		return shared.ErrInvalidState
	}
	s.Status = StagingStatusConfirmed
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewStagingCartConfirmedEvent(s))
	return nil
}
