package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in a store's stock ledger.
// AvailableQuantity is the single source of truth for how many units
// may still be billed; carts validate against it before every mutation.
type Product struct {
	shared.StoreAggregateRoot
	Name              string          `gorm:"type:varchar(200);not null"`
	Barcode           string          `gorm:"type:varchar(50);not null;index"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableQuantity int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in a store's ledger
func NewProduct(storeID uuid.UUID, name, barcode string, unitPrice valueobject.Money, quantity int64) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Product barcode cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Available quantity cannot be negative")
	}

	return &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		Barcode:            barcode,
		UnitPrice:          unitPrice.Amount(),
		AvailableQuantity:  quantity,
	}, nil
}

// UnitPriceMoney returns the unit price as a Money value object
func (p *Product) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyINR(p.UnitPrice)
}

// CanFulfill returns true if the available quantity covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return quantity > 0 && p.AvailableQuantity >= quantity
}

// Decrement removes quantity from the available stock.
// Called only during bill confirmation; the cart-side check is advisory,
// this one is authoritative.
func (p *Product) Decrement(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	if p.AvailableQuantity < quantity {
		return shared.ErrStockExceeded
	}

	p.AvailableQuantity -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Restock adds quantity back to the available stock
func (p *Product) Restock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	p.AvailableQuantity += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetUnitPrice updates the selling price
func (p *Product) SetUnitPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.UnitPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}
