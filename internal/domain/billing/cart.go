package billing

import (
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLine is a single product entry in a cart. AvailableQuantity is a
// snapshot of the store's stock at the time the product was last scanned;
// it bounds every quantity mutation.
type CartLine struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	BilledQuantity    int64           `json:"billed_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
}

// LineTotal returns unit price times billed quantity
func (l CartLine) LineTotal() valueobject.Money {
	return valueobject.NewMoneyINR(l.UnitPrice).MultiplyByInt(l.BilledQuantity)
}

// CartTotal is the derived summary of a cart
type CartTotal struct {
	ItemCount int               `json:"item_count"`
	Amount    valueobject.Money `json:"amount"`
}

// Cart holds the items being billed on one terminal. At most one line
// exists per product; repeated scans increment the existing line. All
// operations are synchronous and leave the cart unchanged on failure.
//
// Invariants, enforced by every mutation:
//   - 1 <= BilledQuantity <= AvailableQuantity for every line
//   - a line never has zero or negative quantity (it is removed instead)
//   - every product belongs to the cart's store
type Cart struct {
	storeID uuid.UUID
	lines   map[uuid.UUID]*CartLine
	order   []uuid.UUID
}

// NewCart creates an empty cart for a store
func NewCart(storeID uuid.UUID) *Cart {
	return &Cart{
		storeID: storeID,
		lines:   make(map[uuid.UUID]*CartLine),
		order:   make([]uuid.UUID, 0),
	}
}

// StoreID returns the store the cart bills against
func (c *Cart) StoreID() uuid.UUID {
	return c.storeID
}

// AddOrIncrement adds a product to the cart or increments its existing
// line. A non-positive requested quantity is treated as 1, matching a
// single scan. The stock check runs against the product's current
// availability and the line's snapshot is refreshed from it.
func (c *Cart) AddOrIncrement(product *catalog.Product, requestedQty int64) error {
	if product == nil {
		return shared.ErrInvalidInput
	}
	if product.StoreID != c.storeID {
		return shared.ErrForeignProduct
	}
	if requestedQty <= 0 {
		requestedQty = 1
	}

	newQty := requestedQty
	if line, ok := c.lines[product.ID]; ok {
		newQty = line.BilledQuantity + requestedQty
	}
	if newQty > product.AvailableQuantity {
		return shared.ErrStockExceeded
	}

	if line, ok := c.lines[product.ID]; ok {
		line.BilledQuantity = newQty
		line.AvailableQuantity = product.AvailableQuantity
		line.UnitPrice = product.UnitPrice
		return nil
	}

	c.lines[product.ID] = &CartLine{
		ProductID:         product.ID,
		Name:              product.Name,
		Barcode:           product.Barcode,
		UnitPrice:         product.UnitPrice,
		BilledQuantity:    newQty,
		AvailableQuantity: product.AvailableQuantity,
	}
	c.order = append(c.order, product.ID)
	return nil
}

// AddSnapshot adds a relayed product snapshot to the cart. Used on the
// receiver side when the sender transmits a fully resolved product.
func (c *Cart) AddSnapshot(snapshot ProductSnapshot, requestedQty int64) error {
	if snapshot.StoreID != c.storeID {
		return shared.ErrForeignProduct
	}
	if requestedQty <= 0 {
		requestedQty = 1
	}

	newQty := requestedQty
	if line, ok := c.lines[snapshot.ProductID]; ok {
		newQty = line.BilledQuantity + requestedQty
	}
	if newQty > snapshot.AvailableQuantity {
		return shared.ErrStockExceeded
	}

	if line, ok := c.lines[snapshot.ProductID]; ok {
		line.BilledQuantity = newQty
		line.AvailableQuantity = snapshot.AvailableQuantity
		line.UnitPrice = snapshot.UnitPrice
		return nil
	}

	c.lines[snapshot.ProductID] = &CartLine{
		ProductID:         snapshot.ProductID,
		Name:              snapshot.Name,
		Barcode:           snapshot.Barcode,
		UnitPrice:         snapshot.UnitPrice,
		BilledQuantity:    newQty,
		AvailableQuantity: snapshot.AvailableQuantity,
	}
	c.order = append(c.order, snapshot.ProductID)
	return nil
}

// SetQuantity sets a line's quantity to an absolute value. A quantity of
// zero or less removes the line. Exceeding the stock snapshot fails
// without mutating.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int64) error {
	line, ok := c.lines[productID]
	if !ok {
		return shared.ErrNotFound
	}
	if qty <= 0 {
		c.Remove(productID)
		return nil
	}
	if qty > line.AvailableQuantity {
		return shared.ErrStockExceeded
	}

	line.BilledQuantity = qty
	return nil
}

// Remove deletes a line. Removing an absent line is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties all lines
func (c *Cart) Clear() {
	c.lines = make(map[uuid.UUID]*CartLine)
	c.order = c.order[:0]
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns the cart lines in the order products were first added
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.lines[id])
	}
	return lines
}

// Line returns a copy of the line for a product, if present
func (c *Cart) Line(productID uuid.UUID) (CartLine, bool) {
	line, ok := c.lines[productID]
	if !ok {
		return CartLine{}, false
	}
	return *line, true
}

// Clone returns an independent copy of the cart. Used to hand a stable
// snapshot to a checkout while the original stays editable.
func (c *Cart) Clone() *Cart {
	clone := NewCart(c.storeID)
	for _, id := range c.order {
		line := *c.lines[id]
		clone.lines[id] = &line
		clone.order = append(clone.order, id)
	}
	return clone
}

// Total recomputes the cart summary from the lines. Never cached.
func (c *Cart) Total() CartTotal {
	amount := valueobject.ZeroINR()
	for _, id := range c.order {
		amount = amount.MustAdd(c.lines[id].LineTotal())
	}
	return CartTotal{
		ItemCount: len(c.order),
		Amount:    amount,
	}
}
