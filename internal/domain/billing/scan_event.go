package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScanEventKind discriminates the two event flavors sharing the relay
// channel. The variant is explicit rather than inferred from which
// payload fields happen to be present.
type ScanEventKind string

const (
	// ScanEventBarcode carries only the raw barcode; the receiver resolves
	// it against the stock ledger itself.
	ScanEventBarcode ScanEventKind = "barcode"
	// ScanEventProduct carries a fully resolved product snapshot.
	ScanEventProduct ScanEventKind = "product"
)

// ProductSnapshot is the resolved-product payload of a full-product
// scan. Quantity is how many units the sender picked; zero or negative
// reads as one on the receiving side.
type ProductSnapshot struct {
	ProductID         uuid.UUID       `json:"product_id"`
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	AvailableQuantity int64           `json:"available_quantity"`
	Quantity          int64           `json:"quantity,omitempty"`
}

// SnapshotFromProduct captures a product's current state for relaying,
// with qty units requested
func SnapshotFromProduct(p *catalog.Product, qty int64) ProductSnapshot {
	if qty <= 0 {
		qty = 1
	}
	return ProductSnapshot{
		ProductID:         p.ID,
		StoreID:           p.StoreID,
		Name:              p.Name,
		Barcode:           p.Barcode,
		UnitPrice:         p.UnitPrice,
		AvailableQuantity: p.AvailableQuantity,
		Quantity:          qty,
	}
}

// ScanEvent is one scan relayed between devices. EmittedAt (unix
// milliseconds) doubles as the deduplication key: the relay drops an
// incoming event whose EmittedAt matches the last one dispatched for the
// same kind.
type ScanEvent struct {
	Kind      ScanEventKind    `json:"kind"`
	Barcode   string           `json:"barcode,omitempty"`
	Product   *ProductSnapshot `json:"product,omitempty"`
	EmittedAt int64            `json:"emitted_at"`
}

// NewBarcodeScan creates a barcode-only scan event stamped now
func NewBarcodeScan(barcode string) (ScanEvent, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return ScanEvent{}, shared.NewDomainError("INVALID_BARCODE", "Scanned barcode cannot be empty")
	}
	return ScanEvent{
		Kind:      ScanEventBarcode,
		Barcode:   barcode,
		EmittedAt: time.Now().UnixMilli(),
	}, nil
}

// NewProductScan creates a full-product scan event stamped now
func NewProductScan(snapshot ProductSnapshot) (ScanEvent, error) {
	if snapshot.ProductID == uuid.Nil {
		return ScanEvent{}, shared.NewDomainError("INVALID_PRODUCT", "Product snapshot must carry a product ID")
	}
	return ScanEvent{
		Kind:      ScanEventProduct,
		Product:   &snapshot,
		EmittedAt: time.Now().UnixMilli(),
	}, nil
}

// Validate checks the event's variant is well formed
func (e ScanEvent) Validate() error {
	if e.EmittedAt <= 0 {
		return shared.NewDomainError("INVALID_EVENT", "Scan event is missing its emission timestamp")
	}
	switch e.Kind {
	case ScanEventBarcode:
		if strings.TrimSpace(e.Barcode) == "" {
			return shared.NewDomainError("INVALID_EVENT", "Barcode scan event has no barcode")
		}
	case ScanEventProduct:
		if e.Product == nil || e.Product.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_EVENT", "Product scan event has no product payload")
		}
	default:
		return shared.NewDomainError("INVALID_EVENT", "Unknown scan event kind")
	}
	return nil
}
