package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
)

// BillLineResponse is one bill line for API consumers
type BillLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Quantity  int64     `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

// BillResponse is a finalized bill for API consumers
type BillResponse struct {
	ID               uuid.UUID          `json:"id"`
	StoreID          uuid.UUID          `json:"store_id"`
	Lines            []BillLineResponse `json:"lines"`
	TotalAmount      string             `json:"total_amount"`
	PaymentMethod    string             `json:"payment_method"`
	PaymentReference string             `json:"payment_reference"`
	BilledAt         time.Time          `json:"billed_at"`
}

// ToBillResponse converts a bill aggregate to its API shape
func ToBillResponse(bill *billing.Bill) BillResponse {
	lines := make([]BillLineResponse, 0, len(bill.Lines))
	for _, line := range bill.Lines {
		lines = append(lines, BillLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Barcode:   line.Barcode,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}
	return BillResponse{
		ID:               bill.ID,
		StoreID:          bill.StoreID,
		Lines:            lines,
		TotalAmount:      bill.TotalAmount.StringFixed(2),
		PaymentMethod:    string(bill.PaymentMethod),
		PaymentReference: bill.PaymentReference,
		BilledAt:         bill.BilledAt,
	}
}

// StagingCartLineResponse is one staging cart line for API consumers
type StagingCartLineResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// StagingCartResponse is a staging cart for API consumers
type StagingCartResponse struct {
	ID            uuid.UUID                 `json:"id"`
	StoreID       uuid.UUID                 `json:"store_id"`
	Status        string                    `json:"status"`
	PaymentMethod string                    `json:"payment_method,omitempty"`
	Lines         []StagingCartLineResponse `json:"lines"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// ToStagingCartResponse converts a staging cart to its API shape
func ToStagingCartResponse(cart *billing.StagingCart) StagingCartResponse {
	lines := make([]StagingCartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, StagingCartLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return StagingCartResponse{
		ID:            cart.ID,
		StoreID:       cart.StoreID,
		Status:        string(cart.Status),
		PaymentMethod: string(cart.PaymentMethod),
		Lines:         lines,
		CreatedAt:     cart.CreatedAt,
	}
}
