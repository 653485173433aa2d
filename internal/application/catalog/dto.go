package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
)

// CreateStoreRequest is the payload for registering a store
type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=20"`
}

// UpdateStoreRequest is the payload for updating a store
type UpdateStoreRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=20"`
}

// StoreResponse is a store for API consumers
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStoreResponse converts a store aggregate to its API shape
func ToStoreResponse(store *catalog.Store) StoreResponse {
	return StoreResponse{
		ID:        store.ID,
		Name:      store.Name,
		Address:   store.Address,
		Phone:     store.Phone,
		CreatedAt: store.CreatedAt,
	}
}

// CreateProductRequest is the payload for adding a product
type CreateProductRequest struct {
	Name              string `json:"name" binding:"required,max=200"`
	Barcode           string `json:"barcode" binding:"required,max=50"`
	UnitPrice         string `json:"unit_price" binding:"required"`
	AvailableQuantity int64  `json:"available_quantity" binding:"min=0"`
}

// ProductResponse is a product for API consumers
type ProductResponse struct {
	ID                uuid.UUID `json:"id"`
	StoreID           uuid.UUID `json:"store_id"`
	Name              string    `json:"name"`
	Barcode           string    `json:"barcode"`
	UnitPrice         string    `json:"unit_price"`
	AvailableQuantity int64     `json:"available_quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its API shape
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID,
		StoreID:           product.StoreID,
		Name:              product.Name,
		Barcode:           product.Barcode,
		UnitPrice:         product.UnitPriceMoney().StringFixed(2),
		AvailableQuantity: product.AvailableQuantity,
		UpdatedAt:         product.UpdatedAt,
	}
}
