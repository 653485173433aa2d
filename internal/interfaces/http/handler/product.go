package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// RestockRequest is the payload for adding stock to a product
type RestockRequest struct {
	Quantity int64 `json:"quantity" binding:"required,gt=0"`
}

// ProductHandler handles stock ledger endpoints
type ProductHandler struct {
	BaseHandler
	service *appcatalog.StockLedgerService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(service *appcatalog.StockLedgerService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/stores/:storeID/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:productID", h.Get)
		products.POST("/:productID/restock", h.Restock)
		products.GET("/barcode/:barcode", h.ResolveByBarcode)
	}
}

// Create adds a product to the store's ledger
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List returns a page of the store's products
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.service.ListByStore(c.Request.Context(), storeID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productID")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Restock adds quantity to a product's available stock
func (h *ProductHandler) Restock(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}
	productID, ok := h.parseUUIDParam(c, "productID")
	if !ok {
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.service.RestockProduct(c.Request.Context(), storeID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ResolveByBarcode looks up a product by its barcode within the store.
// This is the lookup terminals hit on every scan.
func (h *ProductHandler) ResolveByBarcode(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	product, err := h.service.ResolveByBarcode(c.Request.Context(), storeID, c.Param("barcode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appcatalog.ToProductResponse(product))
}
