package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// StoreHandler handles store management endpoints
type StoreHandler struct {
	BaseHandler
	service *appcatalog.StoreService
}

// NewStoreHandler creates a StoreHandler
func NewStoreHandler(service *appcatalog.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// RegisterRoutes registers store routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	{
		stores.POST("", h.Create)
		stores.GET("", h.List)
		stores.GET("/:storeID", h.Get)
		stores.PUT("/:storeID", h.Update)
		stores.DELETE("/:storeID", h.Delete)
	}
}

// Create registers a new store
func (h *StoreHandler) Create(c *gin.Context) {
	var req appcatalog.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.service.CreateStore(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// List returns a page of stores
func (h *StoreHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.service.ListStores(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one store
func (h *StoreHandler) Get(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	store, err := h.service.GetStore(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Update modifies a store's details
func (h *StoreHandler) Update(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	var req appcatalog.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.service.UpdateStore(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Delete removes a store
func (h *StoreHandler) Delete(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	if err := h.service.DeleteStore(c.Request.Context(), storeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
