package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	"github.com/retailpos/backend/internal/domain/billing"
)

// AddItemRequest is the payload for appending a line to a staging cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// ProcessPaymentRequest is the payload for recording a payment
type ProcessPaymentRequest struct {
	Method    string `json:"method" binding:"required,oneof=cash card upi"`
	Reference string `json:"reference"`
}

// StagingCartHandler exposes the five-step checkout protocol. Each
// endpoint depends on the staging cart state left by the previous one;
// out-of-order calls return INVALID_STATE.
type StagingCartHandler struct {
	BaseHandler
	service *appbilling.StagingCartService
}

// NewStagingCartHandler creates a StagingCartHandler
func NewStagingCartHandler(service *appbilling.StagingCartService) *StagingCartHandler {
	return &StagingCartHandler{service: service}
}

// RegisterRoutes registers staging cart routes
func (h *StagingCartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/stores/:storeID/staging-carts")
	{
		carts.POST("", h.Create)
		carts.GET("/:cartID", h.Get)
		carts.POST("/:cartID/scanning", h.MarkScanning)
		carts.POST("/:cartID/items", h.AddItem)
		carts.POST("/:cartID/payment", h.ProcessPayment)
		carts.POST("/:cartID/confirm", h.Confirm)
	}
}

// Create allocates a staging cart for the store
func (h *StagingCartHandler) Create(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	cartID, err := h.service.CreateCart(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), storeID, cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appbilling.ToStagingCartResponse(cart))
}

// Get returns the staging cart
func (h *StagingCartHandler) Get(c *gin.Context) {
	storeID, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), storeID, cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appbilling.ToStagingCartResponse(cart))
}

// MarkScanning opens the cart for item additions
func (h *StagingCartHandler) MarkScanning(c *gin.Context) {
	storeID, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	if err := h.service.MarkScanning(c.Request.Context(), storeID, cartID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// AddItem appends one line to the cart
func (h *StagingCartHandler) AddItem(c *gin.Context) {
	storeID, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.service.AddItem(c.Request.Context(), storeID, cartID, req.ProductID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// ProcessPayment records the payment method and reference
func (h *StagingCartHandler) ProcessPayment(c *gin.Context) {
	storeID, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	reference := req.Reference
	if reference == "" {
		reference = billing.NewPaymentReference()
	}

	err := h.service.ProcessPayment(c.Request.Context(), storeID, cartID,
		billing.PaymentMethod(req.Method), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// Confirm finalizes the cart, decrements stock and returns the bill
func (h *StagingCartHandler) Confirm(c *gin.Context) {
	storeID, cartID, ok := h.cartParams(c)
	if !ok {
		return
	}

	bill, err := h.service.ConfirmPayment(c.Request.Context(), storeID, cartID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appbilling.ToBillResponse(bill))
}

func (h *StagingCartHandler) cartParams(c *gin.Context) (storeID, cartID uuid.UUID, ok bool) {
	storeID, ok = h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}
	cartID, ok = h.parseUUIDParam(c, "cartID")
	return
}
