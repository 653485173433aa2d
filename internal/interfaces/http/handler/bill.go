package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// BillHandler exposes the read-only bill history
type BillHandler struct {
	BaseHandler
	service *appbilling.BillHistoryService
}

// NewBillHandler creates a BillHandler
func NewBillHandler(service *appbilling.BillHistoryService) *BillHandler {
	return &BillHandler{service: service}
}

// RegisterRoutes registers bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/stores/:storeID/bills")
	{
		bills.GET("", h.List)
		bills.GET("/:billID", h.Get)
	}
}

// List returns a page of the store's bills, newest first
func (h *BillHandler) List(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.service.ListBills(c.Request.Context(), storeID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get returns one bill
func (h *BillHandler) Get(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "storeID")
	if !ok {
		return
	}
	billID, ok := h.parseUUIDParam(c, "billID")
	if !ok {
		return
	}

	bill, err := h.service.GetBill(c.Request.Context(), storeID, billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}
