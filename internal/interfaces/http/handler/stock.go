package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppos "github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// StockHandler exposes the terminal's inventory view: the sale-screen
// catalog, transfer options for empty shelves, and stock receipt
type StockHandler struct {
	BaseHandler
	service *apppos.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *apppos.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// RegisterRoutes registers the stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/transfer-options", h.TransferOptions)
	}

	transfers := rg.Group("/transfers")
	{
		transfers.GET("", h.ListPendingTransfers)
		transfers.POST("", h.RequestTransfer)
	}

	rg.POST("/stock/receive", h.ReceiveStock)
}

// ListProducts returns the sale-screen catalog of the active location
func (h *StockHandler) ListProducts(c *gin.Context) {
	views, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// GetProduct returns one product
func (h *StockHandler) GetProduct(c *gin.Context) {
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	view, err := h.service.FindProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// TransferOptions lists the other locations still stocking a product
func (h *StockHandler) TransferOptions(c *gin.Context) {
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	options, err := h.service.TransferOptions(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// RequestTransfer asks another location for one unit of a product
func (h *StockHandler) RequestTransfer(c *gin.Context) {
	cashierID, err := getCashierID(c)
	if err != nil {
		h.Unauthorized(c, "Cashier ID required")
		return
	}

	var req dto.RequestTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	fromLocationID, err := uuid.Parse(req.FromLocationID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return
	}

	view, err := h.service.RequestTransfer(c.Request.Context(), cashierID, productID, fromLocationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// ListPendingTransfers lists transfer requests awaiting a decision
func (h *StockHandler) ListPendingTransfers(c *gin.Context) {
	views, err := h.service.ListPendingTransfers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// ReceiveStock books received inventory into the active location
func (h *StockHandler) ReceiveStock(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.service.ReceiveStock(c.Request.Context(), productID, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
