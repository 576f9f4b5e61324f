package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apppos "github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// CheckoutHandler exposes the tender screen and finalization: payment
// reconciliation, the card terminal flow, voids, and offline sync
type CheckoutHandler struct {
	BaseHandler
	service *apppos.CheckoutService
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *apppos.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

// RegisterRoutes registers the checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payment := rg.Group("/payment")
	{
		payment.POST("", h.BeginPayment)
		payment.GET("", h.GetPayment)
		payment.DELETE("", h.CancelPayment)
		payment.POST("/tenders", h.AddTender)
		payment.DELETE("/tenders/:id", h.RemoveTender)
		payment.POST("/finalize", h.Finalize)
	}

	sales := rg.Group("/sales")
	{
		sales.POST("/:id/void", h.Void)
		sales.PUT("/:id/email", h.AttachEmail)
	}

	sync := rg.Group("/sync")
	{
		sync.GET("", h.QueuedCount)
		sync.POST("", h.SyncQueued)
	}
}

// BeginPayment freezes the cart totals and opens the tender screen
func (h *CheckoutHandler) BeginPayment(c *gin.Context) {
	view, err := h.service.BeginPayment(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// GetPayment returns the current reconciler state
func (h *CheckoutHandler) GetPayment(c *gin.Context) {
	view, err := h.service.PaymentView()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// CancelPayment abandons the tender screen
func (h *CheckoutHandler) CancelPayment(c *gin.Context) {
	if err := h.service.CancelPayment(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddTender applies one tender toward the total. Integrated methods run
// the card terminal; transitions are logged since the HTTP surface has
// no live channel to the operator display
func (h *CheckoutHandler) AddTender(c *gin.Context) {
	var req dto.AddTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		h.BadRequest(c, "Invalid tender amount")
		return
	}

	method := pos.TenderMethod{
		ID:           uuid.New(),
		Name:         req.MethodName,
		IsCash:       req.IsCash,
		IsIntegrated: req.IsIntegrated,
	}

	observer := func(status pos.TerminalStatus, message string) {
		h.logger.Info("terminal",
			zap.String("status", string(status)),
			zap.String("message", message),
		)
	}

	view, err := h.service.AddTender(c.Request.Context(), method, amount, observer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveTender removes a previously accepted manual tender
func (h *CheckoutHandler) RemoveTender(c *gin.Context) {
	tenderID, ok := h.pathID(c)
	if !ok {
		return
	}
	view, err := h.service.RemoveTender(c.Request.Context(), tenderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Finalize commits the transaction once tenders cover the total
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	response, err := h.service.Finalize(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, response)
}

// Void voids a completed sale
func (h *CheckoutHandler) Void(c *gin.Context) {
	cashierID, err := getCashierID(c)
	if err != nil {
		h.Unauthorized(c, "Cashier ID required")
		return
	}
	saleID, ok := h.pathID(c)
	if !ok {
		return
	}

	response, err := h.service.Void(c.Request.Context(), cashierID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// AttachEmail attaches a customer email to a finalized sale
func (h *CheckoutHandler) AttachEmail(c *gin.Context) {
	saleID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.AttachEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	response, err := h.service.AttachEmail(c.Request.Context(), saleID, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, response)
}

// SyncQueued drains the offline queue
func (h *CheckoutHandler) SyncQueued(c *gin.Context) {
	synced, err := h.service.SyncQueued(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"synced": synced})
}

// QueuedCount reports how many sales await sync
func (h *CheckoutHandler) QueuedCount(c *gin.Context) {
	count, err := h.service.QueuedCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"queued": count})
}
