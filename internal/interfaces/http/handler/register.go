package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppos "github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// RegisterHandler exposes the cashier session: cart mutation, age
// verification, discounts, and hold/resume
type RegisterHandler struct {
	BaseHandler
	service *apppos.RegisterService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(service *apppos.RegisterService) *RegisterHandler {
	return &RegisterHandler{service: service}
}

// RegisterRoutes registers the register routes
func (h *RegisterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")
	{
		session.POST("", h.StartSession)
		session.GET("/cart", h.GetCart)
		session.POST("/items", h.AddItem)
		session.PUT("/items/:id/quantity", h.SetQuantity)
		session.PUT("/items/:id/price", h.OverridePrice)
		session.DELETE("/items/:id", h.RemoveItem)
		session.POST("/discount", h.ApplyDiscount)
		session.DELETE("/discount", h.ClearDiscount)
		session.PUT("/customer", h.SelectCustomer)

		session.POST("/verification/birth-date", h.VerifyBirthDate)
		session.POST("/verification/id-check", h.VerifyIDCheck)
		session.POST("/verification/scanner", h.VerifyScanner)
		session.DELETE("/verification", h.CancelVerification)
	}

	held := rg.Group("/held-orders")
	{
		held.GET("", h.ListHeld)
		held.POST("", h.Hold)
		held.POST("/:id/resume", h.Resume)
	}
}

// StartSession opens a fresh cashier session
func (h *RegisterHandler) StartSession(c *gin.Context) {
	cashierID, err := getCashierID(c)
	if err != nil {
		h.Unauthorized(c, "Cashier ID required")
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.service.StartSession(c.Request.Context(), cashierID, pos.TransactionMode(req.Mode))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// GetCart returns the active cart with its totals
func (h *RegisterHandler) GetCart(c *gin.Context) {
	view, err := h.service.CartView()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem adds one unit of a product to the cart
func (h *RegisterHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	view, err := h.service.AddItem(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// SetQuantity sets a line's quantity; zero removes the line
func (h *RegisterHandler) SetQuantity(c *gin.Context) {
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.service.SetQuantity(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// OverridePrice overrides a line's unit price
func (h *RegisterHandler) OverridePrice(c *gin.Context) {
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	var req dto.OverridePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price")
		return
	}

	view, err := h.service.OverrideLinePrice(c.Request.Context(), productID, price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem removes a line from the cart
func (h *RegisterHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	view, err := h.service.RemoveItem(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ApplyDiscount applies a cart-level discount
func (h *RegisterHandler) ApplyDiscount(c *gin.Context) {
	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		h.BadRequest(c, "Invalid discount value")
		return
	}

	var discount pos.Discount
	if pos.DiscountType(req.Type) == pos.DiscountTypePercentage {
		discount, err = pos.NewPercentageDiscount(value)
	} else {
		discount, err = pos.NewFixedDiscount(value)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	view, err := h.service.ApplyDiscount(c.Request.Context(), discount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ClearDiscount removes the cart-level discount
func (h *RegisterHandler) ClearDiscount(c *gin.Context) {
	view, err := h.service.ClearDiscount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// SelectCustomer attaches a customer to the session
func (h *RegisterHandler) SelectCustomer(c *gin.Context) {
	var req dto.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	view, err := h.service.SelectCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// VerifyBirthDate resolves the pending age verification by manual
// date-of-birth entry
func (h *RegisterHandler) VerifyBirthDate(c *gin.Context) {
	var req dto.VerifyBirthDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.service.VerifyAgeByBirthDate(c.Request.Context(), req.Year, time.Month(req.Month), req.Day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// VerifyIDCheck resolves the pending age verification with an ID outcome
func (h *RegisterHandler) VerifyIDCheck(c *gin.Context) {
	var req dto.VerifyIDCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.service.VerifyAgeByIDCheck(c.Request.Context(), pos.IDCheckOutcome(req.Outcome))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// VerifyScanner resolves the pending age verification via the hardware
// scanner simulation
func (h *RegisterHandler) VerifyScanner(c *gin.Context) {
	view, err := h.service.VerifyAgeByScanner(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// CancelVerification discards the pending age verification
func (h *RegisterHandler) CancelVerification(c *gin.Context) {
	view, err := h.service.CancelVerification(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Hold suspends the active cart into the registry
func (h *RegisterHandler) Hold(c *gin.Context) {
	view, err := h.service.Hold(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// Resume restores a held order as the active cart
func (h *RegisterHandler) Resume(c *gin.Context) {
	heldOrderID, ok := h.pathID(c)
	if !ok {
		return
	}
	view, err := h.service.Resume(c.Request.Context(), heldOrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ListHeld returns the registry contents for the resume picker
func (h *RegisterHandler) ListHeld(c *gin.Context) {
	views, err := h.service.ListHeld(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}
