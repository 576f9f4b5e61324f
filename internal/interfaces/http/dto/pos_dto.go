package dto

// StartSessionRequest opens a cashier session
type StartSessionRequest struct {
	Mode string `json:"mode" binding:"required,oneof=SALE RETURN"`
}

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// SetQuantityRequest sets a line's quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// OverridePriceRequest overrides a line's unit price
// Monetary values travel as strings to keep decimal precision
type OverridePriceRequest struct {
	Price string `json:"price" binding:"required,decimal"`
}

// ApplyDiscountRequest applies a cart-level discount
type ApplyDiscountRequest struct {
	Type  string `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value string `json:"value" binding:"required,decimal"`
}

// SelectCustomerRequest attaches a customer to the session
type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
}

// VerifyBirthDateRequest resolves an age verification by manual
// date-of-birth entry
type VerifyBirthDateRequest struct {
	Year  int `json:"year" binding:"required,min=1900"`
	Month int `json:"month" binding:"required,min=1,max=12"`
	Day   int `json:"day" binding:"required,min=1,max=31"`
}

// VerifyIDCheckRequest resolves an age verification with an ID outcome
type VerifyIDCheckRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=VALID UNDERAGE EXPIRED FAKE"`
}

// AddTenderRequest applies one tender toward the total
type AddTenderRequest struct {
	MethodName   string `json:"method_name" binding:"required"`
	Amount       string `json:"amount" binding:"required,decimal"`
	IsCash       bool   `json:"is_cash"`
	IsIntegrated bool   `json:"is_integrated"`
}

// AttachEmailRequest attaches a customer email to a finalized sale
type AttachEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestTransferRequest asks another location for one unit of a product
type RequestTransferRequest struct {
	ProductID      string `json:"product_id" binding:"required,uuid"`
	FromLocationID string `json:"from_location_id" binding:"required,uuid"`
}

// ReceiveStockRequest books received inventory into the active location
type ReceiveStockRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}
