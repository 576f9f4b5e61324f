package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrPermissionDenied     = NewDomainError("PERMISSION_DENIED", "Not authorized to perform this action")
	ErrInsufficientStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart            = NewDomainError("EMPTY_CART", "Cart has no items")
	ErrCustomerRequired     = NewDomainError("CUSTOMER_REQUIRED", "A customer must be selected")
	ErrNotFullyPaid         = NewDomainError("NOT_FULLY_PAID", "Tenders do not cover the transaction total")
	ErrVerificationPending  = NewDomainError("VERIFICATION_PENDING", "An age verification is already in progress")
	ErrVerificationRequired = NewDomainError("VERIFICATION_REQUIRED", "Age verification required for this product")
)
