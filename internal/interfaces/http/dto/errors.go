package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// domainErrorHTTPStatus maps domain error codes to HTTP status codes
// Codes not listed here are treated as business rule violations (422)
var domainErrorHTTPStatus = map[string]int{
	"NOT_FOUND":         http.StatusNotFound,
	"ALREADY_EXISTS":    http.StatusConflict,
	"PERMISSION_DENIED": http.StatusForbidden,

	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_DISCOUNT": http.StatusBadRequest,
	"INVALID_MODE":     http.StatusBadRequest,
	"INVALID_OUTCOME":  http.StatusBadRequest,

	"NO_SESSION":     http.StatusConflict,
	"NO_PAYMENT":     http.StatusConflict,
	"CART_NOT_EMPTY": http.StatusConflict,

	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
// Unmapped codes are business rule violations and map to 422
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
