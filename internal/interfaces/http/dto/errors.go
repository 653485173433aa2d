package dto

import (
	"net/http"
	"strings"
)

// Error codes used by the HTTP layer itself. Domain error codes travel
// on the wire unchanged so remote gateways can map them back onto the
// shared sentinels.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	// Protocol and state errors
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"STOCK_EXCEEDED":       http.StatusUnprocessableEntity,
	"FOREIGN_PRODUCT":      http.StatusUnprocessableEntity,
	"EMPTY_CART":           http.StatusUnprocessableEntity,
	"CHECKOUT_IN_PROGRESS": http.StatusConflict,

	// Transport errors
	"SYNC_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes carrying an INVALID_ prefix are input errors; everything else
// unknown is treated as an internal failure.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
