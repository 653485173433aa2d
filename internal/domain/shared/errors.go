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
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrStockExceeded      = NewDomainError("STOCK_EXCEEDED", "Requested quantity exceeds available stock")
	ErrForeignProduct     = NewDomainError("FOREIGN_PRODUCT", "Product belongs to a different store")
	ErrEmptyCart          = NewDomainError("EMPTY_CART", "Cart has no lines to bill")
	ErrCheckoutInProgress = NewDomainError("CHECKOUT_IN_PROGRESS", "A checkout is already in progress for this session")
	ErrSyncUnavailable    = NewDomainError("SYNC_UNAVAILABLE", "Scan synchronization transport is unavailable")
)
