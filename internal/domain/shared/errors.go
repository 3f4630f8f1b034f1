package shared

import "errors"

// Domain error codes
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
)

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

// ErrInvalidInput is the generic invalid input error
var ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")

// InvalidInput returns a DomainError with code INVALID_INPUT
func InvalidInput(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// IsDomainError reports whether err wraps a DomainError and returns it
func IsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
