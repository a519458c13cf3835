package usecase

import (
	"errors"
	"fmt"
)

// Stable machine-readable error codes returned alongside the HTTP status.
const (
	CodeValidation        = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeInsufficientStock = "insufficient_stock"
	CodeInvalidTransition = "invalid_transition"
	CodeInvalidSignature  = "invalid_signature"
	CodeGatewayError      = "gateway_error"
	CodeCarrierError      = "carrier_error"
	CodeInternal          = "internal_error"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func NewHTTPError(status int, code, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
