package utils

import (
	"errors"
	"net/http"
)

// Error kinds recognized by the checkout pipeline.
const (
	KindNotFound          = "not_found"
	KindInsufficientStock = "insufficient_stock"
	KindConflict          = "conflict"
	KindPaymentFailed     = "payment_failed"
	KindPaymentMismatch   = "payment_mismatch"
	KindUpstream          = "upstream_error"
)

// ApiError is a failure with an HTTP status and a caller-facing message. It
// propagates uncaught from the services to the controller boundary, which maps
// it onto the response.
type ApiError struct {
	Kind       string
	StatusCode int
	Message    string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NotFound(message string) *ApiError {
	return &ApiError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func InsufficientStock(message string) *ApiError {
	return &ApiError{Kind: KindInsufficientStock, StatusCode: http.StatusBadRequest, Message: message}
}

func Conflict(message string) *ApiError {
	return &ApiError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

func PaymentFailed(message string) *ApiError {
	return &ApiError{Kind: KindPaymentFailed, StatusCode: http.StatusPaymentRequired, Message: message}
}

func PaymentMismatch(message string) *ApiError {
	return &ApiError{Kind: KindPaymentMismatch, StatusCode: http.StatusBadRequest, Message: message}
}

func Upstream(message string) *ApiError {
	return &ApiError{Kind: KindUpstream, StatusCode: http.StatusBadGateway, Message: message}
}

func BadRequest(message string) *ApiError {
	return &ApiError{Kind: "bad_request", StatusCode: http.StatusBadRequest, Message: message}
}

// StatusOf extracts the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
