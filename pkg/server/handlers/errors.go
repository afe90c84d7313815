package handlers

import (
	"encoding/json"
	"net/http"
)

// Error types returned in ErrorDetail.Type.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeTooLarge       = "request_too_large"
	ErrorTypeUnauthorized   = "authentication_error"
	ErrorTypeRateLimited    = "rate_limit_error"
	ErrorTypeUnavailable    = "service_unavailable"
	ErrorTypeInternal       = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Type categorizes the error.
	Type string `json:"type"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Param is the name of the parameter that caused the error (if applicable).
	Param string `json:"param,omitempty"`
}

// HTTPStatusCode maps the error type to a status code.
func (e ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(errorType, message, param string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Type: errorType, Message: message, Param: param}}
}

// WriteError writes errResp with the status code matching its type.
func WriteError(w http.ResponseWriter, errResp *ErrorResponse) {
	writeJSON(w, errResp.Error.HTTPStatusCode(), errResp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
