package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/chirpygame/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeMissingClient     = "MISSING_CLIENT_ID"
	CodeInvalidClient     = "INVALID_CLIENT_ID"
	CodeValidation        = "VALIDATION_ERROR"
	CodeAuth              = "AUTH_FAILED"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeExpired           = "EXPIRED"
	CodeUnsupported       = "UNSUPPORTED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError. Model errors keep their own
// message; the category picks the status and code.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	category := func(status int, code string) *httpError {
		return &httpError{status, APIError{code, err.Error()}}
	}

	switch {
	case errors.Is(err, model.ErrValidation):
		return category(http.StatusBadRequest, CodeValidation)
	case errors.Is(err, model.ErrAuth):
		return category(http.StatusUnauthorized, CodeAuth)
	case errors.Is(err, model.ErrAccessDenied):
		return category(http.StatusForbidden, CodeAccessDenied)
	case errors.Is(err, model.ErrNotFound):
		return category(http.StatusNotFound, CodeNotFound)
	case errors.Is(err, model.ErrConflict):
		return category(http.StatusConflict, CodeConflict)
	case errors.Is(err, model.ErrInsufficientFunds):
		return category(http.StatusPaymentRequired, CodeInsufficientFunds)
	case errors.Is(err, model.ErrInvalidFormat):
		return category(http.StatusBadRequest, CodeInvalidFormat)
	case errors.Is(err, model.ErrExpired):
		return category(http.StatusGone, CodeExpired)
	case errors.Is(err, model.ErrUnsupported):
		return category(http.StatusUnprocessableEntity, CodeUnsupported)
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewMissingClientError is returned when a request does not identify its client
func NewMissingClientError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeMissingClient, "X-Client-ID header or client_id cookie required"}}
}

// NewInvalidClientError is returned when the client id is not one the server issued
func NewInvalidClientError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeInvalidClient, "client id must be a UUID issued by POST /api/v1/clients"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
