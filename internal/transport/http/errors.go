package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/shortener"
)

// AppError is an API error with its HTTP status
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// WriteJSON writes the error as a JSON response
func (e *AppError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: e})
}

func errInvalidJSON(details string) *AppError {
	return &AppError{
		Code:       "INVALID_JSON",
		Message:    "Invalid JSON in request body",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	}
}

func errValidation(details string) *AppError {
	return &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "The request failed validation",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	}
}

func errUnauthorized(details string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "A valid bearer token is required",
		Details:    details,
		StatusCode: http.StatusUnauthorized,
	}
}

func errLinkNotFound() *AppError {
	return &AppError{
		Code:       "LINK_NOT_FOUND",
		Message:    "Link not found",
		StatusCode: http.StatusNotFound,
	}
}

func errRouteNotFound() *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    "Route not found",
		StatusCode: http.StatusNotFound,
	}
}

func errMethodNotAllowed() *AppError {
	return &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

func errRateLimited() *AppError {
	return &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please try again later",
		StatusCode: http.StatusTooManyRequests,
	}
}

func errExhausted() *AppError {
	return &AppError{
		Code:       "SHORT_CODE_EXHAUSTED",
		Message:    "Could not allocate a unique short code",
		StatusCode: http.StatusInternalServerError,
	}
}

func errInternal() *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An internal server error occurred",
		StatusCode: http.StatusInternalServerError,
	}
}

func errUnavailable(details string) *AppError {
	return &AppError{
		Code:       "UNAVAILABLE",
		Message:    "The service is not ready",
		Details:    details,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// toAppError maps service errors onto API errors. Internal details never leak.
func toAppError(err error) *AppError {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return errValidation(validation.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errValidation(err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errLinkNotFound()
	case errors.Is(err, shortener.ErrShortCodeExhausted):
		return errExhausted()
	}
	return errInternal()
}
