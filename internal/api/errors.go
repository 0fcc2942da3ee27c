// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/csv-dashboard/backend/internal/chart"
	"github.com/csv-dashboard/backend/internal/dataset"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewParseError creates a 400 error for malformed upload content
func NewParseError(cause *dataset.ParseError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "PARSE_ERROR",
		Message: "uploaded file is not valid CSV",
		Details: cause.Error(),
	}
}

// NewInvalidSelectionError creates a 400 error for a chart selection the
// dataset cannot satisfy
func NewInvalidSelectionError(cause *chart.InvalidSelectionError) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_SELECTION",
		Message: cause.Reason,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// wrapDomainError maps typed domain errors onto their API representation.
// Anything unrecognized becomes a 500.
func wrapDomainError(err error) *APIError {
	var parseErr *dataset.ParseError
	if errors.As(err, &parseErr) {
		return NewParseError(parseErr)
	}
	var selErr *chart.InvalidSelectionError
	if errors.As(err, &selErr) {
		return NewInvalidSelectionError(selErr)
	}
	return NewInternalError("unexpected error", err)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = wrapDomainError(err)
	}

	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}
