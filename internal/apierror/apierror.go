// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}

// Error is returned by services when the failure maps to a specific HTTP status.
// Anything that is not an *Error is treated as an internal failure.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func BadRequest(msg string) *Error   { return &Error{Status: http.StatusBadRequest, Detail: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Detail: msg} }
func Forbidden(msg string) *Error    { return &Error{Status: http.StatusForbidden, Detail: msg} }
func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Detail: msg} }
func Conflict(msg string) *Error     { return &Error{Status: http.StatusConflict, Detail: msg} }

// StatusOf returns the HTTP status carried by err, or 500 when err is not a
// service *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
