// Package errx carries an HTTP status and a client-safe message alongside an error.
package errx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// SystemErrorMessage is the fallback shown to clients for unexpected failures.
	SystemErrorMessage = "internal server error"
	// StorageErrorMessage describes a failed read or write against the key-value store.
	StorageErrorMessage = "storage operation failed"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{Err: err, Status: status, Message: message}
}

// BadRequest reports a missing or malformed field.
func BadRequest(message string) *AppError {
	return New(nil, http.StatusBadRequest, message)
}

// NotFound reports an absent record.
func NotFound(message string) *AppError {
	return New(nil, http.StatusNotFound, message)
}

// Forbidden reports an operation the caller's role may not perform.
func Forbidden(message string) *AppError {
	return New(nil, http.StatusForbidden, message)
}

// Conflict reports a concurrent modification.
func Conflict(err error, message string) *AppError {
	return New(err, http.StatusConflict, message)
}

// WrapStorage maps a storage failure to 502; nil stays nil.
func WrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, StorageErrorMessage)
}

// Status returns the HTTP status of err, defaulting to 500.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message of err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	return SystemErrorMessage
}

// Respond writes err as {"error": message} with its status.
func Respond(c echo.Context, err error) error {
	return c.JSON(Status(err), echo.Map{"error": Message(err)})
}
