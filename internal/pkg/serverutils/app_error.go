package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is the one error type allowed to cross a controller boundary.
// Code is the HTTP status; Details carries the raw provider/validation
// detail string and never a stack trace.
type AppError struct {
	Code    int
	Message string
	Details string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError reports a client-side input failure (400).
func NewValidationError(message, details string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message, Details: details}
}

// NewProviderError reports an upstream generation failure (500). The message
// stays generic; the raw detail rides along for the caller.
func NewProviderError(details string) *AppError {
	return &AppError{Code: fiber.StatusInternalServerError, Message: "Failed to generate response", Details: details}
}

// NewUnauthorizedError reports a failed admin login or missing token (401).
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}
