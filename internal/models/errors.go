package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients in the extensions.code field of a
// GraphQL error (and in the code field of plain HTTP error responses).
const (
	CodeConflict       = "CONFLICT"
	CodeNotFound       = "NOT_FOUND"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeHashing        = "HASHING_ERROR"
	CodeToken          = "TOKEN_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError is the application error type. Message is safe to show to
// clients; Err carries internal detail and is only surfaced through
// Unwrap for logging.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Extensions exposes the error code to the GraphQL error formatter.
func (e *AppError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// HTTPStatus maps the error code to an HTTP status for non-GraphQL surfaces.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeConflict:
		return fiber.StatusConflict
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeAuthentication:
		return fiber.StatusUnauthorized
	case CodeAuthorization:
		return fiber.StatusForbidden
	case CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// NewConflictError signals a duplicate unique field on create.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewNotFoundError signals that a referenced entity is absent.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewAuthenticationError signals a bad password or an invalid/missing token.
func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: CodeAuthentication, Message: message}
}

// NewAuthorizationError signals that a guard rejected an operation.
func NewAuthorizationError(message string) *AppError {
	return &AppError{Code: CodeAuthorization, Message: message}
}

// NewValidationError signals a field shape/length/required violation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewHashingError signals an infrastructure failure in the credential hasher.
func NewHashingError(err error) *AppError {
	return &AppError{Code: CodeHashing, Message: "Password hashing failed", Err: err}
}

// NewTokenError signals an infrastructure failure in the token service,
// e.g. a missing signing secret. Invalid tokens are authentication errors.
func NewTokenError(err error) *AppError {
	return &AppError{Code: CodeToken, Message: "Token signing failed", Err: err}
}

// NewInternalError wraps an unexpected failure; the client sees only a
// generic message while the cause stays attached for logging.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// CodeOf returns the application error code for err, or CodeInternal for
// errors outside the taxonomy.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse is the standardized shape of plain HTTP error bodies.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondWithError writes a standardized error response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Error: appErr.Message, Code: appErr.Code})
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
