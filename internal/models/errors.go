package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes are the stable taxonomy categories clients branch on.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
)

// Reasons refine a code into a specific, testable failure.
const (
	ReasonTokenMissing       = "TOKEN_MISSING"
	ReasonTokenExpired       = "TOKEN_EXPIRED"
	ReasonTokenInvalid       = "TOKEN_INVALID"
	ReasonTokenRevoked       = "TOKEN_REVOKED"
	ReasonSubjectNotFound    = "SUBJECT_NOT_FOUND"
	ReasonInvalidCredentials = "INVALID_CREDENTIALS"

	ReasonSelfReference = "SELF_REFERENCE"
	ReasonMissingField  = "MISSING_FIELD"
	ReasonInvalidField  = "INVALID_FIELD"

	ReasonDuplicatePending = "DUPLICATE_PENDING"
	ReasonAlreadyFriends   = "ALREADY_FRIENDS"
	ReasonNotPending       = "NOT_PENDING"
	ReasonEmailTaken       = "EMAIL_TAKEN"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error code onto an HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeConflict:
		return fiber.StatusConflict
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Reason:  ReasonInvalidField,
		Message: message,
	}
}

func NewMissingFieldError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Reason:  ReasonMissingField,
		Message: message,
	}
}

func NewSelfReferenceError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Reason:  ReasonSelfReference,
		Message: message,
	}
}

func NewConflictError(reason, message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Reason:  reason,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewUnauthenticatedError builds a 401 error; reason names the sub-kind
// (missing, expired, invalid, revoked token or unknown subject).
func NewUnauthenticatedError(reason, message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsReason reports whether err is an AppError with the given reason.
func IsReason(err error, reason string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Reason == reason
}

// RespondWithError creates a standardized error response. Wrapped causes are
// never written to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Reason: appErr.Reason,
		}
	} else {
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  CodeInternal,
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError writes err using the status derived from its code.
// Errors that are not AppErrors are treated as internal failures.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}
	return RespondWithError(c, appErr.Status(), appErr)
}
