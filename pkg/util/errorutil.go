package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

// DomainError standardizes application errors for the transport layer.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// sentinelMappings binds each domain error kind to its transport code and
// status. Business-rule violations are client errors, never 500s.
var sentinelMappings = []struct {
	sentinel error
	code     string
	status   int
}{
	{domain.ErrUserNotFound, "USER_NOT_FOUND", http.StatusNotFound},
	{domain.ErrBookNotFound, "BOOK_NOT_FOUND", http.StatusNotFound},
	{domain.ErrAuthorNotFound, "AUTHOR_NOT_FOUND", http.StatusNotFound},
	{domain.ErrReservationNotFound, "RESERVATION_NOT_FOUND", http.StatusNotFound},
	{domain.ErrAccountNotActive, "ACCOUNT_NOT_ACTIVE", http.StatusForbidden},
	{domain.ErrAccountAlreadyActive, "ACCOUNT_ALREADY_ACTIVE", http.StatusConflict},
	{domain.ErrDuplicateUser, "DUPLICATE_USER", http.StatusConflict},
	{domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", http.StatusUnauthorized},
	{domain.ErrTooManyAttempts, "TOO_MANY_ATTEMPTS", http.StatusTooManyRequests},
	{domain.ErrSecurityQuestionRequired, "SECURITY_QUESTION_REQUIRED", http.StatusBadRequest},
	{domain.ErrSecurityAnswerRequired, "SECURITY_ANSWER_REQUIRED", http.StatusBadRequest},
	{domain.ErrSecurityAnswerTooLong, "SECURITY_ANSWER_TOO_LONG", http.StatusBadRequest},
	{domain.ErrNoSecurityQuestion, "NO_SECURITY_QUESTION", http.StatusBadRequest},
	{domain.ErrAlreadyReserved, "ALREADY_RESERVED", http.StatusConflict},
	{domain.ErrQuotaExceeded, "QUOTA_EXCEEDED", http.StatusUnprocessableEntity},
	{domain.ErrOutOfStock, "OUT_OF_STOCK", http.StatusUnprocessableEntity},
	{domain.ErrIncorrectOldPassword, "INCORRECT_OLD_PASSWORD", http.StatusUnprocessableEntity},
	{domain.ErrPasswordUnchanged, "PASSWORD_UNCHANGED", http.StatusUnprocessableEntity},
	{domain.ErrPasswordReused, "PASSWORD_REUSED", http.StatusUnprocessableEntity},
	{domain.ErrPasswordTooShort, "PASSWORD_TOO_SHORT", http.StatusUnprocessableEntity},
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, mapping := range sentinelMappings {
		if errors.Is(err, mapping.sentinel) {
			return &DomainError{
				Code:       mapping.code,
				Message:    mapping.sentinel.Error(),
				HTTPStatus: mapping.status,
			}
		}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &DomainError{
			Code:       "NOT_FOUND",
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
