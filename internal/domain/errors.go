package domain

import "errors"

// Business-rule violations are expected outcomes, returned as typed errors
// and never logged as faults. The transport layer maps each kind to a
// stable code and HTTP status.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrAuthorNotFound      = errors.New("author not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrAccountNotActive     = errors.New("account not activated")
	ErrAccountAlreadyActive = errors.New("account already activated")
	ErrDuplicateUser        = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTooManyAttempts      = errors.New("too many authentication attempts")

	ErrSecurityQuestionRequired = errors.New("security question required")
	ErrSecurityAnswerRequired   = errors.New("security answer required")
	ErrSecurityAnswerTooLong    = errors.New("security answer exceeds 32 characters")
	ErrNoSecurityQuestion       = errors.New("no security question configured")

	ErrAlreadyReserved = errors.New("book already reserved by user")
	ErrQuotaExceeded   = errors.New("active reservation limit reached")
	ErrOutOfStock      = errors.New("book is out of stock")

	ErrIncorrectOldPassword = errors.New("old password is incorrect")
	ErrPasswordUnchanged    = errors.New("new password must differ from the old one")
	ErrPasswordReused       = errors.New("new password matches a recent password")
	ErrPasswordTooShort     = errors.New("new password must contain at least 6 characters")
)
