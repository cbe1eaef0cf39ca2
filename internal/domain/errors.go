package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalError        = errors.New("internal error")
	ErrRecordNotFound       = errors.New("daily record not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrClientInactive       = errors.New("client is inactive")
	ErrOverheadNotFound     = errors.New("overhead setting not found")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrInvalidBreadType     = errors.New("invalid bread type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidCategory      = errors.New("invalid overhead category")
	ErrInvalidMonth         = errors.New("invalid year or month")
	ErrNegativeValue        = errors.New("value must not be negative")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrZeroMovement         = errors.New("movement amount must not be zero")
	ErrAccountRequired      = errors.New("account is required for cash payments")
	ErrAccountNotApplicable = errors.New("account only applies to cash payments")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrNoteTooLong          = errors.New("note exceeds maximum length")
	ErrReasonRequired       = errors.New("reason is required")
	ErrInvalidWindow        = errors.New("window must be positive")
)

// Validation constants
const (
	MaxClientNameLength = 255
	MaxNoteLength       = 500
	MaxReasonLength     = 255
)
