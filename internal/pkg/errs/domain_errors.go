package errs

import "errors"

// Domain-specific sentinel errors matched by the handler layer
var (
	// Field errors
	ErrFieldNotFound = errors.New("field not found")

	// Match errors
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchFull              = errors.New("match is full")
	ErrMatchAlreadyHasPlayers = errors.New("match already has players")
	ErrAlreadyJoined          = errors.New("player already joined match")
	ErrNotJoined              = errors.New("player is not part of match")
	ErrMatchNotOpen           = errors.New("match is not open")

	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrPastBooking      = errors.New("booking start time is in the past")
	ErrSlotUnavailable  = errors.New("requested slot is not available")

	// Wallet errors
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// Payment errors
	ErrPaymentNotApproved      = errors.New("payment not approved")
	ErrPaymentAmountMismatch   = errors.New("payment amount does not match")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

	// Authorization / validation errors
	ErrUnauthorized     = errors.New("actor is not allowed to perform this action")
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
