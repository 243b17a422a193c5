package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized     = errors.New("actor does not own booking")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrPastBooking      = errors.New("booking already started")
	ErrInvalidTimeSlot  = errors.New("invalid time slot")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrNotCancellable   = errors.New("booking is not cancellable")
	ErrAlreadyTerminal  = errors.New("booking is in a terminal status")
)

// Booking is a paid reservation of a field slot, optionally claiming a whole
// match. total price is fixed at creation and never recalculated.
type Booking struct {
	id            uuid.UUID
	userID        uuid.UUID
	fieldID       uuid.UUID
	matchID       *uuid.UUID
	startTime     time.Time
	endTime       time.Time
	totalCents    int64
	status        Status
	paymentStatus PaymentStatus
	paymentMethod PaymentMethod
	paymentID     string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewBooking creates a confirmed, fully paid booking. Creation happens only
// after payment is settled (wallet, gateway or both), so there is no pending
// construction path.
func NewBooking(
	userID, fieldID uuid.UUID,
	startTime time.Time,
	slotDuration time.Duration,
	totalCents int64,
	method PaymentMethod,
	paymentID string,
	now time.Time,
) (*Booking, error) {
	if totalCents < 0 {
		return nil, ErrNegativePrice
	}
	if !startTime.After(now) {
		return nil, ErrInvalidTimeSlot
	}
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		fieldID:       fieldID,
		startTime:     startTime,
		endTime:       startTime.Add(slotDuration),
		totalCents:    totalCents,
		status:        StatusConfirmed,
		paymentStatus: PaymentCompleted,
		paymentMethod: method,
		paymentID:     paymentID,
	}, nil
}

func ReconstructBooking(
	id, userID, fieldID uuid.UUID,
	matchID *uuid.UUID,
	startTime, endTime time.Time,
	totalCents int64,
	status Status,
	paymentStatus PaymentStatus,
	paymentMethod PaymentMethod,
	paymentID string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		fieldID:       fieldID,
		matchID:       matchID,
		startTime:     startTime,
		endTime:       endTime,
		totalCents:    totalCents,
		status:        status,
		paymentStatus: paymentStatus,
		paymentMethod: paymentMethod,
		paymentID:     paymentID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) FieldID() uuid.UUID           { return b.fieldID }
func (b *Booking) MatchID() *uuid.UUID          { return b.matchID }
func (b *Booking) StartTime() time.Time         { return b.startTime }
func (b *Booking) EndTime() time.Time           { return b.endTime }
func (b *Booking) TotalCents() int64            { return b.totalCents }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }
func (b *Booking) PaymentID() string            { return b.paymentID }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// LinkMatch records the claimed match. Set once, at creation time.
func (b *Booking) LinkMatch(matchID uuid.UUID) {
	id := matchID
	b.matchID = &id
}

// RefundCents is the amount a cancellation returns to the owner's wallet:
// the full fixed price, regardless of how it was originally split.
func (b *Booking) RefundCents() int64 {
	return b.totalCents
}

// Cancel transitions to cancelled/refunded. The guards make the transition
// fire at most once, which is what keeps the refund exactly-once: callers
// deposit only when Cancel returns nil.
//
// A system-initiated cancellation (match reconciliation) passes system=true to
// skip the ownership and past-start guards.
func (b *Booking) Cancel(actorID uuid.UUID, now time.Time, system bool) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if b.status == StatusCompleted {
		return ErrNotCancellable
	}
	if !system {
		if actorID != b.userID {
			return ErrUnauthorized
		}
		if b.startTime.Before(now) {
			return ErrPastBooking
		}
	}
	b.status = StatusCancelled
	b.paymentStatus = PaymentRefunded
	return nil
}

// SweepComplete moves an elapsed booking to completed. Payment status is
// untouched.
func (b *Booking) SweepComplete(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	if now.Before(b.endTime) {
		return errors.New("booking window has not elapsed")
	}
	b.status = StatusCompleted
	return nil
}
