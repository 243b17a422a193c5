//go:build unit || e2e

package builder

import (
	"time"

	dombooking "fieldbook/internal/domain/booking"
	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	UserID       uuid.UUID
	FieldID      uuid.UUID
	StartTime    time.Time
	SlotDuration time.Duration
	TotalCents   int64
	Method       dombooking.PaymentMethod
	PaymentID    string
	Now          time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		UserID:       uuid.New(),
		FieldID:      uuid.New(),
		StartTime:    now.Add(2 * time.Hour),
		SlotDuration: time.Hour,
		TotalCents:   12000,
		Method:       dombooking.MethodWallet,
		PaymentID:    "",
		Now:          now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(b.UserID, b.FieldID, b.StartTime, b.SlotDuration, b.TotalCents, b.Method, b.PaymentID, b.Now)
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:            uuid.New(),
		UserID:        b.UserID,
		FieldID:       b.FieldID,
		FieldName:     "Center Court",
		StartTime:     b.StartTime,
		EndTime:       b.StartTime.Add(b.SlotDuration),
		TotalCents:    b.TotalCents,
		Status:        dombooking.StatusConfirmed.String(),
		PaymentStatus: dombooking.PaymentCompleted.String(),
		PaymentMethod: b.Method.String(),
		PaymentID:     b.PaymentID,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
	}
}
