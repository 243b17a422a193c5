//go:build unit

package booking_test

import (
	"testing"
	"time"

	"fieldbook/internal/domain/booking"
	"fieldbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, b)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.PaymentCompleted, b.PaymentStatus())
		assert.Equal(t, b.StartTime().Add(time.Hour), b.EndTime())
		assert.Nil(t, b.MatchID())
	})

	t.Run("negative price", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
			bb.TotalCents = -1
		}).BuildDomain()
		require.Nil(t, b)
		require.ErrorIs(t, err, booking.ErrNegativePrice)
	})

	t.Run("start in the past", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().With(func(bb *builder.BookingBuilder) {
			bb.StartTime = bb.Now.Add(-time.Minute)
		}).BuildDomain()
		require.Nil(t, b)
		require.ErrorIs(t, err, booking.ErrInvalidTimeSlot)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

	t.Run("owner cancels a future booking", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Cancel(b.UserID(), now, false))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, booking.PaymentRefunded, b.PaymentStatus())
		assert.Equal(t, b.TotalCents(), b.RefundCents())
	})

	t.Run("cancel fires at most once", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Cancel(b.UserID(), now, false))
		err = b.Cancel(b.UserID(), now, false)
		require.ErrorIs(t, err, booking.ErrAlreadyCancelled)
	})

	t.Run("another user cannot cancel", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		err = b.Cancel(uuid.New(), now, false)
		require.ErrorIs(t, err, booking.ErrUnauthorized)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("cannot cancel after start", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		err = b.Cancel(b.UserID(), b.StartTime().Add(time.Minute), false)
		require.ErrorIs(t, err, booking.ErrPastBooking)
	})

	t.Run("system cancel skips owner and past guards", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Cancel(uuid.Nil, b.StartTime().Add(time.Hour), true))
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})

	t.Run("completed booking is not cancellable", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, b.SweepComplete(b.EndTime().Add(time.Minute)))

		err = b.Cancel(b.UserID(), now, false)
		require.ErrorIs(t, err, booking.ErrNotCancellable)
	})
}

func TestSweepComplete(t *testing.T) {
	t.Run("completes an elapsed booking", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.SweepComplete(b.EndTime()))
		assert.Equal(t, booking.StatusCompleted, b.Status())
		assert.Equal(t, booking.PaymentCompleted, b.PaymentStatus())
	})

	t.Run("rejects before the window elapses", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		err = b.SweepComplete(b.EndTime().Add(-time.Minute))
		require.Error(t, err)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("terminal booking stays put", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
		require.NoError(t, b.Cancel(b.UserID(), now, false))

		err = b.SweepComplete(b.EndTime().Add(time.Hour))
		require.ErrorIs(t, err, booking.ErrAlreadyTerminal)
		assert.Equal(t, booking.StatusCancelled, b.Status())
	})
}
