package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain/booking"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `id, user_id, field_id, daily_match_id, start_time, end_time,
	total_cents, status, payment_status, payment_method, payment_id, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, field_id, daily_match_id, start_time, end_time,
			total_cents, status, payment_status, payment_method, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		b.ID(), b.UserID(), b.FieldID(), b.MatchID(), b.StartTime(), b.EndTime(),
		b.TotalCents(), b.Status().String(), b.PaymentStatus().String(),
		b.PaymentMethod().String(), b.PaymentID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanBooking(tx.QueryRow(ctx, query, id))
}

func (r *BookingRepository) Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, updated_at = now()
		WHERE id = $3`

	tag, err := tx.Exec(ctx, query, b.Status().String(), b.PaymentStatus().String(), b.ID())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found for update")
	}
	return nil
}

func (r *BookingRepository) SweepElapsed(ctx context.Context, tx db.DBTX, now time.Time) ([]shared.SweptBooking, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = now()
		WHERE status IN ('pending', 'confirmed') AND end_time < $1
		RETURNING id, user_id, total_cents`

	rows, err := tx.Query(ctx, query, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sweep elapsed bookings", err)
	}
	defer rows.Close()

	var swept []shared.SweptBooking
	for rows.Next() {
		var s shared.SweptBooking
		if err := rows.Scan(&s.ID, &s.UserID, &s.TotalCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan swept booking", err)
		}
		swept = append(swept, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read swept bookings", err)
	}
	return swept, nil
}

func (r *BookingRepository) scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, userID, fieldID  uuid.UUID
		matchID              *uuid.UUID
		startTime, endTime   time.Time
		totalCents           int64
		status               string
		paymentStatus        string
		paymentMethod        string
		paymentID            string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &fieldID, &matchID, &startTime, &endTime,
		&totalCents, &status, &paymentStatus, &paymentMethod, &paymentID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	return booking.ReconstructBooking(
		id, userID, fieldID, matchID, startTime, endTime, totalCents,
		booking.Status(status), booking.PaymentStatus(paymentStatus),
		booking.PaymentMethod(paymentMethod), paymentID, createdAt, updatedAt,
	), nil
}
