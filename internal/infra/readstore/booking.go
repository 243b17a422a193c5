package readstore

import (
	"context"
	"time"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingView struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FieldID       uuid.UUID
	FieldName     string
	MatchID       *uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	TotalCents    int64
	Status        string
	PaymentStatus string
	PaymentMethod string
	PaymentID     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BookingReadStore struct{}

func NewBookingReadStore() *BookingReadStore {
	return &BookingReadStore{}
}

const bookingViewQuery = `
	SELECT b.id, b.user_id, b.field_id, f.name, b.daily_match_id, b.start_time, b.end_time,
	       b.total_cents, b.status, b.payment_status, b.payment_method, b.payment_id,
	       b.created_at, b.updated_at
	FROM bookings b
	JOIN fields f ON f.id = b.field_id`

func (s *BookingReadStore) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*BookingView, error) {
	return scanBookingView(tx.QueryRow(ctx, bookingViewQuery+` WHERE b.id = $1`, id))
}

func (s *BookingReadStore) ListByUser(ctx context.Context, tx db.DBTX, userID uuid.UUID) ([]*BookingView, error) {
	rows, err := tx.Query(ctx, bookingViewQuery+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var views []*BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bookings", err)
	}
	return views, nil
}

func (s *BookingReadStore) IDByPaymentID(ctx context.Context, tx db.DBTX, paymentID string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM bookings WHERE payment_id = $1`, paymentID).Scan(&id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by payment id", err)
	}
	return &id, nil
}

func scanBookingView(row pgx.Row) (*BookingView, error) {
	var v BookingView
	err := row.Scan(&v.ID, &v.UserID, &v.FieldID, &v.FieldName, &v.MatchID,
		&v.StartTime, &v.EndTime, &v.TotalCents, &v.Status, &v.PaymentStatus,
		&v.PaymentMethod, &v.PaymentID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	return &v, nil
}
