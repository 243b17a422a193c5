package queries

import (
	"context"
	"time"

	"fieldbook/internal/domain/field"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type FieldView = readstore.FieldView

// FieldAvailability is a field's free grid hours on one date.
type FieldAvailability struct {
	FieldID        uuid.UUID
	Date           time.Time
	AvailableHours []string
}

type FieldQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*FieldView, error)
	// Availability subtracts booked and scheduled intervals (and, for today,
	// hours already past) from the field's weekly grid.
	Availability(ctx context.Context, fieldID uuid.UUID, date time.Time) (*FieldAvailability, error)
}

type fieldQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.FieldReadStore
	clock clock.Clock
}

func NewFieldQueries(uow shared.UnitOfWork, store *readstore.FieldReadStore, clk clock.Clock) FieldQueries {
	return &fieldQueriesImpl{uow: uow, store: store, clock: clk}
}

func (q *fieldQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*FieldView, error) {
	var view *FieldView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFieldNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *fieldQueriesImpl) Availability(ctx context.Context, fieldID uuid.UUID, date time.Time) (*FieldAvailability, error) {
	snap, err := q.uow.Reads().FieldByID(ctx, fieldID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFieldNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	occupied, err := q.uow.Reads().OccupanciesFor(ctx, fieldID, dayStart, dayEnd)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	hours := field.AvailableHours(snap.Entity(), date, occupied, q.clock.Now())
	return &FieldAvailability{FieldID: fieldID, Date: dayStart, AvailableHours: hours}, nil
}
