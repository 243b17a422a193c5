package queries

import (
	"context"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// Read models are served straight from the read stores; the query layer adds
// transaction scoping and error translation only.
type BookingView = readstore.BookingView

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.BookingReadStore
}

func NewBookingQueries(uow shared.UnitOfWork, store *readstore.BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{uow: uow, store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
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
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error) {
	var views []*BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		vs, err := q.store.ListByUser(ctx, dbtx, userID)
		if err != nil {
			return err
		}
		views = vs
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
