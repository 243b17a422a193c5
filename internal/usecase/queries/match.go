package queries

import (
	"context"
	"time"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type MatchView = readstore.MatchView

type TeamView = readstore.TeamView

type MatchQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*MatchView, error)
	ListByFieldDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*MatchView, error)
}

type matchQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.MatchReadStore
}

func NewMatchQueries(uow shared.UnitOfWork, store *readstore.MatchReadStore) MatchQueries {
	return &matchQueriesImpl{uow: uow, store: store}
}

func (q *matchQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*MatchView, error) {
	var view *MatchView
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
			return nil, errs.ErrMatchNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *matchQueriesImpl) ListByFieldDate(ctx context.Context, fieldID uuid.UUID, date time.Time) ([]*MatchView, error) {
	var views []*MatchView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		vs, err := q.store.ListByFieldDate(ctx, dbtx, fieldID, date)
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
