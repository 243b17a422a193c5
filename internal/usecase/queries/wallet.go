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

type WalletView = readstore.WalletView

type TransactionView = readstore.TransactionView

// WalletDetail bundles the wallet header with its recent ledger entries.
type WalletDetail struct {
	Wallet       *WalletView
	Transactions []*TransactionView
}

type WalletQueries interface {
	// GetByUser returns the user's wallet with recent transactions. Users who
	// never touched their wallet get a zero-balance view, not an error.
	GetByUser(ctx context.Context, userID uuid.UUID, txLimit int) (*WalletDetail, error)
}

type walletQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.WalletReadStore
}

func NewWalletQueries(uow shared.UnitOfWork, store *readstore.WalletReadStore) WalletQueries {
	return &walletQueriesImpl{uow: uow, store: store}
}

func (q *walletQueriesImpl) GetByUser(ctx context.Context, userID uuid.UUID, txLimit int) (*WalletDetail, error) {
	var detail WalletDetail
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		w, err := q.store.FindByUserID(ctx, dbtx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				detail.Wallet = &WalletView{UserID: userID}
				detail.Transactions = []*TransactionView{}
				return nil
			}
			return err
		}
		detail.Wallet = w

		txs, err := q.store.ListTransactions(ctx, dbtx, w.ID, txLimit)
		if err != nil {
			return err
		}
		detail.Transactions = txs
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &detail, nil
}
