package commands

import (
	"context"
	"time"

	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// CreateBookingRequest carries everything the booking flow needs. StartHour
// is a grid hour ("HH:MM") on Date; PaymentID is required whenever the wallet
// cannot cover the whole price.
type CreateBookingRequest struct {
	UserID    uuid.UUID
	FieldID   uuid.UUID
	Date      time.Time
	StartHour string
	UseWallet bool
	PaymentID string
}

// applyWalletChange persists a balance mutation together with its ledger
// entry. The two always commit or roll back as one.
func applyWalletChange(ctx context.Context, tx shared.Tx, w *wallet.Wallet, entry wallet.Transaction) error {
	if err := tx.Wallets().UpdateBalance(ctx, tx.DB(), w); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := tx.Wallets().AppendTransaction(ctx, tx.DB(), entry); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// findOrCreateWalletForUpdate returns the user's wallet locked for the
// enclosing transaction, creating it lazily on first use. A concurrent
// creation loses on the user_id unique index and falls back to locking the
// winner's row.
func findOrCreateWalletForUpdate(ctx context.Context, tx db.DBTX, wallets shared.WalletRepository, userID uuid.UUID) (*wallet.Wallet, error) {
	w, err := wallets.FindByUserIDForUpdate(ctx, tx, userID)
	if err == nil {
		return w, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	w = wallet.NewWallet(userID)
	if createErr := wallets.Create(ctx, tx, w); createErr != nil {
		if infra.IsKind(createErr, infra.KindDuplicateKey) {
			return wallets.FindByUserIDForUpdate(ctx, tx, userID)
		}
		return nil, createErr
	}
	return w, nil
}
