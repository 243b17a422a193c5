package commands

import (
	"context"
	"fmt"

	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/queries"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type WalletCommands interface {
	// Deposit tops up the user's wallet from an approved gateway payment.
	// Replaying the same payment id deposits nothing.
	Deposit(ctx context.Context, userID uuid.UUID, paymentID string) (*queries.WalletView, error)
}

type walletCommandsImpl struct {
	uow      shared.UnitOfWork
	payments gateway.PaymentClient
	queries  queries.WalletQueries
}

func NewWalletCommands(uow shared.UnitOfWork, payments gateway.PaymentClient, q queries.WalletQueries) WalletCommands {
	return &walletCommandsImpl{uow: uow, payments: payments, queries: q}
}

func (c *walletCommandsImpl) Deposit(ctx context.Context, userID uuid.UUID, paymentID string) (*queries.WalletView, error) {
	if paymentID == "" {
		return nil, errs.Mark(errs.New("payment id is required"), errs.ErrDomainValidation)
	}

	info, err := c.payments.GetPaymentInfo(ctx, paymentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentNotApproved)
	}
	if !info.IsApproved() {
		return nil, errs.ErrPaymentNotApproved
	}
	if info.AmountCents <= 0 {
		return nil, errs.ErrPaymentAmountMismatch
	}

	description := fmt.Sprintf("deposit payment %s", paymentID)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), userID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// The ledger is the dedupe record for top-ups: a repeated payment id
		// already has an entry with this description.
		seen, err := tx.Wallets().HasTransactionDescription(ctx, tx.DB(), w.ID(), description)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if seen {
			return nil
		}

		entry, err := w.Deposit(info.AmountCents, description)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := applyWalletChange(ctx, tx, w, entry); err != nil {
			return err
		}

		// The ledger is authoritative: if the cached balance no longer
		// matches its signed sum, roll the deposit back instead of
		// compounding the divergence.
		sum, err := tx.Wallets().SumSignedAmounts(ctx, tx.DB(), w.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if sum != w.BalanceCents() {
			return errs.Mark(
				errs.New(fmt.Sprintf("wallet %s balance %d diverged from ledger sum %d", w.ID(), w.BalanceCents(), sum)),
				errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	detail, err := c.queries.GetByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return detail.Wallet, nil
}
