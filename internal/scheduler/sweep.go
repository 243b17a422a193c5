package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra"
	"fieldbook/internal/usecase/shared"
)

// runBookingSweep completes non-terminal bookings whose window has elapsed
// and awards loyalty points for each, all in one transaction. The award
// commits with the status transition, so a crash cannot leave a completed
// booking without its points.
func (s *Service) runBookingSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	acquired, err := s.tryAcquireLease(ctx, leaseBookingSweep)
	if err != nil {
		slog.Error("booking sweep lease check failed", "error", err)
		return
	}
	if !acquired {
		slog.Debug("booking sweep skipped, lease held elsewhere")
		return
	}
	defer s.releaseLease(ctx, leaseBookingSweep)

	var completed, awarded int
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Reset on retry so a serialization replay does not double-count.
		completed, awarded = 0, 0

		swept, err := tx.Bookings().SweepElapsed(ctx, tx.DB(), s.clock.Now())
		if err != nil {
			return err
		}
		completed = len(swept)

		for _, b := range swept {
			points := b.TotalCents / 100
			if points == 0 {
				continue
			}
			if err := awardPoints(ctx, tx, b, points); err != nil {
				return err
			}
			awarded++
		}
		return nil
	})
	if err != nil {
		slog.Error("booking sweep failed", "error", err)
		return
	}

	slog.Info("booking sweep finished", "completed", completed, "points_awarded", awarded)
}

// awardPoints credits 1 point per currency unit of the booking's price,
// recorded as a points_earned ledger entry that moves no money.
func awardPoints(ctx context.Context, tx shared.Tx, b shared.SweptBooking, points int64) error {
	w, err := tx.Wallets().FindByUserIDForUpdate(ctx, tx.DB(), b.UserID)
	if err != nil {
		// A user who paid fully through the gateway may have no wallet
		// row yet.
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		w = wallet.NewWallet(b.UserID)
		if err := tx.Wallets().Create(ctx, tx.DB(), w); err != nil {
			return err
		}
	}

	entry, err := w.AwardPoints(points, fmt.Sprintf("points for booking %s", b.ID))
	if err != nil {
		return err
	}
	if err := tx.Wallets().UpdateBalance(ctx, tx.DB(), w); err != nil {
		return err
	}
	return tx.Wallets().AppendTransaction(ctx, tx.DB(), entry)
}
