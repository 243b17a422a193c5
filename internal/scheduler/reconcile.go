package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"fieldbook/internal/infra/notify"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// runMatchReconciliation cancels open matches starting within the cancel
// window today that did not fill up, refunding joined players and notifying
// them. Each match is handled in its own transaction so one failure never
// blocks the rest; the open-status filter makes reruns idempotent.
func (s *Service) runMatchReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	acquired, err := s.tryAcquireLease(ctx, leaseMatchReconcile)
	if err != nil {
		slog.Error("match reconciliation lease check failed", "error", err)
		return
	}
	if !acquired {
		slog.Debug("match reconciliation skipped, lease held elsewhere")
		return
	}
	defer s.releaseLease(ctx, leaseMatchReconcile)

	now := s.clock.Now()
	until := now.Add(s.cfg.CancelWindow)

	var matchIDs []uuid.UUID
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Matches().ListUnderFilledStartingSoon(ctx, tx.DB(), now, until)
		if err != nil {
			return err
		}
		matchIDs = ids
		return nil
	})
	if err != nil {
		slog.Error("failed to list under-filled matches", "error", err)
		return
	}

	cancelled, failed := 0, 0
	for _, id := range matchIDs {
		result, err := s.matches.CancelMatch(ctx, id)
		if err != nil {
			failed++
			slog.Error("failed to cancel under-filled match", "match_id", id, "error", err)
			continue
		}
		if !result.Cancelled {
			continue
		}
		cancelled++
		s.notifyCancellation(ctx, id, result.PlayerIDs)
	}

	slog.Info("match reconciliation finished",
		"candidates", len(matchIDs), "cancelled", cancelled, "failed", failed)
}

func (s *Service) notifyCancellation(ctx context.Context, matchID uuid.UUID, playerIDs []uuid.UUID) {
	if len(playerIDs) == 0 {
		return
	}
	ids := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = id.String()
	}
	s.notifier.SendNotification(ctx, notify.Notification{
		PlayerIDs: ids,
		Title:     "Match cancelled",
		Message:   fmt.Sprintf("Your match did not reach enough players and was cancelled. Match %s has been refunded to your wallet.", matchID),
		Data:      map[string]string{"match_id": matchID.String()},
	})
}
