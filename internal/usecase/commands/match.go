package commands

import (
	"context"
	"errors"
	"fmt"

	"fieldbook/internal/domain/match"
	"fieldbook/internal/infra"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/queries"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// CancelMatchResult tells the caller whether this invocation performed the
// cancellation (false means it was already terminal) and which players were
// refunded, so notifications can go out after commit.
type CancelMatchResult struct {
	Cancelled bool
	PlayerIDs []uuid.UUID
}

type MatchCommands interface {
	// JoinMatch adds the player to a team of an open match, debiting their
	// wallet by the match's per-player price.
	JoinMatch(ctx context.Context, matchID, userID, teamID uuid.UUID) (*queries.MatchView, error)
	// LeaveMatch removes the player and refunds the join price.
	LeaveMatch(ctx context.Context, matchID, userID uuid.UUID) (*queries.MatchView, error)
	// CancelMatch cancels an open or reserved match, refunding every joined
	// player and system-cancelling the claiming booking if one exists.
	// Cancelling an already-terminal match is a no-op, not an error.
	CancelMatch(ctx context.Context, matchID uuid.UUID) (*CancelMatchResult, error)
}

type matchCommandsImpl struct {
	uow          shared.UnitOfWork
	matchQueries queries.MatchQueries
	clock        clock.Clock
}

func NewMatchCommands(uow shared.UnitOfWork, matchQueries queries.MatchQueries, clk clock.Clock) MatchCommands {
	return &matchCommandsImpl{uow: uow, matchQueries: matchQueries, clock: clk}
}

func (c *matchCommandsImpl) JoinMatch(ctx context.Context, matchID, userID, teamID uuid.UUID) (*queries.MatchView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		m, err := c.lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		if err := m.AddPlayer(userID, teamID); err != nil {
			return mapMatchJoinErr(err)
		}

		price := m.PriceCents()
		if price > 0 {
			w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), userID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			entry, err := w.Withdraw(price, fmt.Sprintf("match join %s", m.ID()))
			if err != nil {
				return errs.Mark(err, errs.ErrInsufficientFunds)
			}
			if err := applyWalletChange(ctx, tx, w, entry); err != nil {
				return err
			}
		}

		if err := tx.Matches().AddTeamPlayer(ctx, tx.DB(), m.ID(), teamID, userID); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrAlreadyJoined
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Matches().UpdateState(ctx, tx.DB(), m); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.matchQueries.GetByID(ctx, matchID)
}

func (c *matchCommandsImpl) LeaveMatch(ctx context.Context, matchID, userID uuid.UUID) (*queries.MatchView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		m, err := c.lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		if err := m.RemovePlayer(userID); err != nil {
			switch {
			case errors.Is(err, match.ErrNotJoined):
				return errs.ErrNotJoined
			case errors.Is(err, match.ErrNotOpen):
				return errs.ErrMatchNotOpen
			default:
				return errs.Mark(err, errs.ErrDomainValidation)
			}
		}

		price := m.PriceCents()
		if price > 0 {
			w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), userID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			entry, err := w.Refund(price, fmt.Sprintf("match leave %s", m.ID()))
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if err := applyWalletChange(ctx, tx, w, entry); err != nil {
				return err
			}
		}

		if err := tx.Matches().RemoveTeamPlayer(ctx, tx.DB(), m.ID(), userID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Matches().UpdateState(ctx, tx.DB(), m); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.matchQueries.GetByID(ctx, matchID)
}

func (c *matchCommandsImpl) CancelMatch(ctx context.Context, matchID uuid.UUID) (*CancelMatchResult, error) {
	result := &CancelMatchResult{}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Reset on retry so a serialization replay does not double-count.
		*result = CancelMatchResult{}

		m, err := c.lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}

		players := m.Players()
		if err := m.Cancel(); err != nil {
			if errors.Is(err, match.ErrAlreadyTerminal) {
				return nil
			}
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		price := m.PriceCents()
		for _, playerID := range players {
			if price == 0 {
				break
			}
			w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), playerID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			entry, err := w.Refund(price, fmt.Sprintf("match cancelled %s", m.ID()))
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if err := applyWalletChange(ctx, tx, w, entry); err != nil {
				return err
			}
		}

		if m.BookingID() != nil {
			if err := c.cancelClaimingBooking(ctx, tx, *m.BookingID()); err != nil {
				return err
			}
		}

		// Roster and team rows go with the match; the cached player_count
		// stays behind as history.
		if err := tx.Matches().DeleteTeams(ctx, tx.DB(), m.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Matches().UpdateState(ctx, tx.DB(), m); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result.Cancelled = true
		result.PlayerIDs = players
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// cancelClaimingBooking system-cancels the booking that claimed a now
// cancelled match and refunds its owner. A booking the owner already
// cancelled is left alone, which also means no second refund.
func (c *matchCommandsImpl) cancelClaimingBooking(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := b.Cancel(uuid.Nil, c.clock.Now(), true); err != nil {
		return nil
	}

	w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), b.UserID())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	entry, err := w.Refund(b.RefundCents(), fmt.Sprintf("booking %s", b.ID()))
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := applyWalletChange(ctx, tx, w, entry); err != nil {
		return err
	}

	if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *matchCommandsImpl) lockMatch(ctx context.Context, tx shared.Tx, matchID uuid.UUID) (*match.Match, error) {
	m, err := tx.Matches().FindByIDForUpdate(ctx, tx.DB(), matchID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrMatchNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return m, nil
}

func mapMatchJoinErr(err error) error {
	switch {
	case errors.Is(err, match.ErrNotOpen):
		return errs.ErrMatchNotOpen
	case errors.Is(err, match.ErrAlreadyJoined):
		return errs.ErrAlreadyJoined
	case errors.Is(err, match.ErrMatchFull):
		return errs.ErrMatchFull
	case errors.Is(err, match.ErrUnknownTeam):
		return errs.Mark(err, errs.ErrDomainValidation)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}
