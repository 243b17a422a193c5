package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"fieldbook/internal/domain/booking"
	"fieldbook/internal/domain/field"
	"fieldbook/internal/domain/match"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/gateway"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/pkg/clock"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/queries"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	// CreateBooking settles payment (wallet first, gateway for the
	// remainder) and creates a confirmed booking, claiming the matching open
	// match when one exists. Requests carrying an already-processed payment
	// id are replayed, not duplicated.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error)
	// CancelBooking refunds the owner's wallet exactly once and reverts a
	// claimed match to open.
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	payments       gateway.PaymentClient
	bookingQueries queries.BookingQueries
	walletStore    *readstore.WalletReadStore
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	payments gateway.PaymentClient,
	bookingQueries queries.BookingQueries,
	walletStore *readstore.WalletReadStore,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		payments:       payments,
		bookingQueries: bookingQueries,
		walletStore:    walletStore,
		clock:          clk,
	}
}

func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if req.PaymentID != "" {
		existing, err := c.replayByPaymentID(ctx, req.PaymentID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &CreateBookingResult{Booking: existing, IsReplayed: true}, nil
		}
	}

	fieldSnap, err := c.uow.Reads().FieldByID(ctx, req.FieldID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFieldNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	startTime, ok := field.CombineDateHour(req.Date, req.StartHour)
	if !ok {
		return nil, errs.Mark(errs.New("unparseable start hour"), errs.ErrDomainValidation)
	}

	totalCents := fieldSnap.PricePerMatchCents

	// The gateway is consulted before the transaction opens: its bounded
	// wait must not hold locks, and no local funds move until the payment is
	// known approved for the exact remainder.
	plan, payment, err := c.settleGatewayPortion(ctx, req, totalCents)
	if err != nil {
		return nil, err
	}

	var bookingID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clock.Now()

		dayStart, dayEnd := dayBounds(req.Date)
		occupied, err := tx.Reads().OccupanciesFor(ctx, req.FieldID, dayStart, dayEnd)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		free := field.AvailableHours(fieldSnap.Entity(), req.Date, occupied, now)
		if !slices.Contains(free, req.StartHour) {
			// A match on this slot is still bookable as a claim; only a
			// non-claimable occupancy rejects the request.
			claimable, claimErr := c.slotHeldByClaimableMatch(ctx, tx, req.FieldID, startTime)
			if claimErr != nil {
				return claimErr
			}
			if !claimable {
				return errs.ErrSlotUnavailable
			}
		}

		walletCents := plan.WalletCents
		if walletCents > 0 {
			w, err := findOrCreateWalletForUpdate(ctx, tx.DB(), tx.Wallets(), req.UserID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			// The plan was computed from an unlocked read; a concurrent
			// debit may have shrunk the balance since. The gateway amount
			// is fixed, so a shrunken wallet cannot cover its share.
			if w.BalanceCents() < walletCents {
				return errs.ErrInsufficientFunds
			}
			entry, err := w.Withdraw(walletCents, fmt.Sprintf("booking payment field %s", fieldSnap.Name))
			if err != nil {
				return errs.Mark(err, errs.ErrInsufficientFunds)
			}
			if err := applyWalletChange(ctx, tx, w, entry); err != nil {
				return err
			}
		}

		paymentID := ""
		if payment != nil {
			paymentID = payment.ID
		}

		b, err := booking.NewBooking(req.UserID, req.FieldID, startTime,
			fieldSnap.SlotDuration, totalCents, plan.Method, paymentID, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		m, err := tx.Matches().FindOpenByFieldStart(ctx, tx.DB(), req.FieldID, startTime)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if m != nil {
			if claimErr := m.TryClaim(b.ID()); claimErr != nil {
				return errs.Mark(claimErr, errs.ErrMatchAlreadyHasPlayers)
			}
			b.LinkMatch(m.ID())
			if err := tx.Matches().UpdateState(ctx, tx.DB(), m); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
			return err
		}

		bookingID = b.ID()
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// A webhook retry racing this request loses on the payment_id
			// unique index; hand back the winner's booking.
			if req.PaymentID != "" {
				existing, replayErr := c.replayByPaymentID(ctx, req.PaymentID)
				if replayErr == nil && existing != nil {
					return &CreateBookingResult{Booking: existing, IsReplayed: true}, nil
				}
			}
			// Otherwise the slot unique index fired: a concurrent request
			// both saw the slot free and the other one committed first.
			return nil, errs.ErrSlotUnavailable
		}
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view}, nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := b.Cancel(actorID, c.clock.Now(), false); err != nil {
			return mapBookingCancelErr(err)
		}

		// The transition above fired, so this refund runs at most once per
		// booking lifetime.
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

		if b.MatchID() != nil {
			m, err := tx.Matches().FindByIDForUpdate(ctx, tx.DB(), *b.MatchID())
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return nil
				}
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			stillClaimed := m.Status() == match.StatusReserved &&
				m.BookingID() != nil && *m.BookingID() == b.ID()
			if stillClaimed && m.PlayerCount() == 0 {
				if err := m.RevertToOpen(); err != nil {
					return errs.Mark(err, errs.ErrDomainValidation)
				}
				if err := tx.Matches().UpdateState(ctx, tx.DB(), m); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.bookingQueries.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *bookingCommandsImpl) replayByPaymentID(ctx context.Context, paymentID string) (*queries.BookingView, error) {
	id, err := c.uow.Reads().BookingIDByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if id == nil {
		return nil, nil
	}
	return c.bookingQueries.GetByID(ctx, *id)
}

// settleGatewayPortion computes the wallet/gateway split from the current
// balance and, when a remainder exists, requires an approved gateway payment
// covering it exactly. The wallet share is re-validated under lock inside the
// transaction.
func (c *bookingCommandsImpl) settleGatewayPortion(ctx context.Context, req CreateBookingRequest, totalCents int64) (booking.PaymentPlan, *gateway.PaymentInfo, error) {
	var balance int64
	if req.UseWallet {
		var err error
		balance, err = c.currentBalance(ctx, req.UserID)
		if err != nil {
			return booking.PaymentPlan{}, nil, err
		}
	}

	plan := booking.PlanPayment(totalCents, balance, req.UseWallet)
	if plan.GatewayCents == 0 {
		return plan, nil, nil
	}

	if req.PaymentID == "" {
		return booking.PaymentPlan{}, nil, errs.ErrPaymentNotApproved
	}
	info, err := c.payments.GetPaymentInfo(ctx, req.PaymentID)
	if err != nil {
		return booking.PaymentPlan{}, nil, errs.Mark(err, errs.ErrPaymentNotApproved)
	}
	if !info.IsApproved() {
		return booking.PaymentPlan{}, nil, errs.ErrPaymentNotApproved
	}
	if info.AmountCents != plan.GatewayCents {
		return booking.PaymentPlan{}, nil, errs.ErrPaymentAmountMismatch
	}
	return plan, info, nil
}

func (c *bookingCommandsImpl) currentBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		w, err := c.walletStore.FindByUserID(ctx, dbtx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return err
		}
		balance = w.BalanceCents
		return nil
	})
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return balance, nil
}

// slotHeldByClaimableMatch reports whether the only thing occupying the slot
// is an open, empty match (which the caller will claim). The lookup is
// status-blind: a match a concurrent claim just flipped to reserved must
// surface as a lost claim, not as a generically unavailable slot.
func (c *bookingCommandsImpl) slotHeldByClaimableMatch(ctx context.Context, tx shared.Tx, fieldID uuid.UUID, startTime time.Time) (bool, error) {
	m, err := tx.Matches().FindByFieldStart(ctx, tx.DB(), fieldID, startTime)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	switch {
	case m.PlayerCount() > 0:
		return false, errs.ErrMatchAlreadyHasPlayers
	case m.Status() == match.StatusReserved:
		return false, errs.ErrMatchAlreadyHasPlayers
	case m.Status() == match.StatusOpen:
		return true, nil
	default:
		// A cancelled or completed match is not what blocks the slot.
		return false, nil
	}
}

// dayBounds is the half-open calendar-day interval containing date, in
// date's location.
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func mapBookingCancelErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return errs.ErrAlreadyCancelled
	case errors.Is(err, booking.ErrNotCancellable):
		return errs.ErrAlreadyCancelled
	case errors.Is(err, booking.ErrUnauthorized):
		return errs.ErrUnauthorized
	case errors.Is(err, booking.ErrPastBooking):
		return errs.ErrPastBooking
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}
