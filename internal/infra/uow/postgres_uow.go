package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"fieldbook/internal/domain/field"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"
	"fieldbook/internal/infra/readstore"
	"fieldbook/internal/infra/repository"
	"fieldbook/internal/pkg/errs"
	"fieldbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes; row
// locks taken by FOR UPDATE reads serialize the transitions that race.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) Reads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	bookingRepo  shared.BookingRepository
	matchRepo    shared.MatchRepository
	walletRepo   shared.WalletRepository
	leaseRepo    shared.LeaseRepository
	commandReads shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository()
	}
	return t.bookingRepo
}

func (t *pgTx) Matches() shared.MatchRepository {
	if t.matchRepo == nil {
		t.matchRepo = repository.NewMatchRepository()
	}
	return t.matchRepo
}

func (t *pgTx) Wallets() shared.WalletRepository {
	if t.walletRepo == nil {
		t.walletRepo = repository.NewWalletRepository()
	}
	return t.walletRepo
}

func (t *pgTx) Leases() shared.LeaseRepository {
	if t.leaseRepo == nil {
		t.leaseRepo = repository.NewLeaseRepository()
	}
	return t.leaseRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	fieldStore   *readstore.FieldReadStore
	bookingStore *readstore.BookingReadStore
}

func (r *commandReads) FieldByID(ctx context.Context, id uuid.UUID) (*shared.FieldSnapshot, error) {
	if r.fieldStore == nil {
		r.fieldStore = readstore.NewFieldReadStore()
	}

	f, err := r.fieldStore.FindByID(ctx, r.dbtx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.FieldSnapshot{
		ID:                 f.ID,
		Name:               f.Name,
		Grid:               f.Grid,
		SlotDuration:       time.Duration(f.SlotDurationMin) * time.Minute,
		PricePerMatchCents: f.PricePerMatchCents,
	}
	return snapshot, nil
}

func (r *commandReads) OccupanciesFor(ctx context.Context, fieldID uuid.UUID, dayStart, dayEnd time.Time) ([]field.Occupancy, error) {
	if r.fieldStore == nil {
		r.fieldStore = readstore.NewFieldReadStore()
	}
	return r.fieldStore.OccupanciesFor(ctx, r.dbtx, fieldID, dayStart, dayEnd)
}

func (r *commandReads) BookingIDByPaymentID(ctx context.Context, paymentID string) (*uuid.UUID, error) {
	if r.bookingStore == nil {
		r.bookingStore = readstore.NewBookingReadStore()
	}

	id, err := r.bookingStore.IDByPaymentID(ctx, r.dbtx, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return id, nil
}
