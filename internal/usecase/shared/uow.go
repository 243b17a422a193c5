package shared

import (
	"context"
	"time"

	"fieldbook/internal/domain/booking"
	"fieldbook/internal/domain/field"
	"fieldbook/internal/domain/match"
	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// Reads: Direct access to command reads for validation outside transactions
	Reads() CommandReads
}

// Tx scopes repositories to one database transaction. Every state-machine
// transition runs against repositories obtained from the same Tx.
type Tx interface {
	Bookings() BookingRepository
	Matches() MatchRepository
	Wallets() WalletRepository
	Leases() LeaseRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the write-path validation reads (no locks taken).
type CommandReads interface {
	FieldByID(ctx context.Context, id uuid.UUID) (*FieldSnapshot, error)
	OccupanciesFor(ctx context.Context, fieldID uuid.UUID, dayStart, dayEnd time.Time) ([]field.Occupancy, error)
	BookingIDByPaymentID(ctx context.Context, paymentID string) (*uuid.UUID, error)
}

// FieldSnapshot is the write-side projection of a field.
type FieldSnapshot struct {
	ID                 uuid.UUID
	Name               string
	Grid               field.WeekGrid
	SlotDuration       time.Duration
	PricePerMatchCents int64
}

func (s *FieldSnapshot) Entity() *field.Field {
	return field.ReconstructField(s.ID, s.Name, s.Grid, s.SlotDuration, s.PricePerMatchCents, time.Time{}, time.Time{})
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	// SweepElapsed bulk-completes non-terminal bookings whose window has
	// passed and reports what it completed.
	SweepElapsed(ctx context.Context, tx db.DBTX, now time.Time) ([]SweptBooking, error)
}

// SweptBooking is what the sweep job needs to award points afterwards.
type SweptBooking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TotalCents int64
}

type MatchRepository interface {
	// FindByIDForUpdate locks the match row for the duration of the enclosing
	// transaction and loads its teams and roster.
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*match.Match, error)
	// FindOpenByFieldStart resolves the claimable match for a booking request,
	// also locked.
	FindOpenByFieldStart(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, start time.Time) (*match.Match, error)
	// FindByFieldStart is the status-blind variant: it also sees a match a
	// concurrent claim just reserved, so the slot check can tell "claimed"
	// apart from "booked".
	FindByFieldStart(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, start time.Time) (*match.Match, error)
	UpdateState(ctx context.Context, tx db.DBTX, m *match.Match) error
	AddTeamPlayer(ctx context.Context, tx db.DBTX, matchID, teamID, userID uuid.UUID) error
	RemoveTeamPlayer(ctx context.Context, tx db.DBTX, matchID, userID uuid.UUID) error
	DeleteTeams(ctx context.Context, tx db.DBTX, matchID uuid.UUID) error
	// ListUnderFilledStartingSoon returns ids of open, under-filled matches
	// whose start falls inside [from, until) on from's calendar day.
	ListUnderFilledStartingSoon(ctx context.Context, tx db.DBTX, from, until time.Time) ([]uuid.UUID, error)
}

type WalletRepository interface {
	// FindByUserIDForUpdate locks the wallet row; returns KindNotFound when
	// the user has no wallet yet.
	FindByUserIDForUpdate(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*wallet.Wallet, error)
	Create(ctx context.Context, tx db.DBTX, w *wallet.Wallet) error
	UpdateBalance(ctx context.Context, tx db.DBTX, w *wallet.Wallet) error
	AppendTransaction(ctx context.Context, tx db.DBTX, entry wallet.Transaction) error
	// HasTransactionDescription is the top-up dedupe check: entries carry the
	// payment id in their description.
	HasTransactionDescription(ctx context.Context, tx db.DBTX, walletID uuid.UUID, description string) (bool, error)
	// SumSignedAmounts recomputes the balance from the ledger, for the
	// balance-cache invariant check.
	SumSignedAmounts(ctx context.Context, tx db.DBTX, walletID uuid.UUID) (int64, error)
}

// LeaseRepository backs the scheduler's single-runner guard: a named lease
// with a TTL, claimable only when free or expired.
type LeaseRepository interface {
	TryAcquire(ctx context.Context, tx db.DBTX, name string, holder uuid.UUID, ttl time.Duration, now time.Time) (bool, error)
	Release(ctx context.Context, tx db.DBTX, name string, holder uuid.UUID) error
}
