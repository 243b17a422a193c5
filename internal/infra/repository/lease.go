package repository

import (
	"context"
	"time"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

// LeaseRepository implements the scheduler's run guard as a named TTL lease.
// A run claims the lease in a single upsert that only succeeds when the lease
// is free or expired, so overlapping runners (or a crashed holder) cannot
// both win before the TTL elapses.
type LeaseRepository struct{}

func NewLeaseRepository() *LeaseRepository {
	return &LeaseRepository{}
}

func (r *LeaseRepository) TryAcquire(ctx context.Context, tx db.DBTX, name string, holder uuid.UUID, ttl time.Duration, now time.Time) (bool, error) {
	query := `
		INSERT INTO scheduler_leases (name, holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET holder = EXCLUDED.holder, expires_at = EXCLUDED.expires_at
		WHERE scheduler_leases.expires_at <= $4 OR scheduler_leases.holder = EXCLUDED.holder`

	tag, err := tx.Exec(ctx, query, name, holder, now.Add(ttl), now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to acquire scheduler lease", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LeaseRepository) Release(ctx context.Context, tx db.DBTX, name string, holder uuid.UUID) error {
	query := `DELETE FROM scheduler_leases WHERE name = $1 AND holder = $2`
	if _, err := tx.Exec(ctx, query, name, holder); err != nil {
		return infra.WrapRepoErr("failed to release scheduler lease", err)
	}
	return nil
}
