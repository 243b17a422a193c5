package readstore

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"fieldbook/internal/domain/field"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

type FieldView struct {
	ID                 uuid.UUID
	Name               string
	Grid               field.WeekGrid
	SlotDurationMin    int
	PricePerMatchCents int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type FieldReadStore struct{}

func NewFieldReadStore() *FieldReadStore {
	return &FieldReadStore{}
}

func (s *FieldReadStore) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*FieldView, error) {
	query := `
		SELECT id, name, grid, slot_duration_min, price_per_match_cents, created_at, updated_at
		FROM fields WHERE id = $1`

	var (
		v       FieldView
		rawGrid []byte
	)
	err := tx.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &rawGrid, &v.SlotDurationMin, &v.PricePerMatchCents,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find field", err)
	}

	grid, err := DecodeGrid(rawGrid)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode field grid", err)
	}
	v.Grid = grid
	return &v, nil
}

// OccupanciesFor collects the non-cancelled intervals taken on a field
// within [dayStart, dayEnd): standalone bookings and scheduled matches. A
// claimed match appears in both sets with the same interval, which is
// harmless for availability subtraction.
func (s *FieldReadStore) OccupanciesFor(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, dayStart, dayEnd time.Time) ([]field.Occupancy, error) {
	query := `
		SELECT start_time, end_time FROM bookings
		WHERE field_id = $1 AND status <> 'cancelled'
		  AND start_time >= $2 AND start_time < $3
		UNION ALL
		SELECT start_time, end_time FROM daily_matches
		WHERE field_id = $1 AND status <> 'cancelled'
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`

	rows, err := tx.Query(ctx, query, fieldID, dayStart, dayEnd)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load field occupancies", err)
	}
	defer rows.Close()

	var occupied []field.Occupancy
	for rows.Next() {
		var occ field.Occupancy
		if err := rows.Scan(&occ.Start, &occ.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupancy", err)
		}
		occupied = append(occupied, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read occupancies", err)
	}
	return occupied, nil
}

// DecodeGrid parses the JSONB week grid ({"0":["09:00",...],...}, keyed by
// time.Weekday).
func DecodeGrid(raw []byte) (field.WeekGrid, error) {
	if len(raw) == 0 {
		return field.WeekGrid{}, nil
	}
	var m map[string][]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	grid := make(field.WeekGrid, len(m))
	for k, hours := range m {
		day, err := strconv.Atoi(k)
		if err != nil || day < 0 || day > 6 {
			continue
		}
		grid[time.Weekday(day)] = hours
	}
	return grid, nil
}

// EncodeGrid is the inverse of DecodeGrid.
func EncodeGrid(grid field.WeekGrid) ([]byte, error) {
	m := make(map[string][]string, len(grid))
	for day, hours := range grid {
		m[strconv.Itoa(int(day))] = hours
	}
	return json.Marshal(m)
}
