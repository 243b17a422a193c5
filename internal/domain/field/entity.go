package field

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrEmptyName           = errors.New("field name is required")
	ErrNegativePrice       = errors.New("price cannot be negative")
)

// WeekGrid holds the base bookable start times ("HH:MM", ordered) per weekday.
type WeekGrid map[time.Weekday][]string

// Field is a bookable venue. The week grid and pricing are fixed at
// scheduling time; past matches keep referencing the values they were
// created with.
type Field struct {
	id            uuid.UUID
	name          string
	grid          WeekGrid
	slotDuration  time.Duration
	pricePerMatch int64
	createdAt     time.Time
	updatedAt     time.Time
}

func NewField(name string, grid WeekGrid, slotDuration time.Duration, pricePerMatchCents int64) (*Field, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if pricePerMatchCents < 0 {
		return nil, ErrNegativePrice
	}
	return &Field{
		id:            uuid.New(),
		name:          name,
		grid:          grid,
		slotDuration:  slotDuration,
		pricePerMatch: pricePerMatchCents,
	}, nil
}

func ReconstructField(
	id uuid.UUID,
	name string,
	grid WeekGrid,
	slotDuration time.Duration,
	pricePerMatchCents int64,
	createdAt, updatedAt time.Time,
) *Field {
	return &Field{
		id:            id,
		name:          name,
		grid:          grid,
		slotDuration:  slotDuration,
		pricePerMatch: pricePerMatchCents,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (f *Field) ID() uuid.UUID               { return f.id }
func (f *Field) Name() string                { return f.name }
func (f *Field) Grid() WeekGrid              { return f.grid }
func (f *Field) SlotDuration() time.Duration { return f.slotDuration }
func (f *Field) PricePerMatchCents() int64   { return f.pricePerMatch }
func (f *Field) CreatedAt() time.Time        { return f.createdAt }
func (f *Field) UpdatedAt() time.Time        { return f.updatedAt }

// HoursFor returns the base grid for the weekday of date.
func (f *Field) HoursFor(date time.Time) []string {
	return f.grid[date.Weekday()]
}
