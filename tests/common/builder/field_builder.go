//go:build unit || e2e

package builder

import (
	"time"

	domfield "fieldbook/internal/domain/field"
)

type FieldBuilder struct {
	Name               string
	Grid               domfield.WeekGrid
	SlotDuration       time.Duration
	PricePerMatchCents int64
}

func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{
		Name: "Center Court",
		Grid: domfield.WeekGrid{
			time.Monday:    {"09:00", "10:00", "11:00", "15:00"},
			time.Tuesday:   {"09:00", "10:00"},
			time.Wednesday: {"09:00", "10:00", "11:00"},
			time.Thursday:  {"09:00"},
			time.Friday:    {"09:00", "18:00", "19:00"},
			time.Saturday:  {"10:00", "11:00", "12:00"},
		},
		SlotDuration:       time.Hour,
		PricePerMatchCents: 12000,
	}
}

func (b *FieldBuilder) With(mutate func(*FieldBuilder)) *FieldBuilder {
	mutate(b)
	return b
}

func (b *FieldBuilder) BuildDomain() (*domfield.Field, error) {
	return domfield.NewField(b.Name, b.Grid, b.SlotDuration, b.PricePerMatchCents)
}
