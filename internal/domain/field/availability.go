package field

import (
	"time"
)

// Occupancy is a half-open interval [Start, End) already taken on a field,
// from a non-cancelled booking or scheduled match.
type Occupancy struct {
	Start time.Time
	End   time.Time
}

func (o Occupancy) overlaps(start, end time.Time) bool {
	return start.Before(o.End) && o.Start.Before(end)
}

// AvailableHours derives the start times still free on a field for a date.
// It starts from the base grid for the date's weekday, drops every hour whose
// slot overlaps an occupancy, and, when date is the same day as now, drops
// hours at or before now. The result preserves grid order. The calculation is
// pure; callers must re-derive it whenever occupancy may have changed.
func AvailableHours(f *Field, date time.Time, occupied []Occupancy, now time.Time) []string {
	base := f.HoursFor(date)
	if len(base) == 0 {
		return nil
	}

	sameDay := sameCalendarDay(date, now)

	available := make([]string, 0, len(base))
	for _, hour := range base {
		start, ok := CombineDateHour(date, hour)
		if !ok {
			continue
		}
		if sameDay && !start.After(now) {
			continue
		}
		end := start.Add(f.SlotDuration())

		taken := false
		for _, occ := range occupied {
			if occ.overlaps(start, end) {
				taken = true
				break
			}
		}
		if !taken {
			available = append(available, hour)
		}
	}
	return available
}

// CombineDateHour anchors an "HH:MM" grid hour onto a calendar date.
func CombineDateHour(date time.Time, hour string) (time.Time, bool) {
	t, err := time.Parse("15:04", hour)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

func sameCalendarDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
