//go:build unit || e2e

package builder

import (
	"time"

	dommatch "fieldbook/internal/domain/match"
	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type MatchBuilder struct {
	FieldID      uuid.UUID
	ScheduleDate time.Time
	StartTime    time.Time
	EndTime      time.Time
	PriceCents   int64
	MaxPlayers   int
	TeamNames    []string
}

func NewMatchBuilder() *MatchBuilder {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	return &MatchBuilder{
		FieldID:      uuid.New(),
		ScheduleDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		PriceCents:   1500,
		MaxPlayers:   4,
		TeamNames:    []string{"Home", "Away"},
	}
}

func (b *MatchBuilder) With(mutate func(*MatchBuilder)) *MatchBuilder {
	mutate(b)
	return b
}

func (b *MatchBuilder) BuildDomain() (*dommatch.Match, error) {
	return dommatch.NewMatch(b.FieldID, b.ScheduleDate, b.StartTime, b.EndTime, b.PriceCents, b.MaxPlayers, b.TeamNames)
}

func (b *MatchBuilder) BuildView() *queries.MatchView {
	teams := make([]queries.TeamView, 0, len(b.TeamNames))
	for _, name := range b.TeamNames {
		teams = append(teams, queries.TeamView{ID: uuid.New(), Name: name})
	}
	return &queries.MatchView{
		ID:           uuid.New(),
		FieldID:      b.FieldID,
		FieldName:    "Center Court",
		ScheduleDate: b.ScheduleDate,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		PriceCents:   b.PriceCents,
		MaxPlayers:   b.MaxPlayers,
		Status:       dommatch.StatusOpen.String(),
		Teams:        teams,
	}
}
