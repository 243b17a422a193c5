package response

import (
	"time"

	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type MatchResponse struct {
	ID          uuid.UUID      `json:"id"`
	FieldID     uuid.UUID      `json:"fieldId"`
	FieldName   string         `json:"fieldName"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	PriceCents  int64          `json:"priceCents"`
	MaxPlayers  int            `json:"maxPlayers"`
	PlayerCount int            `json:"playerCount"`
	Status      string         `json:"status"`
	Teams       []TeamResponse `json:"teams"`
}

type TeamResponse struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Players []uuid.UUID `json:"players"`
}

func FromMatchView(v *queries.MatchView) *MatchResponse {
	teams := make([]TeamResponse, len(v.Teams))
	for i, t := range v.Teams {
		teams[i] = TeamResponse{ID: t.ID, Name: t.Name, Players: t.Players}
	}
	return &MatchResponse{
		ID:          v.ID,
		FieldID:     v.FieldID,
		FieldName:   v.FieldName,
		StartTime:   v.StartTime,
		EndTime:     v.EndTime,
		PriceCents:  v.PriceCents,
		MaxPlayers:  v.MaxPlayers,
		PlayerCount: v.PlayerCount,
		Status:      v.Status,
		Teams:       teams,
	}
}

func FromMatchViews(vs []*queries.MatchView) []*MatchResponse {
	out := make([]*MatchResponse, len(vs))
	for i, v := range vs {
		out[i] = FromMatchView(v)
	}
	return out
}
