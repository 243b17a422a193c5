package readstore

import (
	"context"
	"time"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

type MatchView struct {
	ID           uuid.UUID
	FieldID      uuid.UUID
	FieldName    string
	ScheduleDate time.Time
	StartTime    time.Time
	EndTime      time.Time
	PriceCents   int64
	MaxPlayers   int
	PlayerCount  int
	Status       string
	BookingID    *uuid.UUID
	Teams        []TeamView
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TeamView struct {
	ID      uuid.UUID
	Name    string
	Players []uuid.UUID
}

type MatchReadStore struct{}

func NewMatchReadStore() *MatchReadStore {
	return &MatchReadStore{}
}

func (s *MatchReadStore) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*MatchView, error) {
	query := `
		SELECT m.id, m.field_id, f.name, m.schedule_date, m.start_time, m.end_time,
		       m.price_cents, m.max_players, m.player_count, m.status, m.booking_id,
		       m.created_at, m.updated_at
		FROM daily_matches m
		JOIN fields f ON f.id = m.field_id
		WHERE m.id = $1`

	var v MatchView
	err := tx.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.FieldID, &v.FieldName, &v.ScheduleDate, &v.StartTime, &v.EndTime,
		&v.PriceCents, &v.MaxPlayers, &v.PlayerCount, &v.Status, &v.BookingID,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find match view", err)
	}

	teams, err := s.loadTeams(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	v.Teams = teams
	return &v, nil
}

func (s *MatchReadStore) ListByFieldDate(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, date time.Time) ([]*MatchView, error) {
	query := `
		SELECT m.id, m.field_id, f.name, m.schedule_date, m.start_time, m.end_time,
		       m.price_cents, m.max_players, m.player_count, m.status, m.booking_id,
		       m.created_at, m.updated_at
		FROM daily_matches m
		JOIN fields f ON f.id = m.field_id
		WHERE m.field_id = $1 AND m.schedule_date = $2::date
		ORDER BY m.start_time`

	rows, err := tx.Query(ctx, query, fieldID, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list matches", err)
	}
	defer rows.Close()

	var views []*MatchView
	for rows.Next() {
		var v MatchView
		if err := rows.Scan(&v.ID, &v.FieldID, &v.FieldName, &v.ScheduleDate,
			&v.StartTime, &v.EndTime, &v.PriceCents, &v.MaxPlayers, &v.PlayerCount,
			&v.Status, &v.BookingID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan match view", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read match views", err)
	}
	return views, nil
}

func (s *MatchReadStore) loadTeams(ctx context.Context, tx db.DBTX, matchID uuid.UUID) ([]TeamView, error) {
	teamRows, err := tx.Query(ctx,
		`SELECT id, name FROM match_teams WHERE match_id = $1 ORDER BY name`, matchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load team views", err)
	}
	defer teamRows.Close()

	var teams []TeamView
	index := make(map[uuid.UUID]int)
	for teamRows.Next() {
		var t TeamView
		if err := teamRows.Scan(&t.ID, &t.Name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan team view", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := teamRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read team views", err)
	}

	playerRows, err := tx.Query(ctx,
		`SELECT team_id, user_id FROM match_team_players WHERE match_id = $1 ORDER BY created_at`, matchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load roster views", err)
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var teamID, userID uuid.UUID
		if err := playerRows.Scan(&teamID, &userID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan roster view", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Players = append(teams[i].Players, userID)
		}
	}
	if err := playerRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read roster views", err)
	}

	return teams, nil
}
