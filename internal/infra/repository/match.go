package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain/match"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MatchRepository struct{}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{}
}

const matchColumns = `id, field_id, schedule_date, start_time, end_time, price_cents,
	max_players, player_count, status, booking_id, created_at, updated_at`

func (r *MatchRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM daily_matches WHERE id = $1 FOR UPDATE`
	return r.loadMatch(ctx, tx, tx.QueryRow(ctx, query, id))
}

func (r *MatchRepository) FindOpenByFieldStart(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, start time.Time) (*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM daily_matches
		WHERE field_id = $1 AND start_time = $2 AND status = 'open'
		FOR UPDATE`
	return r.loadMatch(ctx, tx, tx.QueryRow(ctx, query, fieldID, start))
}

func (r *MatchRepository) FindByFieldStart(ctx context.Context, tx db.DBTX, fieldID uuid.UUID, start time.Time) (*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM daily_matches
		WHERE field_id = $1 AND start_time = $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`
	return r.loadMatch(ctx, tx, tx.QueryRow(ctx, query, fieldID, start))
}

// UpdateState persists the mutable state-machine fields. Roster rows move
// through AddTeamPlayer/RemoveTeamPlayer/DeleteTeams.
func (r *MatchRepository) UpdateState(ctx context.Context, tx db.DBTX, m *match.Match) error {
	query := `
		UPDATE daily_matches
		SET status = $1, player_count = $2, booking_id = $3, updated_at = now()
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, m.Status().String(), m.PlayerCount(), m.BookingID(), m.ID())
	if err != nil {
		return infra.WrapRepoErr("failed to update match state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "match not found for update")
	}
	return nil
}

func (r *MatchRepository) AddTeamPlayer(ctx context.Context, tx db.DBTX, matchID, teamID, userID uuid.UUID) error {
	query := `INSERT INTO match_team_players (match_id, team_id, user_id) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, query, matchID, teamID, userID); err != nil {
		return infra.WrapRepoErr("failed to add team player", err)
	}
	return nil
}

func (r *MatchRepository) RemoveTeamPlayer(ctx context.Context, tx db.DBTX, matchID, userID uuid.UUID) error {
	query := `DELETE FROM match_team_players WHERE match_id = $1 AND user_id = $2`
	tag, err := tx.Exec(ctx, query, matchID, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to remove team player", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "player not rostered on match")
	}
	return nil
}

// DeleteTeams is the explicit cascade step of match cancellation: roster and
// team rows go, the cached player_count stays as history.
func (r *MatchRepository) DeleteTeams(ctx context.Context, tx db.DBTX, matchID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM match_team_players WHERE match_id = $1`, matchID); err != nil {
		return infra.WrapRepoErr("failed to delete match roster", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM match_teams WHERE match_id = $1`, matchID); err != nil {
		return infra.WrapRepoErr("failed to delete match teams", err)
	}
	return nil
}

func (r *MatchRepository) ListUnderFilledStartingSoon(ctx context.Context, tx db.DBTX, from, until time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM daily_matches
		WHERE status = 'open'
		  AND schedule_date = $1::date
		  AND start_time >= $2 AND start_time < $3
		  AND player_count < max_players
		ORDER BY start_time`

	rows, err := tx.Query(ctx, query, from, from, until)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list under-filled matches", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan match id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read match ids", err)
	}
	return ids, nil
}

func (r *MatchRepository) loadMatch(ctx context.Context, tx db.DBTX, row pgx.Row) (*match.Match, error) {
	var (
		id, fieldID          uuid.UUID
		scheduleDate         time.Time
		startTime, endTime   time.Time
		priceCents           int64
		maxPlayers           int
		playerCount          int
		status               string
		bookingID            *uuid.UUID
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &fieldID, &scheduleDate, &startTime, &endTime, &priceCents,
		&maxPlayers, &playerCount, &status, &bookingID, &createdAt, &updatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find match", err)
	}

	teams, err := r.loadTeams(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	return match.ReconstructMatch(
		id, fieldID, scheduleDate, startTime, endTime, priceCents,
		maxPlayers, playerCount, match.Status(status), bookingID, teams,
		createdAt, updatedAt,
	), nil
}

func (r *MatchRepository) loadTeams(ctx context.Context, tx db.DBTX, matchID uuid.UUID) ([]match.Team, error) {
	teamRows, err := tx.Query(ctx,
		`SELECT id, name FROM match_teams WHERE match_id = $1 ORDER BY name`, matchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load match teams", err)
	}
	defer teamRows.Close()

	var teams []match.Team
	index := make(map[uuid.UUID]int)
	for teamRows.Next() {
		var t match.Team
		if err := teamRows.Scan(&t.ID, &t.Name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan match team", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := teamRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read match teams", err)
	}

	playerRows, err := tx.Query(ctx,
		`SELECT team_id, user_id FROM match_team_players WHERE match_id = $1 ORDER BY created_at`, matchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load match roster", err)
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var teamID, userID uuid.UUID
		if err := playerRows.Scan(&teamID, &userID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan roster entry", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Players = append(teams[i].Players, userID)
		}
	}
	if err := playerRows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read match roster", err)
	}

	return teams, nil
}
