package match

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMatchFull          = errors.New("match is full")
	ErrAlreadyJoined      = errors.New("player already joined")
	ErrNotJoined          = errors.New("player not in match")
	ErrAlreadyHasPlayers  = errors.New("match already has players")
	ErrNotOpen            = errors.New("match is not open")
	ErrNotRevertible      = errors.New("match cannot revert to open")
	ErrInvalidMaxPlayers  = errors.New("max players must be positive")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrAlreadyTerminal    = errors.New("match is in a terminal status")
)

// Team is a subdivision of a match roster. Teams are created when the match
// is scheduled and removed as an explicit cascade step when it cancels.
type Team struct {
	ID      uuid.UUID
	Name    string
	Players []uuid.UUID
}

// Match is a scheduled play session on a field. playerCount caches the number
// of distinct rostered players across teams and must track the roster after
// every mutation; it never exceeds maxPlayers.
type Match struct {
	id           uuid.UUID
	fieldID      uuid.UUID
	scheduleDate time.Time
	startTime    time.Time
	endTime      time.Time
	priceCents   int64
	maxPlayers   int
	playerCount  int
	status       Status
	bookingID    *uuid.UUID
	teams        []Team
	createdAt    time.Time
	updatedAt    time.Time
}

func NewMatch(
	fieldID uuid.UUID,
	scheduleDate, startTime, endTime time.Time,
	pricePerPlayerCents int64,
	maxPlayers int,
	teamNames []string,
) (*Match, error) {
	if maxPlayers <= 0 {
		return nil, ErrInvalidMaxPlayers
	}
	teams := make([]Team, 0, len(teamNames))
	for _, name := range teamNames {
		teams = append(teams, Team{ID: uuid.New(), Name: name})
	}
	return &Match{
		id:           uuid.New(),
		fieldID:      fieldID,
		scheduleDate: scheduleDate,
		startTime:    startTime,
		endTime:      endTime,
		priceCents:   pricePerPlayerCents,
		maxPlayers:   maxPlayers,
		status:       StatusOpen,
		teams:        teams,
	}, nil
}

func ReconstructMatch(
	id, fieldID uuid.UUID,
	scheduleDate, startTime, endTime time.Time,
	priceCents int64,
	maxPlayers, playerCount int,
	status Status,
	bookingID *uuid.UUID,
	teams []Team,
	createdAt, updatedAt time.Time,
) *Match {
	return &Match{
		id:           id,
		fieldID:      fieldID,
		scheduleDate: scheduleDate,
		startTime:    startTime,
		endTime:      endTime,
		priceCents:   priceCents,
		maxPlayers:   maxPlayers,
		playerCount:  playerCount,
		status:       status,
		bookingID:    bookingID,
		teams:        teams,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (m *Match) ID() uuid.UUID           { return m.id }
func (m *Match) FieldID() uuid.UUID      { return m.fieldID }
func (m *Match) ScheduleDate() time.Time { return m.scheduleDate }
func (m *Match) StartTime() time.Time    { return m.startTime }
func (m *Match) EndTime() time.Time      { return m.endTime }
func (m *Match) PriceCents() int64       { return m.priceCents }
func (m *Match) MaxPlayers() int         { return m.maxPlayers }
func (m *Match) PlayerCount() int        { return m.playerCount }
func (m *Match) Status() Status          { return m.status }
func (m *Match) BookingID() *uuid.UUID   { return m.bookingID }
func (m *Match) Teams() []Team           { return m.teams }
func (m *Match) CreatedAt() time.Time    { return m.createdAt }
func (m *Match) UpdatedAt() time.Time    { return m.updatedAt }

// Players returns the distinct rostered player ids across all teams.
func (m *Match) Players() []uuid.UUID {
	players := make([]uuid.UUID, 0, m.playerCount)
	for _, team := range m.teams {
		players = append(players, team.Players...)
	}
	return players
}

func (m *Match) HasPlayer(userID uuid.UUID) bool {
	for _, team := range m.teams {
		for _, p := range team.Players {
			if p == userID {
				return true
			}
		}
	}
	return false
}

// TryClaim links a booking that takes the whole match as a private
// reservation. Only an open match nobody has joined yet can be claimed.
func (m *Match) TryClaim(bookingID uuid.UUID) error {
	if m.status != StatusOpen || m.playerCount > 0 {
		return ErrAlreadyHasPlayers
	}
	m.status = StatusReserved
	id := bookingID
	m.bookingID = &id
	return nil
}

// AddPlayer rosters a player onto the named team.
func (m *Match) AddPlayer(userID uuid.UUID, teamID uuid.UUID) error {
	if m.status != StatusOpen {
		return ErrNotOpen
	}
	if m.HasPlayer(userID) {
		return ErrAlreadyJoined
	}
	if m.playerCount >= m.maxPlayers {
		return ErrMatchFull
	}
	for i := range m.teams {
		if m.teams[i].ID == teamID {
			m.teams[i].Players = append(m.teams[i].Players, userID)
			m.playerCount++
			return nil
		}
	}
	return ErrUnknownTeam
}

// RemovePlayer takes a player off the roster. A count returning to zero does
// not reopen a reserved match; booking cancellation handles that explicitly.
func (m *Match) RemovePlayer(userID uuid.UUID) error {
	for i := range m.teams {
		for j, p := range m.teams[i].Players {
			if p == userID {
				m.teams[i].Players = append(m.teams[i].Players[:j], m.teams[i].Players[j+1:]...)
				m.playerCount--
				return nil
			}
		}
	}
	return ErrNotJoined
}

// Cancel moves the match to cancelled. Calling it on an already-cancelled
// match reports ErrAlreadyTerminal so callers can treat the cancellation as a
// no-op without re-issuing refunds. The roster count keeps its historical
// value; cascades (booking cancel, per-player refunds, team cleanup,
// notification) are explicit steps owned by the caller's transaction.
func (m *Match) Cancel() error {
	if m.status == StatusCancelled || m.status == StatusCompleted {
		return ErrAlreadyTerminal
	}
	m.status = StatusCancelled
	return nil
}

// RevertToOpen undoes a claim after the claiming booking is cancelled. Legal
// only from reserved with an empty roster.
func (m *Match) RevertToOpen() error {
	if m.status != StatusReserved || m.playerCount != 0 {
		return ErrNotRevertible
	}
	m.status = StatusOpen
	m.bookingID = nil
	return nil
}

// Complete marks a played-out match.
func (m *Match) Complete() error {
	if m.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	m.status = StatusCompleted
	return nil
}

// IsUnderFilled reports whether the roster is short of capacity.
func (m *Match) IsUnderFilled() bool {
	return m.playerCount < m.maxPlayers
}

// CheckCapacity verifies the cached count against the roster and capacity
// bounds.
func (m *Match) CheckCapacity() error {
	distinct := make(map[uuid.UUID]struct{})
	for _, team := range m.teams {
		for _, p := range team.Players {
			distinct[p] = struct{}{}
		}
	}
	if len(distinct) != m.playerCount {
		return errors.New("player count diverged from roster")
	}
	if m.playerCount < 0 || m.playerCount > m.maxPlayers {
		return errors.New("player count out of capacity bounds")
	}
	return nil
}
