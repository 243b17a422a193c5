//go:build unit

package match_test

import (
	"testing"

	"fieldbook/internal/domain/match"
	"fieldbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatch(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, m)

		assert.NotEqual(t, uuid.Nil, m.ID())
		assert.Equal(t, match.StatusOpen, m.Status())
		assert.Equal(t, 0, m.PlayerCount())
		assert.Len(t, m.Teams(), 2)
		assert.NoError(t, m.CheckCapacity())
	})

	t.Run("non-positive max players", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().With(func(b *builder.MatchBuilder) {
			b.MaxPlayers = 0
		}).BuildDomain()
		require.Nil(t, m)
		require.ErrorIs(t, err, match.ErrInvalidMaxPlayers)
	})
}

func TestAddPlayer(t *testing.T) {
	t.Run("fills up to capacity, then rejects", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().With(func(b *builder.MatchBuilder) {
			b.MaxPlayers = 2
		}).BuildDomain()
		require.NoError(t, err)
		teamID := m.Teams()[0].ID

		require.NoError(t, m.AddPlayer(uuid.New(), teamID))
		require.NoError(t, m.AddPlayer(uuid.New(), teamID))
		assert.Equal(t, 2, m.PlayerCount())
		assert.False(t, m.IsUnderFilled())

		err = m.AddPlayer(uuid.New(), teamID)
		require.ErrorIs(t, err, match.ErrMatchFull)
		assert.Equal(t, 2, m.PlayerCount())
		assert.NoError(t, m.CheckCapacity())
	})

	t.Run("same player cannot join twice", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		playerID := uuid.New()

		require.NoError(t, m.AddPlayer(playerID, m.Teams()[0].ID))
		err = m.AddPlayer(playerID, m.Teams()[1].ID)
		require.ErrorIs(t, err, match.ErrAlreadyJoined)
		assert.Equal(t, 1, m.PlayerCount())
	})

	t.Run("unknown team", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)

		err = m.AddPlayer(uuid.New(), uuid.New())
		require.ErrorIs(t, err, match.ErrUnknownTeam)
		assert.Equal(t, 0, m.PlayerCount())
	})

	t.Run("rejected when not open", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, m.Cancel())

		err = m.AddPlayer(uuid.New(), m.Teams()[0].ID)
		require.ErrorIs(t, err, match.ErrNotOpen)
	})
}

func TestRemovePlayer(t *testing.T) {
	m, err := builder.NewMatchBuilder().BuildDomain()
	require.NoError(t, err)
	playerID := uuid.New()
	require.NoError(t, m.AddPlayer(playerID, m.Teams()[0].ID))

	require.NoError(t, m.RemovePlayer(playerID))
	assert.Equal(t, 0, m.PlayerCount())
	assert.False(t, m.HasPlayer(playerID))

	err = m.RemovePlayer(playerID)
	require.ErrorIs(t, err, match.ErrNotJoined)
}

func TestTryClaim(t *testing.T) {
	t.Run("claims an empty open match", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		bookingID := uuid.New()

		require.NoError(t, m.TryClaim(bookingID))
		assert.Equal(t, match.StatusReserved, m.Status())
		require.NotNil(t, m.BookingID())
		assert.Equal(t, bookingID, *m.BookingID())
	})

	t.Run("second claim loses", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, m.TryClaim(uuid.New()))
		err = m.TryClaim(uuid.New())
		require.ErrorIs(t, err, match.ErrAlreadyHasPlayers)
	})

	t.Run("rejected once a player joined", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, m.AddPlayer(uuid.New(), m.Teams()[0].ID))

		err = m.TryClaim(uuid.New())
		require.ErrorIs(t, err, match.ErrAlreadyHasPlayers)
		assert.Equal(t, match.StatusOpen, m.Status())
	})
}

func TestCancel(t *testing.T) {
	t.Run("keeps the historical player count", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, m.AddPlayer(uuid.New(), m.Teams()[0].ID))
		require.NoError(t, m.AddPlayer(uuid.New(), m.Teams()[1].ID))

		require.NoError(t, m.Cancel())
		assert.Equal(t, match.StatusCancelled, m.Status())
		assert.Equal(t, 2, m.PlayerCount())
	})

	t.Run("second cancel reports terminal", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, m.Cancel())
		err = m.Cancel()
		require.ErrorIs(t, err, match.ErrAlreadyTerminal)
	})

	t.Run("completed match cannot cancel", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, m.Complete())
		err = m.Cancel()
		require.ErrorIs(t, err, match.ErrAlreadyTerminal)
	})
}

func TestRevertToOpen(t *testing.T) {
	t.Run("reserved empty match reopens", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, m.TryClaim(uuid.New()))

		require.NoError(t, m.RevertToOpen())
		assert.Equal(t, match.StatusOpen, m.Status())
		assert.Nil(t, m.BookingID())
	})

	t.Run("open match is not revertible", func(t *testing.T) {
		m, err := builder.NewMatchBuilder().BuildDomain()
		require.NoError(t, err)

		err = m.RevertToOpen()
		require.ErrorIs(t, err, match.ErrNotRevertible)
	})
}
