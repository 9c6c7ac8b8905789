package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_Opposite(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TeamRed, TeamBlue.Opposite())
	assert.Equal(t, TeamBlue, TeamRed.Opposite())
	assert.Equal(t, TeamNone, TeamNone.Opposite())
}

func TestTeamColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ColorBlue, TeamColor(TeamBlue))
	assert.Equal(t, ColorRed, TeamColor(TeamRed))
}

func TestGameState_RemainingFor(t *testing.T) {
	t.Parallel()

	gs := &GameState{BlueRemaining: 9, RedRemaining: 8}

	blue := gs.RemainingFor(ColorBlue)
	require.NotNil(t, blue)
	*blue--
	assert.Equal(t, 8, gs.BlueRemaining)

	red := gs.RemainingFor(ColorRed)
	require.NotNil(t, red)
	assert.Equal(t, 8, *red)

	assert.Nil(t, gs.RemainingFor(ColorNeutral))
	assert.Nil(t, gs.RemainingFor(ColorAssassin))
}

func TestGameState_Over(t *testing.T) {
	t.Parallel()

	gs := &GameState{Phase: PhaseGuess}
	assert.False(t, gs.Over())
	gs.Phase = PhaseGameOver
	assert.True(t, gs.Over())
}
