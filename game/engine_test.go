package game

import (
	"context"
	"testing"

	"api/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testGame struct {
	engine  *Engine
	rooms   *RoomRegistry
	roomID  string
	blueSpy string
	blueOp  string
	redSpy  string
	redOp   string
}

// setupLobby builds a room with the minimum lineup, game not yet started.
func setupLobby(t *testing.T) *testGame {
	t.Helper()
	ctx := context.Background()
	reg := NewRoomRegistry(nil)

	room, blueSpy, err := reg.Create(ctx, "blue_spy", domain.RoomSettings{})
	require.NoError(t, err)

	_, blueOp, err := reg.Join(ctx, room.ID, "blue_op")
	require.NoError(t, err)
	_, redSpy, err := reg.Join(ctx, room.ID, "red_spy")
	require.NoError(t, err)
	_, redOp, err := reg.Join(ctx, room.ID, "red_op")
	require.NoError(t, err)

	_, _, err = reg.ChangeTeam(ctx, room.ID, blueSpy.ID, domain.TeamBlue, domain.RoleSpymaster)
	require.NoError(t, err)
	_, _, err = reg.ChangeTeam(ctx, room.ID, blueOp.ID, domain.TeamBlue, domain.RoleOperative)
	require.NoError(t, err)
	_, _, err = reg.ChangeTeam(ctx, room.ID, redSpy.ID, domain.TeamRed, domain.RoleSpymaster)
	require.NoError(t, err)
	_, _, err = reg.ChangeTeam(ctx, room.ID, redOp.ID, domain.TeamRed, domain.RoleOperative)
	require.NoError(t, err)

	words := &MockWordSupply{}
	words.On("Draw", domain.DefaultWordPack, domain.BoardSize).Return(testWords(25), nil)

	return &testGame{
		engine:  NewEngine(reg, words),
		rooms:   reg,
		roomID:  room.ID,
		blueSpy: blueSpy.ID,
		blueOp:  blueOp.ID,
		redSpy:  redSpy.ID,
		redOp:   redOp.ID,
	}
}

// setupGuessing starts a blue game and submits a clue so guessing can
// begin. Returns the live state.
func setupGuessing(t *testing.T, clueNumber int) (*testGame, *domain.GameState) {
	t.Helper()
	tg := setupLobby(t)
	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)
	gs, err := tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "OCEAN", clueNumber)
	require.NoError(t, err)
	return tg, gs
}

// cardIndex finds an unrevealed card of the wanted color.
func cardIndex(t *testing.T, gs *domain.GameState, color domain.CardColor) int {
	t.Helper()
	for i, card := range gs.Board {
		if !card.Revealed && card.Color == color {
			return i
		}
	}
	t.Fatalf("no unrevealed %s card left", color)
	return -1
}

func TestEngine_Start(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)

	gs, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	assert.Len(t, gs.Board, 25)
	assert.Equal(t, 9, gs.BlueRemaining)
	assert.Equal(t, 8, gs.RedRemaining)
	assert.Equal(t, domain.PhaseClue, gs.Phase)
	assert.Equal(t, domain.TeamBlue, gs.CurrentTeam)
	assert.Equal(t, 0, gs.GuessesRemaining)
	assert.Nil(t, gs.CurrentClue)
	assert.Equal(t, domain.TeamNone, gs.Winner)
	assert.Empty(t, gs.History)
}

func TestEngine_Start_RedFirst(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)

	gs, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamRed)
	require.NoError(t, err)
	assert.Equal(t, 8, gs.BlueRemaining)
	assert.Equal(t, 9, gs.RedRemaining)
	assert.Equal(t, domain.TeamRed, gs.CurrentTeam)
}

func TestEngine_Start_Twice(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)

	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	_, err = tg.engine.Start(tg.roomID)
	assert.ErrorIs(t, err, domain.ErrGameInProgress)
}

func TestEngine_Start_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := NewRoomRegistry(nil)
	words := &MockWordSupply{}
	engine := NewEngine(reg, words)

	_, err := engine.Start("AAAAA-AAAAA")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	room, _, err := reg.Create(ctx, "alone", domain.RoomSettings{})
	require.NoError(t, err)
	_, err = engine.Start(room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotReady)
}

func TestEngine_Start_WordSupplyFailure(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)

	failing := &MockWordSupply{}
	failing.On("Draw", domain.DefaultWordPack, domain.BoardSize).Return(nil, domain.ErrUnknownWordPack)
	tg.engine.words = failing

	_, err := tg.engine.Start(tg.roomID)
	assert.ErrorIs(t, err, domain.ErrUnknownWordPack)

	// the failed start leaves no half-made game behind
	_, exists := tg.engine.Get(tg.roomID)
	assert.False(t, exists)
}

func TestEngine_SubmitClue(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)
	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	gs, err := tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "OCEAN", 2)
	require.NoError(t, err)

	require.NotNil(t, gs.CurrentClue)
	assert.Equal(t, domain.Clue{Word: "OCEAN", Number: 2, Team: domain.TeamBlue}, *gs.CurrentClue)
	assert.Equal(t, 3, gs.GuessesRemaining)
	assert.Equal(t, domain.PhaseGuess, gs.Phase)
	require.Len(t, gs.History, 1)
	assert.Equal(t, domain.TeamBlue, gs.History[0].Team)
	assert.Empty(t, gs.History[0].GuessedWords)
	assert.Empty(t, gs.History[0].GuessedColors)
}

func TestEngine_SubmitClue_PreservesCase(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)
	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	// board words get uppercased, clue words do not
	gs, err := tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "  ocean ", 1)
	require.NoError(t, err)
	assert.Equal(t, "ocean", gs.CurrentClue.Word)
}

func TestEngine_SubmitClue_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		player   func(tg *testGame) string
		word     string
		number   int
		expected error
	}{
		{desc: "blank word", player: func(tg *testGame) string { return tg.blueSpy }, word: "   ", number: 1, expected: domain.ErrInvalidClue},
		{desc: "word with spaces", player: func(tg *testGame) string { return tg.blueSpy }, word: "two words", number: 1, expected: domain.ErrInvalidClue},
		{desc: "word with tab", player: func(tg *testGame) string { return tg.blueSpy }, word: "two\twords", number: 1, expected: domain.ErrInvalidClue},
		{desc: "number below range", player: func(tg *testGame) string { return tg.blueSpy }, word: "OCEAN", number: -1, expected: domain.ErrInvalidClue},
		{desc: "number above range", player: func(tg *testGame) string { return tg.blueSpy }, word: "OCEAN", number: 10, expected: domain.ErrInvalidClue},
		{desc: "operative cannot give clues", player: func(tg *testGame) string { return tg.blueOp }, word: "OCEAN", number: 1, expected: domain.ErrWrongRole},
		{desc: "wrong team's spymaster", player: func(tg *testGame) string { return tg.redSpy }, word: "OCEAN", number: 1, expected: domain.ErrWrongTurn},
		{desc: "unknown player", player: func(tg *testGame) string { return "ghost" }, word: "OCEAN", number: 1, expected: domain.ErrPlayerNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			tg := setupLobby(t)
			_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
			require.NoError(t, err)

			_, err = tg.engine.SubmitClue(tg.roomID, tc.player(tg), tc.word, tc.number)
			assert.ErrorIs(t, err, tc.expected)

			gs, _ := tg.engine.Get(tg.roomID)
			assert.Equal(t, domain.PhaseClue, gs.Phase, "failed clue must not advance the phase")
			assert.Nil(t, gs.CurrentClue)
			assert.Empty(t, gs.History)
		})
	}
}

func TestEngine_SubmitClue_WrongPhase(t *testing.T) {
	t.Parallel()
	tg, _ := setupGuessing(t, 2)

	_, err := tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "AGAIN", 1)
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestEngine_SubmitClue_NotStarted(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)

	_, err := tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "OCEAN", 1)
	assert.ErrorIs(t, err, domain.ErrGameNotStarted)
}

func TestEngine_MakeGuess_OwnColor(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 2)

	idx := cardIndex(t, gs, domain.ColorBlue)
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	require.NoError(t, err)

	assert.True(t, gs.Board[idx].Revealed)
	assert.Equal(t, tg.blueOp, gs.Board[idx].SelectedBy)
	assert.Equal(t, 8, gs.BlueRemaining)
	assert.Equal(t, 2, gs.GuessesRemaining)
	assert.Equal(t, domain.PhaseGuess, gs.Phase)
	assert.Equal(t, domain.TeamBlue, gs.CurrentTeam)

	require.Len(t, gs.History, 1)
	assert.Equal(t, []string{gs.Board[idx].Word}, gs.History[0].GuessedWords)
	assert.Equal(t, []domain.CardColor{domain.ColorBlue}, gs.History[0].GuessedColors)
}

func TestEngine_MakeGuess_Neutral(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 2)

	idx := cardIndex(t, gs, domain.ColorNeutral)
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseClue, gs.Phase)
	assert.Equal(t, domain.TeamRed, gs.CurrentTeam)
	assert.Nil(t, gs.CurrentClue)
	assert.Equal(t, 0, gs.GuessesRemaining)
	assert.Equal(t, 9, gs.BlueRemaining)
	assert.Equal(t, 8, gs.RedRemaining)
}

func TestEngine_MakeGuess_OpponentColor(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 2)

	idx := cardIndex(t, gs, domain.ColorRed)
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	require.NoError(t, err)

	assert.Equal(t, 7, gs.RedRemaining, "the card counts for red no matter who revealed it")
	assert.Equal(t, domain.PhaseClue, gs.Phase)
	assert.Equal(t, domain.TeamRed, gs.CurrentTeam)
	assert.Equal(t, domain.TeamNone, gs.Winner)
}

func TestEngine_MakeGuess_Assassin(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 5)

	idx := cardIndex(t, gs, domain.ColorAssassin)
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseGameOver, gs.Phase)
	assert.Equal(t, domain.TeamRed, gs.Winner)
	assert.Equal(t, 0, gs.GuessesRemaining)

	// terminal: nothing moves anymore
	_, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorBlue))
	assert.ErrorIs(t, err, domain.ErrGameOver)
	_, err = tg.engine.SubmitClue(tg.roomID, tg.redSpy, "LATE", 1)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestEngine_MakeGuess_ExhaustionAcrossTurns(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 0)

	// both teams play clean single-guess turns; red's eight cards run
	// out first and red wins on its own last guess
	for {
		var err error
		gs, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorBlue))
		require.NoError(t, err)
		require.Equal(t, domain.PhaseClue, gs.Phase)
		require.Equal(t, domain.TeamRed, gs.CurrentTeam)

		_, err = tg.engine.SubmitClue(tg.roomID, tg.redSpy, "STEADY", 0)
		require.NoError(t, err)
		gs, err = tg.engine.MakeGuess(tg.roomID, tg.redOp, cardIndex(t, gs, domain.ColorRed))
		require.NoError(t, err)

		if gs.Over() {
			break
		}
		_, err = tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "STEADY", 0)
		require.NoError(t, err)
	}

	assert.Equal(t, 0, gs.RedRemaining)
	assert.Equal(t, 1, gs.BlueRemaining)
	assert.Equal(t, domain.TeamRed, gs.Winner)
	assert.Equal(t, 0, gs.GuessesRemaining)
}

func TestEngine_MakeGuess_WinBeatsRemainingGuesses(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 9)

	// reveal eight blue cards; the clue granted ten guesses so the turn
	// keeps going
	for i := 0; i < 8; i++ {
		var err error
		gs, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorBlue))
		require.NoError(t, err)
		require.Equal(t, domain.PhaseGuess, gs.Phase)
	}
	assert.Equal(t, 1, gs.BlueRemaining)
	assert.Equal(t, 2, gs.GuessesRemaining)

	// the ninth blue card wins immediately even with guesses to spare
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorBlue))
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseGameOver, gs.Phase)
	assert.Equal(t, domain.TeamBlue, gs.Winner)
}

func TestEngine_MakeGuess_OwnGoalHandsOpponentTheWin(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 9)

	// blue reveals seven red cards over several turns; red stalls
	for gs.RedRemaining > 1 {
		idx := cardIndex(t, gs, domain.ColorRed)
		var err error
		gs, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
		require.NoError(t, err)
		require.Equal(t, domain.PhaseClue, gs.Phase, "an opponent-color guess always ends the turn")

		_, err = tg.engine.SubmitClue(tg.roomID, tg.redSpy, "WAIT", 0)
		require.NoError(t, err)
		gs, err = tg.engine.MakeGuess(tg.roomID, tg.redOp, cardIndex(t, gs, domain.ColorNeutral))
		require.NoError(t, err)
		_, err = tg.engine.SubmitClue(tg.roomID, tg.blueSpy, "OOPS", 9)
		require.NoError(t, err)
	}

	// blue reveals red's last card: red wins off the own-goal
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorRed))
	require.NoError(t, err)
	assert.Equal(t, 0, gs.RedRemaining)
	assert.Equal(t, domain.PhaseGameOver, gs.Phase)
	assert.Equal(t, domain.TeamRed, gs.Winner)
}

func TestEngine_MakeGuess_LastGuessEndsTurn(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 0)

	// clue number 0 gives exactly one guess
	assert.Equal(t, 1, gs.GuessesRemaining)

	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, cardIndex(t, gs, domain.ColorBlue))
	require.NoError(t, err)
	assert.Equal(t, 8, gs.BlueRemaining)
	assert.Equal(t, domain.PhaseClue, gs.Phase)
	assert.Equal(t, domain.TeamRed, gs.CurrentTeam)
	assert.Equal(t, 0, gs.GuessesRemaining)
}

func TestEngine_MakeGuess_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		player   func(tg *testGame) string
		index    func(t *testing.T, gs *domain.GameState) int
		expected error
	}{
		{desc: "index below range", player: func(tg *testGame) string { return tg.blueOp }, index: func(t *testing.T, gs *domain.GameState) int { return -1 }, expected: domain.ErrInvalidCardIndex},
		{desc: "index above range", player: func(tg *testGame) string { return tg.blueOp }, index: func(t *testing.T, gs *domain.GameState) int { return 25 }, expected: domain.ErrInvalidCardIndex},
		{desc: "spymaster cannot guess", player: func(tg *testGame) string { return tg.blueSpy }, index: func(t *testing.T, gs *domain.GameState) int { return cardIndex(t, gs, domain.ColorBlue) }, expected: domain.ErrWrongRole},
		{desc: "wrong team's operative", player: func(tg *testGame) string { return tg.redOp }, index: func(t *testing.T, gs *domain.GameState) int { return cardIndex(t, gs, domain.ColorRed) }, expected: domain.ErrWrongTurn},
		{desc: "unknown player", player: func(tg *testGame) string { return "ghost" }, index: func(t *testing.T, gs *domain.GameState) int { return 0 }, expected: domain.ErrPlayerNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			tg, gs := setupGuessing(t, 2)

			_, err := tg.engine.MakeGuess(tg.roomID, tc.player(tg), tc.index(t, gs))
			assert.ErrorIs(t, err, tc.expected)

			assert.Equal(t, 9, gs.BlueRemaining, "failed guess must not touch counters")
			assert.Equal(t, 8, gs.RedRemaining)
			assert.Equal(t, 3, gs.GuessesRemaining)
			assert.Empty(t, gs.History[0].GuessedWords)
		})
	}
}

func TestEngine_MakeGuess_AlreadyRevealed(t *testing.T) {
	t.Parallel()
	tg, gs := setupGuessing(t, 3)

	idx := cardIndex(t, gs, domain.ColorBlue)
	gs, err := tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	require.NoError(t, err)
	guessesAfterFirst := gs.GuessesRemaining
	historyAfterFirst := len(gs.History[0].GuessedWords)

	_, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, idx)
	assert.ErrorIs(t, err, domain.ErrCardRevealed)
	assert.Equal(t, guessesAfterFirst, gs.GuessesRemaining)
	assert.Len(t, gs.History[0].GuessedWords, historyAfterFirst)
	assert.Equal(t, domain.PhaseGuess, gs.Phase)
}

func TestEngine_MakeGuess_WrongPhase(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)
	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	_, err = tg.engine.MakeGuess(tg.roomID, tg.blueOp, 0)
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestEngine_Drop(t *testing.T) {
	t.Parallel()
	tg := setupLobby(t)
	_, err := tg.engine.StartWithTeam(tg.roomID, domain.TeamBlue)
	require.NoError(t, err)

	tg.engine.Drop(tg.roomID)
	_, exists := tg.engine.Get(tg.roomID)
	assert.False(t, exists)
}
