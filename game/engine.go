package game

import (
	"strings"
	"sync"
	"unicode"

	"api/domain"
	"api/shared/logger"
)

// Engine owns the room -> GameState map. GameState is volatile: it is
// created exactly once per room at start and dropped with the room.
// Mutations of a state happen under the owning room's lock, so roster
// changes and game actions on the same room never interleave. The engine
// lock only guards the map itself.
type Engine struct {
	mu    sync.RWMutex
	games map[string]*domain.GameState
	rooms *RoomRegistry
	words WordSupply
}

func NewEngine(rooms *RoomRegistry, words WordSupply) *Engine {
	return &Engine{
		games: make(map[string]*domain.GameState),
		rooms: rooms,
		words: words,
	}
}

func (e *Engine) Get(roomID string) (*domain.GameState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	gs, ok := e.games[roomID]
	return gs, ok
}

// Drop discards the game of a deleted room.
func (e *Engine) Drop(roomID string) {
	e.mu.Lock()
	delete(e.games, roomID)
	e.mu.Unlock()
}

// Start rolls a starting team and begins the game.
func (e *Engine) Start(roomID string) (*domain.GameState, error) {
	return e.StartWithTeam(roomID, RandomTeam())
}

// StartWithTeam begins the game with a fixed starting team. A room can
// hold at most one game; a second start fails until the room is torn down.
func (e *Engine) StartWithTeam(roomID string, startingTeam domain.Team) (*domain.GameState, error) {
	room, err := e.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	if _, exists := e.Get(roomID); exists {
		return nil, domain.ErrGameInProgress
	}
	if !room.CanStart() {
		return nil, domain.ErrRoomNotReady
	}

	words, err := e.words.Draw(room.Settings.WordPack, domain.BoardSize)
	if err != nil {
		return nil, err
	}
	board, err := GenerateBoard(words, startingTeam)
	if err != nil {
		return nil, err
	}

	gs := &domain.GameState{
		Board:       board,
		CurrentTeam: startingTeam,
		Phase:       domain.PhaseClue,
		History:     []domain.TurnHistory{},
	}
	if startingTeam == domain.TeamBlue {
		gs.BlueRemaining, gs.RedRemaining = startingTeamCards, otherTeamCards
	} else {
		gs.BlueRemaining, gs.RedRemaining = otherTeamCards, startingTeamCards
	}

	e.mu.Lock()
	e.games[roomID] = gs
	e.mu.Unlock()

	logger.Infof("[Room %s] game started, %s goes first", roomID, startingTeam)
	return gs, nil
}

// SubmitClue validates and applies a spymaster's clue, moving the room
// into the guessing phase. The clue word is trimmed but deliberately not
// uppercased and not checked against board words.
func (e *Engine) SubmitClue(roomID, playerID, word string, number int) (*domain.GameState, error) {
	room, gs, err := e.roomAndGame(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	if gs.Over() {
		return nil, domain.ErrGameOver
	}
	if gs.Phase != domain.PhaseClue {
		return nil, domain.ErrWrongPhase
	}
	player := room.FindPlayer(playerID)
	if player == nil {
		return nil, domain.ErrPlayerNotFound
	}
	if player.Role != domain.RoleSpymaster {
		return nil, domain.ErrWrongRole
	}
	if player.Team != gs.CurrentTeam {
		return nil, domain.ErrWrongTurn
	}

	word = strings.TrimSpace(word)
	if word == "" || strings.IndexFunc(word, unicode.IsSpace) >= 0 {
		return nil, domain.ErrInvalidClue
	}
	if number < 0 || number > 9 {
		return nil, domain.ErrInvalidClue
	}

	clue := domain.Clue{Word: word, Number: number, Team: gs.CurrentTeam}
	gs.CurrentClue = &clue
	gs.GuessesRemaining = number + 1
	gs.Phase = domain.PhaseGuess
	gs.History = append(gs.History, domain.TurnHistory{
		Team:          gs.CurrentTeam,
		Clue:          clue,
		GuessedWords:  []string{},
		GuessedColors: []domain.CardColor{},
	})

	logger.Infof("[Room %s] %s clue %q %d", roomID, gs.CurrentTeam, word, number)
	return gs, nil
}

// MakeGuess reveals a card and resolves the consequences. The reveal and
// the history entry always happen; what follows depends on the color:
//
//   - assassin: the guessing team loses on the spot
//   - opponent color: their counter drops; at zero they win, otherwise the
//     turn ends
//   - own color: own counter drops; at zero the guessing team wins,
//     otherwise one guess is spent and the turn ends when none remain
//   - neutral: the turn ends
func (e *Engine) MakeGuess(roomID, playerID string, cardIndex int) (*domain.GameState, error) {
	room, gs, err := e.roomAndGame(roomID)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	if gs.Over() {
		return nil, domain.ErrGameOver
	}
	if gs.Phase != domain.PhaseGuess {
		return nil, domain.ErrWrongPhase
	}
	if cardIndex < 0 || cardIndex >= domain.BoardSize {
		return nil, domain.ErrInvalidCardIndex
	}
	player := room.FindPlayer(playerID)
	if player == nil {
		return nil, domain.ErrPlayerNotFound
	}
	if player.Role != domain.RoleOperative {
		return nil, domain.ErrWrongRole
	}
	if player.Team != gs.CurrentTeam {
		return nil, domain.ErrWrongTurn
	}

	card := &gs.Board[cardIndex]
	if card.Revealed {
		return nil, domain.ErrCardRevealed
	}

	card.Revealed = true
	card.SelectedBy = playerID
	turn := &gs.History[len(gs.History)-1]
	turn.GuessedWords = append(turn.GuessedWords, card.Word)
	turn.GuessedColors = append(turn.GuessedColors, card.Color)

	logger.Infof("[Room %s] %s revealed %q (%s)", roomID, player.Username, card.Word, card.Color)

	switch card.Color {
	case domain.ColorAssassin:
		e.finish(roomID, gs, gs.CurrentTeam.Opposite())

	case domain.TeamColor(gs.CurrentTeam.Opposite()):
		// A team's cards count down no matter who reveals them, so an
		// own-goal can hand the opponent the win.
		opponent := gs.CurrentTeam.Opposite()
		if decrementFloor(gs.RemainingFor(card.Color)) == 0 {
			e.finish(roomID, gs, opponent)
			break
		}
		endTurn(gs)

	case domain.TeamColor(gs.CurrentTeam):
		if decrementFloor(gs.RemainingFor(card.Color)) == 0 {
			e.finish(roomID, gs, gs.CurrentTeam)
			break
		}
		if gs.GuessesRemaining > 0 {
			gs.GuessesRemaining--
		}
		if gs.GuessesRemaining == 0 {
			endTurn(gs)
		}

	default: // neutral
		endTurn(gs)
	}

	return gs, nil
}

func (e *Engine) roomAndGame(roomID string) (*domain.Room, *domain.GameState, error) {
	room, err := e.rooms.Get(roomID)
	if err != nil {
		return nil, nil, err
	}
	gs, ok := e.Get(roomID)
	if !ok {
		return nil, nil, domain.ErrGameNotStarted
	}
	return room, gs, nil
}

func (e *Engine) finish(roomID string, gs *domain.GameState, winner domain.Team) {
	gs.Phase = domain.PhaseGameOver
	gs.Winner = winner
	gs.GuessesRemaining = 0
	logger.Infof("[Room %s] game over, %s wins", roomID, winner)
}

func endTurn(gs *domain.GameState) {
	gs.CurrentTeam = gs.CurrentTeam.Opposite()
	gs.Phase = domain.PhaseClue
	gs.CurrentClue = nil
	gs.GuessesRemaining = 0
}

func decrementFloor(counter *int) int {
	if counter == nil {
		return -1
	}
	if *counter > 0 {
		*counter--
	}
	return *counter
}
