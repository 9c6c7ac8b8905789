package domain

// Team is a card affiliation and a side of the match. The empty value means
// "no team", which for players means spectator.
type Team string

const (
	TeamNone Team = ""
	TeamBlue Team = "BLUE"
	TeamRed  Team = "RED"
)

func (t Team) Opposite() Team {
	switch t {
	case TeamBlue:
		return TeamRed
	case TeamRed:
		return TeamBlue
	}
	return TeamNone
}

type Role string

const (
	RoleSpectator Role = "SPECTATOR"
	RoleSpymaster Role = "SPYMASTER"
	RoleOperative Role = "OPERATIVE"
)

type CardColor string

const (
	ColorBlue     CardColor = "BLUE"
	ColorRed      CardColor = "RED"
	ColorNeutral  CardColor = "NEUTRAL"
	ColorAssassin CardColor = "ASSASSIN"
)

// TeamColor maps a team to the card color its agents carry.
func TeamColor(t Team) CardColor {
	if t == TeamBlue {
		return ColorBlue
	}
	return ColorRed
}

type Phase string

const (
	PhaseClue     Phase = "CLUE"
	PhaseGuess    Phase = "GUESS"
	PhaseGameOver Phase = "GAME_OVER"
)

const BoardSize = 25

// Card is one cell of the 25 card board. Revealed only ever flips false to
// true; SelectedBy is the id of the player whose guess revealed it.
type Card struct {
	Word       string    `json:"word"`
	Color      CardColor `json:"color,omitempty"`
	Revealed   bool      `json:"revealed"`
	SelectedBy string    `json:"selectedBy,omitempty"`
}

type Clue struct {
	Word   string `json:"word"`
	Number int    `json:"number"`
	Team   Team   `json:"team"`
}

// TurnHistory records one clue and every guess made on it, in order. The
// two slices are parallel.
type TurnHistory struct {
	Team          Team        `json:"team"`
	Clue          Clue        `json:"clue"`
	GuessedWords  []string    `json:"guessedWords"`
	GuessedColors []CardColor `json:"guessedColors"`
}

// GameState is the live game of one room. It exists only between start and
// room teardown and is never persisted.
type GameState struct {
	Board            []Card        `json:"board"`
	CurrentTeam      Team          `json:"currentTeam"`
	Phase            Phase         `json:"phase"`
	CurrentClue      *Clue         `json:"currentClue,omitempty"`
	GuessesRemaining int           `json:"guessesRemaining"`
	BlueRemaining    int           `json:"blueRemaining"`
	RedRemaining     int           `json:"redRemaining"`
	Winner           Team          `json:"winner,omitempty"`
	History          []TurnHistory `json:"history"`
}

func (g *GameState) Over() bool {
	return g.Phase == PhaseGameOver
}

// RemainingFor returns a pointer to the unrevealed-card counter of the team
// owning the given color, or nil for neutral/assassin.
func (g *GameState) RemainingFor(c CardColor) *int {
	switch c {
	case ColorBlue:
		return &g.BlueRemaining
	case ColorRed:
		return &g.RedRemaining
	}
	return nil
}
