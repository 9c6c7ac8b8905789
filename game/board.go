package game

import (
	"math/rand/v2"
	"strings"

	"api/domain"
)

const (
	startingTeamCards = 9
	otherTeamCards    = 8
	neutralCards      = 7
	assassinCards     = 1
)

// GenerateBoard pairs the first 25 words with a shuffled 9/8/7/1 color
// multiset. The starting team gets the 9. Words are uppercased; every card
// starts unrevealed with no selector.
func GenerateBoard(words []string, startingTeam domain.Team) ([]domain.Card, error) {
	if len(words) < domain.BoardSize {
		return nil, domain.ErrNotEnoughWords
	}

	colors := make([]domain.CardColor, 0, domain.BoardSize)
	for i := 0; i < startingTeamCards; i++ {
		colors = append(colors, domain.TeamColor(startingTeam))
	}
	for i := 0; i < otherTeamCards; i++ {
		colors = append(colors, domain.TeamColor(startingTeam.Opposite()))
	}
	for i := 0; i < neutralCards; i++ {
		colors = append(colors, domain.ColorNeutral)
	}
	colors = append(colors, domain.ColorAssassin)

	// The global rand/v2 source is ChaCha8 seeded from OS entropy, which
	// keeps the layout unpredictable across processes.
	rand.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})

	board := make([]domain.Card, domain.BoardSize)
	for i := range board {
		board[i] = domain.Card{
			Word:  strings.ToUpper(words[i]),
			Color: colors[i],
		}
	}
	return board, nil
}

// RandomTeam picks the starting team, uniform 50/50.
func RandomTeam() domain.Team {
	if rand.IntN(2) == 0 {
		return domain.TeamBlue
	}
	return domain.TeamRed
}
