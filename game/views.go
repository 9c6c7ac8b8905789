package game

import "api/domain"

// ProjectBoard copies the board as the given role may see it. Spymasters
// get every color; everyone else only sees colors of revealed cards.
func ProjectBoard(board []domain.Card, role domain.Role) []domain.Card {
	view := make([]domain.Card, len(board))
	copy(view, board)
	if role == domain.RoleSpymaster {
		return view
	}
	for i := range view {
		if !view[i].Revealed {
			view[i].Color = ""
		}
	}
	return view
}

// ProjectGameState copies the game state with a role-filtered board.
// History is shared verbatim: it only ever names revealed cards.
func ProjectGameState(gs *domain.GameState, role domain.Role) domain.GameState {
	view := *gs
	view.Board = ProjectBoard(gs.Board, role)
	return view
}

// roomStateSnapshot copies the roster and derives canStart under the room
// lock so broadcasts never see a half-applied mutation.
func roomStateSnapshot(room *domain.Room) RoomStatePayload {
	room.RLock()
	defer room.RUnlock()
	players := make([]domain.Player, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, *p)
	}
	return RoomStatePayload{
		RoomID:   room.ID,
		Players:  players,
		Settings: room.Settings,
		CanStart: room.CanStart(),
	}
}
