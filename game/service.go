package game

import (
	"context"

	"api/domain"
	"api/shared/logger"
)

// Service ties the registries, the engine and the broadcaster together.
// Every inbound operation of the transport layer lands here: mutate first,
// then fan the resulting views out. A failed operation broadcasts nothing
// except a private error to the actor.
type Service struct {
	rooms    *RoomRegistry
	engine   *Engine
	sessions *SessionRegistry
	caster   *Broadcaster
}

func NewService(rooms *RoomRegistry, engine *Engine, sessions *SessionRegistry, caster *Broadcaster) *Service {
	return &Service{
		rooms:    rooms,
		engine:   engine,
		sessions: sessions,
		caster:   caster,
	}
}

func (s *Service) CreateRoom(ctx context.Context, username string, settings domain.RoomSettings) (*domain.Room, *domain.Player, error) {
	return s.rooms.Create(ctx, username, settings)
}

func (s *Service) GetRoom(roomID string) (*domain.Room, error) {
	return s.rooms.Get(roomID)
}

// RoomState is the lobby snapshot sent privately to joiners and broadcast
// after roster changes.
func (s *Service) RoomState(roomID string) (RoomStatePayload, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return RoomStatePayload{}, err
	}
	return roomStateSnapshot(room), nil
}

func (s *Service) JoinRoom(ctx context.Context, roomID, username string) (*domain.Player, error) {
	room, player, err := s.rooms.Join(ctx, roomID, username)
	if err != nil {
		return nil, err
	}
	s.caster.ToRoom(roomID, encodeEvent(EventPlayerJoined, PlayerJoinedPayload{
		PlayerID: player.ID,
		Username: player.Username,
	}))
	s.broadcastRoomState(room)
	return player, nil
}

func (s *Service) Reconnect(ctx context.Context, roomID, playerID string) (*domain.Player, error) {
	room, player, err := s.rooms.Reconnect(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}
	s.caster.ToRoom(roomID, encodeEvent(EventPlayerUpdated, PlayerUpdatedPayload{
		PlayerID: player.ID,
		Team:     player.Team,
		Role:     player.Role,
	}))
	s.broadcastRoomState(room)
	return player, nil
}

// ChangeTeam applies a team/role request. A nil team means back to
// spectator.
func (s *Service) ChangeTeam(ctx context.Context, roomID, playerID string, team *domain.Team, role domain.Role) error {
	requested := domain.TeamNone
	if team != nil {
		requested = *team
	}
	room, player, err := s.rooms.ChangeTeam(ctx, roomID, playerID, requested, role)
	if err != nil {
		return err
	}
	s.caster.ToRoom(roomID, encodeEvent(EventPlayerUpdated, PlayerUpdatedPayload{
		PlayerID: player.ID,
		Team:     player.Team,
		Role:     player.Role,
	}))
	s.broadcastRoomState(room)
	return nil
}

func (s *Service) StartGame(roomID string) error {
	if _, err := s.engine.Start(roomID); err != nil {
		return err
	}
	s.broadcastGameState(roomID)
	return nil
}

func (s *Service) SubmitClue(roomID, playerID, word string, number int) error {
	if _, err := s.engine.SubmitClue(roomID, playerID, word, number); err != nil {
		return err
	}
	s.broadcastGameState(roomID)
	return nil
}

func (s *Service) MakeGuess(roomID, playerID string, cardIndex int) error {
	if _, err := s.engine.MakeGuess(roomID, playerID, cardIndex); err != nil {
		return err
	}
	s.broadcastGameState(roomID)
	return nil
}

// AttachSession wires a freshly opened connection: registers the session,
// attaches the connection to the broadcaster and sends the private room
// snapshot, plus the player's game view when a game is live.
func (s *Service) AttachSession(roomID, playerID, sessionID string, conn *Conn) error {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return err
	}
	room.RLock()
	player := room.FindPlayer(playerID)
	room.RUnlock()
	if player == nil {
		return domain.ErrPlayerNotFound
	}

	s.sessions.Register(playerID, roomID, sessionID)
	s.caster.Attach(sessionID, conn)

	s.caster.ToSession(sessionID, encodeEvent(EventRoomState, roomStateSnapshot(room)))
	if gs, ok := s.engine.Get(roomID); ok {
		room.RLock()
		view := ProjectGameState(gs, player.Role)
		room.RUnlock()
		s.caster.ToSession(sessionID, encodeEvent(EventGameState, view))
	}
	return nil
}

// HandleDisconnect is the transport layer's notification that a session
// died. The whole cleanup is synchronous and idempotent: a session or
// player that is already gone is not an error, and nothing here may stop
// the remaining sessions of the room from being cleaned up later.
func (s *Service) HandleDisconnect(ctx context.Context, sessionID string) {
	playerID, ok := s.sessions.PlayerBySession(sessionID)
	if !ok {
		s.caster.Detach(sessionID)
		return
	}
	info, _ := s.sessions.Get(playerID)
	s.sessions.Remove(playerID)
	s.caster.Detach(sessionID)

	room, removed, roomDeleted := s.rooms.Remove(ctx, info.RoomID, playerID)
	if removed == nil {
		return
	}
	if roomDeleted {
		s.engine.Drop(info.RoomID)
		return
	}
	s.caster.ToRoom(info.RoomID, encodeEvent(EventPlayerLeft, PlayerLeftPayload{PlayerID: playerID}))
	s.broadcastRoomState(room)
}

// LeaveRoom is the explicit variant of HandleDisconnect for clients that
// say goodbye before closing the socket.
func (s *Service) LeaveRoom(ctx context.Context, roomID, playerID string) {
	if info, ok := s.sessions.Get(playerID); ok {
		s.sessions.Remove(playerID)
		s.caster.Detach(info.SessionID)
	}
	room, removed, roomDeleted := s.rooms.Remove(ctx, roomID, playerID)
	if removed == nil {
		return
	}
	if roomDeleted {
		s.engine.Drop(roomID)
		return
	}
	s.caster.ToRoom(roomID, encodeEvent(EventPlayerLeft, PlayerLeftPayload{PlayerID: playerID}))
	s.broadcastRoomState(room)
}

// SendError delivers a private error to one player. Errors are never
// broadcast.
func (s *Service) SendError(playerID string, err error) {
	s.caster.ToPlayer(playerID, encodeEvent(EventError, ErrorPayload{Message: err.Error()}))
}

func (s *Service) broadcastRoomState(room *domain.Room) {
	s.caster.ToRoom(room.ID, encodeEvent(EventRoomState, roomStateSnapshot(room)))
}

// broadcastGameState computes one role-appropriate projection per
// connected player. This is a per-recipient fan-out, not a shared payload:
// spymasters and operatives must not receive the same board.
func (s *Service) broadcastGameState(roomID string) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return
	}
	gs, ok := s.engine.Get(roomID)
	if !ok {
		return
	}

	type delivery struct {
		playerID string
		data     []byte
	}
	var deliveries []delivery

	room.RLock()
	for _, playerID := range s.sessions.RoomPlayers(roomID) {
		player := room.FindPlayer(playerID)
		if player == nil {
			// session outlived the roster entry; disconnect cleanup will
			// catch up with it
			continue
		}
		view := ProjectGameState(gs, player.Role)
		deliveries = append(deliveries, delivery{playerID: playerID, data: encodeEvent(EventGameState, view)})
	}
	room.RUnlock()

	for _, d := range deliveries {
		s.caster.ToPlayer(d.playerID, d.data)
	}
	logger.Debugf("[Room %s] game state fanned out to %d players", roomID, len(deliveries))
}
