package game

import "sync"

// SessionInfo ties a player to the room they sit in and the transport
// session delivering their events.
type SessionInfo struct {
	RoomID    string
	SessionID string
}

// SessionRegistry routes outbound events to live connections. It is not
// the source of truth for roster membership (the RoomRegistry is); it is
// rebuilt from nothing on every process start.
type SessionRegistry struct {
	mu          sync.RWMutex
	byPlayer    map[string]SessionInfo
	roomPlayers map[string]map[string]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byPlayer:    make(map[string]SessionInfo),
		roomPlayers: make(map[string]map[string]struct{}),
	}
}

// Register records a player's session. Any previous session of the same
// player, possibly in another room, is dropped first.
func (s *SessionRegistry) Register(playerID, roomID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(playerID)
	s.byPlayer[playerID] = SessionInfo{RoomID: roomID, SessionID: sessionID}
	players, ok := s.roomPlayers[roomID]
	if !ok {
		players = make(map[string]struct{})
		s.roomPlayers[roomID] = players
	}
	players[playerID] = struct{}{}
}

// Remove drops a player's session. Unknown players are a no-op.
func (s *SessionRegistry) Remove(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(playerID)
}

func (s *SessionRegistry) removeLocked(playerID string) {
	info, ok := s.byPlayer[playerID]
	if !ok {
		return
	}
	delete(s.byPlayer, playerID)
	if players, ok := s.roomPlayers[info.RoomID]; ok {
		delete(players, playerID)
		if len(players) == 0 {
			delete(s.roomPlayers, info.RoomID)
		}
	}
}

func (s *SessionRegistry) Get(playerID string) (SessionInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.byPlayer[playerID]
	return info, ok
}

// PlayerBySession does a reverse lookup from transport session id to
// player. Linear scan; disconnect handling is not a hot path.
func (s *SessionRegistry) PlayerBySession(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for playerID, info := range s.byPlayer {
		if info.SessionID == sessionID {
			return playerID, true
		}
	}
	return "", false
}

// RoomPlayers returns the session-registered players of a room. Unknown
// rooms yield an empty slice, never nil.
func (s *SessionRegistry) RoomPlayers(roomID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]string, 0, len(s.roomPlayers[roomID]))
	for playerID := range s.roomPlayers[roomID] {
		players = append(players, playerID)
	}
	return players
}
