package game

import "sync"

// Broadcaster fans events out to attached connections, resolving
// recipients through the session registry.
type Broadcaster struct {
	mu       sync.RWMutex
	sessions *SessionRegistry
	conns    map[string]*Conn // keyed by transport session id
}

func NewBroadcaster(sessions *SessionRegistry) *Broadcaster {
	return &Broadcaster{
		sessions: sessions,
		conns:    make(map[string]*Conn),
	}
}

func (b *Broadcaster) Attach(sessionID string, conn *Conn) {
	b.mu.Lock()
	b.conns[sessionID] = conn
	b.mu.Unlock()
}

func (b *Broadcaster) Detach(sessionID string) {
	b.mu.Lock()
	delete(b.conns, sessionID)
	b.mu.Unlock()
}

// ToSession delivers to one transport session.
func (b *Broadcaster) ToSession(sessionID string, data []byte) {
	if data == nil {
		return
	}
	b.mu.RLock()
	conn, ok := b.conns[sessionID]
	b.mu.RUnlock()
	if ok {
		conn.Send(data)
	}
}

// ToPlayer delivers to one player's live session, if any.
func (b *Broadcaster) ToPlayer(playerID string, data []byte) {
	info, ok := b.sessions.Get(playerID)
	if !ok {
		return
	}
	b.ToSession(info.SessionID, data)
}

// ToRoom delivers the same payload to every session-registered player of
// the room.
func (b *Broadcaster) ToRoom(roomID string, data []byte) {
	for _, playerID := range b.sessions.RoomPlayers(roomID) {
		b.ToPlayer(playerID, data)
	}
}
