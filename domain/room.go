package domain

import (
	"strings"
	"sync"
	"time"
)

const (
	DefaultWordPack = "english"
	MaxUsernameLen  = 24
)

type RoomSettings struct {
	WordPack string `json:"wordPack"`
	// TurnSeconds is carried for clients that want to render a clock.
	// Nothing in the engine enforces it.
	TurnSeconds int `json:"turnSeconds,omitempty"`
}

// Player is one participant of a room. Identity is the id alone; usernames
// are display names, unique per room case-insensitively.
type Player struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Team      Team   `json:"team,omitempty"`
	Role      Role   `json:"role"`
	Connected bool   `json:"connected"`
	Admin     bool   `json:"admin"`
}

// Room is the roster and settings of one lobby. Players keeps join order.
// The embedded lock serializes every mutation touching the same room; the
// registry and the engine both take it, so roster invariants and the turn
// state machine never interleave.
type Room struct {
	ID        string       `json:"id"`
	AdminID   string       `json:"adminId"`
	CreatedAt time.Time    `json:"createdAt"`
	Settings  RoomSettings `json:"settings"`
	Players   []*Player    `json:"players"`

	mu sync.RWMutex
}

func (r *Room) Lock()    { r.mu.Lock() }
func (r *Room) Unlock()  { r.mu.Unlock() }
func (r *Room) RLock()   { r.mu.RLock() }
func (r *Room) RUnlock() { r.mu.RUnlock() }

// FindPlayer returns the roster entry with the given id, or nil. Callers
// must hold the room lock.
func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// HasUsername reports whether any roster entry, connected or not, already
// uses the name (case-insensitive). Callers must hold the room lock.
func (r *Room) HasUsername(username string) bool {
	for _, p := range r.Players {
		if strings.EqualFold(p.Username, username) {
			return true
		}
	}
	return false
}

// SpymasterOf returns the connected spymaster of the given team, ignoring
// excludeID, or nil if the seat is free. Callers must hold the room lock.
func (r *Room) SpymasterOf(team Team, excludeID string) *Player {
	for _, p := range r.Players {
		if p.ID == excludeID || !p.Connected {
			continue
		}
		if p.Team == team && p.Role == RoleSpymaster {
			return p
		}
	}
	return nil
}

// CanStart reports whether the room has, among connected players, at least
// one spymaster and one operative per team. Callers must hold the room
// lock (read is enough).
func (r *Room) CanStart() bool {
	var blueSpy, redSpy, blueOp, redOp bool
	for _, p := range r.Players {
		if !p.Connected {
			continue
		}
		switch {
		case p.Team == TeamBlue && p.Role == RoleSpymaster:
			blueSpy = true
		case p.Team == TeamRed && p.Role == RoleSpymaster:
			redSpy = true
		case p.Team == TeamBlue && p.Role == RoleOperative:
			blueOp = true
		case p.Team == TeamRed && p.Role == RoleOperative:
			redOp = true
		}
	}
	return blueSpy && redSpy && blueOp && redOp
}

// RemovePlayer deletes the roster entry with the given id, keeping order.
// Returns the removed player, or nil if absent. Callers must hold the room
// lock.
func (r *Room) RemovePlayer(id string) *Player {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p
		}
	}
	return nil
}
