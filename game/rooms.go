package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"api/domain"
	"api/shared/logger"

	"github.com/google/uuid"
)

// RoomRegistry owns every room and player lifetime. The registry lock only
// guards the map; each room carries its own lock, and every mutation of a
// room happens under it.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	store RoomStore // optional, may be nil
}

func NewRoomRegistry(store RoomStore) *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*domain.Room),
		store: store,
	}
}

// Restore preloads rooms from the persistence layer, typically at boot.
// Connected flags are expected to have been reset by the store already.
func (reg *RoomRegistry) Restore(rooms []*domain.Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, r := range rooms {
		reg.rooms[r.ID] = r
	}
}

func (reg *RoomRegistry) Get(roomID string) (*domain.Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Create makes a fresh room with the requesting player as admin. The new
// player starts as a spectator on no team.
func (reg *RoomRegistry) Create(ctx context.Context, username string, settings domain.RoomSettings) (*domain.Room, *domain.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > domain.MaxUsernameLen {
		return nil, nil, domain.ErrInvalidUsername
	}
	if settings.WordPack == "" {
		settings.WordPack = domain.DefaultWordPack
	}

	admin := &domain.Player{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      domain.RoleSpectator,
		Connected: true,
		Admin:     true,
	}

	reg.mu.Lock()
	id := NewRoomID()
	for {
		if _, taken := reg.rooms[id]; !taken {
			break
		}
		id = NewRoomID()
	}
	room := &domain.Room{
		ID:        id,
		AdminID:   admin.ID,
		CreatedAt: time.Now(),
		Settings:  settings,
		Players:   []*domain.Player{admin},
	}
	reg.rooms[id] = room
	reg.mu.Unlock()

	logger.Infof("[Room %s] created by %s (%s)", id, username, admin.ID)
	reg.persistRoom(ctx, room)
	return room, admin, nil
}

// Join appends a new spectator to the roster. Usernames are unique per
// room case-insensitively, regardless of connection state.
func (reg *RoomRegistry) Join(ctx context.Context, roomID, username string) (*domain.Room, *domain.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > domain.MaxUsernameLen {
		return nil, nil, domain.ErrInvalidUsername
	}

	room, err := reg.Get(roomID)
	if err != nil {
		return nil, nil, err
	}

	room.Lock()
	if room.HasUsername(username) {
		room.Unlock()
		return nil, nil, domain.ErrUsernameTaken
	}
	player := &domain.Player{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      domain.RoleSpectator,
		Connected: true,
	}
	room.Players = append(room.Players, player)
	room.Unlock()

	logger.Infof("[Room %s] %s joined (%s)", roomID, username, player.ID)
	reg.persistPlayer(ctx, roomID, player)
	return room, player, nil
}

// ChangeTeam moves a player to the given team and role. An unset team
// always forces the spectator role, whatever role was requested. Assigning
// a spymaster seat that another connected player already holds fails
// without touching either player.
func (reg *RoomRegistry) ChangeTeam(ctx context.Context, roomID, playerID string, team domain.Team, role domain.Role) (*domain.Room, *domain.Player, error) {
	room, err := reg.Get(roomID)
	if err != nil {
		return nil, nil, err
	}

	room.Lock()
	player := room.FindPlayer(playerID)
	if player == nil {
		room.Unlock()
		return nil, nil, domain.ErrPlayerNotFound
	}
	if team == domain.TeamNone {
		role = domain.RoleSpectator
	} else if role != domain.RoleSpymaster && role != domain.RoleOperative {
		// a playing team needs a playing role
		role = domain.RoleOperative
	}
	if role == domain.RoleSpymaster && room.SpymasterOf(team, playerID) != nil {
		room.Unlock()
		return nil, nil, domain.ErrSpymasterTaken
	}
	player.Team = team
	player.Role = role
	snapshot := *player
	room.Unlock()

	logger.Infof("[Room %s] %s is now %s/%s", roomID, snapshot.Username, team, role)
	reg.persistPlayer(ctx, roomID, &snapshot)
	return room, player, nil
}

// Remove drops a player from the roster and deletes the room once empty.
// Removing an unknown player or room is a no-op: disconnects race joins
// and team changes, and cleanup must win quietly.
func (reg *RoomRegistry) Remove(ctx context.Context, roomID, playerID string) (room *domain.Room, removed *domain.Player, roomDeleted bool) {
	room, err := reg.Get(roomID)
	if err != nil {
		return nil, nil, false
	}

	room.Lock()
	removed = room.RemovePlayer(playerID)
	empty := len(room.Players) == 0
	room.Unlock()

	if removed == nil {
		return room, nil, false
	}
	logger.Infof("[Room %s] %s left (%s)", roomID, removed.Username, removed.ID)
	reg.persistPlayerRemoval(ctx, roomID, playerID)

	if empty {
		reg.mu.Lock()
		delete(reg.rooms, roomID)
		reg.mu.Unlock()
		logger.Infof("[Room %s] empty, deleting", roomID)
		if reg.store != nil {
			if err := reg.store.DeleteRoom(ctx, roomID); err != nil {
				logger.Criticalf("[Room %s] failed to delete persisted room: %v", roomID, err)
			}
		}
		return room, removed, true
	}
	return room, removed, false
}

// Reconnect flips a surviving roster entry back to connected. Only players
// restored from the store after a restart are ever disconnected-but-known;
// everyone else was removed outright when their session dropped.
func (reg *RoomRegistry) Reconnect(ctx context.Context, roomID, playerID string) (*domain.Room, *domain.Player, error) {
	room, err := reg.Get(roomID)
	if err != nil {
		return nil, nil, err
	}

	room.Lock()
	player := room.FindPlayer(playerID)
	if player == nil {
		room.Unlock()
		return nil, nil, domain.ErrPlayerNotFound
	}
	player.Connected = true
	snapshot := *player
	room.Unlock()

	logger.Infof("[Room %s] %s reconnected", roomID, snapshot.Username)
	reg.persistPlayer(ctx, roomID, &snapshot)
	return room, player, nil
}

func (reg *RoomRegistry) persistRoom(ctx context.Context, room *domain.Room) {
	if reg.store == nil {
		return
	}
	if err := reg.store.SaveRoom(ctx, room); err != nil {
		logger.Criticalf("[Room %s] failed to persist room: %v", room.ID, err)
	}
}

func (reg *RoomRegistry) persistPlayer(ctx context.Context, roomID string, player *domain.Player) {
	if reg.store == nil {
		return
	}
	if err := reg.store.SavePlayer(ctx, roomID, player); err != nil {
		logger.Criticalf("[Room %s] failed to persist player %s: %v", roomID, player.ID, err)
	}
}

func (reg *RoomRegistry) persistPlayerRemoval(ctx context.Context, roomID, playerID string) {
	if reg.store == nil {
		return
	}
	if err := reg.store.DeletePlayer(ctx, roomID, playerID); err != nil {
		logger.Criticalf("[Room %s] failed to delete persisted player %s: %v", roomID, playerID, err)
	}
}
