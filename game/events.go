package game

import (
	"encoding/json"

	"api/domain"
	"api/shared/logger"
)

type EventType string

const (
	EventPlayerJoined  EventType = "PLAYER_JOINED"
	EventPlayerLeft    EventType = "PLAYER_LEFT"
	EventPlayerUpdated EventType = "PLAYER_UPDATED"
	EventRoomState     EventType = "ROOM_STATE"
	EventError         EventType = "ERROR"
	EventGameState     EventType = "GAME_STATE"
)

// Event is the envelope every outbound message travels in.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

type PlayerJoinedPayload struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type PlayerUpdatedPayload struct {
	PlayerID string      `json:"playerId"`
	Team     domain.Team `json:"team,omitempty"`
	Role     domain.Role `json:"role"`
}

type RoomStatePayload struct {
	RoomID   string              `json:"roomId"`
	Players  []domain.Player     `json:"players"`
	Settings domain.RoomSettings `json:"settings"`
	CanStart bool                `json:"canStart"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encodeEvent(t EventType, data any) []byte {
	bytes, err := json.Marshal(Event{Type: t, Data: data})
	if err != nil {
		logger.Criticalf("failed to marshal %s event: %v", t, err)
		return nil
	}
	return bytes
}
