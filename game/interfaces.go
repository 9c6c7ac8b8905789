package game

import (
	"context"

	"api/domain"
)

// WordSupply hands out count unique uppercase words from a named pack.
type WordSupply interface {
	Draw(pack string, count int) ([]string, error)
}

// NetworkSession is the transport side of one connected client.
type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// RoomStore persists rooms and players. Writes are best-effort from the
// registry's point of view: a failing store never blocks or rolls back the
// in-memory operation. GameState is never stored.
type RoomStore interface {
	SaveRoom(ctx context.Context, room *domain.Room) error
	SavePlayer(ctx context.Context, roomID string, player *domain.Player) error
	DeletePlayer(ctx context.Context, roomID, playerID string) error
	DeleteRoom(ctx context.Context, roomID string) error
}
