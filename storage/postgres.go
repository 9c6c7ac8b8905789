package storage

import (
	"context"
	"errors"
	"fmt"

	"api/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo persists rooms and players and doubles as a database-backed
// word supply. Game state never touches it.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (repo *PostgresRepo) Close() {
	repo.pool.Close()
}

func (repo *PostgresRepo) SaveRoom(ctx context.Context, room *domain.Room) error {
	room.RLock()
	defer room.RUnlock()

	_, err := repo.pool.Exec(ctx,
		`INSERT INTO rooms(id, admin_id, word_pack, turn_seconds, created_at)
		 VALUES($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET word_pack = $3, turn_seconds = $4`,
		room.ID, room.AdminID, room.Settings.WordPack, room.Settings.TurnSeconds, room.CreatedAt)
	if err != nil {
		return wrapDatabaseError(err)
	}

	for _, player := range room.Players {
		if err := repo.savePlayerRow(ctx, room.ID, player); err != nil {
			return err
		}
	}
	return nil
}

func (repo *PostgresRepo) SavePlayer(ctx context.Context, roomID string, player *domain.Player) error {
	return repo.savePlayerRow(ctx, roomID, player)
}

func (repo *PostgresRepo) savePlayerRow(ctx context.Context, roomID string, player *domain.Player) error {
	_, err := repo.pool.Exec(ctx,
		`INSERT INTO players(id, room_id, username, team, role, connected, admin)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET team = $4, role = $5, connected = $6`,
		player.ID, roomID, player.Username, string(player.Team), string(player.Role), player.Connected, player.Admin)
	if err != nil {
		return wrapDatabaseError(err)
	}
	return nil
}

func (repo *PostgresRepo) DeletePlayer(ctx context.Context, roomID, playerID string) error {
	_, err := repo.pool.Exec(ctx, "DELETE FROM players WHERE id = $1 AND room_id = $2", playerID, roomID)
	if err != nil {
		return wrapDatabaseError(err)
	}
	return nil
}

func (repo *PostgresRepo) DeleteRoom(ctx context.Context, roomID string) error {
	// players go with it via ON DELETE CASCADE
	_, err := repo.pool.Exec(ctx, "DELETE FROM rooms WHERE id = $1", roomID)
	if err != nil {
		return wrapDatabaseError(err)
	}
	return nil
}

// ResetConnections forces every persisted player offline. Run once at
// boot: no transport session survives a restart. Rooms are left in place
// even when every member ends up disconnected.
func (repo *PostgresRepo) ResetConnections(ctx context.Context) error {
	_, err := repo.pool.Exec(ctx, "UPDATE players SET connected = FALSE")
	if err != nil {
		return wrapDatabaseError(err)
	}
	return nil
}

// LoadRooms rebuilds the persisted rosters, players in join order.
func (repo *PostgresRepo) LoadRooms(ctx context.Context) ([]*domain.Room, error) {
	roomRows, err := repo.pool.Query(ctx,
		"SELECT id, admin_id, word_pack, turn_seconds, created_at FROM rooms")
	if err != nil {
		return nil, wrapDatabaseError(err)
	}
	defer roomRows.Close()

	byID := make(map[string]*domain.Room)
	var rooms []*domain.Room
	for roomRows.Next() {
		room := &domain.Room{}
		if err := roomRows.Scan(&room.ID, &room.AdminID, &room.Settings.WordPack,
			&room.Settings.TurnSeconds, &room.CreatedAt); err != nil {
			return nil, wrapDatabaseError(err)
		}
		byID[room.ID] = room
		rooms = append(rooms, room)
	}
	if err := roomRows.Err(); err != nil {
		return nil, wrapDatabaseError(err)
	}

	playerRows, err := repo.pool.Query(ctx,
		"SELECT id, room_id, username, team, role, connected, admin FROM players ORDER BY seq")
	if err != nil {
		return nil, wrapDatabaseError(err)
	}
	defer playerRows.Close()

	for playerRows.Next() {
		var roomID, team, role string
		player := &domain.Player{}
		if err := playerRows.Scan(&player.ID, &roomID, &player.Username, &team, &role,
			&player.Connected, &player.Admin); err != nil {
			return nil, wrapDatabaseError(err)
		}
		player.Team = domain.Team(team)
		player.Role = domain.Role(role)
		if room, ok := byID[roomID]; ok {
			room.Players = append(room.Players, player)
		}
	}
	if err := playerRows.Err(); err != nil {
		return nil, wrapDatabaseError(err)
	}
	return rooms, nil
}

// Draw implements the game.WordSupply interface on top of the words table.
func (repo *PostgresRepo) Draw(pack string, count int) ([]string, error) {
	ctx := context.Background()

	rows, err := repo.pool.Query(ctx,
		"SELECT UPPER(word) FROM words WHERE pack = $1 ORDER BY RANDOM() LIMIT $2", pack, count)
	if err != nil {
		return nil, wrapDatabaseError(err)
	}
	defer rows.Close()

	words := make([]string, 0, count)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, wrapDatabaseError(err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDatabaseError(err)
	}
	if len(words) == 0 {
		return nil, domain.ErrUnknownWordPack
	}
	if len(words) < count {
		return nil, domain.ErrNotEnoughWords
	}
	return words, nil
}

func wrapDatabaseError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
}
