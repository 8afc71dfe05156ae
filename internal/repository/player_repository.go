package repository

import (
	"context"
	"fmt"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/player"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// PlayerRepository defines the interface for player data operations.
type PlayerRepository interface {
	FindForReconnection(ctx context.Context, id string) (gameID string, status player.PlayerStatus, err error)
	UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error
	SetInitialState(ctx context.Context, id, serverID string) error
	UpdateForGame(ctx context.Context, id, gameID string) error
	SetOffline(ctx context.Context, id string) error
}

type redisPlayerRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPlayerRepository creates a new Redis-based PlayerRepository.
func NewPlayerRepository(rdb *redis.Client, ttl time.Duration) PlayerRepository {
	return &redisPlayerRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// FindForReconnection retrieves the game a returning player was in.
func (r *redisPlayerRepository) FindForReconnection(ctx context.Context, id string) (string, player.PlayerStatus, error) {
	ctx, span := tracer.Start(ctx, "PlayerRepository.FindForReconnection")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return "", "", err
	}
	return data["game_id"], player.PlayerStatus(data["connection_status"]), nil
}

// UpdateConnectionStatus updates only the connection status of a player.
func (r *redisPlayerRepository) UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateConnectionStatus")
	defer span.End()

	return r.rdb.HSet(ctx, playerKey(id), "connection_status", string(status)).Err()
}

// SetInitialState sets the initial data for a newly registered player.
func (r *redisPlayerRepository) SetInitialState(ctx context.Context, id, serverID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.SetInitialState")
	defer span.End()

	key := playerKey(id)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, key, "server_id", serverID)
	pipe.HSet(ctx, key, "status", "waiting")
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// UpdateForGame records the game a player is now playing.
func (r *redisPlayerRepository) UpdateForGame(ctx context.Context, id, gameID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateForGame")
	defer span.End()

	key := playerKey(id)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, key, "game_id", gameID)
	pipe.HSet(ctx, key, "status", "in_game")
	pipe.HSet(ctx, key, "connection_status", string(player.StatusConnected))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// SetOffline marks a player as offline and forgets their game.
func (r *redisPlayerRepository) SetOffline(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.SetOffline")
	defer span.End()

	key := playerKey(id)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, key, "status", "offline")
	pipe.HDel(ctx, key, "game_id")
	_, err := pipe.Exec(ctx)
	return err
}
