package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/game"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Redis hash fields of a game.
const (
	FieldBoard     = "board"
	FieldPlayerID  = "player_id"
	FieldTurn      = "turn"
	FieldStatus    = "status"
	FieldWinner    = "winner"
	FieldFirstTurn = "first_turn"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository defines the interface for live game state operations.
type GameRepository interface {
	Create(ctx context.Context, g *game.Game) error
	FindByID(ctx context.Context, id string) (*game.Game, error)
	ApplyMove(ctx context.Context, id string, mark game.PlayerMark, index int) (*game.Game, error)
	Save(ctx context.Context, g *game.Game) error
	Delete(ctx context.Context, id string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository. Games expire
// after ttl without activity; zero keeps them forever.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

func gameKey(id string) string {
	return fmt.Sprintf("game:%s", id)
}

// Create stores a new game.
func (r *redisGameRepository) Create(ctx context.Context, g *game.Game) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create", trace.WithAttributes(
		attribute.String("game.id", g.ID),
	))
	defer span.End()

	pipe := r.rdb.TxPipeline()
	if err := r.write(ctx, pipe, g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to encode game")
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return fmt.Errorf("failed to create game in redis: %w", err)
	}
	return nil
}

// FindByID retrieves the current game state from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, gameKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read game")
		return nil, fmt.Errorf("failed to get game state from redis: %w", err)
	}
	return decodeGame(id, data)
}

// ApplyMove applies a move to the stored game inside a WATCH transaction.
func (r *redisGameRepository) ApplyMove(ctx context.Context, id string, mark game.PlayerMark, index int) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.ApplyMove", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.String("move.mark", string(mark)),
		attribute.Int("move.index", index),
	))
	defer span.End()

	key := gameKey(id)
	var updated *game.Game

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}

		g, err := decodeGame(id, data)
		if err != nil {
			return err
		}
		if err := g.Move(mark, index); err != nil {
			return err
		}

		pipe := tx.TxPipeline()
		if err := r.write(ctx, pipe, g); err != nil {
			return err
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		updated = g
		return nil
	}

	if err := r.rdb.Watch(ctx, txf, key); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply move")
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}
	return updated, nil
}

// Save overwrites the stored game, e.g. after a reset.
func (r *redisGameRepository) Save(ctx context.Context, g *game.Game) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Save", trace.WithAttributes(
		attribute.String("game.id", g.ID),
	))
	defer span.End()

	pipe := r.rdb.TxPipeline()
	if err := r.write(ctx, pipe, g); err != nil {
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save game")
		return fmt.Errorf("failed to save game in redis: %w", err)
	}
	return nil
}

// Delete removes the game.
func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	return r.rdb.Del(ctx, gameKey(id)).Err()
}

func (r *redisGameRepository) write(ctx context.Context, pipe redis.Pipeliner, g *game.Game) error {
	boardJSON, err := json.Marshal(g.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	key := gameKey(g.ID)
	pipe.HSet(ctx, key, map[string]interface{}{
		FieldBoard:     boardJSON,
		FieldPlayerID:  g.PlayerID,
		FieldTurn:      string(g.Turn),
		FieldStatus:    string(g.Status),
		FieldWinner:    string(g.Winner),
		FieldFirstTurn: string(g.FirstTurn),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	return nil
}

func decodeGame(id string, data map[string]string) (*game.Game, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	var board game.Board
	if err := json.Unmarshal([]byte(data[FieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	return &game.Game{
		ID:        id,
		PlayerID:  data[FieldPlayerID],
		Board:     board,
		Turn:      game.PlayerMark(data[FieldTurn]),
		Status:    game.Status(data[FieldStatus]),
		Winner:    game.PlayerMark(data[FieldWinner]),
		FirstTurn: game.PlayerMark(data[FieldFirstTurn]),
	}, nil
}
