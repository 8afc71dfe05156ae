package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/validator"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reasons sent back in error messages.
const (
	ReasonInvalidMessage = "invalid message"
	ReasonInvalidMove    = "invalid move"
	ReasonNotYourTurn    = "not your turn"
	ReasonGameOver       = "game is over"
	ReasonThinking       = "opponent is thinking"
	ReasonGameNotFound   = "game not found"
	ReasonInternal       = "internal error"
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
func (r *Room) HandleMessage(ctx context.Context, p *player.Player, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if p != r.player || p.Status == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from detached player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from detached player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.send(ctx, proto.NewErrorMessage(ReasonInvalidMessage))
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.send(ctx, proto.NewErrorMessage(ReasonInvalidMessage))
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		r.handleMove(ctx, *message.Index)
	case proto.TypeReset:
		r.handleReset(ctx)
	case proto.TypeHint:
		r.handleHint(ctx)
	}
}

// handleMove applies the human's move and schedules the AI reply.
func (r *Room) handleMove(ctx context.Context, index int) {
	ctx, span := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	if r.thinking {
		span.SetStatus(codes.Error, "Move while opponent is thinking")
		r.send(ctx, proto.NewErrorMessage(ReasonThinking))
		return
	}

	g, err := r.session.PlayHuman(ctx, r.ID, index)
	if err != nil {
		slog.WarnContext(ctx, "move rejected", "room.id", r.ID, "move.index", index, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		r.send(ctx, proto.NewErrorMessage(reasonFor(err)))
		return
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	r.broadcastGame(ctx, g)
	r.scheduleIfAITurn(g)
}

// handleReset starts the game over, dropping any pending AI reply.
func (r *Room) handleReset(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.handleReset", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.cancelThink()
	g, err := r.session.Reset(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to reset game", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reset game")
		r.send(ctx, proto.NewErrorMessage(reasonFor(err)))
		return
	}

	r.broadcastGame(ctx, g)
	r.scheduleIfAITurn(g)
}

func (r *Room) handleHint(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.handleHint", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if r.thinking {
		r.send(ctx, proto.NewErrorMessage(ReasonThinking))
		return
	}

	index, err := r.session.Hint(ctx, r.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to compute hint")
		r.send(ctx, proto.NewErrorMessage(reasonFor(err)))
		return
	}
	span.SetAttributes(attribute.Int("hint.index", index))
	r.send(ctx, proto.NewHintMessage(index))
}

// playAI applies the AI reply once the think delay has elapsed.
func (r *Room) playAI(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.playAI", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	g, err := r.session.PlayAI(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "AI move failed", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "AI move failed")
		r.send(ctx, proto.NewErrorMessage(reasonFor(err)))
		return
	}
	r.broadcastGame(ctx, g)
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		return ReasonInvalidMove
	case errors.Is(err, game.ErrNotYourTurn):
		return ReasonNotYourTurn
	case errors.Is(err, game.ErrGameFinished):
		return ReasonGameOver
	case errors.Is(err, repository.ErrGameNotFound):
		return ReasonGameNotFound
	default:
		return ReasonInternal
	}
}
