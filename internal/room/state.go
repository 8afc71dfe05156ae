package room

import (
	"context"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// sendState tells the player their mark and the current board, and resumes
// the AI turn if the game was left waiting on it.
func (r *Room) sendState(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.sendState", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("player.id", r.player.ID),
	))
	defer span.End()

	g, err := r.session.Get(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Could not get game state", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not get game state")
		r.send(ctx, proto.NewErrorMessage(reasonFor(err)))
		return
	}

	r.send(ctx, &proto.PlayerAssignmentMessage{
		Type:     proto.TypeAssignment,
		PlayerID: r.player.ID,
		GameID:   g.ID,
		Mark:     game.Human,
	})
	r.broadcastGame(ctx, g)
	if !r.thinking {
		r.scheduleIfAITurn(g)
	}
}

// handleDisconnect records the drop and starts the reconnection grace period.
func (r *Room) handleDisconnect(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.handleDisconnect", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	p.MarkDisconnected()
	if err := r.playerRepo.UpdateConnectionStatus(ctx, p.ID, player.StatusDisconnected); err != nil {
		slog.ErrorContext(ctx, "Failed to set player status to disconnected", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set player status to disconnected")
	}
	r.graceTimer.Reset(r.opts.ReconnectGrace)
	slog.InfoContext(ctx, "Player disconnected. Waiting for reconnection.", "player.id", p.ID, "room.id", r.ID)
}

// discard drops the game and forgets the player's association with it.
func (r *Room) discard(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.discard", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if err := r.session.End(ctx, r.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete game", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete game")
	}
	if err := r.playerRepo.SetOffline(ctx, r.player.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to set player offline", "player.id", r.player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set player offline")
	}
}
