package hub

import (
	"context"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/room"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration puts a connected player into a room: back into the game
// they left if it is still alive, otherwise into a new one.
func (h *Hub) handleRegistration(runCtx context.Context, req *types.RegistrationRequest) {
	parent := runCtx
	if req.Ctx != nil {
		parent = context.WithoutCancel(req.Ctx)
	}
	ctx, span := tracer.Start(parent, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
	))
	defer span.End()

	p := req.Player
	if err := h.playerRepo.SetInitialState(ctx, p.ID, h.serverID); err != nil {
		slog.ErrorContext(ctx, "Failed to set initial player state", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set initial player state")
	}

	gameID, _, err := h.playerRepo.FindForReconnection(ctx, p.ID)
	if err != nil {
		slog.WarnContext(ctx, "Reconnection lookup failed, starting a new game", "player.id", p.ID, "error", err)
		span.RecordError(err)
	}

	if gameID != "" && h.reconnect(runCtx, ctx, p, gameID) {
		span.SetAttributes(attribute.Bool("player.reconnected", true), attribute.String("room.id", gameID))
		return
	}

	g, err := h.session.Start(ctx, p.ID, req.First)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to start game", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start game")
		h.reject(ctx, p, "could not start game")
		return
	}
	h.markInGame(ctx, p.ID, g.ID)
	h.startRoom(runCtx, g.ID, p)
	span.SetAttributes(attribute.String("room.id", g.ID))
}

// reconnect attaches p to gameID, reporting false if that game is gone.
func (h *Hub) reconnect(runCtx, ctx context.Context, p *player.Player, gameID string) bool {
	ctx, span := tracer.Start(ctx, "hub.reconnect", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", gameID),
	))
	defer span.End()

	if existing, ok := h.lookupRoom(gameID); ok {
		if existing.Attach(p) {
			h.markInGame(ctx, p.ID, gameID)
			slog.InfoContext(ctx, "Reconnected player added back to existing local room", "player.id", p.ID, "room.id", gameID)
			return true
		}
		h.removeRoom(gameID)
	}

	g, err := h.session.Get(ctx, gameID)
	if err != nil {
		slog.InfoContext(ctx, "Previous game is gone", "player.id", p.ID, "room.id", gameID, "error", err)
		return false
	}
	if g.PlayerID != p.ID {
		slog.WarnContext(ctx, "Previous game belongs to another player", "player.id", p.ID, "room.id", gameID)
		span.SetStatus(codes.Error, "Game owner mismatch")
		return false
	}

	h.markInGame(ctx, p.ID, gameID)
	h.startRoom(runCtx, gameID, p)
	slog.InfoContext(ctx, "Creating new local room for reconnected player", "player.id", p.ID, "room.id", gameID)
	return true
}

func (h *Hub) startRoom(runCtx context.Context, gameID string, p *player.Player) {
	r := room.NewRoom(gameID, p, h.session, h.playerRepo, h.roomOpts)
	h.mu.Lock()
	h.rooms[gameID] = r
	h.mu.Unlock()
	go r.Start(runCtx, h.unregister)
}
