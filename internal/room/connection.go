package room

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// send writes message to the room's player if they are connected.
func (r *Room) send(ctx context.Context, message any) {
	_, span := tracer.Start(ctx, "room.send", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	p := r.player
	if p == nil || p.Status != player.StatusConnected {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message to player")
	}
}

func (r *Room) broadcastGame(ctx context.Context, g *game.Game) {
	r.send(ctx, proto.NewUpdateMessage(g))
}

// ReadPump pumps messages from the websocket connection to the room's run loop.
func (r *Room) ReadPump(p *player.Player) {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	defer func() {
		p.Conn.Close()
		select {
		case r.disconnect <- p:
		case <-r.Done:
		}
	}()

	for {
		_, msg, err := p.Conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "room.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}
		select {
		case r.incoming <- &types.PlayerMessage{Player: p, Message: msg}:
		case <-r.Done:
			return
		}
	}
}
