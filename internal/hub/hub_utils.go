package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"

	"github.com/gorilla/websocket"
)

func (h *Hub) markInGame(ctx context.Context, playerID, gameID string) {
	if err := h.playerRepo.UpdateForGame(ctx, playerID, gameID); err != nil {
		slog.ErrorContext(ctx, "Failed to record player's game", "player.id", playerID, "room.id", gameID, "error", err)
	}
}

// reject tells the player why they could not be seated and hangs up.
func (h *Hub) reject(ctx context.Context, p *player.Player, reason string) {
	data, _ := json.Marshal(proto.NewErrorMessage(reason))
	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "Error sending rejection to player", "player.id", p.ID, "error", err)
	}
	p.Conn.Close()
}
