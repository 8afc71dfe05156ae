package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/session"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

const defaultHeartbeatPeriod = 10 * time.Second

var tracer = otel.Tracer("room")

// Options tunes the timing of a room.
type Options struct {
	// ThinkDelay is how long the AI waits before answering a human move.
	ThinkDelay      time.Duration
	HeartbeatPeriod time.Duration
	// ReconnectGrace is how long a disconnected player may take to come back
	// before the game is discarded.
	ReconnectGrace time.Duration
}

// Room runs one human vs AI game. All game mutations happen on its run loop.
type Room struct {
	ID         string
	session    session.Service
	playerRepo repository.PlayerRepository
	opts       Options

	player     *player.Player
	incoming   chan *types.PlayerMessage
	attach     chan *player.Player
	disconnect chan *player.Player

	thinkTimer *time.Timer
	thinking   bool
	graceTimer *time.Timer

	closeOnce sync.Once
	Done      chan struct{}
}

// NewRoom creates a room for the game id, played by p.
func NewRoom(id string, p *player.Player, svc session.Service, playerRepo repository.PlayerRepository, opts Options) *Room {
	if opts.HeartbeatPeriod <= 0 {
		opts.HeartbeatPeriod = defaultHeartbeatPeriod
	}
	return &Room{
		ID:         id,
		session:    svc,
		playerRepo: playerRepo,
		opts:       opts,
		player:     p,
		incoming:   make(chan *types.PlayerMessage, 10),
		attach:     make(chan *player.Player),
		disconnect: make(chan *player.Player, 1),
		Done:       make(chan struct{}),
	}
}

// Start launches the read pump and runs the game loop until the room closes.
// The room id is sent on closed once the room is gone for good.
func (r *Room) Start(ctx context.Context, closed chan<- string) {
	go r.ReadPump(r.player)
	r.run(ctx, closed)
}

func (r *Room) run(ctx context.Context, closed chan<- string) {
	r.thinkTimer = time.NewTimer(r.opts.ThinkDelay)
	r.thinkTimer.Stop()
	r.graceTimer = time.NewTimer(r.opts.ReconnectGrace)
	r.graceTimer.Stop()
	pingTicker := time.NewTicker(r.opts.HeartbeatPeriod)

	defer func() {
		r.thinkTimer.Stop()
		r.graceTimer.Stop()
		pingTicker.Stop()
		r.Close()
	}()

	r.sendState(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Room run goroutine stopping.", "room.id", r.ID)
			return

		case <-r.Done:
			return

		case msg := <-r.incoming:
			r.HandleMessage(ctx, msg.Player, msg.Message)

		case <-r.thinkTimer.C:
			r.thinking = false
			r.playAI(ctx)

		case p := <-r.attach:
			r.graceTimer.Stop()
			if r.player != nil && r.player != p {
				r.player.Conn.Close()
			}
			r.player = p
			slog.InfoContext(ctx, "Player reattached to room", "player.id", p.ID, "room.id", r.ID)
			r.sendState(ctx)
			go r.ReadPump(p)

		case p := <-r.disconnect:
			if p != r.player {
				continue
			}
			r.handleDisconnect(ctx, p)

		case <-r.graceTimer.C:
			if r.player.Status != player.StatusDisconnected {
				continue
			}
			slog.InfoContext(ctx, "Player exceeded reconnection grace period. Closing room.", "player.id", r.player.ID, "room.id", r.ID, "player.away", r.player.Away())
			r.discard(ctx)
			r.Close()
			select {
			case closed <- r.ID:
			case <-ctx.Done():
			}
			return

		case <-pingTicker.C:
			if r.player.Status == player.StatusConnected {
				if err := r.player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", r.player.ID, "error", err)
				}
			}
		}
	}
}

// armThink schedules the AI reply after the think delay.
func (r *Room) armThink() {
	r.thinking = true
	r.thinkTimer.Reset(r.opts.ThinkDelay)
}

func (r *Room) cancelThink() {
	r.thinkTimer.Stop()
	r.thinking = false
}

// scheduleIfAITurn arms the think timer when the AI is to move in g.
func (r *Room) scheduleIfAITurn(g *game.Game) {
	if !g.IsOver() && g.Turn == game.AI {
		r.armThink()
	}
}
