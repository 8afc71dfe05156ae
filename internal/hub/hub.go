package hub

import (
	"context"
	"log/slog"
	"sync"

	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/internal/session"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("hub")

// Hub manages the rooms running on this server.
type Hub struct {
	serverID   string
	mu         sync.RWMutex
	rooms      map[string]*room.Room
	register   chan *types.RegistrationRequest
	unregister chan string
	session    session.Service
	playerRepo repository.PlayerRepository
	roomOpts   room.Options
}

// NewHub creates a new hub.
func NewHub(svc session.Service, playerRepo repository.PlayerRepository, roomOpts room.Options) *Hub {
	return &Hub{
		serverID:   uuid.New().String(),
		rooms:      make(map[string]*room.Room),
		register:   make(chan *types.RegistrationRequest),
		unregister: make(chan string),
		session:    svc,
		playerRepo: playerRepo,
		roomOpts:   roomOpts,
	}
}

// Run serves registrations until ctx is cancelled. Rooms share ctx and stop
// with it.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Hub started", "server.id", h.serverID)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Hub stopping", "server.id", h.serverID)
			return

		case req := <-h.register:
			h.handleRegistration(ctx, req)

		case roomID := <-h.unregister:
			h.removeRoom(roomID)
			slog.InfoContext(ctx, "Room closed", "room.id", roomID)
		}
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// HasRoom reports whether the game is being played in a room on this server.
func (h *Hub) HasRoom(gameID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[gameID]
	return ok
}

func (h *Hub) lookupRoom(gameID string) (*room.Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[gameID]
	return r, ok
}

func (h *Hub) removeRoom(gameID string) {
	h.mu.Lock()
	delete(h.rooms, gameID)
	h.mu.Unlock()
}
