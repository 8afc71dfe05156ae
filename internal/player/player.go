package player

import "time"

// PlayerStatus is the connection state of a player.
type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"
	StatusDisconnected PlayerStatus = "disconnected"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player represents the human in a room.
type Player struct {
	ID       string
	Conn     Connection
	Status   PlayerStatus
	LastSeen time.Time
}

// NewPlayer creates a connected player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:       id,
		Conn:     conn,
		Status:   StatusConnected,
		LastSeen: time.Now(),
	}
}

// MarkDisconnected records when the player dropped.
func (p *Player) MarkDisconnected() {
	p.Status = StatusDisconnected
	p.LastSeen = time.Now()
}

// Away reports how long a disconnected player has been gone, or zero while
// connected.
func (p *Player) Away() time.Duration {
	if p.Status != StatusDisconnected {
		return 0
	}
	return time.Since(p.LastSeen)
}
