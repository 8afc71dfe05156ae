package proto

import "ctchen222/minimax-tic-tac-toe/internal/game"

// Client message types.
const (
	TypeMove  = "move"
	TypeReset = "reset"
	TypeHint  = "hint"
)

// Server message types.
const (
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move reset hint"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move,omitempty,min=0,max=8"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string          `json:"type"`
	Reason string          `json:"reason,omitempty"`
	Board  []string        `json:"board,omitempty"`
	Next   game.PlayerMark `json:"next,omitempty"`
	Status game.Status     `json:"status,omitempty"`
	Winner game.PlayerMark `json:"winner,omitempty"`
	Index  *int            `json:"index,omitempty"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
type PlayerAssignmentMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId,omitempty"`
	GameID   string          `json:"gameId,omitempty"`
	Mark     game.PlayerMark `json:"mark"`
}

// NewUpdateMessage snapshots g for the client.
func NewUpdateMessage(g *game.Game) ServerToClientMessage {
	return ServerToClientMessage{
		Type:   TypeUpdate,
		Board:  g.Board.Strings(),
		Next:   g.Turn,
		Status: g.Status,
		Winner: g.Winner,
	}
}

// NewHintMessage suggests index to the human.
func NewHintMessage(index int) ServerToClientMessage {
	return ServerToClientMessage{Type: TypeHint, Index: &index}
}

// NewErrorMessage reports a rejected request.
func NewErrorMessage(reason string) ServerToClientMessage {
	return ServerToClientMessage{Type: TypeError, Reason: reason}
}
