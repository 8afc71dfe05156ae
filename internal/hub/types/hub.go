package types

import (
	"context"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
)

// RegistrationRequest represents a request to register a player.
type RegistrationRequest struct {
	Player *player.Player
	// First is who moves first when a new game has to be created.
	First game.PlayerMark
	Ctx   context.Context
}

// PlayerMessage is a raw client message tagged with its sender.
type PlayerMessage struct {
	Player  *player.Player
	Message []byte
}
