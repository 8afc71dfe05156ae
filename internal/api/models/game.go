package models

import (
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
)

// CreateGameRequest picks who moves first; empty means the server default.
type CreateGameRequest struct {
	First string `json:"first" validate:"first_player"`
}

type MoveRequest struct {
	Index *int `json:"index" binding:"required,min=0,max=8"`
}

// GameResponse is the client view of a game.
type GameResponse struct {
	ID        string          `json:"id"`
	Board     []string        `json:"board"`
	Next      game.PlayerMark `json:"next"`
	Status    game.Status     `json:"status"`
	Winner    game.PlayerMark `json:"winner"`
	FirstTurn game.PlayerMark `json:"first_turn"`
}

func NewGameResponse(g *game.Game) GameResponse {
	return GameResponse{
		ID:        g.ID,
		Board:     g.Board.Strings(),
		Next:      g.Turn,
		Status:    g.Status,
		Winner:    g.Winner,
		FirstTurn: g.FirstTurn,
	}
}

// HintResponse carries the suggested cell and the score of every open cell.
type HintResponse struct {
	Index int        `json:"index"`
	Moves []bot.Move `json:"moves"`
}
