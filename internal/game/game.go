package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Status is the whole-game state: in progress, won, or drawn.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDraw       Status = "draw"
)

// First-player preferences accepted by ChooseFirstPlayer.
const (
	FirstHuman  = "human"
	FirstAI     = "ai"
	FirstRandom = "random"
)

var (
	ErrGameFinished = errors.New("game already finished")
	ErrNotYourTurn  = errors.New("not player's turn")
	ErrUnknownFirst = errors.New("unknown first player preference")
)

// Game is a single human vs AI session.
type Game struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"player_id"`
	Board     Board      `json:"board"`
	Turn      PlayerMark `json:"turn"`
	Status    Status     `json:"status"`
	Winner    PlayerMark `json:"winner"`
	FirstTurn PlayerMark `json:"first_turn"`
}

func NewGame(id, playerID string, first PlayerMark) *Game {
	if !first.Valid() {
		first = Human
	}
	return &Game{
		ID:        id,
		PlayerID:  playerID,
		Board:     Board{},
		Turn:      first,
		Status:    StatusInProgress,
		Winner:    Empty,
		FirstTurn: first,
	}
}

// Move places mark at index if it is mark's turn and the game is still running.
// The board is only replaced when the move is accepted.
func (g *Game) Move(mark PlayerMark, index int) error {
	if g.IsOver() {
		return ErrGameFinished
	}
	if g.Turn != mark {
		return ErrNotYourTurn
	}

	board, err := g.Board.ApplyMove(index, mark)
	if err != nil {
		return err
	}
	g.Board = board

	g.Status, g.Winner = board.Outcome()
	if g.IsOver() {
		g.Turn = Empty
	} else {
		g.Turn = mark.Opponent()
	}
	return nil
}

// Reset recreates the board from scratch, keeping identity and first player.
func (g *Game) Reset() {
	g.Board = Board{}
	g.Turn = g.FirstTurn
	g.Status = StatusInProgress
	g.Winner = Empty
}

func (g *Game) IsOver() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// ChooseFirstPlayer resolves a first-player preference to a mark.
func ChooseFirstPlayer(pref string) (PlayerMark, error) {
	switch pref {
	case "", FirstHuman:
		return Human, nil
	case FirstAI:
		return AI, nil
	case FirstRandom:
		return randomlyChooseFirstPlayer(), nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownFirst, pref)
	}
}

func randomlyChooseFirstPlayer() PlayerMark {
	if rand.IntN(2) == 0 {
		return Human
	}
	return AI
}
