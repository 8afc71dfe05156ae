package bot

import (
	"errors"
	"fmt"

	"ctchen222/minimax-tic-tac-toe/internal/game"
)

// Leaf scores, always from the AI's point of view.
const (
	WinScore  = 10
	LossScore = -10
	DrawScore = 0
)

var (
	ErrTerminalBoard = errors.New("board is terminal, no move to select")
	ErrInvalidPlayer = errors.New("invalid player to move")
)

// Move is a candidate cell together with the score of the position it leads to.
type Move struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// SelectMove returns the optimal move for player assuming both sides play
// perfectly afterwards. The AI maximises the score and the human minimises it;
// among equally scored moves the lowest index wins.
//
// Scores are not weighted by depth, so a quick win and a slow win look the
// same to the search.
func SelectMove(board game.Board, player game.PlayerMark) (Move, error) {
	s := &search{}
	return s.selectMove(board, player)
}

// Evaluate scores every legal move for player, in index order.
func Evaluate(board game.Board, player game.PlayerMark) ([]Move, error) {
	if err := checkPrecondition(board, player); err != nil {
		return nil, err
	}

	s := &search{}
	empty := board.EmptyCells()
	moves := make([]Move, 0, len(empty))
	for _, i := range empty {
		board[i] = player
		moves = append(moves, Move{Index: i, Score: s.minimax(&board, player.Opponent()).Score})
		board[i] = game.Empty
	}
	return moves, nil
}

func checkPrecondition(board game.Board, player game.PlayerMark) error {
	if !player.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlayer, player)
	}
	if board.IsTerminal() {
		return ErrTerminalBoard
	}
	return nil
}

// search carries per-call bookkeeping for one exhaustive search.
type search struct {
	nodes int
}

func (s *search) selectMove(board game.Board, player game.PlayerMark) (Move, error) {
	if err := checkPrecondition(board, player); err != nil {
		return Move{Index: -1}, err
	}
	// board is a private copy; minimax restores every cell it touches anyway.
	return s.minimax(&board, player), nil
}

// minimax scores the position with player to move. Base cases are checked
// human win first, then AI win, then a full board.
func (s *search) minimax(board *game.Board, player game.PlayerMark) Move {
	s.nodes++

	switch {
	case board.HasWin(game.Human):
		return Move{Index: -1, Score: LossScore}
	case board.HasWin(game.AI):
		return Move{Index: -1, Score: WinScore}
	case board.IsFull():
		return Move{Index: -1, Score: DrawScore}
	}

	best := Move{Index: -1}
	for i := 0; i < len(board); i++ {
		if board[i] != game.Empty {
			continue
		}

		board[i] = player
		score := s.minimax(board, player.Opponent()).Score
		board[i] = game.Empty

		if best.Index == -1 || better(player, score, best.Score) {
			best = Move{Index: i, Score: score}
		}
	}
	return best
}

func better(player game.PlayerMark, score, current int) bool {
	if player == game.AI {
		return score > current
	}
	return score < current
}
