package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark occupying a cell: the human, the AI, or nothing.
type PlayerMark string

const (
	Empty PlayerMark = ""
	Human PlayerMark = "O"
	AI    PlayerMark = "X"
)

// Board boundaries
const (
	CellMin = 0
	CellMax = 8
)

var ErrInvalidMove = errors.New("invalid move")

// WinPatterns holds every row, column and diagonal of the board.
var WinPatterns = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid addressed by index 0-8 in row-major order.
// It is a value type, so passing it around never shares state.
type Board [9]PlayerMark

// Valid reports whether the mark belongs to one of the two players.
func (m PlayerMark) Valid() bool {
	return m == Human || m == AI
}

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == AI {
		return Human
	}
	return AI
}

// ApplyMove returns a copy of the board with the cell at index set to mark.
func (b Board) ApplyMove(index int, mark PlayerMark) (Board, error) {
	if index < CellMin || index > CellMax {
		return b, fmt.Errorf("%w: cell %d out of range", ErrInvalidMove, index)
	}
	if !mark.Valid() {
		return b, fmt.Errorf("%w: unknown mark %q", ErrInvalidMove, mark)
	}
	if b[index] != Empty {
		return b, fmt.Errorf("%w: cell %d already occupied", ErrInvalidMove, index)
	}

	b[index] = mark
	return b, nil
}

// HasWin reports whether mark fills at least one winning line.
func (b Board) HasWin(mark PlayerMark) bool {
	for _, p := range WinPatterns {
		if b[p[0]] == mark && b[p[1]] == mark && b[p[2]] == mark {
			return true
		}
	}
	return false
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// IsTerminal reports whether the game on this board is over.
func (b Board) IsTerminal() bool {
	return b.HasWin(Human) || b.HasWin(AI) || b.IsFull()
}

// EmptyCells lists the indexes of empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, len(b))
	for i, cell := range b {
		if cell == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// Winner returns the mark that owns a winning line, or Empty.
func (b Board) Winner() PlayerMark {
	switch {
	case b.HasWin(Human):
		return Human
	case b.HasWin(AI):
		return AI
	default:
		return Empty
	}
}

// Outcome classifies the board into a game status and its winner, if any.
func (b Board) Outcome() (Status, PlayerMark) {
	if winner := b.Winner(); winner != Empty {
		return StatusWon, winner
	}
	if b.IsFull() {
		return StatusDraw, Empty
	}
	return StatusInProgress, Empty
}

// Strings converts the board to plain strings for the wire.
func (b Board) Strings() []string {
	cells := make([]string, len(b))
	for i, cell := range b {
		cells[i] = string(cell)
	}
	return cells
}

// ParseBoard builds a board from nine "X", "O" or "" cells.
func ParseBoard(cells []string) (Board, error) {
	var b Board
	if len(cells) != len(b) {
		return b, fmt.Errorf("board must have %d cells, got %d", len(b), len(cells))
	}
	for i, c := range cells {
		mark := PlayerMark(c)
		if mark != Empty && !mark.Valid() {
			return Board{}, fmt.Errorf("cell %d: unknown mark %q", i, c)
		}
		b[i] = mark
	}
	return b, nil
}
