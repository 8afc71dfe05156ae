package game

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, cells ...string) Board {
	t.Helper()
	b, err := ParseBoard(cells)
	if err != nil {
		t.Fatalf("ParseBoard() error = %v", err)
	}
	return b
}

func TestHasWin(t *testing.T) {
	tests := []struct {
		name      string
		board     []string
		wantHuman bool
		wantAI    bool
	}{
		{
			name:  "No winner - empty board",
			board: []string{"", "", "", "", "", "", "", "", ""},
		},
		{
			name:  "No winner - partial board",
			board: []string{"X", "", "", "", "O", "", "", "", ""},
		},
		{
			name:   "AI wins - first row",
			board:  []string{"X", "X", "X", "", "O", "", "", "", "O"},
			wantAI: true,
		},
		{
			name:      "Human wins - second column",
			board:     []string{"X", "O", "", "X", "O", "", "", "O", ""},
			wantHuman: true,
		},
		{
			name:   "AI wins - main diagonal",
			board:  []string{"X", "", "", "", "X", "", "", "", "X"},
			wantAI: true,
		},
		{
			name:      "Human wins - anti-diagonal",
			board:     []string{"", "", "O", "", "O", "", "O", "", ""},
			wantHuman: true,
		},
		{
			name:  "No winner - full board (draw)",
			board: []string{"O", "X", "O", "O", "X", "X", "X", "O", "O"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.board...)
			if got := b.HasWin(Human); got != tt.wantHuman {
				t.Errorf("HasWin(Human) got = %v, want %v", got, tt.wantHuman)
			}
			if got := b.HasWin(AI); got != tt.wantAI {
				t.Errorf("HasWin(AI) got = %v, want %v", got, tt.wantAI)
			}
		})
	}
}

func TestEveryWinPattern(t *testing.T) {
	for _, p := range WinPatterns {
		var b Board
		for _, i := range p {
			b[i] = AI
		}
		if !b.HasWin(AI) {
			t.Errorf("pattern %v not detected as a win", p)
		}
		if b.HasWin(Human) {
			t.Errorf("pattern %v detected as a human win", p)
		}
	}
}

func TestIsFull(t *testing.T) {
	tests := []struct {
		name  string
		board []string
		want  bool
	}{
		{
			name:  "Empty board is not full",
			board: []string{"", "", "", "", "", "", "", "", ""},
			want:  false,
		},
		{
			name:  "Partial board is not full",
			board: []string{"X", "", "", "", "O", "", "", "", ""},
			want:  false,
		},
		{
			name:  "Full board is full",
			board: []string{"X", "O", "X", "X", "O", "O", "O", "X", "X"},
			want:  true,
		},
		{
			name:  "Full board with winner is full",
			board: []string{"X", "X", "X", "O", "O", "X", "O", "X", "O"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustParse(t, tt.board...).IsFull(); got != tt.want {
				t.Errorf("IsFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name  string
		board []string
		want  bool
	}{
		{"Empty board", []string{"", "", "", "", "", "", "", "", ""}, false},
		{"Ongoing", []string{"O", "O", "", "", "X", "", "", "", ""}, false},
		{"Human won", []string{"O", "O", "O", "X", "X", "", "", "", ""}, true},
		{"AI won", []string{"X", "O", "", "X", "O", "", "X", "", ""}, true},
		{"Draw", []string{"O", "X", "O", "O", "X", "X", "X", "O", "O"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.board...)
			first, second := b.IsTerminal(), b.IsTerminal()
			if first != tt.want {
				t.Errorf("IsTerminal() got = %v, want %v", first, tt.want)
			}
			if first != second {
				t.Errorf("IsTerminal() not idempotent: %v then %v", first, second)
			}
		})
	}
}

func TestApplyMove(t *testing.T) {
	t.Run("Sets the cell and leaves the original untouched", func(t *testing.T) {
		var b Board
		next, err := b.ApplyMove(4, Human)
		if err != nil {
			t.Fatalf("ApplyMove() error = %v", err)
		}
		if next[4] != Human {
			t.Errorf("ApplyMove() cell 4 = %q, want %q", next[4], Human)
		}
		if b[4] != Empty {
			t.Errorf("ApplyMove() mutated the receiver")
		}
	})

	invalid := []struct {
		name  string
		index int
		mark  PlayerMark
	}{
		{"Negative index", -1, Human},
		{"Index past the board", 9, AI},
		{"Occupied cell", 0, AI},
		{"Empty mark", 3, Empty},
		{"Unknown mark", 3, PlayerMark("Z")},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, "O", "", "", "", "", "", "", "", "")
			got, err := b.ApplyMove(tt.index, tt.mark)
			if !errors.Is(err, ErrInvalidMove) {
				t.Fatalf("ApplyMove() error = %v, want ErrInvalidMove", err)
			}
			if got != b {
				t.Errorf("ApplyMove() changed the board on error")
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name       string
		board      []string
		wantStatus Status
		wantWinner PlayerMark
	}{
		{"In progress", []string{"O", "", "", "", "X", "", "", "", ""}, StatusInProgress, Empty},
		{"Human won", []string{"O", "O", "O", "X", "X", "", "", "", ""}, StatusWon, Human},
		{"AI won", []string{"O", "O", "X", "", "X", "", "X", "", ""}, StatusWon, AI},
		{"Draw", []string{"O", "X", "O", "O", "X", "X", "X", "O", "O"}, StatusDraw, Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, winner := mustParse(t, tt.board...).Outcome()
			if status != tt.wantStatus || winner != tt.wantWinner {
				t.Errorf("Outcome() got = (%v, %q), want (%v, %q)", status, winner, tt.wantStatus, tt.wantWinner)
			}
		})
	}
}

func TestEmptyCells(t *testing.T) {
	b := mustParse(t, "O", "", "X", "", "O", "", "X", "", "")
	want := []int{1, 3, 5, 7, 8}
	got := b.EmptyCells()
	if len(got) != len(want) {
		t.Fatalf("EmptyCells() got = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EmptyCells() got = %v, want %v", got, want)
		}
	}
}

func TestParseBoard(t *testing.T) {
	if _, err := ParseBoard([]string{"X", "O"}); err == nil {
		t.Error("ParseBoard() accepted a short board")
	}
	if _, err := ParseBoard([]string{"X", "O", "", "", "", "", "", "", "Q"}); err == nil {
		t.Error("ParseBoard() accepted an unknown mark")
	}
	b := mustParse(t, "X", "O", "", "", "", "", "", "", "")
	if got := b.Strings(); got[0] != "X" || got[1] != "O" || got[2] != "" {
		t.Errorf("Strings() got = %v", got)
	}
}
