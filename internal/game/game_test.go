package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	g := NewGame("g1", "p1", AI)

	require.NotNil(t, g)
	assert.Equal(t, Board{}, g.Board)
	assert.Equal(t, AI, g.Turn)
	assert.Equal(t, AI, g.FirstTurn)
	assert.Equal(t, StatusInProgress, g.Status)
	assert.Equal(t, Empty, g.Winner)

	// An unknown first player falls back to the human.
	assert.Equal(t, Human, NewGame("g2", "p1", Empty).Turn)
}

func TestGame_Move(t *testing.T) {
	t.Run("Alternates turns", func(t *testing.T) {
		g := NewGame("g1", "p1", Human)

		require.NoError(t, g.Move(Human, 0))
		assert.Equal(t, AI, g.Turn)
		require.NoError(t, g.Move(AI, 4))
		assert.Equal(t, Human, g.Turn)
		assert.Equal(t, Board{Human, Empty, Empty, Empty, AI}, g.Board)
	})

	t.Run("Rejects out of turn", func(t *testing.T) {
		g := NewGame("g1", "p1", Human)

		err := g.Move(AI, 0)
		require.ErrorIs(t, err, ErrNotYourTurn)
		assert.Equal(t, Board{}, g.Board)
	})

	t.Run("Rejects occupied cell and keeps the turn", func(t *testing.T) {
		g := NewGame("g1", "p1", Human)
		require.NoError(t, g.Move(Human, 0))

		err := g.Move(AI, 0)
		require.ErrorIs(t, err, ErrInvalidMove)
		assert.Equal(t, AI, g.Turn)
	})

	t.Run("Win ends the game", func(t *testing.T) {
		g := NewGame("g1", "p1", Human)
		for i, idx := range []int{0, 3, 1, 4, 2} {
			mark := Human
			if i%2 == 1 {
				mark = AI
			}
			require.NoError(t, g.Move(mark, idx))
		}

		assert.Equal(t, StatusWon, g.Status)
		assert.Equal(t, Human, g.Winner)
		assert.Equal(t, Empty, g.Turn)
		assert.ErrorIs(t, g.Move(AI, 5), ErrGameFinished)
	})

	t.Run("Full board is a draw", func(t *testing.T) {
		g := NewGame("g1", "p1", Human)
		// O X O / O X X / X O O
		moves := []struct {
			mark  PlayerMark
			index int
		}{
			{Human, 0}, {AI, 1}, {Human, 2}, {AI, 4}, {Human, 3},
			{AI, 5}, {Human, 7}, {AI, 6}, {Human, 8},
		}
		for _, m := range moves {
			require.NoError(t, g.Move(m.mark, m.index))
		}

		assert.Equal(t, StatusDraw, g.Status)
		assert.Equal(t, Empty, g.Winner)
		assert.True(t, g.IsOver())
	})
}

func TestGame_Reset(t *testing.T) {
	g := NewGame("g1", "p1", AI)
	require.NoError(t, g.Move(AI, 4))

	g.Reset()

	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, Board{}, g.Board)
	assert.Equal(t, AI, g.Turn)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestChooseFirstPlayer(t *testing.T) {
	mark, err := ChooseFirstPlayer("")
	require.NoError(t, err)
	assert.Equal(t, Human, mark)

	mark, err = ChooseFirstPlayer(FirstAI)
	require.NoError(t, err)
	assert.Equal(t, AI, mark)

	_, err = ChooseFirstPlayer("bot")
	assert.ErrorIs(t, err, ErrUnknownFirst)

	seenHuman, seenAI := false, false
	for i := 0; i < 100; i++ {
		mark, err := ChooseFirstPlayer(FirstRandom)
		require.NoError(t, err)
		switch mark {
		case Human:
			seenHuman = true
		case AI:
			seenAI = true
		default:
			t.Fatalf("ChooseFirstPlayer(random) returned %q", mark)
		}
	}
	assert.True(t, seenHuman && seenAI, "random preference should yield both players over 100 runs")
}
