package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/session"

	"github.com/muesli/termenv"
)

var errQuit = errors.New("quit")

// console plays games against the bot on a terminal.
type console struct {
	out        *termenv.Output
	in         *bufio.Scanner
	calculator session.MoveCalculator
	thinkDelay time.Duration
	first      string
}

func newConsole(r io.Reader, w io.Writer, calculator session.MoveCalculator, thinkDelay time.Duration, first string) *console {
	return &console{
		out:        termenv.NewOutput(w),
		in:         bufio.NewScanner(r),
		calculator: calculator,
		thinkDelay: thinkDelay,
		first:      first,
	}
}

// run plays games until the user quits or input ends.
func (c *console) run(ctx context.Context) error {
	for {
		if err := c.playOne(ctx); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		answer, err := c.prompt("Play again? [y/N] ")
		if err != nil || !strings.HasPrefix(strings.ToLower(answer), "y") {
			return nil
		}
	}
}

func (c *console) playOne(ctx context.Context) error {
	first, err := game.ChooseFirstPlayer(c.first)
	if err != nil {
		return err
	}
	g := game.NewGame("local", "you", first)

	for !g.IsOver() {
		c.render(g)
		if g.Turn == game.AI {
			if err := c.botTurn(ctx, g); err != nil {
				return err
			}
			continue
		}
		if err := c.humanTurn(ctx, g); err != nil {
			return err
		}
	}

	c.render(g)
	c.announce(g)
	return nil
}

func (c *console) humanTurn(ctx context.Context, g *game.Game) error {
	for {
		line, err := c.prompt("Your move (1-9, h for a hint, q to quit): ")
		if err != nil {
			return err
		}
		switch line {
		case "q":
			return errQuit
		case "h":
			index, err := c.calculator.CalculateNextMove(ctx, g.Board, game.Human)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Try cell %d.\n", index+1)
			continue
		}

		cell, err := strconv.Atoi(line)
		if err != nil || cell < 1 || cell > 9 {
			c.warn("Enter a number from 1 to 9.")
			continue
		}
		if err := g.Move(game.Human, cell-1); err != nil {
			c.warn("That cell is taken.")
			continue
		}
		return nil
	}
}

func (c *console) botTurn(ctx context.Context, g *game.Game) error {
	fmt.Fprintln(c.out, c.out.String("Thinking...").Faint())
	select {
	case <-time.After(c.thinkDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	index, err := c.calculator.CalculateNextMove(ctx, g.Board, game.AI)
	if err != nil {
		return err
	}
	return g.Move(game.AI, index)
}

func (c *console) prompt(text string) (string, error) {
	fmt.Fprint(c.out, text)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *console) warn(text string) {
	fmt.Fprintln(c.out, c.out.String(text).Foreground(c.out.Color("3")))
}

func (c *console) render(g *game.Game) {
	fmt.Fprintln(c.out)
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = c.cell(g.Board, row*3+col)
		}
		fmt.Fprintf(c.out, " %s \n", strings.Join(cells, " | "))
		if row < 2 {
			fmt.Fprintln(c.out, "---+---+---")
		}
	}
	fmt.Fprintln(c.out)
}

// cell shows the mark, or the cell number when empty.
func (c *console) cell(b game.Board, index int) string {
	switch b[index] {
	case game.Human:
		return c.out.String(string(game.Human)).Foreground(c.out.Color("4")).Bold().String()
	case game.AI:
		return c.out.String(string(game.AI)).Foreground(c.out.Color("1")).Bold().String()
	default:
		return c.out.String(strconv.Itoa(index + 1)).Faint().String()
	}
}

func (c *console) announce(g *game.Game) {
	switch {
	case g.Status == game.StatusDraw:
		fmt.Fprintln(c.out, c.out.String("It's a draw.").Bold())
	case g.Winner == game.Human:
		fmt.Fprintln(c.out, c.out.String("You win!").Foreground(c.out.Color("2")).Bold())
	default:
		fmt.Fprintln(c.out, c.out.String("The computer wins.").Foreground(c.out.Color("1")).Bold())
	}
}
