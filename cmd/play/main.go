package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	first := flag.String("first", "", "who moves first: human, ai or random")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *first == "" {
		*first = cfg.Game.FirstPlayer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newConsole(os.Stdin, os.Stdout, bot.NewBotMoveCalculator(), cfg.Game.ThinkDelay, *first)
	if err := c.run(ctx); err != nil {
		slog.Error("game aborted", "error", err)
		os.Exit(1)
	}
}
