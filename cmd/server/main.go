package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctchen222/minimax-tic-tac-toe/internal/api/controller"
	apirepository "ctchen222/minimax-tic-tac-toe/internal/api/repository"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/config"
	"ctchen222/minimax-tic-tac-toe/internal/db"
	"ctchen222/minimax-tic-tac-toe/internal/hub"
	"ctchen222/minimax-tic-tac-toe/internal/logger"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/internal/server"
	"ctchen222/minimax-tic-tac-toe/internal/session"
	"ctchen222/minimax-tic-tac-toe/internal/telemetry"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry before the logger so the slog bridge has a provider.
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(cfg.LogLevel)

	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	DB, err := db.Connect(cfg.SQLite.Path)
	if err != nil {
		slog.Error("failed to open sqlite db", "error", err)
		os.Exit(1)
	}
	defer DB.Close()
	if err := db.InitializeDB(DB); err != nil {
		slog.Error("failed to initialize sqlite db", "error", err)
		os.Exit(1)
	}

	// Create repositories
	gameRepo := repository.NewGameRepository(rdb, cfg.Redis.GameTTL)
	playerRepo := repository.NewPlayerRepository(rdb, cfg.Redis.GameTTL)
	userRepo := apirepository.NewUserRepository(DB)

	// Create services
	games := session.NewService(gameRepo, bot.NewBotMoveCalculator())
	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	h := hub.NewHub(games, playerRepo, room.Options{
		ThinkDelay:      cfg.Game.ThinkDelay,
		HeartbeatPeriod: cfg.Game.HeartbeatPeriod,
		ReconnectGrace:  cfg.Game.ReconnectGrace,
	})
	go h.Run(ctx)

	srv := server.NewServer(h, userService, controller.NewGameController(games, h, cfg.Game.FirstPlayer), cfg.Game.FirstPlayer)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: otelhttp.NewHandler(srv.Engine(), "tic-tac-toe"),
	}

	go func() {
		slog.Info("http server started", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
