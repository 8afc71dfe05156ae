package session

import (
	"context"
	"fmt"
	"log/slog"

	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark) (int, error)
	EvaluateMoves(ctx context.Context, board game.Board, mark game.PlayerMark) ([]bot.Move, error)
}

// Service runs human vs AI games on top of the game repository.
type Service interface {
	Start(ctx context.Context, playerID string, first game.PlayerMark) (*game.Game, error)
	Get(ctx context.Context, id string) (*game.Game, error)
	PlayHuman(ctx context.Context, id string, index int) (*game.Game, error)
	PlayAI(ctx context.Context, id string) (*game.Game, error)
	Play(ctx context.Context, id string, index int) (*game.Game, error)
	Reset(ctx context.Context, id string) (*game.Game, error)
	Hint(ctx context.Context, id string) (int, error)
	Analyze(ctx context.Context, id string) ([]bot.Move, error)
	End(ctx context.Context, id string) error
}

type service struct {
	games      repository.GameRepository
	calculator MoveCalculator
}

// NewService creates a new session Service.
func NewService(games repository.GameRepository, calculator MoveCalculator) Service {
	return &service{games: games, calculator: calculator}
}

// Start creates a fresh game for playerID. When the AI moves first the game
// is returned with the AI to move; the caller decides when to play it.
func (s *service) Start(ctx context.Context, playerID string, first game.PlayerMark) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "session.Start", trace.WithAttributes(
		attribute.String("player.id", playerID),
		attribute.String("game.first_turn", string(first)),
	))
	defer span.End()

	g := game.NewGame(uuid.New().String(), playerID, first)
	if err := s.games.Create(ctx, g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	span.SetAttributes(attribute.String("game.id", g.ID))
	slog.InfoContext(ctx, "Game started", "game.id", g.ID, "player.id", playerID, "first", first)
	return g, nil
}

func (s *service) Get(ctx context.Context, id string) (*game.Game, error) {
	return s.games.FindByID(ctx, id)
}

// PlayHuman applies the human's move.
func (s *service) PlayHuman(ctx context.Context, id string, index int) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "session.PlayHuman", trace.WithAttributes(
		attribute.String("game.id", id),
		attribute.Int("move.index", index),
	))
	defer span.End()

	g, err := s.games.ApplyMove(ctx, id, game.Human, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Human move rejected")
		return nil, err
	}
	s.logOutcome(ctx, g)
	return g, nil
}

// PlayAI computes the optimal reply on a copy of the board and applies it.
func (s *service) PlayAI(ctx context.Context, id string) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "session.PlayAI", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not find game")
		return nil, err
	}
	if g.IsOver() {
		return nil, game.ErrGameFinished
	}
	if g.Turn != game.AI {
		return nil, game.ErrNotYourTurn
	}

	index, err := s.calculator.CalculateNextMove(ctx, g.Board, game.AI)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bot could not select a move")
		return nil, fmt.Errorf("bot failed to select move: %w", err)
	}
	span.SetAttributes(attribute.Int("move.index", index))

	g, err = s.games.ApplyMove(ctx, id, game.AI, index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bot move rejected")
		return nil, fmt.Errorf("bot failed to make turn: %w", err)
	}
	s.logOutcome(ctx, g)
	return g, nil
}

// Play applies the human's move and, if the game goes on, the AI's reply.
func (s *service) Play(ctx context.Context, id string, index int) (*game.Game, error) {
	g, err := s.PlayHuman(ctx, id, index)
	if err != nil {
		return nil, err
	}
	if g.IsOver() || g.Turn != game.AI {
		return g, nil
	}
	return s.PlayAI(ctx, id)
}

// Reset recreates the board of an existing game.
func (s *service) Reset(ctx context.Context, id string) (*game.Game, error) {
	ctx, span := tracer.Start(ctx, "session.Reset", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not find game")
		return nil, err
	}

	g.Reset()
	if err := s.games.Save(ctx, g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save reset game")
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}
	slog.InfoContext(ctx, "Game reset", "game.id", id)
	return g, nil
}

// Hint returns the cell the AI would play in the human's place.
func (s *service) Hint(ctx context.Context, id string) (int, error) {
	ctx, span := tracer.Start(ctx, "session.Hint", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		return -1, err
	}
	if g.IsOver() {
		return -1, game.ErrGameFinished
	}
	if g.Turn != game.Human {
		return -1, game.ErrNotYourTurn
	}
	return s.calculator.CalculateNextMove(ctx, g.Board, game.Human)
}

// Analyze scores every cell open to the human, from the AI's point of view.
func (s *service) Analyze(ctx context.Context, id string) ([]bot.Move, error) {
	ctx, span := tracer.Start(ctx, "session.Analyze", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	g, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.IsOver() {
		return nil, game.ErrGameFinished
	}
	if g.Turn != game.Human {
		return nil, game.ErrNotYourTurn
	}
	return s.calculator.EvaluateMoves(ctx, g.Board, game.Human)
}

func (s *service) End(ctx context.Context, id string) error {
	return s.games.Delete(ctx, id)
}

func (s *service) logOutcome(ctx context.Context, g *game.Game) {
	switch g.Status {
	case game.StatusWon:
		slog.InfoContext(ctx, "Game won", "game.id", g.ID, "winner", g.Winner)
	case game.StatusDraw:
		slog.InfoContext(ctx, "Game drawn", "game.id", g.ID)
	}
}
