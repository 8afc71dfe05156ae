package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")
)

// BotMoveCalculator runs the minimax search on behalf of a game session.
type BotMoveCalculator struct {
	nodes    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewBotMoveCalculator creates a calculator reporting to the global meter provider.
func NewBotMoveCalculator() *BotMoveCalculator {
	nodes, err := meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Positions visited by the minimax search"),
	)
	if err != nil {
		slog.Warn("failed to create bot.search.nodes counter", "error", err)
	}
	duration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent selecting a move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		slog.Warn("failed to create bot.search.duration histogram", "error", err)
	}
	return &BotMoveCalculator{nodes: nodes, duration: duration}
}

// CalculateNextMove returns the optimal cell for mark on board.
func (c *BotMoveCalculator) CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark) (int, error) {
	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.Int("board.empty_cells", len(board.EmptyCells())),
	))
	defer span.End()

	start := time.Now()
	s := &search{}
	move, err := s.selectMove(board, mark)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	attrs := metric.WithAttributes(attribute.String("bot.mark", string(mark)))
	if c.nodes != nil {
		c.nodes.Add(ctx, int64(s.nodes), attrs)
	}
	if c.duration != nil {
		c.duration.Record(ctx, elapsed, attrs)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "No move to select")
		return -1, err
	}

	span.SetAttributes(
		attribute.Int("move.index", move.Index),
		attribute.Int("move.score", move.Score),
		attribute.Int("search.nodes", s.nodes),
	)
	slog.DebugContext(ctx, "Bot selected move", "mark", mark, "index", move.Index, "score", move.Score, "nodes", s.nodes)
	return move.Index, nil
}

// EvaluateMoves scores every legal move for mark, in index order.
func (c *BotMoveCalculator) EvaluateMoves(ctx context.Context, board game.Board, mark game.PlayerMark) ([]Move, error) {
	_, span := tracer.Start(ctx, "bot.EvaluateMoves", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.Int("board.empty_cells", len(board.EmptyCells())),
	))
	defer span.End()

	moves, err := Evaluate(board, mark)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "No move to evaluate")
		return nil, err
	}
	span.SetAttributes(attribute.Int("moves.count", len(moves)))
	return moves, nil
}
