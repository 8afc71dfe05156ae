package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&first, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&second, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	log := slog.New(h).With("game.id", "g1").WithGroup("move")

	log.Info("applied", "index", 4)
	log.Debug("searched", "nodes", 12)

	assert.Contains(t, first.String(), "game.id=g1")
	assert.Contains(t, first.String(), "move.index=4")
	assert.NotContains(t, first.String(), "searched")

	assert.Contains(t, second.String(), `"game.id":"g1"`)
	assert.Contains(t, second.String(), `"nodes":12`)
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestMultiHandler_HonoursChildLevels(t *testing.T) {
	var info, debug bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))

	log.Debug("searched", "nodes", 12)

	assert.Empty(t, info.String())
	assert.Contains(t, debug.String(), "nodes=12")
}

func TestMultiHandler_KeepsGoingAfterChildError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("collector down")
	h := NewMultiHandler(
		failingHandler{Handler: slog.NewTextHandler(&bytes.Buffer{}, nil), err: boom},
		slog.NewTextHandler(&out, nil),
	)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "applied", 0)
	err := h.Handle(context.Background(), r)

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, out.String(), "msg=applied")
}
