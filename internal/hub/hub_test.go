package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	repomocks "ctchen222/minimax-tic-tac-toe/internal/repository/mocks"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/internal/session/mocks"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeConn struct {
	writes chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{writes: make(chan []byte, 16), closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("connection closed")
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType == websocket.PingMessage {
		return nil
	}
	c.writes <- data
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) nextType(t *testing.T) (string, map[string]any) {
	t.Helper()
	select {
	case data := <-c.writes:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg["type"].(string), msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a server message")
		return "", nil
	}
}

func startHub(t *testing.T) (*Hub, *mocks.MockService, *repomocks.MockPlayerRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	playerRepo := repomocks.NewMockPlayerRepository(ctrl)
	h := NewHub(svc, playerRepo, room.Options{ThinkDelay: time.Second, ReconnectGrace: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(finished)
	}()
	t.Cleanup(func() {
		cancel()
		<-finished
	})
	return h, svc, playerRepo
}

func TestHub_NewPlayerGetsNewGame(t *testing.T) {
	h, svc, playerRepo := startHub(t)
	g := game.NewGame("g1", "p1", game.Human)

	playerRepo.EXPECT().SetInitialState(gomock.Any(), "p1", gomock.Any()).Return(nil)
	playerRepo.EXPECT().FindForReconnection(gomock.Any(), "p1").Return("", player.PlayerStatus(""), nil)
	svc.EXPECT().Start(gomock.Any(), "p1", game.Human).Return(g, nil)
	playerRepo.EXPECT().UpdateForGame(gomock.Any(), "p1", "g1").Return(nil)
	svc.EXPECT().Get(gomock.Any(), "g1").Return(g, nil)

	conn := newFakeConn()
	h.Register() <- &types.RegistrationRequest{Player: player.NewPlayer("p1", conn), First: game.Human, Ctx: context.Background()}

	typ, msg := conn.nextType(t)
	assert.Equal(t, "assignment", typ)
	assert.Equal(t, "g1", msg["gameId"])
	typ, _ = conn.nextType(t)
	assert.Equal(t, "update", typ)

	assert.True(t, h.HasRoom("g1"))
	assert.False(t, h.HasRoom("g2"))
}

func TestHub_ReturningPlayerResumesGame(t *testing.T) {
	h, svc, playerRepo := startHub(t)
	g := game.NewGame("g-old", "p1", game.Human)
	require.NoError(t, g.Move(game.Human, 4))
	require.NoError(t, g.Move(game.AI, 0))

	playerRepo.EXPECT().SetInitialState(gomock.Any(), "p1", gomock.Any()).Return(nil)
	playerRepo.EXPECT().FindForReconnection(gomock.Any(), "p1").Return("g-old", player.StatusDisconnected, nil)
	svc.EXPECT().Get(gomock.Any(), "g-old").Return(g, nil).Times(2)
	playerRepo.EXPECT().UpdateForGame(gomock.Any(), "p1", "g-old").Return(nil)
	svc.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	conn := newFakeConn()
	h.Register() <- &types.RegistrationRequest{Player: player.NewPlayer("p1", conn), First: game.Human}

	typ, msg := conn.nextType(t)
	assert.Equal(t, "assignment", typ)
	assert.Equal(t, "g-old", msg["gameId"])
	typ, msg = conn.nextType(t)
	assert.Equal(t, "update", typ)
	assert.Equal(t, []any{"X", "", "", "", "O", "", "", "", ""}, msg["board"])
}

func TestHub_StaleGameStartsFresh(t *testing.T) {
	h, svc, playerRepo := startHub(t)
	g := game.NewGame("g2", "p1", game.AI)

	playerRepo.EXPECT().SetInitialState(gomock.Any(), "p1", gomock.Any()).Return(nil)
	playerRepo.EXPECT().FindForReconnection(gomock.Any(), "p1").Return("gone", player.StatusDisconnected, nil)
	svc.EXPECT().Get(gomock.Any(), "gone").Return(nil, repository.ErrGameNotFound)
	svc.EXPECT().Start(gomock.Any(), "p1", game.AI).Return(g, nil)
	playerRepo.EXPECT().UpdateForGame(gomock.Any(), "p1", "g2").Return(nil)
	svc.EXPECT().Get(gomock.Any(), "g2").Return(g, nil)

	conn := newFakeConn()
	h.Register() <- &types.RegistrationRequest{Player: player.NewPlayer("p1", conn), First: game.AI}

	typ, msg := conn.nextType(t)
	assert.Equal(t, "assignment", typ)
	assert.Equal(t, "g2", msg["gameId"])
}

func TestHub_StartFailureRejectsPlayer(t *testing.T) {
	h, svc, playerRepo := startHub(t)

	playerRepo.EXPECT().SetInitialState(gomock.Any(), "p1", gomock.Any()).Return(nil)
	playerRepo.EXPECT().FindForReconnection(gomock.Any(), "p1").Return("", player.PlayerStatus(""), nil)
	svc.EXPECT().Start(gomock.Any(), "p1", game.Human).Return(nil, errors.New("redis down"))

	conn := newFakeConn()
	h.Register() <- &types.RegistrationRequest{Player: player.NewPlayer("p1", conn), First: game.Human}

	typ, msg := conn.nextType(t)
	assert.Equal(t, "error", typ)
	assert.Equal(t, "could not start game", msg["reason"])

	select {
	case <-conn.closed:
	case <-time.After(time.Second):
		t.Fatal("connection was not closed")
	}
}
