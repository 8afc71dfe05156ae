package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/api/middleware"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/session/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

type gameView struct {
	ID     string          `json:"id"`
	Board  []string        `json:"board"`
	Next   game.PlayerMark `json:"next"`
	Status game.Status     `json:"status"`
	Winner game.PlayerMark `json:"winner"`
}

// liveRooms is the set of games open in websocket rooms.
type liveRooms map[string]bool

func (l liveRooms) HasRoom(gameID string) bool { return l[gameID] }

type testAPI struct {
	router   *gin.Engine
	games    *mocks.MockService
	rooms    liveRooms
	token    string
	playerID string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := service.NewUserService(nil, "test-secret", time.Hour)
	guest, err := users.GuestLogin(context.Background())
	require.NoError(t, err)

	games := mocks.NewMockService(gomock.NewController(t))
	rooms := liveRooms{}
	gc := NewGameController(games, rooms, game.FirstHuman)

	r := gin.New()
	api := r.Group("/api/games", middleware.Auth(users))
	api.POST("", gc.Create)
	api.GET("/:id", gc.Get)
	api.POST("/:id/moves", gc.Move)
	api.POST("/:id/reset", gc.Reset)
	api.GET("/:id/hint", gc.Hint)

	return &testAPI{router: r, games: games, rooms: rooms, token: guest.Token, playerID: guest.PlayerID}
}

func (a *testAPI) do(t *testing.T, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+a.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decodeGame(t *testing.T, env envelope) gameView {
	t.Helper()
	var v gameView
	require.NoError(t, json.Unmarshal(env.Extras, &v))
	return v
}

func (a *testAPI) gameAfter(t *testing.T, first game.PlayerMark, moves ...int) *game.Game {
	t.Helper()
	g := game.NewGame("g1", a.playerID, first)
	for _, idx := range moves {
		require.NoError(t, g.Move(g.Turn, idx))
	}
	return g
}

func TestGameController_Create(t *testing.T) {
	t.Run("defaults to human first", func(t *testing.T) {
		a := newTestAPI(t)
		a.games.EXPECT().Start(gomock.Any(), a.playerID, game.Human).Return(a.gameAfter(t, game.Human), nil)

		code, env := a.do(t, http.MethodPost, "/api/games", "")
		require.Equal(t, http.StatusCreated, code)
		assert.True(t, env.Success)
		v := decodeGame(t, env)
		assert.Equal(t, "g1", v.ID)
		assert.Equal(t, game.Human, v.Next)
		assert.Len(t, v.Board, 9)
	})

	t.Run("ai first replies at once", func(t *testing.T) {
		a := newTestAPI(t)
		a.games.EXPECT().Start(gomock.Any(), a.playerID, game.AI).Return(a.gameAfter(t, game.AI), nil)
		a.games.EXPECT().PlayAI(gomock.Any(), "g1").Return(a.gameAfter(t, game.AI, 0), nil)

		code, env := a.do(t, http.MethodPost, "/api/games", `{"first":"ai"}`)
		require.Equal(t, http.StatusCreated, code)
		v := decodeGame(t, env)
		assert.Equal(t, "X", v.Board[0])
		assert.Equal(t, game.Human, v.Next)
	})

	t.Run("unknown preference", func(t *testing.T) {
		a := newTestAPI(t)
		code, env := a.do(t, http.MethodPost, "/api/games", `{"first":"bot"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, env.Success)
	})
}

func TestGameController_Move(t *testing.T) {
	a := newTestAPI(t)
	a.games.EXPECT().Get(gomock.Any(), "g1").Return(a.gameAfter(t, game.Human), nil)
	a.games.EXPECT().Play(gomock.Any(), "g1", 0).Return(a.gameAfter(t, game.Human, 0, 4), nil)

	code, env := a.do(t, http.MethodPost, "/api/games/g1/moves", `{"index":0}`)
	require.Equal(t, http.StatusOK, code)
	v := decodeGame(t, env)
	assert.Equal(t, "O", v.Board[0])
	assert.Equal(t, "X", v.Board[4])
	assert.Equal(t, game.StatusInProgress, v.Status)
}

func TestGameController_MoveErrors(t *testing.T) {
	testCases := []struct {
		name  string
		body  string
		setup func(a *testAPI)
		code  int
	}{
		{
			name: "missing index",
			body: `{}`,
			code: http.StatusBadRequest,
		},
		{
			name: "index out of range",
			body: `{"index":9}`,
			code: http.StatusBadRequest,
		},
		{
			name: "occupied cell",
			body: `{"index":4}`,
			setup: func(a *testAPI) {
				a.games.EXPECT().Get(gomock.Any(), "g1").Return(a.gameAfter(t, game.Human, 0, 4), nil)
				a.games.EXPECT().Play(gomock.Any(), "g1", 4).Return(nil, game.ErrInvalidMove)
			},
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "finished game",
			body: `{"index":8}`,
			setup: func(a *testAPI) {
				a.games.EXPECT().Get(gomock.Any(), "g1").Return(a.gameAfter(t, game.Human, 0, 3, 1, 4, 2), nil)
				a.games.EXPECT().Play(gomock.Any(), "g1", 8).Return(nil, game.ErrGameFinished)
			},
			code: http.StatusConflict,
		},
		{
			name: "unknown game",
			body: `{"index":0}`,
			setup: func(a *testAPI) {
				a.games.EXPECT().Get(gomock.Any(), "g1").Return(nil, repository.ErrGameNotFound)
			},
			code: http.StatusNotFound,
		},
		{
			name: "someone else's game",
			body: `{"index":0}`,
			setup: func(a *testAPI) {
				a.games.EXPECT().Get(gomock.Any(), "g1").Return(game.NewGame("g1", "intruder", game.Human), nil)
			},
			code: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			if tc.setup != nil {
				tc.setup(a)
			}
			code, env := a.do(t, http.MethodPost, "/api/games/g1/moves", tc.body)
			assert.Equal(t, tc.code, code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Code)
		})
	}
}

func TestGameController_ResetAndHint(t *testing.T) {
	a := newTestAPI(t)
	played := a.gameAfter(t, game.Human, 0, 4)
	a.games.EXPECT().Get(gomock.Any(), "g1").Return(played, nil).Times(3)
	a.games.EXPECT().Hint(gomock.Any(), "g1").Return(1, nil)
	a.games.EXPECT().Analyze(gomock.Any(), "g1").Return([]bot.Move{{Index: 1, Score: 0}, {Index: 2, Score: 10}}, nil)
	a.games.EXPECT().Reset(gomock.Any(), "g1").Return(a.gameAfter(t, game.Human), nil)

	code, env := a.do(t, http.MethodGet, "/api/games/g1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "X", decodeGame(t, env).Board[4])

	code, env = a.do(t, http.MethodGet, "/api/games/g1/hint", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"index":1,"moves":[{"index":1,"score":0},{"index":2,"score":10}]}`, string(env.Extras))

	code, env = a.do(t, http.MethodPost, "/api/games/g1/reset", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"", "", "", "", "", "", "", "", ""}, decodeGame(t, env).Board)
}

func TestGameController_LiveRoomIsReadOnly(t *testing.T) {
	a := newTestAPI(t)
	a.rooms["g1"] = true
	a.games.EXPECT().Get(gomock.Any(), "g1").Return(a.gameAfter(t, game.Human), nil).Times(3)
	a.games.EXPECT().Play(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	a.games.EXPECT().Reset(gomock.Any(), gomock.Any()).Times(0)

	code, env := a.do(t, http.MethodPost, "/api/games/g1/moves", `{"index":0}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, _ = a.do(t, http.MethodPost, "/api/games/g1/reset", "")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = a.do(t, http.MethodGet, "/api/games/g1", "")
	assert.Equal(t, http.StatusOK, code)
}
