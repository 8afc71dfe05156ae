package controller

import (
	"context"
	"log/slog"
	"net/http"

	"ctchen222/minimax-tic-tac-toe/internal/api/middleware"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/session"
	"ctchen222/minimax-tic-tac-toe/internal/validator"

	"github.com/gin-gonic/gin"
)

// LiveRooms reports games currently played over a websocket on this server.
type LiveRooms interface {
	HasRoom(gameID string) bool
}

// GameController exposes human vs AI games over REST. The AI replies
// immediately; the think delay only applies to websocket play, and a game
// open in a room cannot be changed over REST.
type GameController struct {
	games        session.Service
	rooms        LiveRooms
	defaultFirst string
}

// NewGameController creates a GameController. defaultFirst is used when a
// create request does not say who moves first. rooms may be nil.
func NewGameController(games session.Service, rooms LiveRooms, defaultFirst string) *GameController {
	return &GameController{games: games, rooms: rooms, defaultFirst: defaultFirst}
}

// Create starts a game for the caller.
func (gc *GameController) Create(c *gin.Context) {
	var req models.CreateGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := validator.GetValidator().Struct(req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "first must be one of human, ai, random")
		return
	}

	pref := req.First
	if pref == "" {
		pref = gc.defaultFirst
	}
	first, err := game.ChooseFirstPlayer(pref)
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	g, err := gc.games.Start(ctx, middleware.PlayerID(c), first)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create game", "player.id", middleware.PlayerID(c), "error", err)
		response.Error(c, err)
		return
	}
	if g.Turn == game.AI {
		if g, err = gc.games.PlayAI(ctx, g.ID); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.CreatedResponse(c, models.NewGameResponse(g))
}

// Get returns the caller's game.
func (gc *GameController) Get(c *gin.Context) {
	g, ok := gc.ownedGame(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, models.NewGameResponse(g))
}

// Move plays the caller's move and the AI's reply.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := gc.ownedGame(c); !ok || !gc.idle(c) {
		return
	}

	g, err := gc.games.Play(c.Request.Context(), c.Param("id"), *req.Index)
	if err != nil {
		gc.fail(c.Request.Context(), c, err)
		return
	}
	response.SuccessResponse(c, models.NewGameResponse(g))
}

// Reset restarts the caller's game with the same first player.
func (gc *GameController) Reset(c *gin.Context) {
	if _, ok := gc.ownedGame(c); !ok || !gc.idle(c) {
		return
	}

	ctx := c.Request.Context()
	g, err := gc.games.Reset(ctx, c.Param("id"))
	if err != nil {
		gc.fail(ctx, c, err)
		return
	}
	if g.Turn == game.AI {
		if g, err = gc.games.PlayAI(ctx, g.ID); err != nil {
			gc.fail(ctx, c, err)
			return
		}
	}
	response.SuccessResponse(c, models.NewGameResponse(g))
}

// Hint suggests the optimal cell for the caller.
func (gc *GameController) Hint(c *gin.Context) {
	if _, ok := gc.ownedGame(c); !ok {
		return
	}

	ctx := c.Request.Context()
	index, err := gc.games.Hint(ctx, c.Param("id"))
	if err != nil {
		gc.fail(ctx, c, err)
		return
	}
	moves, err := gc.games.Analyze(ctx, c.Param("id"))
	if err != nil {
		gc.fail(ctx, c, err)
		return
	}
	response.SuccessResponse(c, models.HintResponse{Index: index, Moves: moves})
}

// idle reports false, after writing a conflict, when the game is open in a
// websocket room whose think timer owns the AI's turn.
func (gc *GameController) idle(c *gin.Context) bool {
	if gc.rooms != nil && gc.rooms.HasRoom(c.Param("id")) {
		response.ErrorResponse(c, http.StatusConflict, "game is being played over websocket")
		return false
	}
	return true
}

// ownedGame loads the game named in the path and checks the caller owns it.
// It writes the error response itself when it reports false.
func (gc *GameController) ownedGame(c *gin.Context) (*game.Game, bool) {
	g, err := gc.games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c.Request.Context(), c, err)
		return nil, false
	}
	if g.PlayerID != middleware.PlayerID(c) {
		response.ErrorResponse(c, http.StatusForbidden, "not your game")
		return nil, false
	}
	return g, true
}

func (gc *GameController) fail(ctx context.Context, c *gin.Context, err error) {
	if response.StatusFor(err) == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Game request failed", "game.id", c.Param("id"), "error", err)
	}
	response.Error(c, err)
}
