package server

import (
	"log/slog"
	"net/http"

	"ctchen222/minimax-tic-tac-toe/internal/api/controller"
	"ctchen222/minimax-tic-tac-toe/internal/api/middleware"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Registrar accepts players for websocket play.
type Registrar interface {
	Register() chan<- *types.RegistrationRequest
}

type Server struct {
	hub            Registrar
	users          service.UserService
	userController *controller.UserController
	gameController *controller.GameController
	defaultFirst   string
	upgrader       websocket.Upgrader
}

func NewServer(h Registrar, users service.UserService, gameController *controller.GameController, defaultFirst string) *Server {
	return &Server{
		hub:            h,
		users:          users,
		userController: controller.NewUserController(users),
		gameController: gameController,
		defaultFirst:   defaultFirst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Engine builds the gin router with every route registered.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"message": "pong"})
	})

	auth := r.Group("/api/auth")
	auth.POST("/register", s.userController.Register)
	auth.POST("/login", s.userController.Login)
	auth.POST("/guest", s.userController.GuestLogin)

	authed := r.Group("/", middleware.Auth(s.users))
	authed.GET("/ws", s.handleWebSocket)

	games := authed.Group("/api/games")
	games.POST("", s.gameController.Create)
	games.GET("/:id", s.gameController.Get)
	games.POST("/:id/moves", s.gameController.Move)
	games.POST("/:id/reset", s.gameController.Reset)
	games.GET("/:id/hint", s.gameController.Hint)

	return r
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub. It does not distinguish between
// new and reconnecting players.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	playerID := middleware.PlayerID(c)
	span.SetAttributes(attribute.String("player.id", playerID))

	pref := c.Query("first")
	if pref == "" {
		pref = s.defaultFirst
	}
	first, err := game.ChooseFirstPlayer(pref)
	if err != nil {
		response.Error(c, err)
		return
	}
	span.SetAttributes(attribute.String("game.first_turn", string(first)))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "player.id", playerID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	s.hub.Register() <- &types.RegistrationRequest{
		Player: player.NewPlayer(playerID, conn),
		First:  first,
		Ctx:    ctx,
	}
}
