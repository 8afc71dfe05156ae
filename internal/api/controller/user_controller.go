package controller

import (
	"log/slog"
	"net/http"

	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"

	"github.com/gin-gonic/gin"
)

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.Register(c.Request.Context(), &req); err != nil {
		slog.WarnContext(c.Request.Context(), "Registration failed", "user.name", req.Username, "error", err)
		response.Error(c, err)
		return
	}

	response.CreatedResponse(c, gin.H{"message": "User created successfully"})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

// GuestLogin issues a token for a new anonymous player.
func (uc *UserController) GuestLogin(c *gin.Context) {
	resp, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}
