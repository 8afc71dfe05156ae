package response

import (
	"errors"
	"net/http"

	apirepository "ctchen222/minimax-tic-tac-toe/internal/api/repository"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/repository"

	"github.com/gin-gonic/gin"
)

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, repository.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnknownFirst):
		return http.StatusBadRequest
	case errors.Is(err, apirepository.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err using the status StatusFor picks. Internal failures are
// not echoed to the client.
func Error(c *gin.Context, err error) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = http.StatusText(code)
	}
	ErrorResponse(c, code, message)
}
