package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apirepository "ctchen222/minimax-tic-tac-toe/internal/api/repository"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{game.ErrInvalidMove, http.StatusUnprocessableEntity},
		{fmt.Errorf("cell 4: %w", game.ErrInvalidMove), http.StatusUnprocessableEntity},
		{game.ErrNotYourTurn, http.StatusConflict},
		{game.ErrGameFinished, http.StatusConflict},
		{repository.ErrGameNotFound, http.StatusNotFound},
		{game.ErrUnknownFirst, http.StatusBadRequest},
		{apirepository.ErrUsernameTaken, http.StatusConflict},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
