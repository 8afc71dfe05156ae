package validator

import (
	"ctchen222/minimax-tic-tac-toe/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("first_player", validateFirstPlayer)
}

func GetValidator() *validator.Validate {
	return validate
}

// validateFirstPlayer accepts the first-mover preferences a game can be created with.
func validateFirstPlayer(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", game.FirstHuman, game.FirstAI, game.FirstRandom:
		return true
	}
	return false
}
