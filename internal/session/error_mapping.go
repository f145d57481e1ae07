package session

import (
	"errors"
	"net/http"

	"pixel-poker/internal/game"
)

// MapError turns a manager error into a status and a stable error code.
// Client mistakes map to 4xx; anything the caller cannot fix maps to 5xx.
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, ErrHandNotFound):
		return http.StatusNotFound, "hand_not_found"
	case errors.Is(err, game.ErrIllegalAction):
		return http.StatusUnprocessableEntity, "illegal_action"
	case errors.Is(err, ErrNotYourTurn):
		return http.StatusConflict, "not_your_turn"
	case errors.Is(err, ErrHandComplete):
		return http.StatusConflict, "hand_complete"
	case errors.Is(err, ErrHandNotComplete):
		return http.StatusConflict, "hand_not_complete"
	case errors.Is(err, ErrSessionComplete):
		return http.StatusConflict, "session_complete"
	case errors.Is(err, ErrSessionNotComplete):
		return http.StatusConflict, "session_not_complete"
	case errors.Is(err, game.ErrInsufficientStack):
		return http.StatusConflict, "insufficient_stack"
	case errors.Is(err, game.ErrEvaluator):
		return http.StatusServiceUnavailable, "evaluator_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
