package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrHandNotFound       = errors.New("hand_not_found")
	ErrHandNotComplete    = errors.New("hand_not_complete")
	ErrHandComplete       = errors.New("hand_complete")
	ErrNotYourTurn        = errors.New("not_your_turn")
	ErrSessionComplete    = errors.New("session_complete")
	ErrSessionNotComplete = errors.New("session_not_complete")
)
