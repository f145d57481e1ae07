package gateway

import (
	"encoding/json"

	"pixel-poker/internal/game"
)

const (
	TypeCreateSession = "create_session"
	TypeGetState      = "get_state"
	TypeAction        = "action"
	TypeNextHand      = "next_hand"
	TypeRebuy         = "rebuy"
	TypeListHands     = "list_hands"
	TypeGetReplay     = "get_replay"

	TypeResponse = "response"
)

// Gateway-level error codes. Manager errors use session.MapError codes.
const (
	CodeInvalidRequestID   = "invalid_request_id"
	CodeDuplicateRequestID = "duplicate_request_id"
	CodeSessionBusy        = "session_busy"
	CodeDisconnected       = "disconnected"
	CodeInvalidMessage     = "invalid_message"
	CodeUnknownType        = "unknown_type"
)

const maxRequestIDLen = 64

type Message struct {
	Type       string          `json:"type"`
	RequestID  string          `json:"request_id"`
	SessionID  string          `json:"session_id,omitempty"`
	ActionType game.ActionType `json:"action_type,omitempty"`
	Amount     *int64          `json:"amount,omitempty"`
	HandID     string          `json:"hand_id,omitempty"`
}

// Response answers one Message. Illegal actions also name the violated
// constraint and the legal set.
type Response struct {
	Type         string             `json:"type"`
	RequestID    string             `json:"request_id"`
	OK           bool               `json:"ok"`
	Error        string             `json:"error,omitempty"`
	Status       int                `json:"status"`
	Constraint   string             `json:"constraint,omitempty"`
	LegalActions []game.LegalAction `json:"legal_actions,omitempty"`
	Data         json.RawMessage    `json:"data,omitempty"`
}

func validRequestID(id string) bool {
	return len(id) >= 1 && len(id) <= maxRequestIDLen
}

// mutating reports whether a message changes session state.
func mutating(t string) bool {
	switch t {
	case TypeAction, TypeNextHand, TypeRebuy:
		return true
	}
	return false
}
